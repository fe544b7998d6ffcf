package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"arewesmite2yet/internal/components/assert"
	"arewesmite2yet/internal/components/chrono"
	"arewesmite2yet/internal/components/telemetry"

	"github.com/araddon/dateparse"
)

const (
	report_normalizer_normalize = "normalizer.normalize"
)

// Canonical is the layout of every normalized date.
const Canonical = "2006-01-02"

type layout struct {
	format string
	// noYear layouts take the year from the clock.
	noYear bool
}

var layouts = []layout{
	{format: "January 2, 2006"},
	{format: "Jan 2, 2006"},
	{format: "2 January, 2006"},
	{format: "2 January 2006"},
	{format: "2 Jan 2006"},
	{format: Canonical},
	{format: "January 2 2006"},
	{format: "Jan 2 2006"},
	{format: "January 2", noYear: true},
	{format: "Jan 2", noYear: true},
	{format: "January 2006"},
	{format: "Jan 2006"},
}

var ordinalRegex = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

type Normalizer struct {
	clock chrono.API
	tel   telemetry.API
}

func NewNormalizer(clock chrono.API, tel telemetry.API) Normalizer {
	assert.NotNil(clock)
	assert.NotNil(tel)
	return Normalizer{
		clock: clock,
		tel:   telemetry.NewScopedAPI("dates", tel),
	}
}

// IsCanonical reports whether str is already a normalized date.
func IsCanonical(str string) bool {
	_, err := time.Parse(Canonical, str)
	return err == nil
}

// IsSentinel reports whether raw is one of the values wikis use for a date
// that does not exist yet.
func IsSentinel(raw string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	return trimmed == "" ||
		strings.Contains(trimmed, "missing") ||
		strings.Contains(trimmed, "unreleased")
}

func clean(raw string) string {
	str := strings.TrimSpace(raw)
	str = strings.TrimSuffix(str, ".")
	str = ordinalRegex.ReplaceAllString(str, "$1")
	return strings.TrimSpace(str)
}

// Normalize converts a human written date into YYYY-MM-DD, ok is false
// when raw is a sentinel or when it could not be understood.
func (n Normalizer) Normalize(raw string) (string, bool) {
	if IsSentinel(raw) {
		return "", false
	}
	str := clean(raw)

	for _, l := range layouts {
		parsed, err := time.Parse(l.format, str)
		if err != nil {
			continue
		}
		if l.noYear {
			parsed = time.Date(
				n.clock.Now().Year(),
				parsed.Month(),
				parsed.Day(),
				0, 0, 0, 0,
				time.UTC,
			)
		}
		return parsed.Format(Canonical), true
	}

	parsed, err := dateparse.ParseIn(str, n.clock.Location())
	if err == nil && parsed.Year() < 1 {
		err = fmt.Errorf("no year in %q", str)
	}
	if err == nil {
		return parsed.In(n.clock.Location()).Format(Canonical), true
	}

	n.tel.ReportWarning(report_normalizer_normalize, fmt.Errorf("parse %q: %w", raw, err))
	return "", false
}

// NormalizeOr returns the normalized form of raw, or raw itself when it
// cannot be normalized.
func (n Normalizer) NormalizeOr(raw string) string {
	normalized, ok := n.Normalize(raw)
	if !ok {
		return raw
	}
	return normalized
}
