package assets

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRegex          = regexp.MustCompile(`[^a-zA-Z0-9]`)
	nonLetterRegex         = regexp.MustCompile(`[^a-zA-Z]`)
	whitespaceRegex        = regexp.MustCompile(`\s+`)
	apostropheRegex        = regexp.MustCompile(`'`)
	apostropheOrSpaceRegex = regexp.MustCompile(`['\s]`)
	punctuationRegex       = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

type variantRule func(name string) string

func removeAll(re *regexp.Regexp) variantRule {
	return func(name string) string { return re.ReplaceAllString(name, "") }
}

func underscores(name string) string {
	return whitespaceRegex.ReplaceAllString(name, "_")
}

func raw(name string) string {
	return name
}

// smite1Rules try the name as written before any squashed form.
var smite1Rules = []variantRule{
	raw,
	underscores,
	removeAll(nonAlnumRegex),
	removeAll(whitespaceRegex),
	removeAll(apostropheRegex),
}

var smite2Rules = []variantRule{
	removeAll(nonAlnumRegex),
	removeAll(whitespaceRegex),
	removeAll(apostropheOrSpaceRegex),
	removeAll(nonLetterRegex),
	underscores,
	func(name string) string { return underscores(punctuationRegex.ReplaceAllString(name, "")) },
	raw,
}

func rulesFor(site Site) []variantRule {
	if site == SiteSmite2 {
		return smite2Rules
	}
	return smite1Rules
}

// Variants returns the filename tokens a god may be stored under on a site,
// the site's exception token (if any) comes first. Empty and duplicate
// tokens are dropped, order is kept.
func Variants(name string, site Site) []string {
	return variants(name, ExceptionsFor(site), rulesFor(site))
}

func variants(name string, exceptions Exceptions, rules []variantRule) []string {
	name = strings.TrimSpace(name)

	var out []string
	seen := make(map[string]struct{})
	push := func(token string) {
		if token == "" {
			return
		}
		if _, ok := seen[token]; ok {
			return
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}

	if token, ok := exceptions[name]; ok {
		push(token)
	}
	for _, rule := range rules {
		push(rule(name))
	}
	return out
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]`)

// Filename is the local file name of an asset of the given god.
func Filename(name string) string {
	return slugRegex.ReplaceAllString(strings.ToLower(name), "_") + ".png"
}

// foldToken reduces a token to lowercase alphanumerics for loose matching.
func foldToken(token string) string {
	return slugRegex.ReplaceAllString(strings.ToLower(token), "")
}
