package assets

import (
	"context"
	"regexp"
	"strings"

	"arewesmite2yet/internal/components/assert"
	"arewesmite2yet/internal/components/telemetry"
	"arewesmite2yet/internal/components/web"
)

// PantheonFinder looks for pantheon icons on the smite 1 wiki.
type PantheonFinder struct {
	fetcher  web.Fetcher
	wikiBase string
	cdn      string
	tel      telemetry.API
}

func NewPantheonFinder(wikiBase, cdn string, fetcher web.Fetcher, tel telemetry.API) PantheonFinder {
	assert.NotEmptyStr(wikiBase)
	assert.NotNil(fetcher)
	assert.NotNil(tel)
	if cdn == "" {
		cdn = DefaultSmite1CDN
	}
	return PantheonFinder{
		fetcher:  fetcher,
		wikiBase: strings.TrimSuffix(wikiBase, "/"),
		cdn:      strings.TrimSuffix(cdn, "/"),
		tel:      telemetry.NewScopedAPI("pantheons", tel),
	}
}

// Pages returns the wiki pages searched for a pantheon's icon, in order.
func (f PantheonFinder) Pages(pantheon string) []string {
	token := strings.Join(strings.Fields(pantheon), "_")
	wiki := f.wikiBase + "/wiki/"
	return []string{
		wiki + "Category:" + token + "_pantheon",
		wiki + "Category:" + token + "_Gods",
		wiki + token + "_Pantheon",
		wiki + token + "_pantheon",
		wiki + "Pantheon",
		wiki + "List_of_gods",
	}
}

func isPantheonIcon(url string) bool {
	if strings.Contains(url, "Default_Icon") ||
		strings.Contains(url, "Card_") ||
		strings.Contains(url, "Ability_") ||
		strings.Contains(url, "Item_") {
		return false
	}
	return strings.Contains(url, "Pantheon") ||
		strings.Contains(url, "Symbol") ||
		strings.Contains(url, "Logo") ||
		strings.Contains(url, "Icon")
}

func (f PantheonFinder) patterns(pantheon string) []*regexp.Regexp {
	cdn := regexp.QuoteMeta(f.cdn) + `/[^"]*`
	p := regexp.QuoteMeta(pantheon)
	ext := `\.(?:png|jpg|jpeg)[^"]*`
	return []*regexp.Regexp{
		caseInsensitive(cdn + `T_` + p + `[^"]*Icon[^"]*` + ext),
		caseInsensitive(cdn + p + `[^"]*Pantheon[^"]*Icon[^"]*` + ext),
		caseInsensitive(cdn + p + `[^"]*Symbol[^"]*` + ext),
		caseInsensitive(cdn + p + `[^"]*Logo[^"]*` + ext),
		caseInsensitive(cdn + `Pantheon[^"]*` + p + `[^"]*` + ext),
		caseInsensitive(cdn + p + `[^"]*` + ext),
	}
}

// Find returns the url of the icon of a pantheon.
func (f PantheonFinder) Find(ctx context.Context, pantheon string) (string, bool) {
	patterns := f.patterns(pantheon)

	for _, page := range f.Pages(pantheon) {
		res, err := f.fetcher.Fetch(ctx, page)
		if err != nil || !res.OK() {
			f.tel.ReportDebug("could not access page", page, res.Status, err)
			continue
		}
		html := string(res.Body)

		for _, pattern := range patterns {
			for _, match := range pattern.FindAllString(html, -1) {
				if isPantheonIcon(match) {
					return match, true
				}
			}
		}
	}

	return "", false
}
