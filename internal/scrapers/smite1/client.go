package smite1

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"arewesmite2yet/internal/catalog"
	"arewesmite2yet/internal/components/assert"
	"arewesmite2yet/internal/components/telemetry"
	"arewesmite2yet/internal/components/web"
	"arewesmite2yet/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_client_list_gods = "client.list-gods"
)

const DefaultBaseURL = "https://smite.fandom.com"

const (
	minRowCells   = 10
	cellName      = 1
	cellPantheon  = 2
	cellClass     = 5
	cellRelease   = 9
	maxLinkedGods = 200
)

// Pantheons are the keywords looked for when a god can only be found by
// its link.
var Pantheons = []string{
	"Greek",
	"Egyptian",
	"Norse",
	"Hindu",
	"Chinese",
	"Roman",
	"Maya",
	"Celtic",
	"Japanese",
	"Arthurian",
	"Babylonian",
	"Slavic",
	"Voodoo",
	"Polynesian",
	"Yoruba",
}

var godPageRegex = regexp.MustCompile(`/wiki/[A-Z][a-z]+(?:_[A-Z][a-z]+)*$`)

type Client struct {
	baseUrl string
	fetcher web.Fetcher
	tel     telemetry.API
}

func NewClient(baseUrl string, fetcher web.Fetcher, tel telemetry.API) Client {
	assert.NotNil(fetcher)
	assert.NotNil(tel)
	if baseUrl == "" {
		baseUrl = DefaultBaseURL
	}
	return Client{
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
		fetcher: fetcher,
		tel:     telemetry.NewScopedAPI("smite1_scraper", tel),
	}
}

func (c Client) ListURL() string {
	return c.baseUrl + "/wiki/List_of_gods"
}

// MainPageURL is the page whose image index is scanned for icons.
func (c Client) MainPageURL() string {
	return c.baseUrl + "/wiki/Smite_Wiki"
}

// PageURL returns the wiki page of a god.
func (c Client) PageURL(name string) string {
	return c.baseUrl + "/wiki/" + strings.Join(strings.Fields(name), "_")
}

// WikiURL resolves a path on the wiki.
func (c Client) WikiURL(path string) string {
	return c.baseUrl + "/wiki/" + path
}

func (c Client) ListGods(ctx context.Context) ([]ListedGod, error) {
	doc, _, err := web.FetchHTML(ctx, c.fetcher, c.ListURL())
	if err != nil {
		c.tel.ReportBroken(report_client_list_gods, fmt.Errorf("fetch list: %w", err))
		return nil, err
	}

	gods := c.parseTable(doc)
	if len(gods) > 0 {
		c.tel.ReportCount(report_client_list_gods, int64(len(gods)))
		return gods, nil
	}

	c.tel.ReportWarning(
		report_client_list_gods,
		fmt.Errorf("no gods found in the first table, falling back to links"),
	)
	gods = c.parseLinks(doc)
	c.tel.ReportCount(report_client_list_gods, int64(len(gods)))
	return gods, nil
}

func (c Client) parseTable(doc *goquery.Document) []ListedGod {
	var gods []ListedGod
	seen := make(map[string]struct{})

	doc.Find("table").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minRowCells {
			return
		}

		name := htmlutil.CleanText(cells.Eq(cellName).Find("a").Text())
		pantheon := htmlutil.CleanText(cells.Eq(cellPantheon).Text())
		class, ok := parseClass(htmlutil.CleanText(cells.Eq(cellClass).Text()))
		if name == "" || pantheon == "" || !ok {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}

		gods = append(gods, ListedGod{
			Name:        name,
			Pantheon:    pantheon,
			Class:       class,
			ReleaseDate: htmlutil.CleanText(cells.Eq(cellRelease).Text()),
			WikiURL:     c.PageURL(name),
		})
	})

	return gods
}

// parseClass only accepts an exact class name, the row filter relies on it
// to throw away header and spacer rows.
func parseClass(text string) (string, bool) {
	for _, class := range catalog.Classes {
		if text == string(class) {
			return text, true
		}
	}
	return "", false
}

func firstKeyword(text string, keywords []string) string {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return keyword
		}
	}
	return ""
}

func (c Client) parseLinks(doc *goquery.Document) []ListedGod {
	classes := make([]string, len(catalog.Classes))
	for i, class := range catalog.Classes {
		classes[i] = string(class)
	}

	var gods []ListedGod
	seen := make(map[string]struct{})

	doc.Find(`a[href*="/wiki/"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if len(gods) >= maxLinkedGods {
			return false
		}

		href := link.AttrOr("href", "")
		text := strings.TrimSpace(link.Text())
		if strings.Contains(href, "Category:") ||
			strings.Contains(href, "Template:") ||
			strings.Contains(href, "File:") ||
			strings.Contains(text, "edit") ||
			strings.Contains(text, "Category") ||
			len(text) < 3 ||
			len(text) > 25 {
			return true
		}
		if !godPageRegex.MatchString(href) {
			return true
		}

		surrounding := link.Closest("tr, div, p").Text()
		pantheon := firstKeyword(surrounding, Pantheons)
		class := firstKeyword(surrounding, classes)
		if pantheon == "" || class == "" {
			return true
		}
		if _, dup := seen[text]; dup {
			return true
		}
		seen[text] = struct{}{}

		gods = append(gods, ListedGod{
			Name:     text,
			Pantheon: pantheon,
			Class:    class,
			WikiURL:  htmlutil.ResolveURL(c.baseUrl+"/", href),
		})
		return true
	})

	return gods
}
