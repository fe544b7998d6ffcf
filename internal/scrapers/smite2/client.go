package smite2

import (
	"context"
	"errors"
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
	report_client_list_gods   = "client.list-gods"
	report_client_god_details = "client.god-details"
)

const DefaultBaseURL = "https://wiki.smite2.com"

var ErrNoGods = errors.New("smite2 scraper: no gods found on the gods page")

var (
	godLinkRegex        = regexp.MustCompile(`^/w/[A-Z][a-zA-Z_']+$`)
	twoWordGodLinkRegex = regexp.MustCompile(`^/w/[A-Z][a-zA-Z_']+\s[A-Z][a-zA-Z_']+$`)
	pantheonRegex       = regexp.MustCompile(`\b(Greek|Egyptian|Norse|Hindu|Chinese|Roman|Maya|Celtic|Japanese|Arthurian|Babylonian|Slavic|Voodoo|Polynesian|Yoruba|Korean|Arabian|Tales of Arabia)\b`)
	categoriesRegex     = regexp.MustCompile(`"wgCategories":\[(.*?)\]`)
)

var nonGodPages = map[string]struct{}{
	"Gods":              {},
	"Items":             {},
	"Game Modes":        {},
	"Patch notes":       {},
	"Gems":              {},
	"SMITE 2":           {},
	"Main Page":         {},
	"Community":         {},
	"Help":              {},
	"Special":           {},
	"Random":            {},
	"Recent Changes":    {},
	"Upload":            {},
	"File":              {},
	"Category":          {},
	"Template":          {},
	"User":              {},
	"Talk":              {},
	"Project":           {},
	"MediaWiki":         {},
	"System":            {},
	"Interface":         {},
	"Gadget":            {},
	"Gadget definition": {},
}

var nonGodWords = []string{"patch", "update", "news", "blog"}

type roleClass struct {
	role  string
	class catalog.Class
}

// roleClasses is checked in order, the first role found in the roles row
// decides the class.
var roleClasses = []roleClass{
	{role: "Solo", class: catalog.ClassWarrior},
	{role: "Jungle", class: catalog.ClassAssassin},
	{role: "Mid", class: catalog.ClassMage},
	{role: "ADC", class: catalog.ClassHunter},
	{role: "Carry", class: catalog.ClassHunter},
	{role: "Support", class: catalog.ClassGuardian},
}

var categoryPantheons = []string{
	"Greek", "Egyptian", "Norse", "Hindu", "Chinese", "Roman", "Maya",
	"Celtic", "Japanese", "Arthurian", "Babylonian", "Slavic", "Voodoo",
	"Polynesian", "Yoruba", "Korean", "Arabian",
}

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
		tel:     telemetry.NewScopedAPI("smite2_scraper", tel),
	}
}

func (c Client) BaseURL() string {
	return c.baseUrl
}

func (c Client) ListURL() string {
	return c.baseUrl + "/w/Gods"
}

func (c Client) PageURL(name string) string {
	return c.baseUrl + "/w/" + strings.Join(strings.Fields(name), "_")
}

func isGodName(name string) bool {
	if _, skip := nonGodPages[name]; skip {
		return false
	}
	lower := strings.ToLower(name)
	for _, word := range nonGodWords {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return len(name) >= 3 && len(name) <= 25
}

// ListGods returns the gods linked from the gods page in page order, an
// empty listing is reported as ErrNoGods.
func (c Client) ListGods(ctx context.Context) ([]ListedGod, error) {
	doc, _, err := web.FetchHTML(ctx, c.fetcher, c.ListURL())
	if err != nil {
		c.tel.ReportBroken(report_client_list_gods, fmt.Errorf("fetch gods page: %w", err))
		return nil, err
	}

	var gods []ListedGod
	seen := make(map[string]struct{})
	// hrefs are matched as written, two word pages are sometimes linked
	// with a literal space
	doc.Find(`a[href^="/w/"]`).Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		if !godLinkRegex.MatchString(href) && !twoWordGodLinkRegex.MatchString(href) {
			return
		}
		page := href[strings.LastIndex(href, "/")+1:]
		name := strings.TrimSpace(strings.ReplaceAll(page, "_", " "))
		if !isGodName(name) {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		gods = append(gods, ListedGod{Name: name, WikiURL: c.PageURL(name)})
	})

	if len(gods) == 0 {
		c.tel.ReportBroken(report_client_list_gods, ErrNoGods)
		return nil, ErrNoGods
	}
	c.tel.ReportCount(report_client_list_gods, int64(len(gods)))
	return gods, nil
}

// GodDetails reads the infobox of a god page, falling back to the page
// categories for the pantheon and class.
func (c Client) GodDetails(ctx context.Context, name string) (Details, error) {
	doc, _, err := web.FetchHTML(ctx, c.fetcher, c.PageURL(name))
	if err != nil {
		c.tel.ReportWarning(report_client_god_details, fmt.Errorf("fetch %s: %w", name, err))
		return Details{Pantheon: catalog.UnknownPantheon, Class: catalog.ClassUnknown}, err
	}
	return parseDetails(doc), nil
}

func parseDetails(doc *goquery.Document) Details {
	details := Details{
		Pantheon: catalog.UnknownPantheon,
		Class:    catalog.ClassUnknown,
	}

	doc.Find("table.infobox tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		header := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())

		switch header {
		case "Pantheon:":
			groups := pantheonRegex.FindStringSubmatch(value)
			if len(groups) >= 2 {
				details.Pantheon = groups[1]
			}
		case "Roles:":
			for _, rc := range roleClasses {
				if strings.Contains(value, rc.role) {
					details.Class = rc.class
					break
				}
			}
		case "Release date:":
			details.ReleaseDate = htmlutil.CleanText(value)
		}
	})

	if details.Pantheon != catalog.UnknownPantheon && details.Class != catalog.ClassUnknown {
		return details
	}

	html, err := doc.Html()
	if err != nil {
		return details
	}
	groups := categoriesRegex.FindStringSubmatch(html)
	if len(groups) < 2 {
		return details
	}
	categories := groups[1]

	if details.Pantheon == catalog.UnknownPantheon {
		for _, pantheon := range categoryPantheons {
			if strings.Contains(categories, pantheon+" gods") {
				details.Pantheon = pantheon
				break
			}
		}
	}
	if details.Class == catalog.ClassUnknown {
		for _, rc := range roleClasses {
			if strings.Contains(categories, rc.role+" gods") {
				details.Class = rc.class
				break
			}
		}
	}

	return details
}
