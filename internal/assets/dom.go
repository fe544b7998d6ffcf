package assets

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"arewesmite2yet/internal/components/web"
	"arewesmite2yet/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// page lazily fetches a document the first time one of its steps needs
// it, later steps of the same request reuse it.
type page struct {
	once    sync.Once
	fetcher web.Fetcher
	url     string

	html string
	doc  *goquery.Document
	ok   bool
}

func newPage(fetcher web.Fetcher, url string) *page {
	return &page{fetcher: fetcher, url: url}
}

func (p *page) load(ctx context.Context) (*goquery.Document, string, bool) {
	if p.url == "" {
		return nil, "", false
	}
	p.once.Do(func() {
		res, err := p.fetcher.Fetch(ctx, p.url)
		if err != nil || !res.OK() {
			return
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
		if err != nil {
			return
		}
		p.html = string(res.Body)
		p.doc = doc
		p.ok = true
	})
	return p.doc, p.html, p.ok
}

// lazyMatch computes a url from a page once and hands it to every step
// derived from it.
type lazyMatch struct {
	once  sync.Once
	match func(ctx context.Context) string
	url   string
}

func (m *lazyMatch) get(ctx context.Context) string {
	m.once.Do(func() {
		m.url = m.match(ctx)
	})
	return m.url
}

func caseInsensitive(pattern string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + pattern)
}

func (r *Resolver) smite2ThumbnailSteps(p *page, name string) []Step {
	clean := regexp.QuoteMeta(nonLetterRegex.ReplaceAllString(name, ""))
	if clean == "" {
		return nil
	}
	specific := caseInsensitive(fmt.Sprintf(
		`/images/thumb/T_%s%%28S2%%29_Default_Icon\.png/35px-T_%s%%28S2%%29_Default_Icon\.png[^"]*`,
		clean, clean,
	))
	portrait := caseInsensitive(fmt.Sprintf(`/images/thumb/T_%sS2_Default\.png/[^"]*`, clean))
	anyIcon := caseInsensitive(fmt.Sprintf(
		`/images/thumb/T_[^/]*%s[^/]*_Default_Icon\.png/35px-T_[^/]*%s[^/]*_Default_Icon\.png[^"]*`,
		clean, clean,
	))
	width := regexp.MustCompile(`/\d+px-`)

	return []Step{
		{
			Name: "page god icon",
			Construct: func(ctx context.Context) (string, bool) {
				_, html, ok := p.load(ctx)
				if !ok {
					return "", false
				}
				match := specific.FindString(html)
				return r.smite2Base + match, match != ""
			},
		},
		{
			Name: "page portrait rescaled",
			Construct: func(ctx context.Context) (string, bool) {
				_, html, ok := p.load(ctx)
				if !ok {
					return "", false
				}
				match := portrait.FindString(html)
				if match == "" {
					return "", false
				}
				return r.smite2Base + width.ReplaceAllString(match, "/35px-"), true
			},
		},
		{
			Name: "page any icon",
			Construct: func(ctx context.Context) (string, bool) {
				_, html, ok := p.load(ctx)
				if !ok {
					return "", false
				}
				match := anyIcon.FindString(html)
				return r.smite2Base + match, match != ""
			},
		},
	}
}

func (r *Resolver) smite2FullImageSteps(p *page) []Step {
	return []Step{{
		Name: "page infobox image",
		Construct: func(ctx context.Context) (string, bool) {
			doc, _, ok := p.load(ctx)
			if !ok {
				return "", false
			}
			src := doc.Find("table.infobox img").First().AttrOr("src", "")
			if src == "" {
				return "", false
			}
			return htmlutil.ResolveURL(r.smite2Base+"/", src), true
		},
	}}
}

const (
	scaledSuffix = `/revision/latest/(?:smart/width/3[0-9]|scale-to-width-down/3[0-9])[^"]*`
	latestSuffix = `/revision/latest[^"]*`
)

func (r *Resolver) smite1ThumbnailSteps(p *page, variants []string) []Step {
	cdn := regexp.QuoteMeta(r.smite1CDN)

	var patterns []*regexp.Regexp
	for _, v := range variants {
		v = regexp.QuoteMeta(v)
		patterns = append(patterns,
			caseInsensitive(cdn+`/[^"]*T_`+v+`_Default_Icon\.png`+scaledSuffix),
			caseInsensitive(cdn+`/[^"]*T_`+v+`_Default_Icon\.png`+latestSuffix),
		)
	}
	patterns = append(patterns,
		caseInsensitive(cdn+`/[^"]*T_[A-Z]{2,4}_Default_Icon\.png`+scaledSuffix),
		caseInsensitive(cdn+`/[^"]*T_[A-Z]{2,4}_Default_Icon\.png`+latestSuffix),
		caseInsensitive(cdn+`/[^"]*T_[^"]*_Default_Icon\.png`+scaledSuffix),
		caseInsensitive(cdn+`/[^"]*T_[^"]*_Default_Icon\.png`+latestSuffix),
	)
	for _, v := range variants {
		v = regexp.QuoteMeta(v)
		patterns = append(patterns,
			caseInsensitive(cdn+`/[^"]*T_`+v+`_Default_Card\.png`+scaledSuffix),
			caseInsensitive(cdn+`/[^"]*T_`+v+`_Default_Card\.png`+latestSuffix),
		)
	}

	match := &lazyMatch{match: func(ctx context.Context) string {
		_, html, ok := p.load(ctx)
		if !ok {
			return ""
		}
		for _, pattern := range patterns {
			found := pattern.FindString(html)
			if found != "" {
				return found
			}
		}
		return ""
	}}

	// unscaled matches are first tried as 36px renditions
	rescaled := func(suffix string) func(ctx context.Context) (string, bool) {
		return func(ctx context.Context) (string, bool) {
			url := match.get(ctx)
			if url == "" || isScaled(url) {
				return "", false
			}
			base, _, _ := strings.Cut(url, "/revision/latest")
			return base + "/revision/latest/" + suffix, true
		}
	}

	return []Step{
		{
			Name:      "page icon scaled",
			Construct: rescaled("scale-to-width-down/36"),
			Validate:  r.exists,
		},
		{
			Name:      "page icon smart scaled",
			Construct: rescaled("smart/width/36/height/36"),
			Validate:  r.exists,
		},
		{
			Name: "page icon",
			Construct: func(ctx context.Context) (string, bool) {
				url := match.get(ctx)
				return url, url != ""
			},
		},
	}
}

func isScaled(url string) bool {
	return strings.Contains(url, "smart/width/") || strings.Contains(url, "scale-to-width-down/")
}

var dimensionsRegex = regexp.MustCompile(`\d{3}x\d{3}`)

// isPortrait tells apart god portraits from ability and item icons.
func isPortrait(url string) bool {
	return !strings.Contains(url, "Icons_") && !strings.Contains(url, "_Icon")
}

func (r *Resolver) smite1FullImageSteps(p *page) []Step {
	images := regexp.MustCompile(regexp.QuoteMeta(r.smite1CDN) + `/[^"]*\.(?:png|jpg|jpeg|webp)[^"]*`)

	find := func(ctx context.Context, pick func(urls []string) string) (string, bool) {
		_, html, ok := p.load(ctx)
		if !ok {
			return "", false
		}
		urls := images.FindAllString(html, -1)
		if len(urls) == 0 {
			return "", false
		}
		url := pick(urls)
		return url, url != ""
	}

	return []Step{
		{
			Name: "page portrait",
			Construct: func(ctx context.Context) (string, bool) {
				return find(ctx, func(urls []string) string {
					for _, url := range urls {
						if !isPortrait(url) {
							continue
						}
						if strings.Contains(url, "Card_") ||
							strings.Contains(url, "Default") ||
							dimensionsRegex.MatchString(url) ||
							strings.Contains(url, "250px") {
							return url
						}
					}
					return ""
				})
			},
		},
		{
			Name: "page first non icon",
			Construct: func(ctx context.Context) (string, bool) {
				return find(ctx, func(urls []string) string {
					for _, url := range urls {
						if isPortrait(url) {
							return url
						}
					}
					return ""
				})
			},
		},
		{
			Name: "page first image",
			Construct: func(ctx context.Context) (string, bool) {
				return find(ctx, func(urls []string) string {
					return urls[0]
				})
			},
		},
	}
}
