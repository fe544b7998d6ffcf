package assets

import (
	"context"
	"strings"
	"sync"

	"arewesmite2yet/internal/components/web"

	"github.com/PuerkitoBio/goquery"
)

type indexImage struct {
	key string
	src string
}

// imageIndex is the set of god images embedded in the smite 1 wiki main
// page, it is fetched once and shared by every request.
type imageIndex struct {
	once    sync.Once
	fetcher web.Fetcher
	url     string
	images  []indexImage
}

func (i *imageIndex) load(ctx context.Context) []indexImage {
	if i.url == "" {
		return nil
	}
	i.once.Do(func() {
		doc, _, err := web.FetchHTML(ctx, i.fetcher, i.url)
		if err != nil {
			return
		}
		doc.Find("img[data-image-key]").Each(func(_ int, img *goquery.Selection) {
			key := img.AttrOr("data-image-key", "")
			src := img.AttrOr("data-src", "")
			if key == "" || src == "" {
				return
			}
			i.images = append(i.images, indexImage{key: key, src: src})
		})
	})
	return i.images
}

func indexSuffix(kind Kind) string {
	if kind == KindFullImage {
		return "_Default_Card.png"
	}
	return "_Default_Icon.png"
}

// find returns the unscaled url of the first image of the given kind whose
// key matches one of the variants.
func (i *imageIndex) find(ctx context.Context, kind Kind, variants []string) (string, bool) {
	suffix := indexSuffix(kind)

	var folded []string
	for _, v := range variants {
		if f := foldToken(v); f != "" {
			folded = append(folded, f)
		}
	}

	for _, image := range i.load(ctx) {
		if !strings.Contains(image.key, suffix) {
			continue
		}
		part := strings.ToLower(image.key)
		part = strings.Replace(part, "t_", "", 1)
		part = foldToken(strings.Replace(part, strings.ToLower(suffix), "", 1))
		if part == "" {
			continue
		}

		for _, v := range folded {
			if v == part || strings.Contains(part, v) || strings.Contains(v, part) {
				base, _, _ := strings.Cut(image.src, "/revision/latest")
				return base + "/revision/latest", true
			}
		}
	}
	return "", false
}
