package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arewesmite2yet/internal/components/assert"
	"arewesmite2yet/internal/components/telemetry"
	"arewesmite2yet/internal/components/web"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultSmite2Base = "https://wiki.smite2.com"
	DefaultSmite1CDN  = "https://static.wikia.nocookie.net/smite_gamepedia/images"
)

type ResolverOptions struct {
	Smite2Base string
	Smite1CDN  string
	// Smite1IndexURL is the smite 1 page whose embedded images are scanned
	// as a last resort, empty disables the scan.
	Smite1IndexURL string
	// ProbeMemoSize bounds how many probe results are remembered.
	ProbeMemoSize int
	ProbeMemoTTL  time.Duration
}

// Resolver finds the url of a god portrait by probing constructed
// candidates first and scanning wiki pages after.
type Resolver struct {
	prober     web.Prober
	fetcher    web.Fetcher
	smite2Base string
	smite1CDN  string
	index      *imageIndex
	probes     *expirable.LRU[string, bool]
	tel        telemetry.API
}

func NewResolver(opts ResolverOptions, prober web.Prober, fetcher web.Fetcher, tel telemetry.API) *Resolver {
	assert.NotNil(prober)
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	if opts.Smite2Base == "" {
		opts.Smite2Base = DefaultSmite2Base
	}
	if opts.Smite1CDN == "" {
		opts.Smite1CDN = DefaultSmite1CDN
	}
	if opts.ProbeMemoSize == 0 {
		opts.ProbeMemoSize = 4096
	}
	if opts.ProbeMemoTTL == 0 {
		opts.ProbeMemoTTL = time.Hour
	}

	return &Resolver{
		prober:     prober,
		fetcher:    fetcher,
		smite2Base: strings.TrimSuffix(opts.Smite2Base, "/"),
		smite1CDN:  strings.TrimSuffix(opts.Smite1CDN, "/"),
		index:      &imageIndex{fetcher: fetcher, url: opts.Smite1IndexURL},
		probes:     expirable.NewLRU[string, bool](opts.ProbeMemoSize, nil, opts.ProbeMemoTTL),
		tel:        telemetry.NewScopedAPI("assets", tel),
	}
}

// exists checks a url. Answers are remembered for the rest of the run, a
// check that failed or timed out counts as absent and is tried again later.
func (r *Resolver) exists(ctx context.Context, url string) bool {
	if exists, ok := r.probes.Get(url); ok {
		return exists
	}
	exists, err := r.prober.Exists(ctx, url)
	if err != nil {
		r.tel.ReportDebug("existence check failed", url, err)
		return false
	}
	r.probes.Add(url, exists)
	return exists
}

// Steps returns the full cascade for a request in evaluation order.
func (r *Resolver) Steps(req Request) []Step {
	variants := Variants(req.Name, req.Site)

	base := r.smite2Base
	if req.Site == SiteSmite1 {
		base = r.smite1CDN
	}

	var steps []Step
	for _, v := range variants {
		for i, tmpl := range templates[req.Site][req.Kind] {
			steps = append(steps, Step{
				Name:      fmt.Sprintf("template %d %q", i, v),
				Construct: Constant(tmpl(base, v)),
				Validate:  r.exists,
			})
		}
	}

	p := newPage(r.fetcher, req.PageURL)
	switch {
	case req.Site == SiteSmite2 && req.Kind == KindThumbnail:
		steps = append(steps, r.smite2ThumbnailSteps(p, req.Name)...)
	case req.Site == SiteSmite2 && req.Kind == KindFullImage:
		steps = append(steps, r.smite2FullImageSteps(p)...)
	case req.Site == SiteSmite1 && req.Kind == KindThumbnail:
		steps = append(steps, r.smite1ThumbnailSteps(p, variants)...)
	case req.Site == SiteSmite1 && req.Kind == KindFullImage:
		steps = append(steps, r.smite1FullImageSteps(p)...)
	}

	if req.Site == SiteSmite1 {
		steps = append(steps, Step{
			Name: "wiki image index",
			Construct: func(ctx context.Context) (string, bool) {
				return r.index.find(ctx, req.Kind, variants)
			},
		})
	}

	return steps
}

// Resolve returns the url of the requested asset, false when no step
// produced one. Failures are never errors.
func (r *Resolver) Resolve(ctx context.Context, req Request) (string, bool) {
	url, step, ok := Cascade(ctx, r.Steps(req))
	if !ok {
		r.tel.ReportDebug("unresolved", req.Name, string(req.Site), string(req.Kind))
		return "", false
	}
	r.tel.ReportDebug("resolved", req.Name, string(req.Site), string(req.Kind), step, url)
	return url, true
}
