package pipeline

import (
	"context"

	"arewesmite2yet/internal/assets"
	"arewesmite2yet/internal/components/assert"
	"arewesmite2yet/internal/components/telemetry"
	"arewesmite2yet/internal/components/web"
	"arewesmite2yet/internal/dates"
	"arewesmite2yet/internal/scrapers/smite1"
	"arewesmite2yet/internal/scrapers/smite2"
)

// Smite1Wiki lists the gods of the original game.
//
// note: fault injection point
type Smite1Wiki interface {
	ListGods(ctx context.Context) ([]smite1.ListedGod, error)
}

// Smite2Wiki lists the gods of the new game and describes each of them.
//
// note: fault injection point
type Smite2Wiki interface {
	ListGods(ctx context.Context) ([]smite2.ListedGod, error)
	GodDetails(ctx context.Context, name string) (smite2.Details, error)
}

type AssetResolver interface {
	Resolve(ctx context.Context, req assets.Request) (string, bool)
}

type IconFinder interface {
	Find(ctx context.Context, pantheon string) (string, bool)
}

type Deps struct {
	Smite1     Smite1Wiki
	Smite2     Smite2Wiki
	Resolver   AssetResolver
	Pantheons  IconFinder
	Downloader web.Downloader
	Dates      dates.Normalizer
	Tel        telemetry.API
}

type Options struct {
	CatalogPath   string
	PantheonsPath string
	AssetsDir     string
	// Concurrency bounds how many assets are resolved at once.
	Concurrency int
}

// Pipeline runs the stages that build and enrich the god catalog, every
// stage reads the whole catalog file and rewrites it once it is done.
type Pipeline struct {
	opts Options

	smite1     Smite1Wiki
	smite2     Smite2Wiki
	resolver   AssetResolver
	pantheons  IconFinder
	downloader web.Downloader
	dates      dates.Normalizer
	tel        telemetry.API
}

func New(opts Options, deps Deps) *Pipeline {
	assert.NotEmptyStr(opts.CatalogPath)
	assert.NotNil(deps.Smite1)
	assert.NotNil(deps.Smite2)
	assert.NotNil(deps.Resolver)
	assert.NotNil(deps.Pantheons)
	assert.NotNil(deps.Downloader)
	assert.NotNil(deps.Tel)

	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}

	return &Pipeline{
		opts:       opts,
		smite1:     deps.Smite1,
		smite2:     deps.Smite2,
		resolver:   deps.Resolver,
		pantheons:  deps.Pantheons,
		downloader: deps.Downloader,
		dates:      deps.Dates,
		tel:        telemetry.NewScopedAPI("pipeline", deps.Tel),
	}
}

// Count is one line of a stage summary.
type Count struct {
	Name  string
	Value int
}

// Summary is what a stage reports once it is done.
type Summary struct {
	Stage  Stage
	Counts []Count
}

func (s *Summary) add(name string, value int) {
	s.Counts = append(s.Counts, Count{Name: name, Value: value})
}

// Get returns the value of a named count.
func (s Summary) Get(name string) int {
	for _, c := range s.Counts {
		if c.Name == name {
			return c.Value
		}
	}
	return 0
}
