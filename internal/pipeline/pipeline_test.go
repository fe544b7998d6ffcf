package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"arewesmite2yet/internal/assets"
	"arewesmite2yet/internal/catalog"
	"arewesmite2yet/internal/components/chrono"
	"arewesmite2yet/internal/components/telemetry"
	"arewesmite2yet/internal/components/web/webtest"
	"arewesmite2yet/internal/dates"
	"arewesmite2yet/internal/scrapers/smite1"
	"arewesmite2yet/internal/scrapers/smite2"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeSmite1 struct {
	gods []smite1.ListedGod
	err  error
}

func (f fakeSmite1) ListGods(ctx context.Context) ([]smite1.ListedGod, error) {
	return f.gods, f.err
}

type fakeSmite2 struct {
	gods    []smite2.ListedGod
	err     error
	details map[string]smite2.Details
	// broken detail pages return an error.
	broken map[string]bool
}

func (f fakeSmite2) ListGods(ctx context.Context) ([]smite2.ListedGod, error) {
	return f.gods, f.err
}

func (f fakeSmite2) GodDetails(ctx context.Context, name string) (smite2.Details, error) {
	if f.broken[name] {
		return smite2.Details{Pantheon: catalog.UnknownPantheon, Class: catalog.ClassUnknown}, errors.New("unreachable")
	}
	d, ok := f.details[name]
	if !ok {
		return smite2.Details{Pantheon: catalog.UnknownPantheon, Class: catalog.ClassUnknown}, nil
	}
	return d, nil
}

type fakeResolver struct {
	mutex sync.Mutex
	urls  map[assets.Request]string
	calls int
}

func (f *fakeResolver) Resolve(ctx context.Context, req assets.Request) (string, bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls++
	req.PageURL = ""
	url, ok := f.urls[req]
	return url, ok
}

type fakeIcons map[string]string

func (f fakeIcons) Find(ctx context.Context, pantheon string) (string, bool) {
	url, ok := f[pantheon]
	return url, ok
}

const (
	wiki1 = "https://smite.fandom.com/wiki/"
	wiki2 = "https://wiki.smite2.com/w/"
)

func listing1() []smite1.ListedGod {
	return []smite1.ListedGod{
		{Name: "Zeus", Pantheon: "Greek", Class: "Mage", ReleaseDate: "May 31, 2012", WikiURL: wiki1 + "Zeus"},
		{Name: "Hera", Pantheon: "Greek", Class: "Mage", ReleaseDate: "", WikiURL: wiki1 + "Hera"},
		{Name: "Thor", Pantheon: "Norse", Class: "Assassin", ReleaseDate: "May 31, 2012", WikiURL: wiki1 + "Thor"},
		{Name: "Da Ji", Pantheon: "Chinese", Class: "Assassin", ReleaseDate: "Unreleased", WikiURL: wiki1 + "Da_Ji"},
	}
}

func listing2() fakeSmite2 {
	return fakeSmite2{
		gods: []smite2.ListedGod{
			{Name: "Zeus", WikiURL: wiki2 + "Zeus"},
			{Name: "Hera", WikiURL: wiki2 + "Hera"},
			{Name: "Baldur", WikiURL: wiki2 + "Baldur"},
		},
		details: map[string]smite2.Details{
			"Zeus":   {Pantheon: "Greek", Class: catalog.ClassMage, ReleaseDate: "May 2nd, 2024"},
			"Hera":   {Pantheon: "Greek", Class: catalog.ClassMage, ReleaseDate: "Soon"},
			"Baldur": {Pantheon: "Norse", Class: catalog.ClassGuardian, ReleaseDate: "January 14, 2025"},
		},
	}
}

type fixture struct {
	pipeline *Pipeline
	tel      *telemetry.Recorder
	site     *webtest.Site
	resolver *fakeResolver
	dir      string
}

func newFixture(t *testing.T, s1 Smite1Wiki, s2 Smite2Wiki) fixture {
	t.Helper()
	dir := t.TempDir()
	tel := telemetry.NewRecorder()
	clock := chrono.NewFixedImpl(time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))
	site := webtest.NewSite()
	resolver := &fakeResolver{urls: make(map[assets.Request]string)}

	p := New(Options{
		CatalogPath:   filepath.Join(dir, "data", "gods.json"),
		PantheonsPath: filepath.Join(dir, "data", "pantheons.json"),
		AssetsDir:     filepath.Join(dir, "public"),
		Concurrency:   3,
	}, Deps{
		Smite1:     s1,
		Smite2:     s2,
		Resolver:   resolver,
		Pantheons:  fakeIcons{"Greek": "https://cdn.test/Greek_Pantheon.png"},
		Downloader: site,
		Dates:      dates.NewNormalizer(clock, tel),
		Tel:        tel,
	})
	return fixture{pipeline: p, tel: tel, site: site, resolver: resolver, dir: dir}
}

func byName(entities []catalog.Entity) map[string]catalog.Entity {
	out := make(map[string]catalog.Entity, len(entities))
	for _, e := range entities {
		out[e.Name] = e
	}
	return out
}

func TestBuild(t *testing.T) {
	f := newFixture(t, fakeSmite1{gods: listing1()}, listing2())

	entities, summary, err := f.pipeline.Build(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, entities, 4)
	require.Equal(t, 4, summary.Get("new"))
	require.Equal(t, 2, summary.Get("unreleased"))

	gods := byName(entities)
	require.Equal(t, catalog.ClassMage, gods["Zeus"].Class)
	require.Equal(t, catalog.StatusNotPorted, gods["Zeus"].Status)
	require.Equal(t, "May 31, 2012", *gods["Zeus"].ReleaseDate)
	require.Nil(t, gods["Hera"].ReleaseDate)
	require.Nil(t, gods["Da Ji"].ReleaseDate)

	ids := map[int]bool{}
	for _, e := range entities {
		require.False(t, ids[e.ID], "duplicate id %d", e.ID)
		ids[e.ID] = true
	}
}

func TestBuildKeepsIDs(t *testing.T) {
	f := newFixture(t, fakeSmite1{gods: listing1()}, listing2())

	previous := []catalog.Entity{
		{ID: 7, Name: "zeus", Status: catalog.StatusPorted, Smite1Wiki: wiki1 + "Zeus", ImagePath: "/images/gods/smite2/card/zeus.png"},
		{ID: 3, Name: "Baldur", Pantheon: "Norse", Class: catalog.ClassGuardian, Status: catalog.StatusExclusive, Smite2Wiki: wiki2 + "Baldur"},
		{ID: 9, Name: "Cupid", Pantheon: "Roman", Class: catalog.ClassHunter, Status: catalog.StatusNotPorted, Smite1Wiki: wiki1 + "Cupid"},
	}
	entities, summary, err := f.pipeline.Build(context.Background(), previous)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Get("new"))
	require.Equal(t, 2, summary.Get("carried over"))

	gods := byName(entities)
	require.Equal(t, 7, gods["Zeus"].ID)
	require.Equal(t, "/images/gods/smite2/card/zeus.png", gods["Zeus"].ImagePath)
	require.Equal(t, 3, gods["Baldur"].ID)
	require.Equal(t, 9, gods["Cupid"].ID)
	require.Greater(t, gods["Hera"].ID, 9)
	require.Len(t, f.tel.Find(telemetry.LevelWarning, "stage.build"), 1)
}

func TestBuildListingFailure(t *testing.T) {
	f := newFixture(t, fakeSmite1{err: errors.New("offline")}, listing2())

	_, err := f.pipeline.BuildFile(context.Background())
	require.Error(t, err)
	_, err = os.Stat(f.pipeline.opts.CatalogPath)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func reconciled(t *testing.T, f fixture) []catalog.Entity {
	t.Helper()
	built, _, err := f.pipeline.Build(context.Background(), nil)
	require.NoError(t, err)
	entities, _, err := f.pipeline.Reconcile(context.Background(), built)
	require.NoError(t, err)
	return entities
}

func TestReconcile(t *testing.T) {
	f := newFixture(t, fakeSmite1{gods: listing1()}, listing2())

	built, _, err := f.pipeline.Build(context.Background(), nil)
	require.NoError(t, err)
	entities, summary, err := f.pipeline.Reconcile(context.Background(), built)
	require.NoError(t, err)
	require.NoError(t, catalog.Validate(entities))

	gods := byName(entities)

	zeus := gods["Zeus"]
	require.Equal(t, catalog.StatusPorted, zeus.Status)
	require.Equal(t, "2024-05-02", zeus.PortedDate)
	require.Equal(t, wiki2+"Zeus", zeus.Smite2Wiki)

	hera := gods["Hera"]
	require.Equal(t, catalog.StatusExclusive, hera.Status)
	require.Equal(t, "Soon", hera.PortedDate)

	thor := gods["Thor"]
	require.Equal(t, catalog.StatusNotPorted, thor.Status)
	require.Empty(t, thor.Smite2Wiki)
	require.Empty(t, thor.PortedDate)

	baldur := gods["Baldur"]
	require.Equal(t, catalog.StatusExclusive, baldur.Status)
	require.Nil(t, baldur.ReleaseDate)
	require.Empty(t, baldur.Smite1Wiki)
	require.Equal(t, "Norse", baldur.Pantheon)
	require.Equal(t, catalog.ClassGuardian, baldur.Class)
	require.Equal(t, "2025-01-14", baldur.PortedDate)

	maxID := 0
	for _, e := range built {
		maxID = max(maxID, e.ID)
	}
	require.Equal(t, maxID+1, baldur.ID)

	require.Equal(t, 1, summary.Get("exclusives created"))
	require.Equal(t, 1, summary.Get("ported"))
	require.Equal(t, 2, summary.Get("exclusive"))
	require.Equal(t, 2, summary.Get("not ported"))
}

func TestReconcileKeepsIDs(t *testing.T) {
	f := newFixture(t, fakeSmite1{gods: listing1()}, listing2())

	first := reconciled(t, f)
	rebuilt, _, err := f.pipeline.Build(context.Background(), first)
	require.NoError(t, err)
	second, summary, err := f.pipeline.Reconcile(context.Background(), rebuilt)
	require.NoError(t, err)
	require.Equal(t, 0, summary.Get("exclusives created"))

	before := map[string]int{}
	for _, e := range first {
		before[e.Name] = e.ID
	}
	after := map[string]int{}
	for _, e := range second {
		after[e.Name] = e.ID
	}
	require.Empty(t, cmp.Diff(before, after))
}

func TestReconcileDetailFailure(t *testing.T) {
	s2 := listing2()
	s2.broken = map[string]bool{"Zeus": true, "Baldur": true}
	f := newFixture(t, fakeSmite1{gods: listing1()}, s2)

	built, _, err := f.pipeline.Build(context.Background(), nil)
	require.NoError(t, err)
	for i := range built {
		if built[i].Name == "Zeus" {
			built[i].PortedDate = "2024-05-02"
		}
	}
	entities, _, err := f.pipeline.Reconcile(context.Background(), built)
	require.NoError(t, err)

	gods := byName(entities)
	require.Equal(t, catalog.StatusPorted, gods["Zeus"].Status)
	require.Equal(t, "2024-05-02", gods["Zeus"].PortedDate)
	require.Equal(t, catalog.UnknownPantheon, gods["Baldur"].Pantheon)
	require.Equal(t, catalog.ClassUnknown, gods["Baldur"].Class)
	require.Empty(t, gods["Baldur"].PortedDate)
	require.Len(t, f.tel.Find(telemetry.LevelWarning, "stage.reconcile"), 2)
}

func TestReconcileFillsUnknown(t *testing.T) {
	gods := listing1()
	gods[0].Pantheon = catalog.UnknownPantheon
	gods[0].Class = "Jungler"
	f := newFixture(t, fakeSmite1{gods: gods}, listing2())

	entities := byName(reconciled(t, f))
	require.Equal(t, "Greek", entities["Zeus"].Pantheon)
	require.Equal(t, catalog.ClassMage, entities["Zeus"].Class)
}

func TestReconcileUnreleasedIsExclusive(t *testing.T) {
	s2 := listing2()
	s2.gods = append(s2.gods, smite2.ListedGod{Name: "Da Ji", WikiURL: wiki2 + "Da_Ji"})
	f := newFixture(t, fakeSmite1{gods: listing1()}, s2)

	entities := byName(reconciled(t, f))
	require.Nil(t, entities["Da Ji"].ReleaseDate)
	require.Equal(t, catalog.StatusExclusive, entities["Da Ji"].Status)
	require.Equal(t, wiki2+"Da_Ji", entities["Da Ji"].Smite2Wiki)
}

func TestReconcileListingFailure(t *testing.T) {
	for _, s2 := range []fakeSmite2{{err: errors.New("offline")}, {}} {
		f := newFixture(t, fakeSmite1{gods: listing1()}, s2)
		built, _, err := f.pipeline.Build(context.Background(), nil)
		require.NoError(t, err)
		_, _, err = f.pipeline.Reconcile(context.Background(), built)
		require.Error(t, err)
	}
}

func TestNormalizeDates(t *testing.T) {
	f := newFixture(t, fakeSmite1{}, fakeSmite2{})

	in := []catalog.Entity{
		{ID: 1, Name: "Zeus", ReleaseDate: catalog.Date("May 31, 2012"), PortedDate: "May 2nd, 2024"},
		{ID: 2, Name: "Hera", ReleaseDate: catalog.Date("sometime"), PortedDate: "Soon"},
		{ID: 3, Name: "Baldur"},
	}
	out, summary := f.pipeline.NormalizeDates(in)
	require.Equal(t, "2012-05-31", *out[0].ReleaseDate)
	require.Equal(t, "2024-05-02", out[0].PortedDate)
	require.Equal(t, "sometime", *out[1].ReleaseDate)
	require.Equal(t, "Soon", out[1].PortedDate)
	require.Nil(t, out[2].ReleaseDate)
	require.Equal(t, 1, summary.Get("canonical port dates"))

	again, _ := f.pipeline.NormalizeDates(out)
	require.Empty(t, cmp.Diff(out, again))
	require.Equal(t, "May 31, 2012", *in[0].ReleaseDate)
}

func assetFixture(t *testing.T) (fixture, []catalog.Entity) {
	t.Helper()
	f := newFixture(t, fakeSmite1{}, fakeSmite2{})
	entities := []catalog.Entity{
		{ID: 1, Name: "Zeus", Pantheon: "Greek", Status: catalog.StatusPorted, Smite1Wiki: wiki1 + "Zeus", Smite2Wiki: wiki2 + "Zeus"},
		{ID: 2, Name: "Thor", Pantheon: "Norse", Status: catalog.StatusNotPorted, Smite1Wiki: wiki1 + "Thor"},
		{ID: 3, Name: "Baldur", Pantheon: "Norse", Status: catalog.StatusExclusive, Smite2Wiki: wiki2 + "Baldur"},
	}

	serve := func(name string, site assets.Site, kind assets.Kind, url string) {
		f.resolver.urls[assets.Request{Name: name, Site: site, Kind: kind}] = url
		f.site.Serve(url, "png:"+url)
	}
	serve("Zeus", assets.SiteSmite1, assets.KindThumbnail, "https://cdn.test/T_Zeus_Default_Icon.png")
	serve("Zeus", assets.SiteSmite1, assets.KindFullImage, "https://cdn.test/T_Zeus_Default_Card.png")
	serve("Zeus", assets.SiteSmite2, assets.KindThumbnail, "https://s2.test/T_Zeus_Default_Icon.png")
	serve("Zeus", assets.SiteSmite2, assets.KindFullImage, "https://s2.test/T_Zeus_Default.png")
	serve("Thor", assets.SiteSmite1, assets.KindThumbnail, "https://cdn.test/T_Thor_Default_Icon.png")
	// Thor's card resolves to a url that is gone.
	f.resolver.urls[assets.Request{Name: "Thor", Site: assets.SiteSmite1, Kind: assets.KindFullImage}] = "https://cdn.test/gone.png"
	return f, entities
}

func TestAssets(t *testing.T) {
	f, entities := assetFixture(t)

	out, summary, err := f.pipeline.Assets(context.Background(), entities, AssetOptions{})
	require.NoError(t, err)
	require.Equal(t, 8, summary.Get("processed"))
	require.Equal(t, 5, summary.Get("downloaded"))
	require.Equal(t, 1, summary.Get("failed"))
	require.Equal(t, 2, summary.Get("unresolved"))

	gods := byName(out)
	require.Equal(t, "/images/gods/smite2/thumb/zeus.png", gods["Zeus"].ThumbnailPath)
	require.Equal(t, "/images/gods/smite2/card/zeus.png", gods["Zeus"].ImagePath)
	require.Equal(t, "/images/gods/smite1/card/zeus.png", gods["Zeus"].Smite1CardPath)
	require.Equal(t, "/images/gods/smite1/thumb/thor.png", gods["Thor"].ThumbnailPath)
	require.Empty(t, gods["Thor"].Smite1CardPath)
	require.Empty(t, gods["Baldur"].ImagePath)

	contents, err := os.ReadFile(filepath.Join(f.pipeline.opts.AssetsDir, "images", "gods", "smite1", "thumb", "thor.png"))
	require.NoError(t, err)
	require.Equal(t, "png:https://cdn.test/T_Thor_Default_Icon.png", string(contents))
	_, err = os.Stat(filepath.Join(f.pipeline.opts.AssetsDir, "images", "gods", "smite1", "card", "thor.png"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAssetsCached(t *testing.T) {
	f, entities := assetFixture(t)

	first, _, err := f.pipeline.Assets(context.Background(), entities, AssetOptions{})
	require.NoError(t, err)
	downloads := f.site.TotalDownloads()
	calls := f.resolver.calls

	second, summary, err := f.pipeline.Assets(context.Background(), first, AssetOptions{})
	require.NoError(t, err)
	require.Equal(t, 5, summary.Get("skipped (cached)"))
	require.Equal(t, 0, summary.Get("downloaded"))
	require.Equal(t, downloads+1, f.site.TotalDownloads(), "only the failed card is retried")
	require.Equal(t, calls+3, f.resolver.calls)
	require.Empty(t, cmp.Diff(first, second))
}

func TestAssetsNeverClears(t *testing.T) {
	f := newFixture(t, fakeSmite1{}, fakeSmite2{})
	entities := []catalog.Entity{
		{ID: 1, Name: "Thor", Status: catalog.StatusNotPorted, Smite1Wiki: wiki1 + "Thor", Smite1CardPath: "/images/gods/smite1/card/thor.png"},
	}
	out, _, err := f.pipeline.Assets(context.Background(), entities, AssetOptions{})
	require.NoError(t, err)
	require.Equal(t, "/images/gods/smite1/card/thor.png", out[0].Smite1CardPath)
}

func TestAssetsFilters(t *testing.T) {
	f, entities := assetFixture(t)

	out, summary, err := f.pipeline.Assets(context.Background(), entities, AssetOptions{
		God:   "zeus",
		Kinds: []assets.Kind{assets.KindThumbnail},
		Sites: []assets.Site{assets.SiteSmite2},
	})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Get("processed"))
	require.Equal(t, 1, f.site.TotalDownloads())
	require.Equal(t, "/images/gods/smite2/thumb/zeus.png", byName(out)["Zeus"].ThumbnailPath)
	require.Empty(t, byName(out)["Zeus"].ImagePath)
}

func TestAssetsDryRun(t *testing.T) {
	f, entities := assetFixture(t)
	require.NoError(t, catalog.Save(f.pipeline.opts.CatalogPath, entities))

	summary, err := f.pipeline.AssetsFile(context.Background(), AssetOptions{DryRun: true})
	require.NoError(t, err)
	require.Equal(t, 6, summary.Get("resolved"))
	require.Equal(t, 0, f.site.TotalDownloads())

	stored, err := catalog.Load(f.pipeline.opts.CatalogPath)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(entities, stored))
}

func TestPantheons(t *testing.T) {
	f, entities := assetFixture(t)
	f.site.Serve("https://cdn.test/Greek_Pantheon.png", "greek")
	require.NoError(t, catalog.Save(f.pipeline.opts.CatalogPath, entities))

	summary, err := f.pipeline.PantheonsFile(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, summary.Get("pantheons"))
	require.Equal(t, 1, summary.Get("downloaded"))
	require.Equal(t, 1, summary.Get("missing"))

	pantheons, err := catalog.LoadPantheons(f.pipeline.opts.PantheonsPath)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]catalog.Pantheon{
		{Name: "Greek", IconPath: "/images/pantheons/greek.png"},
		{Name: "Norse"},
	}, pantheons))

	summary, err = f.pipeline.PantheonsFile(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Get("skipped (cached)"))
	require.Equal(t, 1, f.site.Downloads("https://cdn.test/Greek_Pantheon.png"))
}

func TestClean(t *testing.T) {
	f, entities := assetFixture(t)
	withAssets, _, err := f.pipeline.Assets(context.Background(), entities, AssetOptions{})
	require.NoError(t, err)
	require.NoError(t, catalog.Save(f.pipeline.opts.CatalogPath, withAssets))

	legacy := filepath.Join(f.pipeline.opts.AssetsDir, "images", "thumbnails", "zeus.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(legacy), 0777))
	require.NoError(t, os.WriteFile(legacy, []byte("x"), 0666))

	summary, err := f.pipeline.CleanFile()
	require.NoError(t, err)
	require.Equal(t, 2, summary.Get("dirs removed"))

	stored, err := catalog.Load(f.pipeline.opts.CatalogPath)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(entities, stored))
	_, err = os.Stat(filepath.Join(f.pipeline.opts.AssetsDir, "images", "gods"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun(t *testing.T) {
	f := newFixture(t, fakeSmite1{gods: listing1()}, listing2())
	f.resolver.urls[assets.Request{Name: "Baldur", Site: assets.SiteSmite2, Kind: assets.KindThumbnail}] = "https://s2.test/baldur.png"
	f.site.Serve("https://s2.test/baldur.png", "baldur")

	summaries, err := f.pipeline.Run(context.Background(), AssetOptions{})
	require.NoError(t, err)

	var stages []Stage
	for _, s := range summaries {
		stages = append(stages, s.Stage)
	}
	require.Equal(t, []Stage{StageBuild, StageReconcile, StageDates, StageAssets}, stages)

	stored, err := catalog.Load(f.pipeline.opts.CatalogPath)
	require.NoError(t, err)
	require.NoError(t, catalog.Validate(stored))

	gods := byName(stored)
	require.Equal(t, "2012-05-31", *gods["Zeus"].ReleaseDate)
	require.Equal(t, "/images/gods/smite2/thumb/baldur.png", gods["Baldur"].ThumbnailPath)
}

func TestRunStopsOnFailure(t *testing.T) {
	f := newFixture(t, fakeSmite1{gods: listing1()}, fakeSmite2{err: errors.New("offline")})

	summaries, err := f.pipeline.Run(context.Background(), AssetOptions{})
	require.Error(t, err)
	require.Len(t, summaries, 1)

	stored, err := catalog.Load(f.pipeline.opts.CatalogPath)
	require.NoError(t, err)
	for _, e := range stored {
		require.Equal(t, catalog.StatusNotPorted, e.Status)
	}
}
