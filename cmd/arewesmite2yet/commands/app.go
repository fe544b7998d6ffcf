package commands

import (
	"log/slog"
	"os"

	"arewesmite2yet/internal/assets"
	"arewesmite2yet/internal/components/chrono"
	"arewesmite2yet/internal/components/pagecache"
	"arewesmite2yet/internal/components/telemetry"
	"arewesmite2yet/internal/components/web"
	"arewesmite2yet/internal/config"
	"arewesmite2yet/internal/dates"
	"arewesmite2yet/internal/pipeline"
	"arewesmite2yet/internal/scrapers/smite1"
	"arewesmite2yet/internal/scrapers/smite2"
	"arewesmite2yet/pkg/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
)

func readConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

// app holds everything a stage command needs, close must be called once
// the command is done.
type app struct {
	cfg      config.Config
	pipeline *pipeline.Pipeline
	cache    pagecache.Cache
}

func (a app) close() {
	err := a.cache.Close()
	if err != nil {
		slog.Warn("failed to close page cache", "err", err)
	}
}

func newApp() app {
	cfg := readConfig()
	tel := telemetry.SlogAPI{}

	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	if err != nil {
		serviceutil.Fatal("failed to load timezone", err)
	}

	var dump telemetry.DumpOutput
	if cfg.DumpDir != "" {
		output, err := telemetry.NewFilesystemOutput(cfg.DumpDir)
		if err != nil {
			serviceutil.Fatal("failed to create http dump dir", err)
		}
		dump = output
	}

	client := web.NewClient(web.ClientOptions{
		RequestDelay:    cfg.RequestDelay.Std(),
		FetchTimeout:    cfg.FetchTimeout.Std(),
		ProbeTimeout:    cfg.ProbeTimeout.Std(),
		DownloadTimeout: cfg.DownloadTimeout.Std(),
		Dump:            dump,
	}, tel)

	cache, err := pagecache.Open(cfg.PageCacheDir, cfg.PageCacheTTL.Std())
	if err != nil {
		serviceutil.Fatal("failed to open page cache", err)
	}
	fetcher := web.NewCachedFetcher(client, cache, tel)

	smite1Client := smite1.NewClient(cfg.Smite1.BaseURL, fetcher, tel)
	smite2Client := smite2.NewClient(cfg.Smite2.BaseURL, fetcher, tel)

	resolver := assets.NewResolver(assets.ResolverOptions{
		Smite2Base:     smite2Client.BaseURL(),
		Smite1CDN:      cfg.Smite1.CDN,
		Smite1IndexURL: smite1Client.MainPageURL(),
	}, client, fetcher, tel)
	icons := assets.NewPantheonFinder(cfg.Smite1.BaseURL, cfg.Smite1.CDN, fetcher, tel)

	p := pipeline.New(pipeline.Options{
		CatalogPath:   cfg.CatalogPath,
		PantheonsPath: cfg.PantheonsPath,
		AssetsDir:     cfg.AssetsDir,
		Concurrency:   cfg.Concurrency,
	}, pipeline.Deps{
		Smite1:     smite1Client,
		Smite2:     smite2Client,
		Resolver:   resolver,
		Pantheons:  icons,
		Downloader: client,
		Dates:      dates.NewNormalizer(clock, tel),
		Tel:        tel,
	})

	return app{cfg: cfg, pipeline: p, cache: cache}
}

func printSummary(summary pipeline.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(string(summary.Stage))
	t.AppendHeader(table.Row{"Count", "Value"})
	for _, c := range summary.Counts {
		t.AppendRow(table.Row{c.Name, c.Value})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
