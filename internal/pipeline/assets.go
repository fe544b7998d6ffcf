package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"arewesmite2yet/internal/assets"
	"arewesmite2yet/internal/catalog"
	"arewesmite2yet/internal/names"

	"golang.org/x/sync/errgroup"
)

const (
	report_pipeline_assets = "stage.assets"
)

// AssetOptions narrows down what the assets stage does, the zero value
// downloads every kind of asset for every god.
type AssetOptions struct {
	// DryRun resolves urls without downloading or writing anything.
	DryRun bool
	// God only processes the god with this name.
	God string
	// Kinds only processes these kinds of assets when it is not empty.
	Kinds []assets.Kind
	// Sites only processes assets of these sites when it is not empty.
	Sites []assets.Site
}

func (o AssetOptions) wantsKind(kind assets.Kind) bool {
	if len(o.Kinds) == 0 {
		return true
	}
	for _, k := range o.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (o AssetOptions) wantsSite(site assets.Site) bool {
	if len(o.Sites) == 0 {
		return true
	}
	for _, s := range o.Sites {
		if s == site {
			return true
		}
	}
	return false
}

// AssetPath is the path of an asset relative to the assets dir, as it is
// stored in the catalog.
func AssetPath(site assets.Site, kind assets.Kind, name string) string {
	return path.Join("/images/gods", string(site), string(kind), assets.Filename(name))
}

type assetTarget struct {
	entity int
	req    assets.Request
	rel    string
}

type assetOutcome int

const (
	outcomeUnresolved assetOutcome = iota
	outcomeCached
	outcomeResolved
	outcomeDownloaded
	outcomeFailed
)

type assetResult struct {
	outcome assetOutcome
	url     string
}

func (p *Pipeline) assetTargets(entities []catalog.Entity, opts AssetOptions) []assetTarget {
	var targets []assetTarget
	add := func(i int, site assets.Site, kind assets.Kind, pageURL string) {
		if !opts.wantsSite(site) || !opts.wantsKind(kind) {
			return
		}
		e := entities[i]
		targets = append(targets, assetTarget{
			entity: i,
			req: assets.Request{
				Name:    e.Name,
				Site:    site,
				Kind:    kind,
				PageURL: pageURL,
			},
			rel: AssetPath(site, kind, e.Name),
		})
	}

	for i, e := range entities {
		if opts.God != "" && names.Fold(opts.God) != names.Fold(e.Name) {
			continue
		}
		if e.Smite1Wiki != "" {
			add(i, assets.SiteSmite1, assets.KindThumbnail, e.Smite1Wiki)
			add(i, assets.SiteSmite1, assets.KindFullImage, e.Smite1Wiki)
		}
		if e.Status == catalog.StatusPorted || e.Status == catalog.StatusExclusive {
			add(i, assets.SiteSmite2, assets.KindThumbnail, e.Smite2Wiki)
			add(i, assets.SiteSmite2, assets.KindFullImage, e.Smite2Wiki)
		}
	}
	return targets
}

func (p *Pipeline) fetchAsset(ctx context.Context, target assetTarget, dryRun bool) assetResult {
	local := filepath.Join(p.opts.AssetsDir, filepath.FromSlash(target.rel))
	_, err := os.Stat(local)
	if err == nil {
		return assetResult{outcome: outcomeCached}
	}
	if !errors.Is(err, os.ErrNotExist) {
		p.tel.ReportWarning(report_pipeline_assets, fmt.Errorf("stat %s: %w", local, err))
	}

	url, ok := p.resolver.Resolve(ctx, target.req)
	if !ok {
		p.tel.ReportDebug("unresolved", target.req.Name, target.req.Site, target.req.Kind)
		return assetResult{outcome: outcomeUnresolved}
	}
	if dryRun {
		p.tel.ReportDebug("resolved", target.req.Name, url)
		return assetResult{outcome: outcomeResolved, url: url}
	}

	err = p.downloader.Download(ctx, url, local)
	if err != nil {
		p.tel.ReportWarning(report_pipeline_assets, fmt.Errorf("download %s for %q: %w", url, target.req.Name, err))
		return assetResult{outcome: outcomeFailed, url: url}
	}
	return assetResult{outcome: outcomeDownloaded, url: url}
}

func setAssetPath(e *catalog.Entity, site assets.Site, kind assets.Kind, rel string) {
	switch {
	case site == assets.SiteSmite1 && kind == assets.KindThumbnail:
		e.Smite1ThumbnailPath = rel
	case site == assets.SiteSmite1 && kind == assets.KindFullImage:
		e.Smite1CardPath = rel
	case site == assets.SiteSmite2 && kind == assets.KindThumbnail:
		e.Smite2ThumbnailPath = rel
	case site == assets.SiteSmite2 && kind == assets.KindFullImage:
		e.ImagePath = rel
	}
}

// Assets resolves and downloads the portraits of every god. Assets whose
// file already exists are not looked up again, results are only applied to
// the catalog once every download is done and a path that was not resolved
// is never cleared.
func (p *Pipeline) Assets(ctx context.Context, entities []catalog.Entity, opts AssetOptions) ([]catalog.Entity, Summary, error) {
	summary := Summary{Stage: StageAssets}

	targets := p.assetTargets(entities, opts)
	results := make([]assetResult, len(targets))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.opts.Concurrency)
	for i, target := range targets {
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return groupCtx.Err()
			}
			results[i] = p.fetchAsset(groupCtx, target, opts.DryRun)
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return nil, summary, fmt.Errorf("fetch assets: %w", err)
	}

	out := make([]catalog.Entity, len(entities))
	copy(out, entities)

	var tally [outcomeFailed + 1]int
	for i, target := range targets {
		res := results[i]
		tally[res.outcome]++
		if opts.DryRun {
			continue
		}
		if res.outcome == outcomeCached || res.outcome == outcomeDownloaded {
			setAssetPath(&out[target.entity], target.req.Site, target.req.Kind, target.rel)
		}
	}

	if !opts.DryRun {
		for i := range out {
			e := &out[i]
			switch {
			case e.Smite2ThumbnailPath != "":
				e.ThumbnailPath = e.Smite2ThumbnailPath
			case e.Smite1ThumbnailPath != "":
				e.ThumbnailPath = e.Smite1ThumbnailPath
			}
		}
	}

	summary.add("processed", len(targets))
	summary.add("skipped (cached)", tally[outcomeCached])
	summary.add("resolved", tally[outcomeResolved]+tally[outcomeDownloaded]+tally[outcomeFailed])
	summary.add("downloaded", tally[outcomeDownloaded])
	summary.add("unresolved", tally[outcomeUnresolved])
	summary.add("failed", tally[outcomeFailed])
	return out, summary, nil
}
