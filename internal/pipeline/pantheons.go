package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"

	"arewesmite2yet/internal/assets"
	"arewesmite2yet/internal/catalog"
)

const (
	report_pipeline_pantheons = "stage.pantheons"
)

// PantheonIconPath is the path of a pantheon's icon relative to the assets
// dir.
func PantheonIconPath(pantheon string) string {
	return path.Join("/images/pantheons", assets.Filename(pantheon))
}

// DistinctPantheons lists the known pantheons of the catalog in order.
func DistinctPantheons(entities []catalog.Entity) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entities {
		if e.Pantheon == "" || e.Pantheon == catalog.UnknownPantheon {
			continue
		}
		if _, ok := seen[e.Pantheon]; ok {
			continue
		}
		seen[e.Pantheon] = struct{}{}
		out = append(out, e.Pantheon)
	}
	slices.Sort(out)
	return out
}

// Pantheons downloads an icon for every pantheon of the catalog and writes
// the pantheon index. Pantheons without an icon are still listed.
func (p *Pipeline) Pantheons(ctx context.Context, entities []catalog.Entity) ([]catalog.Pantheon, Summary) {
	summary := Summary{Stage: StagePantheons}

	pantheons := DistinctPantheons(entities)
	out := make([]catalog.Pantheon, 0, len(pantheons))
	cached := 0
	downloaded := 0
	missing := 0
	for _, name := range pantheons {
		entry := catalog.Pantheon{Name: name}
		rel := PantheonIconPath(name)
		local := filepath.Join(p.opts.AssetsDir, filepath.FromSlash(rel))

		if _, err := os.Stat(local); err == nil {
			entry.IconPath = rel
			cached++
			out = append(out, entry)
			continue
		}

		url, ok := p.pantheons.Find(ctx, name)
		if !ok {
			p.tel.ReportDebug("no icon for pantheon", name)
			missing++
			out = append(out, entry)
			continue
		}
		err := p.downloader.Download(ctx, url, local)
		if err != nil {
			p.tel.ReportWarning(report_pipeline_pantheons, fmt.Errorf("download icon of %s: %w", name, err))
			missing++
			out = append(out, entry)
			continue
		}
		entry.IconPath = rel
		downloaded++
		out = append(out, entry)
	}

	summary.add("pantheons", len(pantheons))
	summary.add("skipped (cached)", cached)
	summary.add("downloaded", downloaded)
	summary.add("missing", missing)
	return out, summary
}
