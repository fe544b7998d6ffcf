package pipeline

import (
	"context"
	"fmt"

	"arewesmite2yet/internal/catalog"
	"arewesmite2yet/internal/dates"
	"arewesmite2yet/internal/names"
)

const (
	report_pipeline_build = "stage.build"
)

// Build lists the gods of the smite 1 wiki into a fresh catalog. Gods that
// were already in previous keep their id and assets, previous entities
// that are no longer listed are carried over unchanged.
//
// Release cells that say the god is missing or unreleased become a null
// release date like empty ones do, so a listed but unreleased god that is
// found on the smite 2 wiki is reconciled as exclusive rather than ported.
func (p *Pipeline) Build(ctx context.Context, previous []catalog.Entity) ([]catalog.Entity, Summary, error) {
	summary := Summary{Stage: StageBuild}

	listed, err := p.smite1.ListGods(ctx)
	if err != nil {
		return nil, summary, fmt.Errorf("list smite 1 gods: %w", err)
	}

	byName := make(map[string]int, len(previous))
	for i, e := range previous {
		byName[names.Fold(e.Name)] = i
	}
	relisted := make(map[int]struct{}, len(previous))
	alloc := catalog.NewIDAllocator(previous)

	var out []catalog.Entity
	created := 0
	unreleased := 0
	for _, god := range listed {
		class, ok := catalog.ParseClass(god.Class)
		if !ok {
			class = catalog.ClassUnknown
		}
		entity := catalog.Entity{
			Name:       god.Name,
			Pantheon:   god.Pantheon,
			Class:      class,
			Status:     catalog.StatusNotPorted,
			Smite1Wiki: god.WikiURL,
		}
		if dates.IsSentinel(god.ReleaseDate) {
			unreleased++
		} else {
			entity.ReleaseDate = catalog.Date(god.ReleaseDate)
		}

		i, known := byName[names.Fold(god.Name)]
		if _, dup := relisted[i]; known && !dup {
			prev := previous[i]
			relisted[i] = struct{}{}
			entity.ID = prev.ID
			entity.ImagePath = prev.ImagePath
			entity.ThumbnailPath = prev.ThumbnailPath
			entity.Smite1ThumbnailPath = prev.Smite1ThumbnailPath
			entity.Smite2ThumbnailPath = prev.Smite2ThumbnailPath
			entity.Smite1CardPath = prev.Smite1CardPath
		} else {
			entity.ID = alloc.Next()
			created++
		}
		out = append(out, entity)
	}

	carried := 0
	for i, prev := range previous {
		if _, ok := relisted[i]; ok {
			continue
		}
		if prev.Smite1Wiki != "" {
			p.tel.ReportWarning(report_pipeline_build, fmt.Errorf("%q is no longer listed on the smite 1 wiki", prev.Name))
		}
		out = append(out, prev)
		carried++
	}

	summary.add("listed", len(listed))
	summary.add("new", created)
	summary.add("carried over", carried)
	summary.add("unreleased", unreleased)
	return out, summary, nil
}
