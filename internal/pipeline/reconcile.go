package pipeline

import (
	"context"
	"fmt"

	"arewesmite2yet/internal/catalog"
	"arewesmite2yet/internal/names"
	"arewesmite2yet/internal/scrapers/smite2"
)

const (
	report_pipeline_reconcile = "stage.reconcile"
)

// smite2Only reports whether an entity was created from the smite 2 wiki
// alone.
func smite2Only(e catalog.Entity) bool {
	return e.Smite1Wiki == ""
}

// portedDate is the normalized form of a smite 2 release date, or the raw
// text when it cannot be normalized.
func (p *Pipeline) portedDate(raw string) string {
	return p.dates.NormalizeOr(raw)
}

// fillUnknown replaces the Unknown pantheon and class of an entity with
// the ones the smite 2 wiki gives.
func fillUnknown(e *catalog.Entity, details smite2.Details) {
	if e.Pantheon == "" || e.Pantheon == catalog.UnknownPantheon {
		e.Pantheon = details.Pantheon
	}
	if e.Class == "" || e.Class == catalog.ClassUnknown {
		e.Class = details.Class
	}
}

// Reconcile classifies every smite 1 god against the smite 2 gods list and
// adds the gods that only exist in smite 2. A failed or empty gods list
// aborts the stage so that nothing is reclassified from missing data.
func (p *Pipeline) Reconcile(ctx context.Context, entities []catalog.Entity) ([]catalog.Entity, Summary, error) {
	summary := Summary{Stage: StageReconcile}

	listing, err := p.smite2.ListGods(ctx)
	if err != nil {
		return nil, summary, fmt.Errorf("list smite 2 gods: %w", err)
	}
	if len(listing) == 0 {
		return nil, summary, fmt.Errorf("list smite 2 gods: %w", smite2.ErrNoGods)
	}

	smite2Names := make([]string, len(listing))
	for i, god := range listing {
		smite2Names[i] = god.Name
	}

	out := make([]catalog.Entity, len(entities))
	copy(out, entities)

	var smite1Names []string
	existing := make(map[string]int)
	for i, e := range out {
		if smite2Only(e) {
			existing[names.Fold(e.Name)] = i
			continue
		}
		smite1Names = append(smite1Names, e.Name)
	}

	matched := 0
	for i := range out {
		e := &out[i]
		if smite2Only(*e) {
			continue
		}

		idx, ok := names.FirstMatch(e.Name, smite2Names)
		if !ok {
			e.Status = catalog.StatusNotPorted
			e.Smite2Wiki = ""
			e.PortedDate = ""
			closest, score := names.Closest(e.Name, smite2Names)
			p.tel.ReportDebug("not ported", e.Name, "closest", closest, score)
			continue
		}
		matched++

		counterpart := listing[idx]
		e.Smite2Wiki = counterpart.WikiURL
		if e.ReleaseDate != nil {
			e.Status = catalog.StatusPorted
		} else {
			e.Status = catalog.StatusExclusive
		}

		details, err := p.smite2.GodDetails(ctx, counterpart.Name)
		if err != nil {
			p.tel.ReportWarning(report_pipeline_reconcile, fmt.Errorf("details of %q: %w", e.Name, err))
			continue
		}
		if details.ReleaseDate != "" {
			e.PortedDate = p.portedDate(details.ReleaseDate)
		}
		fillUnknown(e, details)
	}

	alloc := catalog.NewIDAllocator(out)
	created := 0
	exclusives := 0
	relisted := make(map[int]struct{}, len(existing))
	for _, god := range listing {
		if names.AnyMatch(god.Name, smite1Names) {
			continue
		}
		exclusives++

		details, err := p.smite2.GodDetails(ctx, god.Name)
		if err != nil {
			p.tel.ReportWarning(report_pipeline_reconcile, fmt.Errorf("details of exclusive %q: %w", god.Name, err))
		}

		if i, ok := existing[names.Fold(god.Name)]; ok {
			relisted[i] = struct{}{}
			e := &out[i]
			e.Status = catalog.StatusExclusive
			e.ReleaseDate = nil
			e.Smite2Wiki = god.WikiURL
			if err == nil {
				e.Pantheon = details.Pantheon
				e.Class = details.Class
				if details.ReleaseDate != "" {
					e.PortedDate = p.portedDate(details.ReleaseDate)
				}
			}
			continue
		}

		e := catalog.Entity{
			ID:         alloc.Next(),
			Name:       god.Name,
			Pantheon:   catalog.UnknownPantheon,
			Class:      catalog.ClassUnknown,
			Status:     catalog.StatusExclusive,
			Smite2Wiki: god.WikiURL,
		}
		if err == nil {
			e.Pantheon = details.Pantheon
			e.Class = details.Class
			if details.ReleaseDate != "" {
				e.PortedDate = p.portedDate(details.ReleaseDate)
			}
		}
		out = append(out, e)
		created++
		p.tel.ReportDebug("new exclusive", e.Name, e.ID)
	}

	for name, i := range existing {
		if _, ok := relisted[i]; !ok {
			p.tel.ReportWarning(report_pipeline_reconcile, fmt.Errorf("%q is no longer listed on the smite 2 wiki", name))
		}
	}

	counts := StatusCounts(out)
	summary.add("listed", len(listing))
	summary.add("matched", matched)
	summary.add("exclusives found", exclusives)
	summary.add("exclusives created", created)
	summary.add("ported", counts[catalog.StatusPorted])
	summary.add("not ported", counts[catalog.StatusNotPorted])
	summary.add("exclusive", counts[catalog.StatusExclusive])
	return out, summary, nil
}

// StatusCounts counts the entities of each status.
func StatusCounts(entities []catalog.Entity) map[catalog.Status]int {
	counts := make(map[catalog.Status]int, 3)
	for _, e := range entities {
		counts[e.Status]++
	}
	return counts
}
