package pipeline

import (
	"arewesmite2yet/internal/catalog"
	"arewesmite2yet/internal/dates"
)

// NormalizeDates rewrites every date of the catalog in its canonical form,
// dates that cannot be understood are left as they are.
func (p *Pipeline) NormalizeDates(entities []catalog.Entity) ([]catalog.Entity, Summary) {
	summary := Summary{Stage: StageDates}

	out := make([]catalog.Entity, len(entities))
	copy(out, entities)

	releases := 0
	canonical := 0
	for i := range out {
		e := &out[i]
		if e.ReleaseDate != nil {
			normalized, ok := p.dates.Normalize(*e.ReleaseDate)
			if ok {
				e.ReleaseDate = catalog.Date(normalized)
				releases++
			}
		}
		if e.PortedDate == "" {
			continue
		}
		e.PortedDate = p.dates.NormalizeOr(e.PortedDate)
		if dates.IsCanonical(e.PortedDate) {
			canonical++
		}
	}

	summary.add("release dates", releases)
	summary.add("canonical port dates", canonical)
	return out, summary
}
