package catalog

import (
	"errors"
	"fmt"
)

// Validate checks every cross-field invariant of the catalog and returns
// all violations joined together.
func Validate(entities []Entity) error {
	var errs []error
	seen := make(map[int]string, len(entities))

	for _, e := range entities {
		if e.ID <= 0 {
			errs = append(errs, fmt.Errorf("%q: id %d is not positive", e.Name, e.ID))
		}
		if other, ok := seen[e.ID]; ok {
			errs = append(errs, fmt.Errorf("%q: id %d is already used by %q", e.Name, e.ID, other))
		}
		seen[e.ID] = e.Name

		if e.Name == "" {
			errs = append(errs, fmt.Errorf("id %d: empty name", e.ID))
		}
		if !e.Class.Valid() {
			errs = append(errs, fmt.Errorf("%q: unknown class %q", e.Name, e.Class))
		}

		switch e.Status {
		case StatusExclusive:
			if e.ReleaseDate != nil {
				errs = append(errs, fmt.Errorf("%q: exclusive god has a release date", e.Name))
			}
			if e.Smite2Wiki == "" {
				errs = append(errs, fmt.Errorf("%q: exclusive god has no smite 2 page", e.Name))
			}
		case StatusPorted:
			if e.ReleaseDate == nil {
				errs = append(errs, fmt.Errorf("%q: ported god has no release date", e.Name))
			}
			if e.Smite1Wiki == "" || e.Smite2Wiki == "" {
				errs = append(errs, fmt.Errorf("%q: ported god is missing a wiki page", e.Name))
			}
		case StatusNotPorted:
			if e.Smite2Wiki != "" {
				errs = append(errs, fmt.Errorf("%q: unported god has a smite 2 page", e.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("%q: unknown status %q", e.Name, e.Status))
		}
	}

	return errors.Join(errs...)
}
