package catalog

// IDAllocator hands out ids above every id it has seen, ids are never
// reused even after the entity that held them is gone.
type IDAllocator struct {
	max int
}

func NewIDAllocator(existing []Entity) *IDAllocator {
	a := &IDAllocator{}
	for _, e := range existing {
		a.Observe(e.ID)
	}
	return a
}

// Observe records an id that is already taken.
func (a *IDAllocator) Observe(id int) {
	if id > a.max {
		a.max = id
	}
}

func (a *IDAllocator) Next() int {
	a.max++
	return a.max
}
