package smite1

// ListedGod is one god row of the smite 1 god list.
type ListedGod struct {
	Name     string
	Pantheon string
	Class    string
	// ReleaseDate is the raw text of the release date cell, empty when
	// the god was never released.
	ReleaseDate string
	WikiURL     string
}
