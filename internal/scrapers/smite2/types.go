package smite2

import "arewesmite2yet/internal/catalog"

type ListedGod struct {
	Name    string
	WikiURL string
}

// Details is what the infobox of a god page says about it, fields that
// could not be found are Unknown (or empty for the release date).
type Details struct {
	Pantheon    string
	Class       catalog.Class
	ReleaseDate string
}
