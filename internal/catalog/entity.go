package catalog

import "strings"

type Status string

const (
	StatusPorted    Status = "ported"
	StatusNotPorted Status = "not_ported"
	StatusExclusive Status = "exclusive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPorted, StatusNotPorted, StatusExclusive:
		return true
	}
	return false
}

type Class string

const (
	ClassMage     Class = "Mage"
	ClassHunter   Class = "Hunter"
	ClassGuardian Class = "Guardian"
	ClassWarrior  Class = "Warrior"
	ClassAssassin Class = "Assassin"
	ClassUnknown  Class = "Unknown"
)

// Classes are the playable classes, in the order the listing pages use.
var Classes = []Class{
	ClassMage,
	ClassHunter,
	ClassGuardian,
	ClassWarrior,
	ClassAssassin,
}

// ParseClass accepts one of the playable classes (case-insensitively),
// Unknown is not accepted since it never appears on a listing page.
func ParseClass(str string) (Class, bool) {
	str = strings.TrimSpace(str)
	for _, class := range Classes {
		if strings.EqualFold(str, string(class)) {
			return class, true
		}
	}
	return ClassUnknown, false
}

func (c Class) Valid() bool {
	if c == ClassUnknown {
		return true
	}
	for _, class := range Classes {
		if c == class {
			return true
		}
	}
	return false
}

const UnknownPantheon = "Unknown"

// Entity is a single god, the json tags are read by the website so they
// must not change.
type Entity struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Pantheon string `json:"pantheon"`
	Class    Class  `json:"class"`
	Status   Status `json:"status"`
	// ReleaseDate is the date the god was released in smite 1, nil for
	// gods that were never released there.
	ReleaseDate *string `json:"releaseDate"`
	PortedDate  string  `json:"portedDate,omitempty"`

	Smite1Wiki string `json:"smite1Wiki,omitempty"`
	Smite2Wiki string `json:"smite2Wiki,omitempty"`

	ImagePath           string `json:"imagePath,omitempty"`
	ThumbnailPath       string `json:"thumbnailPath,omitempty"`
	Smite1ThumbnailPath string `json:"smite1ThumbnailPath,omitempty"`
	Smite2ThumbnailPath string `json:"smite2ThumbnailPath,omitempty"`
	Smite1CardPath      string `json:"smite1CardPath,omitempty"`
}

// ClearImages removes every stored asset path.
func (e *Entity) ClearImages() {
	e.ImagePath = ""
	e.ThumbnailPath = ""
	e.Smite1ThumbnailPath = ""
	e.Smite2ThumbnailPath = ""
	e.Smite1CardPath = ""
}

// Date returns a pointer to a copy of str, or nil for an empty str.
func Date(str string) *string {
	if str == "" {
		return nil
	}
	return &str
}
