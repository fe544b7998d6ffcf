package assets

// Site is the wiki an asset is looked up on.
type Site string

const (
	SiteSmite1 Site = "smite1"
	SiteSmite2 Site = "smite2"
)

// Kind is the kind of portrait being looked for.
type Kind string

const (
	// KindThumbnail is a small square icon.
	KindThumbnail Kind = "thumb"
	// KindFullImage is the full portrait (the god card on smite 1).
	KindFullImage Kind = "card"
)

// Request describes one asset to resolve.
type Request struct {
	Name string
	Site Site
	Kind Kind
	// PageURL is the detail page of the god on Site, it is scanned when no
	// constructed url exists. It may be empty.
	PageURL string
}
