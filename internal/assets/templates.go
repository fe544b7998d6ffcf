package assets

import "fmt"

type template func(base, variant string) string

var templates = map[Site]map[Kind][]template{
	SiteSmite2: {
		KindThumbnail: {
			func(base, v string) string {
				return fmt.Sprintf("%s/images/thumb/T_%s%%28S2%%29_Default_Icon.png/35px-T_%s%%28S2%%29_Default_Icon.png", base, v, v)
			},
			func(base, v string) string {
				return fmt.Sprintf("%s/images/T_%s%%28S2%%29_Default_Icon.png", base, v)
			},
			func(base, v string) string {
				return fmt.Sprintf("%s/images/T_%s_Default_Icon.png", base, v)
			},
			func(base, v string) string {
				return fmt.Sprintf("%s/images/thumb/T_%sS2_Default.png/35px-T_%sS2_Default.png", base, v, v)
			},
			func(base, v string) string {
				return fmt.Sprintf("%s/images/thumb/GodCard_%s.png/35px-GodCard_%s.png", base, v, v)
			},
		},
		KindFullImage: {
			func(base, v string) string {
				return fmt.Sprintf("%s/images/T_%sS2_Default.png", base, v)
			},
			func(base, v string) string {
				return fmt.Sprintf("%s/images/T_%s_Default.png", base, v)
			},
			func(base, v string) string {
				return fmt.Sprintf("%s/images/GodCard_%s.png", base, v)
			},
		},
	},
	SiteSmite1: {
		KindThumbnail: {
			func(cdn, v string) string {
				return fmt.Sprintf("%s/T_%s_Default_Icon.png", cdn, v)
			},
		},
		KindFullImage: {
			func(cdn, v string) string {
				return fmt.Sprintf("%s/T_%s_Default_Card.png", cdn, v)
			},
		},
	},
}
