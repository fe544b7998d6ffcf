package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"arewesmite2yet/pkg/configutil"
)

// FileName is looked for in the working directory and its parents.
const FileName = "arewesmite2yet.json5"

type Config struct {
	// CatalogPath is the gods.json file read and rewritten by every stage.
	CatalogPath   string `json:"catalog_path"`
	PantheonsPath string `json:"pantheons_path"`
	// AssetsDir is the public directory images are downloaded under, the
	// paths stored in the catalog are relative to it.
	AssetsDir string `json:"assets_dir"`

	PageCacheDir string   `json:"page_cache_dir"`
	PageCacheTTL Duration `json:"page_cache_ttl"`
	// DumpDir receives a dump of every http request when set.
	DumpDir string `json:"dump_dir"`

	RequestDelay    Duration `json:"request_delay"`
	Concurrency     int      `json:"concurrency"`
	FetchTimeout    Duration `json:"fetch_timeout"`
	ProbeTimeout    Duration `json:"probe_timeout"`
	DownloadTimeout Duration `json:"download_timeout"`
	Timezone        string   `json:"timezone"`

	Smite1 SiteConfig `json:"smite1"`
	Smite2 SiteConfig `json:"smite2"`
}

type SiteConfig struct {
	BaseURL string `json:"base_url"`
	// CDN is where images are served from, only used by smite 1.
	CDN string `json:"cdn"`
}

// Duration is a time.Duration written as a string like "500ms" or "24h".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	// json5 also allows single quoted strings
	if len(data) >= 2 && (data[0] == '"' || data[0] == '\'') && data[len(data)-1] == data[0] {
		parsed, err := time.ParseDuration(string(data[1 : len(data)-1]))
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
	return fmt.Errorf("duration must be a string, got %s", data)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

func Defaults() Config {
	return Config{
		CatalogPath:     "packages/data/gods.json",
		PantheonsPath:   "packages/data/pantheons.json",
		AssetsDir:       "packages/web/public",
		PageCacheDir:    ".cache/pages",
		PageCacheTTL:    Duration(24 * time.Hour),
		RequestDelay:    Duration(500 * time.Millisecond),
		Concurrency:     5,
		FetchTimeout:    Duration(10 * time.Second),
		ProbeTimeout:    Duration(5 * time.Second),
		DownloadTimeout: Duration(15 * time.Second),
		Smite1: SiteConfig{
			BaseURL: "https://smite.fandom.com",
			CDN:     "https://static.wikia.nocookie.net/smite_gamepedia/images",
		},
		Smite2: SiteConfig{
			BaseURL: "https://wiki.smite2.com",
		},
	}
}

// Load reads the config file at path, or finds FileName by walking up from
// the working directory when path is empty. A missing file yields the
// defaults, unset fields are filled from the defaults.
func Load(path string) (Config, error) {
	var cfg Config
	var err error
	if path != "" {
		cfg, err = configutil.ReadConfig[Config](path)
	} else {
		cfg, err = configutil.ReadRecursively[Config](FileName)
	}
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && path == "":
		cfg = Config{}
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err = configutil.WithDefaults(cfg, Defaults())
	if err != nil {
		return Config{}, fmt.Errorf("apply config defaults: %w", err)
	}
	return cfg, nil
}
