package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"arewesmite2yet/internal/catalog"
)

// imageDirs are removed by Clean, relative to the assets dir.
var imageDirs = []string{
	"images/thumbnails",
	"images/gods",
	"images/pantheons",
}

// Clean deletes every downloaded image and strips the image paths from the
// catalog.
func (p *Pipeline) Clean(entities []catalog.Entity) ([]catalog.Entity, Summary, error) {
	summary := Summary{Stage: StageClean}

	removed := 0
	for _, dir := range imageDirs {
		full := filepath.Join(p.opts.AssetsDir, filepath.FromSlash(dir))
		_, err := os.Stat(full)
		if os.IsNotExist(err) {
			continue
		}
		err = os.RemoveAll(full)
		if err != nil {
			return nil, summary, fmt.Errorf("remove %s: %w", full, err)
		}
		removed++
	}

	out := make([]catalog.Entity, len(entities))
	copy(out, entities)
	for i := range out {
		out[i].ClearImages()
	}

	summary.add("dirs removed", removed)
	summary.add("entities cleared", len(out))
	return out, summary, nil
}
