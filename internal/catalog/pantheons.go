package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pantheon is one entry of the pantheon index.
type Pantheon struct {
	Name     string `json:"name"`
	IconPath string `json:"iconPath,omitempty"`
}

func LoadPantheons(path string) ([]Pantheon, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pantheons: %w", err)
	}
	var pantheons []Pantheon
	err = json.Unmarshal(contents, &pantheons)
	if err != nil {
		return nil, fmt.Errorf("decode pantheons %s: %w", path, err)
	}
	return pantheons, nil
}

func SavePantheons(path string, pantheons []Pantheon) error {
	if pantheons == nil {
		pantheons = []Pantheon{}
	}
	return writeJSON(path, pantheons)
}
