// Package catalog loads and builds the club catalog.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"clubelo/ratings/internal/models"

	"github.com/rs/zerolog/log"
)

// Load reads the club catalog. Entries without an id or a name are
// dropped with a warning.
func Load(path string) ([]models.Club, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var inputs []models.ClubInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}

	clubs := make([]models.Club, 0, len(inputs))
	for i := range inputs {
		if !inputs[i].Valid() {
			log.Warn().Int("index", i).Str("name", inputs[i].Name).Msg("Invalid catalog entry skipped")
			continue
		}
		clubs = append(clubs, *inputs[i].ToClub())
	}

	if len(clubs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCatalog, path)
	}

	log.Info().Str("path", path).Int("clubs", len(clubs)).Msg("Club catalog loaded")
	return clubs, nil
}

// Save writes the catalog as indented JSON
func Save(path string, clubs []models.Club) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(clubs); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return f.Close()
}
