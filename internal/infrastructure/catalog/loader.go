package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/lojabot/backend/internal/domain"
)

// Load reads the product catalog from a JSON file. The catalog is loaded
// once at startup and never mutated afterwards. A missing file is a
// recognized operating mode (empty catalog, nil error); a read or parse
// failure is returned so the caller can log it and keep serving with an
// empty catalog.
func Load(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", path).Msg("catalog file not found, search will yield no matches")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	log.Info().Int("products", len(products)).Str("path", path).Msg("catalog loaded")
	return products, nil
}
