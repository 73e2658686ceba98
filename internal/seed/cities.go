// Package seed loads reference data and generates demo content.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"cafehub/internal/models"
	"cafehub/internal/repository"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed cities.yml
var citiesYAML []byte

type cityFile struct {
	Cities []models.City `yaml:"cities"`
}

// BuiltInCities returns the city list shipped with the binary.
func BuiltInCities() ([]models.City, error) {
	return parseCities(citiesYAML)
}

func parseCities(data []byte) ([]models.City, error) {
	var file cityFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse cities: %w", err)
	}

	seen := make(map[string]bool, len(file.Cities))
	for i := range file.Cities {
		c := &file.Cities[i]
		c.Code = strings.TrimSpace(c.Code)
		c.State = strings.ToUpper(strings.TrimSpace(c.State))
		switch {
		case c.Code == "":
			return nil, fmt.Errorf("city %d: missing code", i)
		case strings.TrimSpace(c.Name) == "":
			return nil, fmt.Errorf("city %q: missing name", c.Code)
		case len(c.State) != 2:
			return nil, fmt.Errorf("city %q: state must be a two-letter abbreviation", c.Code)
		case seen[c.Code]:
			return nil, fmt.Errorf("city %q: duplicate code", c.Code)
		}
		seen[c.Code] = true
	}
	return file.Cities, nil
}

// Cities upserts the built-in cities and returns how many rows were written.
// Running it again refreshes names without duplicating rows.
func Cities(ctx context.Context, db *gorm.DB) (int64, error) {
	cities, err := BuiltInCities()
	if err != nil {
		return 0, err
	}
	return repository.NewCityRepository(db).Upsert(ctx, cities)
}
