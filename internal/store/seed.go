package store

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"

	"taskflow/internal/models"
)

//go:embed seed/*.json
var seedFS embed.FS

// Fixtures is the startup data set. Tasks are ordered most recent first.
type Fixtures struct {
	Tasks      []models.Task
	Lists      []models.List
	Categories []models.Category
}

// LoadFixtures decodes the embedded seed data.
func LoadFixtures() (Fixtures, error) {
	var f Fixtures
	if err := readFixture("tasks.json", &f.Tasks); err != nil {
		return Fixtures{}, err
	}
	if err := readFixture("lists.json", &f.Lists); err != nil {
		return Fixtures{}, err
	}
	if err := readFixture("categories.json", &f.Categories); err != nil {
		return Fixtures{}, err
	}
	return f, nil
}

func readFixture(name string, dst any) error {
	content, err := seedFS.ReadFile(path.Join("seed", name))
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(content, dst); err != nil {
		return fmt.Errorf("failed to decode fixture %s: %w", name, err)
	}
	return nil
}
