package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

//go:embed rooms.yaml
var defaultRooms []byte

type document struct {
	Rooms []model.Room `yaml:"rooms"`
}

// YAMLLoader reads the catalog from a YAML file.  An empty Path selects the
// embedded default catalog.
type YAMLLoader struct {
	Path string
}

// LoadRooms reads and validates the catalog.
func (l YAMLLoader) LoadRooms(_ context.Context) ([]model.Room, error) {
	data := defaultRooms
	if l.Path != "" {
		b, err := os.ReadFile(l.Path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document and validates it.
func Parse(data []byte) ([]model.Room, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(doc.Rooms) == 0 {
		return nil, fmt.Errorf("%w: no rooms", ErrInvalidCatalog)
	}
	if err := Validate(doc.Rooms); err != nil {
		return nil, err
	}
	sortRooms(doc.Rooms)
	return doc.Rooms, nil
}
