// Package frameworks holds the static analytical-framework catalogue and
// ranks its entries against a brief's inferred theme profile.
package frameworks

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-stratagem/internal/domain"
)

// Catalogue invariants.
const (
	CatalogueSize  = 50
	DeepFrameworks = 12
)

// Catalogue loading errors.
var (
	ErrCatalogueSize      = errors.New("unexpected catalogue size")
	ErrDeepCount          = errors.New("unexpected number of deep frameworks")
	ErrDuplicateFramework = errors.New("duplicate framework id")
)

//go:embed catalogue.yaml
var catalogueYAML []byte

type catalogueFile struct {
	Frameworks []domain.FrameworkDefinition `yaml:"frameworks"`
}

var loadEmbedded = sync.OnceValues(func() ([]domain.FrameworkDefinition, error) {
	return LoadCatalogue(bytes.NewReader(catalogueYAML))
})

// Catalogue returns the embedded catalogue in its canonical order. The
// returned slice is a copy; callers may reorder it freely.
func Catalogue() ([]domain.FrameworkDefinition, error) {
	defs, err := loadEmbedded()
	if err != nil {
		return nil, err
	}
	return append([]domain.FrameworkDefinition(nil), defs...), nil
}

// Lookup returns the embedded catalogue entry with the given id.
func Lookup(id string) (domain.FrameworkDefinition, bool) {
	defs, err := loadEmbedded()
	if err != nil {
		return domain.FrameworkDefinition{}, false
	}
	for _, d := range defs {
		if d.ID == id {
			return d, true
		}
	}
	return domain.FrameworkDefinition{}, false
}

// LoadCatalogue decodes a YAML catalogue and checks its invariants: exactly
// CatalogueSize entries with unique ids, exactly DeepFrameworks of them deep,
// and every weight in [0, 1]. Unknown fields are rejected.
func LoadCatalogue(r io.Reader) ([]domain.FrameworkDefinition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogueFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue: %w", err)
	}

	defs := file.Frameworks
	if len(defs) != CatalogueSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCatalogueSize, len(defs), CatalogueSize)
	}

	seen := make(map[string]struct{}, len(defs))
	deep := 0
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFramework, d.ID)
		}
		seen[d.ID] = struct{}{}
		if d.Deep {
			deep++
		}
	}
	if deep != DeepFrameworks {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDeepCount, deep, DeepFrameworks)
	}
	return defs, nil
}
