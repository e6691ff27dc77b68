// Package zone holds the closed zone-category enumeration and the
// vocabulary of known zone names that backs both classification and
// fuzzy correction.
package zone

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmorley/portalmap/pkg/identity"
)

// Classifier maps a canonical zone id to its category. Implementations
// are pure lookups: no side effects, and they never fail — ids outside
// the vocabulary are Unknown.
type Classifier interface {
	Classify(id string) Category
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(id string) Category

// Classify calls the wrapped function.
func (f ClassifierFunc) Classify(id string) Category { return f(id) }

// Entry is one vocabulary row as spelled in the file.
type Entry struct {
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
}

// Vocabulary is the set of known zones. Entry order is preserved from the
// source file because fuzzy suggestion ties break on vocabulary order.
type Vocabulary struct {
	names []string
	byID  map[string]Category
}

// NewVocabulary builds a vocabulary from entries. Names are normalized to
// canonical ids; the first entry for an id wins and later duplicates are
// dropped.
func NewVocabulary(entries []Entry) *Vocabulary {
	v := &Vocabulary{
		names: make([]string, 0, len(entries)),
		byID:  make(map[string]Category, len(entries)),
	}
	for _, e := range entries {
		if !identity.Valid(e.Name) {
			continue
		}
		id := identity.Normalize(e.Name)
		if _, seen := v.byID[id]; seen {
			continue
		}
		v.byID[id] = e.Category
		v.names = append(v.names, id)
	}
	return v
}

// vocabularyFile is the on-disk YAML shape.
type vocabularyFile struct {
	Zones []Entry `yaml:"zones"`
}

// LoadFile reads a YAML vocabulary file.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}

	return NewVocabulary(f.Zones), nil
}

// Classify looks up the category for a canonical id. Unknown ids map to
// Unknown; Classify never fails.
func (v *Vocabulary) Classify(id string) Category {
	if c, ok := v.byID[id]; ok {
		return c
	}
	return Unknown
}

// Contains reports whether id is a known zone.
func (v *Vocabulary) Contains(id string) bool {
	_, ok := v.byID[id]
	return ok
}

// Names returns the canonical zone names in vocabulary order.
func (v *Vocabulary) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Size returns the number of known zones.
func (v *Vocabulary) Size() int {
	return len(v.names)
}
