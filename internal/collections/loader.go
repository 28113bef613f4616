package collections

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goliatone/go-guestentries/entries"
	"gopkg.in/yaml.v3"
)

type document struct {
	Collections []*entries.Collection `yaml:"collections"`
}

// Parse decodes a YAML document listing collections and their blueprints.
func Parse(data []byte) ([]*entries.Collection, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("collections: decode blueprints: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Collections))
	for i, collection := range doc.Collections {
		if collection == nil || collection.Handle == "" {
			return nil, entries.Misconfigured(fmt.Sprintf("collections[%d].handle", i), "collection handle is required")
		}
		if _, dup := seen[collection.Handle]; dup {
			return nil, entries.Misconfigured(collection.Handle, "duplicate collection handle")
		}
		seen[collection.Handle] = struct{}{}
	}
	return doc.Collections, nil
}

// LoadFile reads collections from a YAML file.
func LoadFile(path string) ([]*entries.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("collections: read %s: %w", path, err)
	}
	return Parse(data)
}
