// Package errcode maps the authority's numeric error codes to messages.
package errcode

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Catalog looks up the message for a numeric error code
type Catalog interface {
	Message(code int) (string, bool)
}

// MapCatalog is a Catalog backed by a map
type MapCatalog map[int]string

// Message implements Catalog
func (c MapCatalog) Message(code int) (string, bool) {
	msg, ok := c[code]
	return msg, ok
}

//go:embed codes.yaml
var defaultCodes []byte

var (
	defaultOnce    sync.Once
	defaultCatalog MapCatalog
)

// Default returns the embedded catalog of authority error codes
func Default() Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCodes)
		if err != nil {
			panic(fmt.Sprintf("errcode: embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse reads a YAML mapping of numeric codes to messages
func Parse(data []byte) (MapCatalog, error) {
	var c MapCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse error catalog: %w", err)
	}
	if c == nil {
		c = MapCatalog{}
	}
	return c, nil
}

// Merge returns a catalog that consults overrides first and falls back to base
func Merge(base Catalog, overrides MapCatalog) Catalog {
	return layered{overrides: overrides, base: base}
}

type layered struct {
	overrides MapCatalog
	base      Catalog
}

func (l layered) Message(code int) (string, bool) {
	if msg, ok := l.overrides.Message(code); ok {
		return msg, true
	}
	if l.base == nil {
		return "", false
	}
	return l.base.Message(code)
}
