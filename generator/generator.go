// Package generator implements code and schema emitters that walk a
// resolved metadata graph. Emitters are read-only consumers: they see
// the graph only after the loader has validated and published it.
package generator

import (
	"fmt"
	"io"

	"github.com/metaobjects-dev/metaobjects/loader"
)

// Generator emits one output format for a loaded metadata graph.
type Generator interface {
	// Name identifies the generator, e.g. "jsonschema".
	Name() string
	// Generate writes the emitter's output for the loader's published
	// graph.
	Generate(w io.Writer, l *loader.Loader) error
}

// ByName returns the named built-in generator.
func ByName(name string) (Generator, error) {
	for _, g := range Builtin() {
		if g.Name() == name {
			return g, nil
		}
	}
	return nil, fmt.Errorf("unknown generator %q", name)
}

// Builtin returns the built-in generators.
func Builtin() []Generator {
	return []Generator{
		&JSONSchemaGenerator{},
		&GoStructGenerator{},
	}
}
