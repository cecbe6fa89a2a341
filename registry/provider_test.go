package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaobjects-dev/metaobjects/metadata"
)

type fakeProvider struct {
	id   string
	deps []string
	defs []*TypeDefinition
}

func (p fakeProvider) ProviderID() string { return p.id }

func (p fakeProvider) Description() string { return "test provider " + p.id }

func (p fakeProvider) Dependencies() []string { return p.deps }
func (p fakeProvider) RegisterTypes(r *Registry) error {
	for _, d := range p.defs {
		if err := r.RegisterType(d); err != nil {
			return err
		}
	}
	return nil
}

func providerIDs(ps []Provider) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ProviderID())
	}
	return out
}

func TestSortProvidersDependencyOrder(t *testing.T) {
	// Declared in reverse of their dependency order.
	sorted, err := SortProviders([]Provider{
		fakeProvider{id: "objects", deps: []string{"fields"}},
		fakeProvider{id: "fields", deps: []string{"core"}},
		fakeProvider{id: "core"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "fields", "objects"}, providerIDs(sorted))
}

func TestSortProvidersStableTieBreak(t *testing.T) {
	// Independent providers keep declaration order.
	sorted, err := SortProviders([]Provider{
		fakeProvider{id: "views", deps: []string{"core"}},
		fakeProvider{id: "core"},
		fakeProvider{id: "validators", deps: []string{"core"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "views", "validators"}, providerIDs(sorted))
}

func TestSortProvidersUnknownDependency(t *testing.T) {
	_, err := SortProviders([]Provider{
		fakeProvider{id: "fields", deps: []string{"core"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrProviderDependency))
	assert.Contains(t, err.Error(), `"core"`)
}

func TestSortProvidersDuplicateID(t *testing.T) {
	_, err := SortProviders([]Provider{
		fakeProvider{id: "core"},
		fakeProvider{id: "core"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrProviderDependency))
	assert.Contains(t, err.Error(), `"core"`)
}

func TestSortProvidersCycle(t *testing.T) {
	_, err := SortProviders([]Provider{
		fakeProvider{id: "a", deps: []string{"b"}},
		fakeProvider{id: "b", deps: []string{"a"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrProviderDependency))
}

func TestRunProvidersRegistersAndResolves(t *testing.T) {
	r := New(nil)

	err := r.RunProviders(
		fakeProvider{id: "fields", deps: []string{"core"}, defs: []*TypeDefinition{
			NewType("field", "base").Inherits("metadata", "base"),
		}},
		fakeProvider{id: "core", defs: []*TypeDefinition{
			NewType("metadata", "base").OptionalChild("*", "*", "*"),
		}},
	)
	require.NoError(t, err)

	eff, err := r.FindType("field", "base")
	require.NoError(t, err)
	assert.True(t, eff.AcceptsChild("attr", "string", "x"))
}

func TestRunProvidersSurfacesResolutionErrors(t *testing.T) {
	r := New(nil)

	err := r.RunProviders(
		fakeProvider{id: "broken", defs: []*TypeDefinition{
			NewType("a", "x").Inherits("a", "y"),
			NewType("a", "y").Inherits("a", "x"),
		}},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrCyclicInheritance))
}
