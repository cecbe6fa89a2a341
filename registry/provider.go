package registry

import (
	"go.uber.org/zap"

	"github.com/metaobjects-dev/metaobjects/metadata"
)

// Provider is an independent registration unit extending the type system.
// Providers declare explicit dependencies on other providers by id; the
// runner orders them topologically so a provider may rely on everything
// its dependencies registered.
type Provider interface {
	// ProviderID uniquely identifies the provider, e.g. "field-types".
	ProviderID() string
	// Description is a human-readable summary of what the provider adds.
	Description() string
	// Dependencies lists the provider ids that must run first.
	Dependencies() []string
	// RegisterTypes registers the provider's type definitions. By the
	// time it runs, all dependencies have registered theirs.
	RegisterTypes(r *Registry) error
}

// SortProviders orders providers topologically by declared dependency,
// with declaration order as the stable tie-break. It fails with an error
// wrapping metadata.ErrProviderDependency when a declared dependency is
// absent or the dependency graph contains a cycle.
func SortProviders(providers []Provider) ([]Provider, error) {
	byID := make(map[string]Provider, len(providers))
	for _, p := range providers {
		id := p.ProviderID()
		if _, exists := byID[id]; exists {
			return nil, enrichf(metadata.ErrProviderDependency, "provider id %q registered twice", id)
		}
		byID[id] = p
	}

	var (
		sorted   []Provider
		done     = map[string]bool{}
		visiting = map[string]bool{}
		visit    func(p Provider, chain []string) error
	)
	visit = func(p Provider, chain []string) error {
		id := p.ProviderID()
		if done[id] {
			return nil
		}
		if visiting[id] {
			return enrichf(metadata.ErrProviderDependency, "dependency cycle: %v -> %s", chain, id)
		}
		visiting[id] = true
		for _, dep := range p.Dependencies() {
			dp, ok := byID[dep]
			if !ok {
				return enrichf(metadata.ErrProviderDependency, "provider %q depends on unknown provider %q", id, dep)
			}
			if err := visit(dp, append(chain, id)); err != nil {
				return err
			}
		}
		visiting[id] = false
		done[id] = true
		sorted = append(sorted, p)
		return nil
	}

	for _, p := range providers {
		if err := visit(p, nil); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

// RunProviders executes providers in dependency order against the
// registry, then eagerly resolves every registered type so inheritance
// cycles and conflicts fail here, during the registration phase.
func (r *Registry) RunProviders(providers ...Provider) error {
	sorted, err := SortProviders(providers)
	if err != nil {
		return err
	}
	for _, p := range sorted {
		r.log.Debug("running type provider",
			zap.String("provider", p.ProviderID()),
			zap.Strings("dependencies", p.Dependencies()))
		if err := p.RegisterTypes(r); err != nil {
			return err
		}
	}
	return r.ResolveAll()
}
