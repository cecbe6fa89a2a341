package registry

import (
	"sync"

	"go.uber.org/zap"

	"github.com/metaobjects-dev/metaobjects/metadata"
)

// Registry is the single source of truth for registered (type, subType)
// combinations. It is written during the provider registration phase and
// read-only afterwards; reads take the shared lock only because tests may
// register types outside the provider flow.
type Registry struct {
	mu       sync.RWMutex
	types    map[TypeID]*TypeDefinition
	resolved map[TypeID]*EffectiveType
	order    []TypeID // registration order, for deterministic listings
	log      *zap.Logger
}

// New creates an empty registry. A nil logger defaults to no-op.
func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		types:    make(map[TypeID]*TypeDefinition),
		resolved: make(map[TypeID]*EffectiveType),
		log:      log,
	}
}

// RegisterType registers a type definition. Re-registering an identical
// definition is a no-op; re-registering an incompatible one fails with an
// error wrapping metadata.ErrDuplicateType.
func (r *Registry) RegisterType(def *TypeDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.types[def.id]; ok {
		if existing.equal(def) {
			return nil
		}
		return enrichf(metadata.ErrDuplicateType, "type %s re-registered with an incompatible definition", def.id)
	}
	def.state = stateRegistered
	r.types[def.id] = def
	r.order = append(r.order, def.id)
	r.log.Debug("registered type", zap.String("type", def.id.String()))
	return nil
}

// HasType reports whether the (type, subType) pair is registered.
func (r *Registry) HasType(typ, subType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[TypeID{Type: typ, SubType: subType}]
	return ok
}

// FindType returns the effective (post-inheritance) definition for the
// pair, resolving it on first lookup. It fails with an error wrapping
// metadata.ErrTypeNotFound for unregistered pairs.
func (r *Registry) FindType(typ, subType string) (*EffectiveType, error) {
	id := TypeID{Type: typ, SubType: subType}

	r.mu.RLock()
	eff, ok := r.resolved[id]
	r.mu.RUnlock()
	if ok {
		return eff, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(id, nil)
}

// RequireType is FindType for callers that treat absence as fatal.
func (r *Registry) RequireType(typ, subType string) *EffectiveType {
	eff, err := r.FindType(typ, subType)
	if err != nil {
		panic(err)
	}
	return eff
}

// ResolveAll eagerly resolves every registered definition, surfacing
// inheritance cycles and conflicts at the end of the registration phase
// rather than at first lookup.
func (r *Registry) ResolveAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if _, err := r.resolveLocked(id, nil); err != nil {
			return err
		}
	}
	return nil
}

// TypeIDs returns all registered ids in registration order.
func (r *Registry) TypeIDs() []TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TypeID, len(r.order))
	copy(out, r.order)
	return out
}

// NewInstance constructs a metadata node of a registered type, failing
// with an error wrapping metadata.ErrTypeNotFound when the pair is
// unknown. This is the choke point that upholds the invariant that no
// node exists for an unregistered (type, subType).
func (r *Registry) NewInstance(typ, subType, name string) (*metadata.MetaData, error) {
	if _, err := r.FindType(typ, subType); err != nil {
		return nil, err
	}
	return metadata.New(typ, subType, name), nil
}
