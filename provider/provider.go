// Package provider ships the built-in type providers: the registration
// units that populate the type registry and constraint engine with the
// standard metadata type tree (objects, fields, attributes, keys, views,
// validators, relationships) and the attribute contracts collaborators
// rely on. Host applications add their own providers alongside these.
package provider

import (
	"go.uber.org/zap"

	"github.com/metaobjects-dev/metaobjects/constraint"
	"github.com/metaobjects-dev/metaobjects/registry"
)

// ConstraintProvider is implemented by providers that register
// constraints in addition to types. Constraints are registered in the
// same dependency order as types.
type ConstraintProvider interface {
	RegisterConstraints(cr *constraint.Registry) error
}

// RegisterAll orders providers by declared dependency and runs each
// against the type registry and, where implemented, the constraint
// registry; it then resolves every registered type so registration-phase
// errors surface here.
func RegisterAll(types *registry.Registry, constraints *constraint.Registry, providers ...registry.Provider) error {
	sorted, err := registry.SortProviders(providers)
	if err != nil {
		return err
	}
	for _, p := range sorted {
		if err := p.RegisterTypes(types); err != nil {
			return err
		}
		if cp, ok := p.(ConstraintProvider); ok {
			if err := cp.RegisterConstraints(constraints); err != nil {
				return err
			}
		}
	}
	return types.ResolveAll()
}

// Builtin returns the built-in providers in declaration order.
func Builtin() []registry.Provider {
	return []registry.Provider{
		CoreBaseTypes{},
		FieldTypes{},
		ObjectTypes{},
		KeyTypes{},
		ValidatorTypes{},
		ViewTypes{},
		RelationshipTypes{},
	}
}

// Bootstrap creates a type registry and constraint registry populated
// with all built-in providers. This is the standard starting point for
// hosts and tests.
func Bootstrap(log *zap.Logger) (*registry.Registry, *constraint.Registry, error) {
	types := registry.New(log)
	constraints := constraint.NewRegistry()
	if err := RegisterAll(types, constraints, Builtin()...); err != nil {
		return nil, nil, err
	}
	return types, constraints, nil
}
