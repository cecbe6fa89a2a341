package provider

import (
	"github.com/metaobjects-dev/metaobjects/constraint"
	"github.com/metaobjects-dev/metaobjects/metadata"
	"github.com/metaobjects-dev/metaobjects/registry"
)

// ObjectTypes registers the object type family: the aggregates that own
// fields, keys, views, validators, and relationships.
type ObjectTypes struct{}

// ProviderID implements registry.Provider.
func (ObjectTypes) ProviderID() string { return "object-types" }

// Description implements registry.Provider.
func (ObjectTypes) Description() string { return "standard object types" }

// Dependencies implements registry.Provider.
func (ObjectTypes) Dependencies() []string { return []string{"field-types"} }

// RegisterTypes implements registry.Provider.
func (ObjectTypes) RegisterTypes(r *registry.Registry) error {
	defs := []*registry.TypeDefinition{
		registry.NewType(metadata.TypeObject, metadata.SubTypeBase).
			Description("base object type").
			Implementation("object").
			OptionalChild(metadata.TypeField, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeKey, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeValidator, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeView, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeRelationship, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeAttr, registry.Wildcard, registry.Wildcard).
			OptionalAttr(metadata.AttrNameDBTable, metadata.AttrString).
			OptionalAttr(metadata.AttrNameXMLName, metadata.AttrString),

		registry.NewType(metadata.TypeObject, metadata.ObjectPojo).
			Description("plain value object").
			Inherits(metadata.TypeObject, metadata.SubTypeBase),
		registry.NewType(metadata.TypeObject, metadata.ObjectProxy).
			Description("interface-backed proxy object").
			Inherits(metadata.TypeObject, metadata.SubTypeBase),
		registry.NewType(metadata.TypeObject, metadata.ObjectMap).
			Description("map-backed object").
			Inherits(metadata.TypeObject, metadata.SubTypeBase),
	}
	for _, d := range defs {
		if err := r.RegisterType(d); err != nil {
			return err
		}
	}
	return nil
}

// RegisterConstraints implements ConstraintProvider.
func (ObjectTypes) RegisterConstraints(cr *constraint.Registry) error {
	objects := constraint.Pattern{Type: metadata.TypeObject, SubType: constraint.Wildcard}

	cr.MustAdd(
		constraint.ValidateAttr("object.dbTable.identifier",
			"dbTable must be a legal SQL identifier", objects, metadata.AttrNameDBTable, checkSQLIdentifier),
	)
	return nil
}
