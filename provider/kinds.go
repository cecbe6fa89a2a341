package provider

import (
	"github.com/metaobjects-dev/metaobjects/constraint"
	"github.com/metaobjects-dev/metaobjects/metadata"
	"github.com/metaobjects-dev/metaobjects/registry"
)

// KeyTypes registers key declarations (primary, secondary, foreign).
type KeyTypes struct{}

// ProviderID implements registry.Provider.
func (KeyTypes) ProviderID() string { return "key-types" }

// Description implements registry.Provider.
func (KeyTypes) Description() string { return "primary, secondary, and foreign key types" }

// Dependencies implements registry.Provider.
func (KeyTypes) Dependencies() []string { return []string{"field-types"} }

// RegisterTypes implements registry.Provider.
func (KeyTypes) RegisterTypes(r *registry.Registry) error {
	defs := []*registry.TypeDefinition{
		registry.NewType(metadata.TypeKey, metadata.SubTypeBase).
			Description("base key type").
			Implementation("key").
			OptionalChild(metadata.TypeAttr, registry.Wildcard, registry.Wildcard).
			OptionalAttr(metadata.AttrNameKeys, metadata.AttrStringArray),
		registry.NewType(metadata.TypeKey, metadata.KeyPrimary).
			Description("primary key declaration").
			Inherits(metadata.TypeKey, metadata.SubTypeBase),
		registry.NewType(metadata.TypeKey, metadata.KeySecondary).
			Description("secondary key declaration").
			Inherits(metadata.TypeKey, metadata.SubTypeBase),
		registry.NewType(metadata.TypeKey, metadata.KeyForeign).
			Description("foreign key declaration").
			Inherits(metadata.TypeKey, metadata.SubTypeBase).
			RequiredAttr(metadata.AttrNameTargetObject, metadata.AttrString),
	}
	for _, d := range defs {
		if err := r.RegisterType(d); err != nil {
			return err
		}
	}
	return nil
}

// ValidatorTypes registers field validators.
type ValidatorTypes struct{}

// ProviderID implements registry.Provider.
func (ValidatorTypes) ProviderID() string { return "validator-types" }

// Description implements registry.Provider.
func (ValidatorTypes) Description() string { return "standard field validator types" }

// Dependencies implements registry.Provider.
func (ValidatorTypes) Dependencies() []string { return []string{"core-base-types"} }

// RegisterTypes implements registry.Provider.
func (ValidatorTypes) RegisterTypes(r *registry.Registry) error {
	defs := []*registry.TypeDefinition{
		registry.NewType(metadata.TypeValidator, metadata.SubTypeBase).
			Description("base validator type").
			Implementation("validator").
			OptionalChild(metadata.TypeAttr, registry.Wildcard, registry.Wildcard),
		registry.NewType(metadata.TypeValidator, metadata.ValidatorRequired).
			Description("value must be present").
			Inherits(metadata.TypeValidator, metadata.SubTypeBase),
		registry.NewType(metadata.TypeValidator, metadata.ValidatorRegex).
			Description("value must match a pattern").
			Inherits(metadata.TypeValidator, metadata.SubTypeBase).
			RequiredAttr("mask", metadata.AttrString),
		registry.NewType(metadata.TypeValidator, metadata.ValidatorLength).
			Description("value length must fall in a range").
			Inherits(metadata.TypeValidator, metadata.SubTypeBase).
			OptionalAttr("min", metadata.AttrInt).
			OptionalAttr("max", metadata.AttrInt),
		registry.NewType(metadata.TypeValidator, metadata.ValidatorNumeric).
			Description("value must be numeric").
			Inherits(metadata.TypeValidator, metadata.SubTypeBase),
	}
	for _, d := range defs {
		if err := r.RegisterType(d); err != nil {
			return err
		}
	}
	return nil
}

// ViewTypes registers field view types consumed by rendering layers.
type ViewTypes struct{}

// ProviderID implements registry.Provider.
func (ViewTypes) ProviderID() string { return "view-types" }

// Description implements registry.Provider.
func (ViewTypes) Description() string { return "standard field view types" }

// Dependencies implements registry.Provider.
func (ViewTypes) Dependencies() []string { return []string{"core-base-types"} }

// RegisterTypes implements registry.Provider.
func (ViewTypes) RegisterTypes(r *registry.Registry) error {
	defs := []*registry.TypeDefinition{
		registry.NewType(metadata.TypeView, metadata.SubTypeBase).
			Description("base view type").
			Implementation("view").
			OptionalChild(metadata.TypeAttr, registry.Wildcard, registry.Wildcard),
		registry.NewType(metadata.TypeView, metadata.ViewText).
			Description("text rendering").
			Inherits(metadata.TypeView, metadata.SubTypeBase),
		registry.NewType(metadata.TypeView, metadata.ViewDate).
			Description("date rendering").
			Inherits(metadata.TypeView, metadata.SubTypeBase),
		registry.NewType(metadata.TypeView, metadata.ViewNumeric).
			Description("numeric rendering").
			Inherits(metadata.TypeView, metadata.SubTypeBase),
	}
	for _, d := range defs {
		if err := r.RegisterType(d); err != nil {
			return err
		}
	}
	return nil
}

// RelationshipTypes registers object-to-object relationship types.
type RelationshipTypes struct{}

// ProviderID implements registry.Provider.
func (RelationshipTypes) ProviderID() string { return "relationship-types" }

// Description implements registry.Provider.
func (RelationshipTypes) Description() string { return "association, composition, and aggregation relationships" }

// Dependencies implements registry.Provider.
func (RelationshipTypes) Dependencies() []string { return []string{"core-base-types"} }

// RegisterTypes implements registry.Provider.
func (RelationshipTypes) RegisterTypes(r *registry.Registry) error {
	defs := []*registry.TypeDefinition{
		registry.NewType(metadata.TypeRelationship, metadata.SubTypeBase).
			Description("base relationship type").
			Implementation("relationship").
			OptionalChild(metadata.TypeAttr, registry.Wildcard, registry.Wildcard).
			RequiredAttr(metadata.AttrNameTargetObject, metadata.AttrString),
		registry.NewType(metadata.TypeRelationship, metadata.RelAssociation).
			Description("loose reference to another object").
			Inherits(metadata.TypeRelationship, metadata.SubTypeBase),
		registry.NewType(metadata.TypeRelationship, metadata.RelComposition).
			Description("owned containment of another object").
			Inherits(metadata.TypeRelationship, metadata.SubTypeBase),
		registry.NewType(metadata.TypeRelationship, metadata.RelAggregation).
			Description("shared containment of another object").
			Inherits(metadata.TypeRelationship, metadata.SubTypeBase),
	}
	for _, d := range defs {
		if err := r.RegisterType(d); err != nil {
			return err
		}
	}
	return nil
}

// RegisterConstraints implements ConstraintProvider.
func (RelationshipTypes) RegisterConstraints(cr *constraint.Registry) error {
	rels := constraint.Pattern{Type: metadata.TypeRelationship, SubType: constraint.Wildcard}

	cr.MustAdd(
		constraint.ValidateAttr("relationship.targetObject.name",
			"targetObject must be a metadata name", rels, metadata.AttrNameTargetObject, checkMetaName),
	)
	return nil
}
