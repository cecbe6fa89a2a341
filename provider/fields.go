package provider

import (
	"fmt"
	"strings"

	"github.com/metaobjects-dev/metaobjects/constraint"
	"github.com/metaobjects-dev/metaobjects/metadata"
	"github.com/metaobjects-dev/metaobjects/registry"
)

// FieldTypes registers the field type family and the attribute contracts
// specific to fields.
type FieldTypes struct{}

// ProviderID implements registry.Provider.
func (FieldTypes) ProviderID() string { return "field-types" }

// Description implements registry.Provider.
func (FieldTypes) Description() string { return "standard field types and field attribute contracts" }

// Dependencies implements registry.Provider.
func (FieldTypes) Dependencies() []string { return []string{"core-base-types"} }

// RegisterTypes implements registry.Provider.
func (FieldTypes) RegisterTypes(r *registry.Registry) error {
	defs := []*registry.TypeDefinition{
		registry.NewType(metadata.TypeField, metadata.SubTypeBase).
			Description("base field type").
			Implementation("field").
			OptionalChild(metadata.TypeAttr, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeValidator, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeView, registry.Wildcard, registry.Wildcard).
			OptionalAttr(metadata.AttrNameIsKey, metadata.AttrBoolean).
			OptionalAttr(metadata.AttrNameDefaultValue, metadata.AttrString).
			OptionalAttr(metadata.AttrNameObjectRef, metadata.AttrString).
			OptionalAttr(metadata.AttrNameDBColumn, metadata.AttrString).
			OptionalAttr(metadata.AttrNameXMLName, metadata.AttrString).
			OptionalAttr(metadata.AttrNameXMLWrap, metadata.AttrBoolean),

		registry.NewType(metadata.TypeField, metadata.FieldString).
			Description("string field").
			Inherits(metadata.TypeField, metadata.SubTypeBase).
			OptionalAttr(metadata.AttrNameMaxLength, metadata.AttrInt),
		registry.NewType(metadata.TypeField, metadata.FieldInt).
			Description("32-bit integer field").
			Inherits(metadata.TypeField, metadata.SubTypeBase),
		registry.NewType(metadata.TypeField, metadata.FieldLong).
			Description("64-bit integer field").
			Inherits(metadata.TypeField, metadata.SubTypeBase),
		registry.NewType(metadata.TypeField, metadata.FieldDouble).
			Description("double precision field").
			Inherits(metadata.TypeField, metadata.SubTypeBase),
		registry.NewType(metadata.TypeField, metadata.FieldBoolean).
			Description("boolean field").
			Inherits(metadata.TypeField, metadata.SubTypeBase),
		registry.NewType(metadata.TypeField, metadata.FieldDate).
			Description("date field").
			Inherits(metadata.TypeField, metadata.SubTypeBase),
	}
	for _, d := range defs {
		if err := r.RegisterType(d); err != nil {
			return err
		}
	}
	return nil
}

// RegisterConstraints implements ConstraintProvider.
func (FieldTypes) RegisterConstraints(cr *constraint.Registry) error {
	fields := constraint.Pattern{Type: metadata.TypeField, SubType: constraint.Wildcard}

	cr.MustAdd(
		constraint.ValidateAttr("field.isKey.boolean",
			"isKey must be a boolean", fields, metadata.AttrNameIsKey, checkBoolean),

		constraint.ValidateAttr("field.maxLength.positive",
			"maxLength must be a positive integer", fields, metadata.AttrNameMaxLength, checkPositiveInt),

		constraint.ValidateAttr("field.objectRef.name",
			"objectRef must be a metadata name", fields, metadata.AttrNameObjectRef, checkMetaName),

		constraint.ValidateAttr("field.dbColumn.identifier",
			"dbColumn must be a legal SQL identifier", fields, metadata.AttrNameDBColumn, checkSQLIdentifier),
	)
	return nil
}

// checkMetaName accepts absolute and relative package-qualified names.
func checkMetaName(_ *metadata.MetaData, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("reference name is empty")
	}
	return nil
}
