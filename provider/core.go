package provider

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/metaobjects-dev/metaobjects/constraint"
	"github.com/metaobjects-dev/metaobjects/metadata"
	"github.com/metaobjects-dev/metaobjects/registry"
)

// CoreBaseTypes registers the universal root type, the attribute types,
// and the cross-cutting attribute contracts every other provider builds
// on. It has no dependencies and therefore always runs first.
type CoreBaseTypes struct{}

// ProviderID implements registry.Provider.
func (CoreBaseTypes) ProviderID() string { return "core-base-types" }

// Description implements registry.Provider.
func (CoreBaseTypes) Description() string {
	return "root metadata type, attribute types, and core attribute contracts"
}

// Dependencies implements registry.Provider.
func (CoreBaseTypes) Dependencies() []string { return nil }

// RegisterTypes implements registry.Provider.
func (CoreBaseTypes) RegisterTypes(r *registry.Registry) error {
	defs := []*registry.TypeDefinition{
		registry.NewType(metadata.TypeMetaData, metadata.SubTypeBase).
			Description("root metadata container").
			Implementation("metadata").
			OptionalChild(metadata.TypeMetaData, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeObject, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeField, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeAttr, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeValidator, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeView, registry.Wildcard, registry.Wildcard).
			OptionalChild(metadata.TypeKey, registry.Wildcard, registry.Wildcard),

		registry.NewType(metadata.TypeAttr, metadata.SubTypeBase).
			Description("base attribute type").
			Implementation("attr"),
		registry.NewType(metadata.TypeAttr, metadata.AttrString).
			Description("string attribute").
			Inherits(metadata.TypeAttr, metadata.SubTypeBase),
		registry.NewType(metadata.TypeAttr, metadata.AttrInt).
			Description("integer attribute").
			Inherits(metadata.TypeAttr, metadata.SubTypeBase),
		registry.NewType(metadata.TypeAttr, metadata.AttrBoolean).
			Description("boolean attribute").
			Inherits(metadata.TypeAttr, metadata.SubTypeBase),
		registry.NewType(metadata.TypeAttr, metadata.AttrStringArray).
			Description("comma-separated string list attribute").
			Inherits(metadata.TypeAttr, metadata.SubTypeBase),
	}
	for _, d := range defs {
		if err := r.RegisterType(d); err != nil {
			return err
		}
	}
	return nil
}

var xmlNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// RegisterConstraints implements ConstraintProvider.
func (CoreBaseTypes) RegisterConstraints(cr *constraint.Registry) error {
	anyNode := constraint.Pattern{Type: constraint.Wildcard, SubType: constraint.Wildcard}
	attrs := constraint.Pattern{Type: metadata.TypeAttr, SubType: constraint.Wildcard}

	cr.MustAdd(
		// Attributes are the open extension point: any metadata node may
		// carry them.
		constraint.AllowChild("core.attr.placement",
			"any metadata may carry attributes", anyNode, attrs),

		constraint.ValidateAttr("core.xmlName.format",
			"xmlName must be a legal XML identifier", anyNode, metadata.AttrNameXMLName,
			func(_ *metadata.MetaData, value string) error {
				if !xmlNamePattern.MatchString(value) {
					return fmt.Errorf("%q is not a legal XML identifier", value)
				}
				return nil
			}),

		constraint.ValidateAttr("core.xmlWrap.boolean",
			"xmlWrap must be a boolean", anyNode, metadata.AttrNameXMLWrap, checkBoolean),
	)
	return nil
}

func checkBoolean(_ *metadata.MetaData, value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("%q is not a boolean", value)
	}
	return nil
}

func checkPositiveInt(_ *metadata.MetaData, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("%q is not a positive integer", value)
	}
	return nil
}

var sqlIdentifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkSQLIdentifier(_ *metadata.MetaData, value string) error {
	if !sqlIdentifierPattern.MatchString(value) {
		return fmt.Errorf("%q is not a legal SQL identifier", value)
	}
	return nil
}
