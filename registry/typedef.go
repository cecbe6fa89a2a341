// Package registry implements the process-level catalog of legal
// (type, subType) combinations: their descriptions, implementation
// bindings, allowed-children rules, attribute requirements, and
// inheritance edges. Registration happens once at startup through
// providers ordered by declared dependencies; after resolution the
// registry is read-only and safe for concurrent use.
package registry

import (
	"fmt"
	"sort"
)

// Wildcard matches any name, type, or subType in a requirement pattern.
const Wildcard = "*"

// TypeID identifies a registered kind of metadata node.
type TypeID struct {
	Type    string
	SubType string
}

// String renders the id as "type.subType".
func (id TypeID) String() string { return id.Type + "." + id.SubType }

// ChildRequirement describes one child (type, subType, name) pattern a
// parent type accepts. Each component may be the "*" wildcard.
type ChildRequirement struct {
	Name     string
	Type     string
	SubType  string
	Required bool
}

// OptionalChild builds an optional child requirement.
func OptionalChild(typ, subType, name string) ChildRequirement {
	return ChildRequirement{Name: name, Type: typ, SubType: subType}
}

// RequiredChild builds a required child requirement.
func RequiredChild(typ, subType, name string) ChildRequirement {
	return ChildRequirement{Name: name, Type: typ, SubType: subType, Required: true}
}

// Matches reports whether a concrete child matches this requirement.
func (c ChildRequirement) Matches(childType, childSubType, childName string) bool {
	return matchesPattern(c.Type, childType) &&
		matchesPattern(c.SubType, childSubType) &&
		matchesPattern(c.Name, childName)
}

func matchesPattern(pattern, value string) bool {
	return pattern == Wildcard || pattern == "" || pattern == value
}

// String renders the requirement as "type.subType[name]".
func (c ChildRequirement) String() string {
	return fmt.Sprintf("%s.%s[%s]", c.Type, c.SubType, c.Name)
}

func (c ChildRequirement) key() string {
	return c.Type + "." + c.SubType + "[" + c.Name + "]"
}

// AttrRequirement describes an attribute a type carries: its expected
// primitive kind and whether it must be present.
type AttrRequirement struct {
	Name     string
	Kind     string // metadata.AttrString, AttrInt, AttrBoolean, AttrStringArray
	Required bool
}

// resolution state of a definition; definitions move strictly forward.
type defState int

const (
	stateRegistered defState = iota
	stateResolved
)

// TypeDefinition describes one registered (type, subType): its
// description, implementation binding, declared inheritance parent, and
// the attribute and child-placement rules it declares directly.
// Definitions are built fluently and are immutable once registered.
type TypeDefinition struct {
	id             TypeID
	description    string
	implementation string
	parent         *TypeID

	childReqs []ChildRequirement
	attrReqs  []AttrRequirement

	state defState
}

// NewType starts a type definition for the given (type, subType).
func NewType(typ, subType string) *TypeDefinition {
	return &TypeDefinition{id: TypeID{Type: typ, SubType: subType}}
}

// ID returns the definition's (type, subType) identity.
func (d *TypeDefinition) ID() TypeID { return d.id }

// Description sets the human-readable description.
func (d *TypeDefinition) Description(desc string) *TypeDefinition {
	d.description = desc
	return d
}

// Implementation sets the implementation binding: an opaque capability
// name consumed by generators and hosts. Subtypes without a binding
// inherit the nearest ancestor's.
func (d *TypeDefinition) Implementation(impl string) *TypeDefinition {
	d.implementation = impl
	return d
}

// Inherits declares the parent (type, subType) this definition extends.
func (d *TypeDefinition) Inherits(typ, subType string) *TypeDefinition {
	d.parent = &TypeID{Type: typ, SubType: subType}
	return d
}

// OptionalChild declares an optional child pattern.
func (d *TypeDefinition) OptionalChild(typ, subType, name string) *TypeDefinition {
	d.childReqs = append(d.childReqs, OptionalChild(typ, subType, name))
	return d
}

// RequiredChild declares a required child pattern.
func (d *TypeDefinition) RequiredChild(typ, subType, name string) *TypeDefinition {
	d.childReqs = append(d.childReqs, RequiredChild(typ, subType, name))
	return d
}

// OptionalAttr declares an optional attribute with its expected kind.
func (d *TypeDefinition) OptionalAttr(name, kind string) *TypeDefinition {
	d.attrReqs = append(d.attrReqs, AttrRequirement{Name: name, Kind: kind})
	return d
}

// RequiredAttr declares a required attribute with its expected kind.
func (d *TypeDefinition) RequiredAttr(name, kind string) *TypeDefinition {
	d.attrReqs = append(d.attrReqs, AttrRequirement{Name: name, Kind: kind, Required: true})
	return d
}

// equal reports whether two definitions are interchangeable, which makes
// re-registration a no-op rather than a duplicate.
func (d *TypeDefinition) equal(o *TypeDefinition) bool {
	if d.id != o.id || d.description != o.description || d.implementation != o.implementation {
		return false
	}
	if (d.parent == nil) != (o.parent == nil) || (d.parent != nil && *d.parent != *o.parent) {
		return false
	}
	if len(d.childReqs) != len(o.childReqs) || len(d.attrReqs) != len(o.attrReqs) {
		return false
	}
	for i := range d.childReqs {
		if d.childReqs[i] != o.childReqs[i] {
			return false
		}
	}
	for i := range d.attrReqs {
		if d.attrReqs[i] != o.attrReqs[i] {
			return false
		}
	}
	return true
}

// EffectiveType is a RESOLVED definition: the merge of a definition with
// its full inheritance chain. Effective types are immutable and shared.
type EffectiveType struct {
	ID             TypeID
	Description    string
	Implementation string

	// Ancestors lists the inheritance chain from direct parent to root.
	Ancestors []TypeID

	// ChildReqs is the union of this type's and all ancestors' child
	// placement patterns.
	ChildReqs []ChildRequirement

	// AttrReqs is the union of attribute declarations by name; a
	// required declaration anywhere in the chain stays required.
	AttrReqs map[string]AttrRequirement
}

// AcceptsChild reports whether any merged child requirement matches the
// candidate child.
func (e *EffectiveType) AcceptsChild(childType, childSubType, childName string) bool {
	for _, req := range e.ChildReqs {
		if req.Matches(childType, childSubType, childName) {
			return true
		}
	}
	return false
}

// RequiredAttrNames returns the sorted names of required attributes.
func (e *EffectiveType) RequiredAttrNames() []string {
	var out []string
	for name, req := range e.AttrReqs {
		if req.Required {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// AttrKind returns the declared kind of an attribute, with ok=false for
// undeclared attributes.
func (e *EffectiveType) AttrKind(name string) (string, bool) {
	req, ok := e.AttrReqs[name]
	if !ok {
		return "", false
	}
	return req.Kind, true
}
