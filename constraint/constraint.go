// Package constraint implements the cross-cutting constraint engine:
// placement constraints governing which children may attach to which
// parents, and validation constraints governing attribute values.
// Constraints are registered at startup by independent providers and
// evaluated on every graph mutation; they are how feature modules extend
// shared base types without the base types knowing about them.
package constraint

import (
	"fmt"

	"github.com/metaobjects-dev/metaobjects/metadata"
)

// Wildcard matches any type or subType in a pattern.
const Wildcard = "*"

// Pattern matches nodes by (type, subType), either component may be "*".
type Pattern struct {
	Type    string
	SubType string
}

// Matches reports whether the node matches the pattern.
func (p Pattern) Matches(md *metadata.MetaData) bool {
	return (p.Type == Wildcard || p.Type == md.Type()) &&
		(p.SubType == Wildcard || p.SubType == md.SubType())
}

// String renders the pattern as "type.subType".
func (p Pattern) String() string { return p.Type + "." + p.SubType }

// Constraint is the common surface of placement and validation
// constraints. Priority orders evaluation and reporting deterministically;
// it never short-circuits correctness, since all applicable constraints
// must pass.
type Constraint interface {
	ID() string
	Description() string
	Priority() int
}

// PlacementConstraint is a predicate over (parent, candidate child)
// pairs. An allow constraint approves matching attachments; a deny
// constraint vetoes them. Optional predicates refine the structural
// pattern match.
type PlacementConstraint struct {
	id          string
	description string
	priority    int

	parent    Pattern
	child     Pattern
	childName string // "" or "*" matches any name

	allow bool

	parentFn func(parent *metadata.MetaData) bool
	childFn  func(child *metadata.MetaData) bool
}

// AllowChild builds a placement constraint approving children matching
// the child pattern under parents matching the parent pattern.
func AllowChild(id, description string, parent, child Pattern) *PlacementConstraint {
	return &PlacementConstraint{id: id, description: description, parent: parent, child: child, allow: true}
}

// DenyChild builds a placement constraint vetoing matching attachments.
func DenyChild(id, description string, parent, child Pattern) *PlacementConstraint {
	return &PlacementConstraint{id: id, description: description, parent: parent, child: child}
}

// Named restricts the constraint to children with the given short name.
func (p *PlacementConstraint) Named(name string) *PlacementConstraint {
	p.childName = name
	return p
}

// When adds predicates evaluated after the structural match; a nil
// predicate always passes.
func (p *PlacementConstraint) When(parentFn, childFn func(*metadata.MetaData) bool) *PlacementConstraint {
	p.parentFn = parentFn
	p.childFn = childFn
	return p
}

// WithPriority sets the evaluation/reporting priority (lower runs first).
func (p *PlacementConstraint) WithPriority(n int) *PlacementConstraint {
	p.priority = n
	return p
}

// ID implements Constraint.
func (p *PlacementConstraint) ID() string { return p.id }

// Description implements Constraint.
func (p *PlacementConstraint) Description() string { return p.description }

// Priority implements Constraint.
func (p *PlacementConstraint) Priority() int { return p.priority }

// appliesTo reports whether the constraint's structural patterns match
// the pair at all.
func (p *PlacementConstraint) appliesTo(parent, child *metadata.MetaData) bool {
	if !p.parent.Matches(parent) || !p.child.Matches(child) {
		return false
	}
	if p.childName != "" && p.childName != Wildcard && p.childName != child.ShortName() {
		return false
	}
	return true
}

// approves reports whether an applicable constraint's predicates accept
// the pair.
func (p *PlacementConstraint) approves(parent, child *metadata.MetaData) bool {
	if p.parentFn != nil && !p.parentFn(parent) {
		return false
	}
	if p.childFn != nil && !p.childFn(child) {
		return false
	}
	return true
}

// ValidationConstraint is a predicate over (node, proposed attribute
// value) pairs, applied when the named attribute is set on a node
// matching the target pattern. An absent (empty) value passes unless the
// constraint requires presence.
type ValidationConstraint struct {
	id          string
	description string
	priority    int

	target   Pattern
	attrName string
	required bool

	check func(node *metadata.MetaData, value string) error
}

// ValidateAttr builds a validation constraint for an attribute on nodes
// matching target. check may be nil when the constraint only enforces
// presence.
func ValidateAttr(id, description string, target Pattern, attrName string, check func(node *metadata.MetaData, value string) error) *ValidationConstraint {
	return &ValidationConstraint{id: id, description: description, target: target, attrName: attrName, check: check}
}

// RequirePresence makes an empty value a violation.
func (v *ValidationConstraint) RequirePresence() *ValidationConstraint {
	v.required = true
	return v
}

// WithPriority sets the evaluation/reporting priority (lower runs first).
func (v *ValidationConstraint) WithPriority(n int) *ValidationConstraint {
	v.priority = n
	return v
}

// ID implements Constraint.
func (v *ValidationConstraint) ID() string { return v.id }

// Description implements Constraint.
func (v *ValidationConstraint) Description() string { return v.description }

// Priority implements Constraint.
func (v *ValidationConstraint) Priority() int { return v.priority }

func (v *ValidationConstraint) evaluate(node *metadata.MetaData, value string) error {
	if value == "" {
		if v.required {
			return metadata.ErrValue("constraint %q: attribute %q on [%s] must be present", v.id, v.attrName, metadata.Describe(node))
		}
		return nil
	}
	if v.check == nil {
		return nil
	}
	if err := v.check(node, value); err != nil {
		return fmt.Errorf("%w: constraint %q on [%s].%s: %s",
			metadata.ErrInvalidAttributeValue, v.id, metadata.Describe(node), v.attrName, err.Error())
	}
	return nil
}
