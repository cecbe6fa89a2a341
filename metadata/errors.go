package metadata

import (
	"errors"
	"fmt"
)

// Sentinel errors for the metadata engine. Callers match them with
// errors.Is; the helper constructors attach context while keeping the
// sentinel in the chain.
var (
	// ErrDuplicateType is returned when a (type, subType) pair is
	// re-registered with a definition incompatible with the existing one.
	ErrDuplicateType = errors.New("duplicate type registration")

	// ErrTypeNotFound is returned when a (type, subType) pair has not
	// been registered.
	ErrTypeNotFound = errors.New("type not found")

	// ErrProviderDependency is returned when provider registration cannot
	// be ordered: a declared dependency is missing or the dependency
	// graph contains a cycle.
	ErrProviderDependency = errors.New("provider dependency error")

	// ErrCyclicInheritance is returned at registration time when a type's
	// inherits-from chain loops back on itself.
	ErrCyclicInheritance = errors.New("cyclic inheritance")

	// ErrInheritanceConflict is returned when a subtype redeclares an
	// ancestor's required attribute as optional.
	ErrInheritanceConflict = errors.New("inheritance conflict")

	// ErrConstraintViolation is returned when a placement constraint
	// rejects a parent/child attachment.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrInvalidAttributeValue is returned when a validation constraint
	// rejects an attribute value.
	ErrInvalidAttributeValue = errors.New("invalid attribute value")

	// ErrMetaDataNotFound is returned when a named metadata lookup or a
	// cross-reference resolution finds no match.
	ErrMetaDataNotFound = errors.New("metadata not found")

	// ErrInvalidChild is returned by AddChild when no placement rule
	// approves the attachment, or the child clashes with a sibling.
	ErrInvalidChild = errors.New("invalid child")
)

func enrich(sentinel error, msg string, args ...any) error {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// ErrNotFound wraps ErrMetaDataNotFound with context.
func ErrNotFound(msg string, args ...any) error {
	return enrich(ErrMetaDataNotFound, msg, args...)
}

// ErrChild wraps ErrInvalidChild with context.
func ErrChild(msg string, args ...any) error {
	return enrich(ErrInvalidChild, msg, args...)
}

// ErrValue wraps ErrInvalidAttributeValue with context.
func ErrValue(msg string, args ...any) error {
	return enrich(ErrInvalidAttributeValue, msg, args...)
}

// ErrViolation wraps ErrConstraintViolation with the violated constraint id
// and the offending parent/child pair.
func ErrViolation(constraintID string, parent, child *MetaData) error {
	return enrich(ErrConstraintViolation, "constraint %q rejected child [%s] under parent [%s]",
		constraintID, Describe(child), Describe(parent))
}

// Describe renders a node as "type.subType[name]" for error messages.
func Describe(md *MetaData) string {
	if md == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s.%s[%s]", md.Type(), md.SubType(), md.Name())
}
