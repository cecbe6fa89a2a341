package loader

import (
	"errors"

	"github.com/metaobjects-dev/metaobjects/constraint"
	"github.com/metaobjects-dev/metaobjects/metadata"
	"github.com/metaobjects-dev/metaobjects/registry"
)

// graphEnforcer combines the two sources of structural legality: the
// parent type's merged child requirements from the type registry, and
// the cross-cutting placement/validation constraints. An attachment is
// approved when either an allow constraint or the parent's type
// definition accepts it; a matching deny constraint always vetoes.
type graphEnforcer struct {
	types       *registry.Registry
	constraints *constraint.Registry
}

var _ metadata.Enforcer = (*graphEnforcer)(nil)

func (e *graphEnforcer) CheckPlacement(parent, child *metadata.MetaData) error {
	err := e.constraints.CheckPlacement(parent, child)
	if err == nil {
		return nil
	}
	if errors.Is(err, metadata.ErrConstraintViolation) {
		return err
	}

	// No constraint approved the pair; fall back to the parent type's
	// merged child requirements.
	eff, ferr := e.types.FindType(parent.Type(), parent.SubType())
	if ferr != nil {
		return ferr
	}
	if eff.AcceptsChild(child.Type(), child.SubType(), child.ShortName()) {
		return nil
	}
	return err
}

func (e *graphEnforcer) CheckValue(node *metadata.MetaData, attrName, value string) error {
	return e.constraints.CheckValue(node, attrName, value)
}
