package registry

import (
	"fmt"

	"github.com/metaobjects-dev/metaobjects/metadata"
)

func enrichf(sentinel error, msg string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(msg, args...))
}

// resolveLocked computes the effective definition for id, walking and
// merging its inheritance chain. Results are memoized; visiting carries
// the ids already on the current chain for cycle detection. Callers hold
// the write lock.
func (r *Registry) resolveLocked(id TypeID, visiting []TypeID) (*EffectiveType, error) {
	if eff, ok := r.resolved[id]; ok {
		return eff, nil
	}

	def, ok := r.types[id]
	if !ok {
		return nil, enrichf(metadata.ErrTypeNotFound, "type %s is not registered", id)
	}

	for _, seen := range visiting {
		if seen == id {
			return nil, enrichf(metadata.ErrCyclicInheritance, "inheritance cycle through %s: %v", id, append(visiting, id))
		}
	}

	eff := &EffectiveType{
		ID:             id,
		Description:    def.description,
		Implementation: def.implementation,
		AttrReqs:       make(map[string]AttrRequirement),
	}

	if def.parent != nil {
		parent, err := r.resolveLocked(*def.parent, append(visiting, id))
		if err != nil {
			return nil, err
		}

		eff.Ancestors = append([]TypeID{parent.ID}, parent.Ancestors...)
		eff.ChildReqs = append(eff.ChildReqs, parent.ChildReqs...)
		for name, req := range parent.AttrReqs {
			eff.AttrReqs[name] = req
		}
		if eff.Implementation == "" {
			eff.Implementation = parent.Implementation
		}
	}

	// Merge direct declarations over the inherited ones. A child may add
	// attributes or tighten optional ones to required; weakening an
	// inherited required attribute is a conflict.
	seenReqs := map[string]bool{}
	for _, req := range eff.ChildReqs {
		seenReqs[req.key()] = true
	}
	for _, req := range def.childReqs {
		if !seenReqs[req.key()] {
			seenReqs[req.key()] = true
			eff.ChildReqs = append(eff.ChildReqs, req)
		}
	}
	for _, req := range def.attrReqs {
		if inherited, ok := eff.AttrReqs[req.Name]; ok {
			if inherited.Required && !req.Required {
				return nil, enrichf(metadata.ErrInheritanceConflict,
					"type %s redeclares required attribute %q of ancestor %v as optional", id, req.Name, eff.Ancestors)
			}
		}
		eff.AttrReqs[req.Name] = req
	}

	def.state = stateResolved
	r.resolved[id] = eff
	return eff, nil
}
