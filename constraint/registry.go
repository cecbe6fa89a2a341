package constraint

import (
	"sort"
	"sync"

	"github.com/metaobjects-dev/metaobjects/metadata"
)

// Registry holds registered constraints. Like the type registry it is
// written during startup registration and effectively immutable
// afterwards; evaluation order is (priority, id) for determinism.
type Registry struct {
	mu          sync.RWMutex
	ids         map[string]bool
	placements  []*PlacementConstraint
	validations []*ValidationConstraint
}

// NewRegistry creates an empty constraint registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]bool)}
}

// Add registers a constraint. Constraint ids must be unique.
func (r *Registry) Add(c Constraint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ids[c.ID()] {
		return enrichDuplicate(c.ID())
	}
	switch cc := c.(type) {
	case *PlacementConstraint:
		r.placements = append(r.placements, cc)
		sortConstraints(r.placements)
	case *ValidationConstraint:
		r.validations = append(r.validations, cc)
		sortConstraints(r.validations)
	default:
		return metadata.ErrValue("unsupported constraint kind for id %q", c.ID())
	}
	r.ids[c.ID()] = true
	return nil
}

// MustAdd is Add for static registration blocks where a duplicate id is a
// programming error.
func (r *Registry) MustAdd(cs ...Constraint) {
	for _, c := range cs {
		if err := r.Add(c); err != nil {
			panic(err)
		}
	}
}

func enrichDuplicate(id string) error {
	return metadata.ErrValue("constraint id %q already registered", id)
}

func sortConstraints[C Constraint](cs []C) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Priority() != cs[j].Priority() {
			return cs[i].Priority() < cs[j].Priority()
		}
		return cs[i].ID() < cs[j].ID()
	})
}

// CheckPlacement evaluates every applicable placement constraint for the
// pair. A deny match or a failing applicable constraint is a violation
// naming the constraint; if no constraint approves the pair at all the
// attachment is rejected as an invalid child.
func (r *Registry) CheckPlacement(parent, child *metadata.MetaData) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	approved := false
	for _, p := range r.placements {
		if !p.appliesTo(parent, child) {
			continue
		}
		ok := p.approves(parent, child)
		if !p.allow {
			if ok {
				return metadata.ErrViolation(p.id, parent, child)
			}
			continue
		}
		if ok {
			approved = true
		}
	}
	if !approved {
		return metadata.ErrChild("no placement constraint approves child [%s] under parent [%s]",
			metadata.Describe(child), metadata.Describe(parent))
	}
	return nil
}

// CheckValue evaluates every applicable validation constraint for the
// proposed attribute value. All must pass.
func (r *Registry) CheckValue(node *metadata.MetaData, attrName, value string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.validations {
		if v.attrName != attrName && v.attrName != Wildcard {
			continue
		}
		if !v.target.Matches(node) {
			continue
		}
		if err := v.evaluate(node, value); err != nil {
			return err
		}
	}
	return nil
}

// Placements returns the placement constraints in evaluation order.
func (r *Registry) Placements() []*PlacementConstraint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*PlacementConstraint, len(r.placements))
	copy(out, r.placements)
	return out
}

// Validations returns the validation constraints in evaluation order.
func (r *Registry) Validations() []*ValidationConstraint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ValidationConstraint, len(r.validations))
	copy(out, r.validations)
	return out
}

var _ metadata.Enforcer = (*Registry)(nil)
