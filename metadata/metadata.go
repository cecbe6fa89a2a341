// Package metadata implements the core metadata node model: typed, named,
// hierarchical nodes (objects, fields, attributes, views, validators,
// keys, relationships) with ordered children, attribute maps, and a
// per-node cache for memoized derived values.
//
// Nodes are write-once in practice: a loader builds and validates the
// graph, then many readers share it concurrently. The per-node cache is
// the only structure mutated after load and is safe for concurrent use.
package metadata

import (
	"sync"
)

// Core type discriminators. Each registered kind of node is identified by
// a (type, subType) pair such as ("field", "string").
const (
	TypeMetaData     = "metadata"
	TypeObject       = "object"
	TypeField        = "field"
	TypeAttr         = "attr"
	TypeValidator    = "validator"
	TypeView         = "view"
	TypeKey          = "key"
	TypeRelationship = "relationship"

	SubTypeBase = "base"
)

// Enforcer approves structural placements and attribute values. The
// constraint engine provides the production implementation; a nil
// enforcer skips constraint checks (structural checks still apply).
type Enforcer interface {
	// CheckPlacement reports whether child may attach to parent.
	CheckPlacement(parent, child *MetaData) error
	// CheckValue reports whether value is legal for the named attribute
	// on node.
	CheckValue(node *MetaData, attrName, value string) error
}

// LoaderRef is the non-owning back-reference a node holds to the loader
// that owns its graph, used for cross-reference lookups.
type LoaderRef interface {
	// ObjectByName returns the MetaObject node with the given qualified
	// name, or an error wrapping ErrMetaDataNotFound.
	ObjectByName(qualifiedName string) (*MetaData, error)
}

// MetaData is a single node in the metadata tree. The zero value is not
// usable; construct nodes with New.
type MetaData struct {
	typ     string
	subType string
	name    string
	pkg     string

	shortName string

	// parent is a non-owning back-reference; the parent owns children.
	parent *MetaData

	// superData points at the node this node inherits children from,
	// e.g. an abstract base object. Non-owning.
	superData *MetaData

	children []*MetaData

	enforcer Enforcer
	loader   LoaderRef

	// attrValue holds the value when this node is itself an attribute.
	attrValue string

	cacheMu  sync.RWMutex
	cache    map[string]any
	inflight map[string]*inflightCall
}

// inflightCall tracks one in-progress cache computation so concurrent
// first readers of a key wait for it instead of recomputing.
type inflightCall struct {
	done chan struct{}
	v    any
	err  error
}

// New creates a detached node. The name may be package-qualified; the
// package segment is split off and retained separately.
func New(typ, subType, name string) *MetaData {
	pkg, short := SplitName(name)
	return &MetaData{
		typ:       typ,
		subType:   subType,
		name:      name,
		pkg:       pkg,
		shortName: short,
	}
}

// Type returns the node's primary type, e.g. "field".
func (md *MetaData) Type() string { return md.typ }

// SubType returns the node's subtype, e.g. "string".
func (md *MetaData) SubType() string { return md.subType }

// Name returns the name the node was constructed with, which may be
// package-qualified.
func (md *MetaData) Name() string { return md.name }

// ShortName returns the name with any package prefix removed.
func (md *MetaData) ShortName() string { return md.shortName }

// Package returns the package declared on this node, which may be empty;
// see EnclosingPackage for the inherited package.
func (md *MetaData) Package() string { return md.pkg }

// SetPackage declares the node's package explicitly. Used by loaders for
// container nodes whose package comes from the source file rather than
// the name.
func (md *MetaData) SetPackage(pkg string) { md.pkg = pkg }

// Parent returns the owning parent node, or nil for a root.
func (md *MetaData) Parent() *MetaData { return md.parent }

// SuperData returns the node this node inherits children from, or nil.
func (md *MetaData) SuperData() *MetaData { return md.superData }

// SetSuperData links the node to the node it inherits children from.
func (md *MetaData) SetSuperData(super *MetaData) { md.superData = super }

// Loader returns the loader back-reference, walking up the tree until one
// is found. Nil if the node is not attached to a loaded graph.
func (md *MetaData) Loader() LoaderRef {
	for n := md; n != nil; n = n.parent {
		if n.loader != nil {
			return n.loader
		}
	}
	return nil
}

// SetLoader sets the loader back-reference, normally only on the root of
// a loaded graph.
func (md *MetaData) SetLoader(l LoaderRef) { md.loader = l }

// SetEnforcer installs the placement/value enforcer consulted by AddChild
// and attribute setters. Children attached afterwards inherit it.
func (md *MetaData) SetEnforcer(e Enforcer) { md.enforcer = e }

// EnforcerRef returns the effective enforcer, walking up the tree.
func (md *MetaData) EnforcerRef() Enforcer {
	for n := md; n != nil; n = n.parent {
		if n.enforcer != nil {
			return n.enforcer
		}
	}
	return nil
}

// EnclosingPackage returns the nearest non-empty package walking from
// this node up through its parents. The result is cached per node.
func (md *MetaData) EnclosingPackage() string {
	v, _ := md.ComputeCacheValue("enclosingPackage", func() (any, error) {
		for n := md; n != nil; n = n.parent {
			if n.pkg != "" {
				return n.pkg, nil
			}
		}
		return "", nil
	})
	pkg, _ := v.(string)
	return pkg
}

// AddChild validates and appends a child node. The child's name must not
// clash with an existing child of the same type, and every applicable
// placement constraint must approve the attachment. On failure the child
// is not attached and the tree is unchanged.
func (md *MetaData) AddChild(child *MetaData) error {
	if child == nil {
		return ErrChild("nil child on parent [%s]", Describe(md))
	}
	if child.parent != nil {
		return ErrChild("child [%s] already attached to [%s]", Describe(child), Describe(child.parent))
	}
	if existing := md.childByTypeAndName(child.typ, child.shortName); existing != nil {
		return ErrChild("parent [%s] already has %s child named %q", Describe(md), child.typ, child.shortName)
	}
	if e := md.EnforcerRef(); e != nil {
		if err := e.CheckPlacement(md, child); err != nil {
			return err
		}
	}
	child.parent = md
	md.children = append(md.children, child)
	return nil
}

// Children returns the node's direct children in insertion order. The
// returned slice is shared; callers must not modify it.
func (md *MetaData) Children() []*MetaData { return md.children }

// ChildrenOfType returns children filtered by primary type, optionally
// including children inherited through the super-data chain. Inherited
// children are shadowed by direct children with the same short name.
func (md *MetaData) ChildrenOfType(typ string, includeInherited bool) []*MetaData {
	var out []*MetaData
	seen := map[string]bool{}
	for n := md; n != nil; n = n.superData {
		for _, c := range n.children {
			if typ != "" && c.typ != typ {
				continue
			}
			if seen[c.typ+":"+c.shortName] {
				continue
			}
			seen[c.typ+":"+c.shortName] = true
			out = append(out, c)
		}
		if !includeInherited {
			break
		}
	}
	return out
}

// FindChild returns the first direct child with the given short name, or
// an error wrapping ErrMetaDataNotFound.
func (md *MetaData) FindChild(name string) (*MetaData, error) {
	for _, c := range md.children {
		if c.shortName == name {
			return c, nil
		}
	}
	return nil, ErrNotFound("no child named %q under [%s]", name, Describe(md))
}

// FindChildOfType returns the first child with the given type and short
// name, searching the super-data chain as well.
func (md *MetaData) FindChildOfType(typ, name string) (*MetaData, error) {
	for n := md; n != nil; n = n.superData {
		if c := n.childByTypeAndName(typ, name); c != nil {
			return c, nil
		}
	}
	return nil, ErrNotFound("no %s child named %q under [%s]", typ, name, Describe(md))
}

func (md *MetaData) childByTypeAndName(typ, short string) *MetaData {
	for _, c := range md.children {
		if c.typ == typ && c.shortName == short {
			return c
		}
	}
	return nil
}

// CacheValue returns the cached value for key, if present. Safe for
// concurrent use.
func (md *MetaData) CacheValue(key string) (any, bool) {
	md.cacheMu.RLock()
	defer md.cacheMu.RUnlock()
	v, ok := md.cache[key]
	return v, ok
}

// SetCacheValue stores a value in the per-node cache. Safe for concurrent
// use; the last writer for a key wins.
func (md *MetaData) SetCacheValue(key string, v any) {
	md.cacheMu.Lock()
	defer md.cacheMu.Unlock()
	if md.cache == nil {
		md.cache = map[string]any{}
	}
	md.cache[key] = v
}

// ComputeCacheValue returns the cached value for key, computing and
// storing it on first access. fn runs at most once per key even under
// concurrent first access; errors are not cached, so a later call
// retries. fn runs without the node's lock held and may therefore read
// other cached values on the same node, such as EnclosingPackage.
func (md *MetaData) ComputeCacheValue(key string, fn func() (any, error)) (any, error) {
	md.cacheMu.Lock()
	if v, ok := md.cache[key]; ok {
		md.cacheMu.Unlock()
		return v, nil
	}
	if fl, ok := md.inflight[key]; ok {
		md.cacheMu.Unlock()
		<-fl.done
		return fl.v, fl.err
	}
	fl := &inflightCall{done: make(chan struct{})}
	if md.inflight == nil {
		md.inflight = map[string]*inflightCall{}
	}
	md.inflight[key] = fl
	md.cacheMu.Unlock()

	fl.v, fl.err = fn()

	md.cacheMu.Lock()
	delete(md.inflight, key)
	if fl.err == nil {
		if md.cache == nil {
			md.cache = map[string]any{}
		}
		md.cache[key] = fl.v
	}
	md.cacheMu.Unlock()
	close(fl.done)

	if fl.err != nil {
		return nil, fl.err
	}
	return fl.v, nil
}

// String implements fmt.Stringer.
func (md *MetaData) String() string { return Describe(md) }
