// Package loader builds, owns, and publishes resolved metadata graphs.
// A Loader classifies a raw source tree against the type registry,
// validates placements and values through the constraint engine as nodes
// attach, indexes loaded objects by qualified name, and serves the lazy
// cross-reference lookups the node model performs on first dereference.
//
// A loaded graph is read-mostly: Load builds a complete fresh graph and
// atomically swaps the published reference, never mutating a graph
// already visible to readers.
package loader

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/metaobjects-dev/metaobjects/constraint"
	"github.com/metaobjects-dev/metaobjects/loader/source"
	"github.com/metaobjects-dev/metaobjects/metadata"
	"github.com/metaobjects-dev/metaobjects/registry"
)

// Loader owns metadata graphs loaded from raw source trees.
type Loader struct {
	id          uuid.UUID
	name        string
	types       *registry.Registry
	constraints *constraint.Registry
	log         *zap.Logger

	mu    sync.RWMutex
	graph *graph
}

// graph is one immutable loaded tree plus its name indexes. Each graph
// carries its own loader back-reference so nodes of an old graph keep
// resolving against the graph they belong to after a reload.
type graph struct {
	root    *metadata.MetaData
	objects map[string]*metadata.MetaData // qualified name -> object node
	order   []string                      // insertion order of qualified names
}

var _ metadata.LoaderRef = (*graph)(nil)

func (g *graph) ObjectByName(qualifiedName string) (*metadata.MetaData, error) {
	if o, ok := g.objects[qualifiedName]; ok {
		return o, nil
	}
	return nil, metadata.ErrNotFound("no object named %q in loaded graph", qualifiedName)
}

// New creates a loader bound to a type registry and constraint registry.
// A nil logger defaults to no-op.
func New(name string, types *registry.Registry, constraints *constraint.Registry, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		id:          uuid.New(),
		name:        name,
		types:       types,
		constraints: constraints,
		log:         log.With(zap.String("loader", name)),
	}
}

// ID returns the loader's unique identity.
func (l *Loader) ID() uuid.UUID { return l.id }

// Name returns the loader's name.
func (l *Loader) Name() string { return l.name }

// Load builds a fresh graph from the given raw roots and publishes it on
// success. Earlier published graphs are unaffected by a failed load, and
// readers of an earlier graph are unaffected by a successful one.
func (l *Loader) Load(roots ...*source.RawNode) error {
	g, err := l.build(roots)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.graph = g
	l.mu.Unlock()

	l.log.Info("metadata graph loaded",
		zap.String("id", l.id.String()),
		zap.Int("objects", len(g.order)))
	return nil
}

func (l *Loader) current() *graph {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.graph
}

// Root returns the root node of the published graph, or nil before the
// first successful Load.
func (l *Loader) Root() *metadata.MetaData {
	if g := l.current(); g != nil {
		return g.root
	}
	return nil
}

// ObjectByName resolves a qualified object name against the published
// graph. Implements metadata.LoaderRef for callers holding the Loader.
func (l *Loader) ObjectByName(qualifiedName string) (*metadata.MetaData, error) {
	g := l.current()
	if g == nil {
		return nil, metadata.ErrNotFound("loader %q has no loaded graph", l.name)
	}
	return g.ObjectByName(qualifiedName)
}

// MetaObjectByName is ObjectByName returning the typed wrapper.
func (l *Loader) MetaObjectByName(qualifiedName string) (metadata.MetaObject, error) {
	md, err := l.ObjectByName(qualifiedName)
	if err != nil {
		return metadata.MetaObject{}, err
	}
	return metadata.AsObject(md), nil
}

// Objects returns the loaded objects in declaration order.
func (l *Loader) Objects() []metadata.MetaObject {
	g := l.current()
	if g == nil {
		return nil
	}
	out := make([]metadata.MetaObject, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, metadata.AsObject(g.objects[name]))
	}
	return out
}

// build constructs and validates a complete graph without publishing it.
func (l *Loader) build(roots []*source.RawNode) (*graph, error) {
	g := &graph{objects: map[string]*metadata.MetaData{}}
	enforcer := &graphEnforcer{types: l.types, constraints: l.constraints}

	root := metadata.New(metadata.TypeMetaData, metadata.SubTypeBase, l.name)
	root.SetLoader(g)
	root.SetEnforcer(enforcer)
	g.root = root

	type deferredSuper struct {
		node  *metadata.MetaData
		super string
	}
	var supers []deferredSuper

	var buildNode func(parent *metadata.MetaData, raw *source.RawNode) error
	buildNode = func(parent *metadata.MetaData, raw *source.RawNode) error {
		subType := raw.SubType
		if subType == "" {
			subType = metadata.SubTypeBase
		}
		node, err := l.types.NewInstance(raw.Type, subType, raw.Name)
		if err != nil {
			return err
		}
		if raw.Package != "" {
			node.SetPackage(raw.Package)
		}
		if err := parent.AddChild(node); err != nil {
			return err
		}
		for _, name := range sortedAttrNames(raw.Attrs) {
			kind := metadata.AttrString
			if eff, err := l.types.FindType(raw.Type, subType); err == nil {
				if k, ok := eff.AttrKind(name); ok {
					kind = k
				}
			}
			if err := node.SetAttr(kind, name, raw.Attrs[name]); err != nil {
				return err
			}
		}
		if node.Type() == metadata.TypeObject {
			qualified := metadata.AsObject(node).QualifiedName()
			if _, exists := g.objects[qualified]; exists {
				return metadata.ErrChild("object %q declared twice in one load", qualified)
			}
			g.objects[qualified] = node
			g.order = append(g.order, qualified)
		}
		if raw.Super != "" {
			supers = append(supers, deferredSuper{node: node, super: raw.Super})
		}
		for _, rawChild := range raw.Children {
			if err := buildNode(node, rawChild); err != nil {
				return err
			}
		}
		return nil
	}

	for i, rawRoot := range roots {
		if rawRoot.Type != metadata.TypeMetaData {
			return nil, fmt.Errorf("source root must be a %q element, got %q", metadata.TypeMetaData, rawRoot.Type)
		}
		name := rawRoot.Name
		if name == "" {
			name = fmt.Sprintf("source-%d", i+1)
		}
		fileRoot := metadata.New(metadata.TypeMetaData, metadata.SubTypeBase, name)
		fileRoot.SetPackage(rawRoot.Package)
		if err := root.AddChild(fileRoot); err != nil {
			return nil, err
		}
		for _, rawChild := range rawRoot.Children {
			if err := buildNode(fileRoot, rawChild); err != nil {
				return nil, err
			}
		}
	}

	// Super references may point forward within the load, so they
	// resolve only after the whole tree is built.
	for _, d := range supers {
		name, err := metadata.ExpandPackage(d.node.EnclosingPackage(), d.super)
		if err != nil {
			return nil, err
		}
		super, err := g.ObjectByName(name)
		if err != nil {
			return nil, metadata.ErrNotFound("unresolved super %q on [%s]", d.super, metadata.Describe(d.node))
		}
		d.node.SetSuperData(super)
	}

	if err := l.validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// validate walks the built graph checking the requirements the type
// definitions declare: required attributes present and required children
// satisfied.
func (l *Loader) validate(g *graph) error {
	var walk func(md *metadata.MetaData) error
	walk = func(md *metadata.MetaData) error {
		eff, err := l.types.FindType(md.Type(), md.SubType())
		if err != nil {
			return err
		}
		for _, name := range eff.RequiredAttrNames() {
			if !md.HasAttr(name) {
				return metadata.ErrValue("[%s] is missing required attribute %q", metadata.Describe(md), name)
			}
		}
		for _, req := range eff.ChildReqs {
			if !req.Required {
				continue
			}
			satisfied := false
			for _, c := range md.Children() {
				if req.Matches(c.Type(), c.SubType(), c.ShortName()) {
					satisfied = true
					break
				}
			}
			if !satisfied {
				return metadata.ErrChild("[%s] is missing required child %s", metadata.Describe(md), req)
			}
		}
		for _, c := range md.Children() {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(g.root)
}

func sortedAttrNames(attrs map[string]string) []string {
	names := make([]string, 0, len(attrs))
	for n := range attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
