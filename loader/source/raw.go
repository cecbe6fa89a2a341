// Package source defines the raw, untyped metadata tree handed to the
// loader, and readers that produce it from JSON and XML metadata files.
// The raw tree is the boundary between file parsing and the type system:
// readers know nothing about registered types, and the loader knows
// nothing about file formats.
package source

// RawNode is one untyped node parsed from a metadata source. Type names
// the registered primary type ("object", "field", ...), SubType the
// registered subtype. Attrs are inline attribute values; attributes may
// equally appear as full child nodes of type "attr".
type RawNode struct {
	Type    string
	SubType string
	Name    string

	// Package is only meaningful on the root "metadata" node.
	Package string

	// Super optionally names the metadata this node inherits children
	// from, package-qualified or relative.
	Super string

	Attrs    map[string]string
	Children []*RawNode
}

func (n *RawNode) addChild(c *RawNode) { n.Children = append(n.Children, c) }
