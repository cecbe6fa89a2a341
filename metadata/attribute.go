package metadata

import (
	"strconv"
	"strings"
)

// Attribute subtypes: the primitive kind an attribute value carries.
const (
	AttrString      = "string"
	AttrInt         = "int"
	AttrBoolean     = "boolean"
	AttrStringArray = "stringArray"
)

// Well-known attribute names consumed by collaborators (IO, codegen,
// persistence). Each has a documented kind enforced by validation
// constraints registered alongside the core types.
const (
	AttrNameIsKey        = "isKey"        // boolean
	AttrNameObjectRef    = "objectRef"    // string, qualified name
	AttrNameXMLName      = "xmlName"      // string, XML identifier
	AttrNameXMLWrap      = "xmlWrap"      // boolean
	AttrNameDefaultValue = "defaultValue" // string
	AttrNameMaxLength    = "maxLength"    // int
	AttrNameDBTable      = "dbTable"      // string, SQL identifier
	AttrNameDBColumn     = "dbColumn"     // string, SQL identifier
	AttrNameKeys         = "keys"         // stringArray, field names
	AttrNameTargetObject = "targetObject" // string, qualified name
	AttrNameSuper        = "super"        // string, qualified name
)

// MetaAttribute wraps an attribute node, giving access to its value.
type MetaAttribute struct {
	*MetaData
}

// NewAttribute creates a detached attribute node of the given kind.
func NewAttribute(kind, name string) MetaAttribute {
	return MetaAttribute{New(TypeAttr, kind, name)}
}

// AsAttribute wraps an existing attr node.
func AsAttribute(md *MetaData) MetaAttribute { return MetaAttribute{md} }

// Value returns the attribute's raw string value.
func (a MetaAttribute) Value() string { return a.attrValue }

// SetValue validates and stores the attribute's value. Every applicable
// validation constraint must accept the value; on failure the previous
// value is retained.
func (a MetaAttribute) SetValue(value string) error {
	owner := a.parent
	if e := a.EnforcerRef(); e != nil && owner != nil {
		if err := e.CheckValue(owner, a.shortName, value); err != nil {
			return err
		}
	}
	a.MetaData.attrValue = value
	return nil
}

// HasAttr reports whether the node carries an attribute with the given
// name, searching the super-data chain.
func (md *MetaData) HasAttr(name string) bool {
	_, err := md.FindChildOfType(TypeAttr, name)
	return err == nil
}

// Attr returns the named attribute, searching the super-data chain, or an
// error wrapping ErrMetaDataNotFound.
func (md *MetaData) Attr(name string) (MetaAttribute, error) {
	c, err := md.FindChildOfType(TypeAttr, name)
	if err != nil {
		return MetaAttribute{}, err
	}
	return MetaAttribute{c}, nil
}

// AttrValue returns the named attribute's string value, or "" and false
// when absent.
func (md *MetaData) AttrValue(name string) (string, bool) {
	a, err := md.Attr(name)
	if err != nil {
		return "", false
	}
	return a.Value(), true
}

// AttrBool interprets the named attribute as a boolean; absent attributes
// return false.
func (md *MetaData) AttrBool(name string) bool {
	v, ok := md.AttrValue(name)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// AttrInt interprets the named attribute as an integer; absent or
// malformed attributes return the fallback.
func (md *MetaData) AttrInt(name string, fallback int) int {
	v, ok := md.AttrValue(name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// AttrStrings interprets the named attribute as a comma-separated list.
func (md *MetaData) AttrStrings(name string) []string {
	v, ok := md.AttrValue(name)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// SetAttr attaches (or replaces the value of) an attribute on the node.
// The attachment is placement-checked and the value is validation-checked
// like any other child/value mutation. A rejected value leaves the node
// untouched: no attribute is attached for a first set, and an existing
// attribute keeps its previous value.
func (md *MetaData) SetAttr(kind, name, value string) error {
	if c := md.childByTypeAndName(TypeAttr, name); c != nil {
		return MetaAttribute{c}.SetValue(value)
	}
	if e := md.EnforcerRef(); e != nil {
		if err := e.CheckValue(md, name, value); err != nil {
			return err
		}
	}
	a := NewAttribute(kind, name)
	if err := md.AddChild(a.MetaData); err != nil {
		return err
	}
	a.MetaData.attrValue = value
	return nil
}
