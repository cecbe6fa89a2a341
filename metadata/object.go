package metadata

import "fmt"

// Object subtypes.
const (
	ObjectPojo  = "pojo"
	ObjectProxy = "proxy"
	ObjectMap   = "map"
)

// MetaObject wraps an object node: the unit that aggregates fields, keys,
// views, validators, and relationships.
type MetaObject struct {
	*MetaData
}

// NewObject creates a detached object node. The name may be
// package-qualified.
func NewObject(subType, name string) MetaObject {
	return MetaObject{New(TypeObject, subType, name)}
}

// AsObject wraps an existing object node.
func AsObject(md *MetaData) MetaObject { return MetaObject{md} }

// QualifiedName returns the object's package-qualified name, using the
// enclosing package when the name itself carries none.
func (o MetaObject) QualifiedName() string {
	if o.pkg != "" {
		return o.name
	}
	return JoinName(o.EnclosingPackage(), o.shortName)
}

// Fields returns the object's fields in declaration order, including
// fields inherited through the super-data chain.
func (o MetaObject) Fields() []MetaField {
	kids := o.ChildrenOfType(TypeField, true)
	out := make([]MetaField, 0, len(kids))
	for _, c := range kids {
		out = append(out, MetaField{c})
	}
	return out
}

// Field returns the named field, searching inherited fields.
func (o MetaObject) Field(name string) (MetaField, error) {
	c, err := o.FindChildOfType(TypeField, name)
	if err != nil {
		return MetaField{}, err
	}
	return MetaField{c}, nil
}

// Keys returns the object's key declarations.
func (o MetaObject) Keys() []MetaKey {
	kids := o.ChildrenOfType(TypeKey, true)
	out := make([]MetaKey, 0, len(kids))
	for _, c := range kids {
		out = append(out, MetaKey{c})
	}
	return out
}

// PrimaryKeyField resolves the object's single primary key field: the
// field named by a key.primary declaration, or the field carrying
// isKey=true. Exactly one key field must exist; zero or several is an
// error. The resolution is computed once per object and cached.
func (o MetaObject) PrimaryKeyField() (MetaField, error) {
	v, err := o.ComputeCacheValue("primaryKeyField", func() (any, error) {
		names := o.keyFieldNames()
		switch len(names) {
		case 1:
			f, err := o.Field(names[0])
			if err != nil {
				return nil, ErrNotFound("primary key field %q not declared on object %q", names[0], o.QualifiedName())
			}
			return f.MetaData, nil
		case 0:
			return nil, fmt.Errorf("object %q has no key field: expected exactly one field with %s=true or a key.%s declaration", o.QualifiedName(), AttrNameIsKey, KeyPrimary)
		default:
			return nil, fmt.Errorf("object %q has %d key fields %v: expected exactly one", o.QualifiedName(), len(names), names)
		}
	})
	if err != nil {
		return MetaField{}, err
	}
	return MetaField{v.(*MetaData)}, nil
}

func (o MetaObject) keyFieldNames() []string {
	for _, k := range o.Keys() {
		if k.SubType() == KeyPrimary {
			if names := k.AttrStrings(AttrNameKeys); len(names) > 0 {
				return names
			}
		}
	}
	var names []string
	for _, f := range o.Fields() {
		if f.AttrBool(AttrNameIsKey) {
			names = append(names, f.ShortName())
		}
	}
	return names
}
