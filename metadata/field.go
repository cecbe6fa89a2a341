package metadata

// Field subtypes.
const (
	FieldString  = "string"
	FieldInt     = "int"
	FieldLong    = "long"
	FieldDouble  = "double"
	FieldBoolean = "boolean"
	FieldDate    = "date"
)

// MetaField wraps a field node.
type MetaField struct {
	*MetaData
}

// NewField creates a detached field node.
func NewField(subType, name string) MetaField {
	return MetaField{New(TypeField, subType, name)}
}

// AsField wraps an existing field node.
func AsField(md *MetaData) MetaField { return MetaField{md} }

// IsKey reports whether the field carries isKey=true.
func (f MetaField) IsKey() bool { return f.AttrBool(AttrNameIsKey) }

// HasObjectRef reports whether the field carries an objectRef attribute.
func (f MetaField) HasObjectRef() bool { return f.HasAttr(AttrNameObjectRef) }

// ObjectRef resolves the field's objectRef attribute into the referenced
// MetaObject. The raw reference is expanded against the field's enclosing
// package (honoring relative "..::"-style paths) and looked up through
// the owning loader. Resolution is lazy: it happens on first call, is
// cached on the field, and returns an error wrapping ErrMetaDataNotFound
// when no object matches.
func (f MetaField) ObjectRef() (MetaObject, error) {
	v, err := f.ComputeCacheValue("objectRef", func() (any, error) {
		raw, ok := f.AttrValue(AttrNameObjectRef)
		if !ok {
			return nil, ErrNotFound("field [%s] has no %s attribute", Describe(f.MetaData), AttrNameObjectRef)
		}
		name, err := ExpandPackage(f.EnclosingPackage(), raw)
		if err != nil {
			return nil, err
		}
		l := f.Loader()
		if l == nil {
			return nil, ErrNotFound("field [%s] is not attached to a loaded graph; cannot resolve %q", Describe(f.MetaData), raw)
		}
		target, err := l.ObjectByName(name)
		if err != nil {
			return nil, ErrNotFound("unresolved %s %q (expanded to %q) on field [%s]", AttrNameObjectRef, raw, name, Describe(f.MetaData))
		}
		return target, nil
	})
	if err != nil {
		return MetaObject{}, err
	}
	return MetaObject{v.(*MetaData)}, nil
}

// DBColumn returns the field's SQL column name, defaulting to the short
// name when no dbColumn attribute is set.
func (f MetaField) DBColumn() string {
	if v, ok := f.AttrValue(AttrNameDBColumn); ok && v != "" {
		return v
	}
	return f.ShortName()
}
