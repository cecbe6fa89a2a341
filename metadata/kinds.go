package metadata

// Key subtypes.
const (
	KeyPrimary   = "primary"
	KeySecondary = "secondary"
	KeyForeign   = "foreign"
)

// Validator subtypes.
const (
	ValidatorRequired = "required"
	ValidatorRegex    = "regex"
	ValidatorLength   = "length"
	ValidatorNumeric  = "numeric"
)

// View subtypes.
const (
	ViewText    = "text"
	ViewDate    = "date"
	ViewNumeric = "numeric"
)

// Relationship subtypes.
const (
	RelAssociation = "association"
	RelComposition = "composition"
	RelAggregation = "aggregation"
)

// MetaKey wraps a key node: a named key declaration (primary, secondary,
// or foreign) listing the fields it spans via the keys attribute.
type MetaKey struct {
	*MetaData
}

// NewKey creates a detached key node.
func NewKey(subType, name string) MetaKey {
	return MetaKey{New(TypeKey, subType, name)}
}

// FieldNames returns the field names the key spans.
func (k MetaKey) FieldNames() []string { return k.AttrStrings(AttrNameKeys) }

// MetaValidator wraps a validator node attached to a field.
type MetaValidator struct {
	*MetaData
}

// NewValidator creates a detached validator node.
func NewValidator(subType, name string) MetaValidator {
	return MetaValidator{New(TypeValidator, subType, name)}
}

// MetaView wraps a view node describing how a field is rendered.
type MetaView struct {
	*MetaData
}

// NewView creates a detached view node.
func NewView(subType, name string) MetaView {
	return MetaView{New(TypeView, subType, name)}
}

// MetaRelationship wraps a relationship node linking the enclosing object
// to a target object named by the targetObject attribute.
type MetaRelationship struct {
	*MetaData
}

// NewRelationship creates a detached relationship node.
func NewRelationship(subType, name string) MetaRelationship {
	return MetaRelationship{New(TypeRelationship, subType, name)}
}

// TargetObject resolves the relationship's targetObject reference through
// the owning loader, with the same expansion and caching semantics as
// MetaField.ObjectRef.
func (r MetaRelationship) TargetObject() (MetaObject, error) {
	v, err := r.ComputeCacheValue("targetObject", func() (any, error) {
		raw, ok := r.AttrValue(AttrNameTargetObject)
		if !ok {
			return nil, ErrNotFound("relationship [%s] has no %s attribute", Describe(r.MetaData), AttrNameTargetObject)
		}
		name, err := ExpandPackage(r.EnclosingPackage(), raw)
		if err != nil {
			return nil, err
		}
		l := r.Loader()
		if l == nil {
			return nil, ErrNotFound("relationship [%s] is not attached to a loaded graph; cannot resolve %q", Describe(r.MetaData), raw)
		}
		target, err := l.ObjectByName(name)
		if err != nil {
			return nil, ErrNotFound("unresolved %s %q (expanded to %q) on relationship [%s]", AttrNameTargetObject, raw, name, Describe(r.MetaData))
		}
		return target, nil
	})
	if err != nil {
		return MetaObject{}, err
	}
	return MetaObject{v.(*MetaData)}, nil
}
