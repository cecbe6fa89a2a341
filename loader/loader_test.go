package loader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaobjects-dev/metaobjects/loader/source"
	"github.com/metaobjects-dev/metaobjects/metadata"
	"github.com/metaobjects-dev/metaobjects/provider"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	types, constraints, err := provider.Bootstrap(nil)
	require.NoError(t, err)
	return New("test", types, constraints, nil)
}

func rawObject(subType, name string, attrs map[string]string, children ...*source.RawNode) *source.RawNode {
	return &source.RawNode{
		Type:     metadata.TypeObject,
		SubType:  subType,
		Name:     name,
		Attrs:    attrs,
		Children: children,
	}
}

func rawField(subType, name string, attrs map[string]string) *source.RawNode {
	return &source.RawNode{Type: metadata.TypeField, SubType: subType, Name: name, Attrs: attrs}
}

func rawRoot(pkg string, children ...*source.RawNode) *source.RawNode {
	return &source.RawNode{Type: metadata.TypeMetaData, Package: pkg, Children: children}
}

func TestLoadBuildsAndIndexesObjects(t *testing.T) {
	l := newTestLoader(t)

	err := l.Load(rawRoot("acme::common",
		rawObject(metadata.ObjectPojo, "User", map[string]string{"dbTable": "users"},
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
			rawField(metadata.FieldString, "name", map[string]string{"maxLength": "50"}),
		),
		rawObject(metadata.ObjectPojo, "Account", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
		),
	))
	require.NoError(t, err)

	objs := l.Objects()
	require.Len(t, objs, 2)
	assert.Equal(t, "acme::common::User", objs[0].QualifiedName())
	assert.Equal(t, "acme::common::Account", objs[1].QualifiedName())

	user, err := l.MetaObjectByName("acme::common::User")
	require.NoError(t, err)
	assert.Len(t, user.Fields(), 2)
	assert.Equal(t, 50, user.Fields()[1].AttrInt(metadata.AttrNameMaxLength, 0))

	key, err := user.PrimaryKeyField()
	require.NoError(t, err)
	assert.Equal(t, "id", key.ShortName())

	_, err = l.ObjectByName("acme::common::Missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrMetaDataNotFound))
}

func TestLoadUnknownTypeFails(t *testing.T) {
	l := newTestLoader(t)

	err := l.Load(rawRoot("acme",
		rawObject("hologram", "User", nil),
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrTypeNotFound))
	assert.Nil(t, l.Root())
}

func TestLoadRejectsDuplicateObject(t *testing.T) {
	l := newTestLoader(t)

	// The same qualified name declared in two source files of one load.
	err := l.Load(
		rawRoot("acme",
			rawObject(metadata.ObjectPojo, "User", nil,
				rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}))),
		rawRoot("acme",
			rawObject(metadata.ObjectPojo, "User", nil,
				rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}))),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")
}

func TestLoadRejectsInvalidAttributeValue(t *testing.T) {
	l := newTestLoader(t)

	err := l.Load(rawRoot("acme",
		rawObject(metadata.ObjectPojo, "User", nil,
			rawField(metadata.FieldString, "name", map[string]string{"maxLength": "-5"})),
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrInvalidAttributeValue))
}

func TestLoadRejectsMissingRequiredAttr(t *testing.T) {
	l := newTestLoader(t)

	err := l.Load(rawRoot("acme",
		rawObject(metadata.ObjectPojo, "Order", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
			&source.RawNode{Type: metadata.TypeRelationship, SubType: metadata.RelAssociation, Name: "customer"},
		),
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), metadata.AttrNameTargetObject)
}

func TestLoadResolvesForwardSuperReference(t *testing.T) {
	l := newTestLoader(t)

	// Derived appears before its super in the source.
	err := l.Load(rawRoot("acme",
		&source.RawNode{
			Type: metadata.TypeObject, SubType: metadata.ObjectPojo,
			Name: "Employee", Super: "::Person",
			Children: []*source.RawNode{
				rawField(metadata.FieldString, "title", nil),
			},
		},
		rawObject(metadata.ObjectPojo, "Person", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
			rawField(metadata.FieldString, "name", nil),
		),
	))
	require.NoError(t, err)

	emp, err := l.MetaObjectByName("acme::Employee")
	require.NoError(t, err)
	require.NotNil(t, emp.SuperData())
	assert.Equal(t, "Person", emp.SuperData().ShortName())

	fields := emp.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "title", fields[0].ShortName())

	key, err := emp.PrimaryKeyField()
	require.NoError(t, err)
	assert.Equal(t, "id", key.ShortName())
}

func TestLoadUnresolvedSuperFails(t *testing.T) {
	l := newTestLoader(t)

	err := l.Load(rawRoot("acme",
		&source.RawNode{
			Type: metadata.TypeObject, SubType: metadata.ObjectPojo,
			Name: "Employee", Super: "::Ghost",
			Children: []*source.RawNode{
				rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
			},
		},
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrMetaDataNotFound))
	assert.Contains(t, err.Error(), "::Ghost")
}

func TestObjectRefLazyResolutionAndCaching(t *testing.T) {
	l := newTestLoader(t)

	require.NoError(t, l.Load(rawRoot("acme::common",
		rawObject(metadata.ObjectPojo, "User", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
			rawField(metadata.FieldLong, "account", map[string]string{"objectRef": "::Account"}),
		),
		rawObject(metadata.ObjectPojo, "Account", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
		),
	)))

	user, err := l.MetaObjectByName("acme::common::User")
	require.NoError(t, err)
	f, err := user.Field("account")
	require.NoError(t, err)

	ref, err := f.ObjectRef()
	require.NoError(t, err)
	assert.Equal(t, "acme::common::Account", ref.QualifiedName())

	again, err := f.ObjectRef()
	require.NoError(t, err)
	assert.Same(t, ref.MetaData, again.MetaData)
}

func TestObjectRefRelativePackage(t *testing.T) {
	l := newTestLoader(t)

	require.NoError(t, l.Load(
		rawRoot("acme::billing",
			rawObject(metadata.ObjectPojo, "Invoice", nil,
				rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
				rawField(metadata.FieldLong, "customer", map[string]string{"objectRef": "..::crm::Customer"}),
			),
		),
		rawRoot("acme::crm",
			rawObject(metadata.ObjectPojo, "Customer", nil,
				rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
			),
		),
	))

	inv, err := l.MetaObjectByName("acme::billing::Invoice")
	require.NoError(t, err)
	f, err := inv.Field("customer")
	require.NoError(t, err)

	ref, err := f.ObjectRef()
	require.NoError(t, err)
	assert.Equal(t, "acme::crm::Customer", ref.QualifiedName())
}

func TestObjectRefUnresolvedFails(t *testing.T) {
	l := newTestLoader(t)

	require.NoError(t, l.Load(rawRoot("acme",
		rawObject(metadata.ObjectPojo, "User", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
			rawField(metadata.FieldLong, "account", map[string]string{"objectRef": "::Ghost"}),
		),
	)))

	user, err := l.MetaObjectByName("acme::User")
	require.NoError(t, err)
	f, err := user.Field("account")
	require.NoError(t, err)

	_, err = f.ObjectRef()
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrMetaDataNotFound))
	assert.Contains(t, err.Error(), "acme::Ghost")
}

func TestRelationshipTargetObject(t *testing.T) {
	l := newTestLoader(t)

	require.NoError(t, l.Load(rawRoot("acme",
		rawObject(metadata.ObjectPojo, "Order", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
			&source.RawNode{
				Type: metadata.TypeRelationship, SubType: metadata.RelComposition,
				Name: "lines", Attrs: map[string]string{"targetObject": "::OrderLine"},
			},
		),
		rawObject(metadata.ObjectPojo, "OrderLine", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
		),
	)))

	order, err := l.MetaObjectByName("acme::Order")
	require.NoError(t, err)
	relNode, err := order.FindChildOfType(metadata.TypeRelationship, "lines")
	require.NoError(t, err)

	target, err := metadata.MetaRelationship{MetaData: relNode}.TargetObject()
	require.NoError(t, err)
	assert.Equal(t, "acme::OrderLine", target.QualifiedName())
}

func TestReloadSwapsGraphAtomically(t *testing.T) {
	l := newTestLoader(t)

	require.NoError(t, l.Load(rawRoot("acme",
		rawObject(metadata.ObjectPojo, "User", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
			rawField(metadata.FieldLong, "account", map[string]string{"objectRef": "::Account"}),
		),
		rawObject(metadata.ObjectPojo, "Account", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
		),
	)))

	oldUser, err := l.MetaObjectByName("acme::User")
	require.NoError(t, err)
	oldField, err := oldUser.Field("account")
	require.NoError(t, err)

	// Reload with Account removed and User renamed.
	require.NoError(t, l.Load(rawRoot("acme",
		rawObject(metadata.ObjectPojo, "Member", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
		),
	)))

	// The published graph only knows the new objects.
	_, err = l.ObjectByName("acme::User")
	require.Error(t, err)
	_, err = l.ObjectByName("acme::Member")
	require.NoError(t, err)

	// Nodes of the old graph keep resolving within their own graph.
	ref, err := oldField.ObjectRef()
	require.NoError(t, err)
	assert.Equal(t, "acme::Account", ref.QualifiedName())
}

func TestFailedLoadKeepsPublishedGraph(t *testing.T) {
	l := newTestLoader(t)

	require.NoError(t, l.Load(rawRoot("acme",
		rawObject(metadata.ObjectPojo, "User", nil,
			rawField(metadata.FieldLong, "id", map[string]string{"isKey": "true"}),
		),
	)))

	err := l.Load(rawRoot("acme",
		rawObject("hologram", "Broken", nil),
	))
	require.Error(t, err)

	// The earlier graph is still published.
	_, err = l.ObjectByName("acme::User")
	require.NoError(t, err)
}

func TestLoadRejectsNonMetadataRoot(t *testing.T) {
	l := newTestLoader(t)
	err := l.Load(rawObject(metadata.ObjectPojo, "User", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"metadata"`)
}

func TestLoaderIdentity(t *testing.T) {
	a := newTestLoader(t)
	b := newTestLoader(t)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "test", a.Name())
}
