package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAttrAndAccessors(t *testing.T) {
	md := New(TypeObject, ObjectPojo, "User")

	require.NoError(t, md.SetAttr(AttrString, AttrNameDBTable, "users"))
	require.NoError(t, md.SetAttr(AttrBoolean, "audited", "true"))
	require.NoError(t, md.SetAttr(AttrInt, AttrNameMaxLength, "50"))
	require.NoError(t, md.SetAttr(AttrStringArray, AttrNameKeys, "id, tenantId"))

	v, ok := md.AttrValue(AttrNameDBTable)
	require.True(t, ok)
	assert.Equal(t, "users", v)

	assert.True(t, md.AttrBool("audited"))
	assert.False(t, md.AttrBool("missing"))
	assert.Equal(t, 50, md.AttrInt(AttrNameMaxLength, 0))
	assert.Equal(t, 7, md.AttrInt("missing", 7))
	assert.Equal(t, []string{"id", "tenantId"}, md.AttrStrings(AttrNameKeys))
	assert.Nil(t, md.AttrStrings("missing"))
}

func TestSetAttrReplacesValue(t *testing.T) {
	md := New(TypeObject, ObjectPojo, "User")

	require.NoError(t, md.SetAttr(AttrString, AttrNameDBTable, "users"))
	require.NoError(t, md.SetAttr(AttrString, AttrNameDBTable, "app_users"))

	// Replacing the value must not grow a second attr child.
	assert.Len(t, md.ChildrenOfType(TypeAttr, false), 1)
	v, _ := md.AttrValue(AttrNameDBTable)
	assert.Equal(t, "app_users", v)
}

type rejectValueEnforcer struct{}

func (rejectValueEnforcer) CheckPlacement(parent, child *MetaData) error { return nil }

func (rejectValueEnforcer) CheckValue(node *MetaData, attrName, value string) error {
	if value == "bad" {
		return ErrValue("value %q rejected for %q", value, attrName)
	}
	return nil
}

func TestSetValueKeepsOldValueOnFailure(t *testing.T) {
	md := New(TypeObject, ObjectPojo, "User")
	md.SetEnforcer(rejectValueEnforcer{})

	require.NoError(t, md.SetAttr(AttrString, AttrNameDBTable, "users"))

	err := md.SetAttr(AttrString, AttrNameDBTable, "bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAttributeValue))

	v, _ := md.AttrValue(AttrNameDBTable)
	assert.Equal(t, "users", v)
}

func TestSetAttrRejectedFirstSetAttachesNothing(t *testing.T) {
	md := New(TypeObject, ObjectPojo, "User")
	md.SetEnforcer(rejectValueEnforcer{})

	err := md.SetAttr(AttrString, AttrNameDBTable, "bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAttributeValue))

	// No empty-valued attribute node may be left behind.
	assert.False(t, md.HasAttr(AttrNameDBTable))
	assert.Empty(t, md.ChildrenOfType(TypeAttr, false))
}

func TestAttrInheritedThroughSuperChain(t *testing.T) {
	base := New(TypeObject, SubTypeBase, "Base")
	require.NoError(t, base.SetAttr(AttrString, AttrNameXMLName, "base"))

	derived := New(TypeObject, ObjectPojo, "Derived")
	derived.SetSuperData(base)

	assert.True(t, derived.HasAttr(AttrNameXMLName))
	v, ok := derived.AttrValue(AttrNameXMLName)
	require.True(t, ok)
	assert.Equal(t, "base", v)
}
