package generator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaobjects-dev/metaobjects/loader"
	"github.com/metaobjects-dev/metaobjects/loader/source"
	"github.com/metaobjects-dev/metaobjects/metadata"
	"github.com/metaobjects-dev/metaobjects/provider"
)

func loadTestGraph(t *testing.T) *loader.Loader {
	t.Helper()
	types, constraints, err := provider.Bootstrap(nil)
	require.NoError(t, err)
	l := loader.New("test", types, constraints, nil)

	require.NoError(t, l.Load(&source.RawNode{
		Type: metadata.TypeMetaData, Package: "acme",
		Children: []*source.RawNode{
			{
				Type: metadata.TypeObject, SubType: metadata.ObjectPojo, Name: "User",
				Attrs: map[string]string{"dbTable": "users"},
				Children: []*source.RawNode{
					{Type: metadata.TypeField, SubType: metadata.FieldLong, Name: "id",
						Attrs: map[string]string{"isKey": "true"}},
					{Type: metadata.TypeField, SubType: metadata.FieldString, Name: "name",
						Attrs: map[string]string{"maxLength": "50", "dbColumn": "full_name"}},
					{Type: metadata.TypeField, SubType: metadata.FieldDate, Name: "created"},
					{Type: metadata.TypeField, SubType: metadata.FieldLong, Name: "account",
						Attrs: map[string]string{"objectRef": "::Account"}},
				},
			},
			{
				Type: metadata.TypeObject, SubType: metadata.ObjectPojo, Name: "Account",
				Children: []*source.RawNode{
					{Type: metadata.TypeField, SubType: metadata.FieldLong, Name: "id",
						Attrs: map[string]string{"isKey": "true"}},
					{Type: metadata.TypeField, SubType: metadata.FieldBoolean, Name: "active"},
					{Type: metadata.TypeField, SubType: metadata.FieldDouble, Name: "balance"},
				},
			},
		},
	}))
	return l
}

func TestByName(t *testing.T) {
	g, err := ByName("jsonschema")
	require.NoError(t, err)
	assert.Equal(t, "jsonschema", g.Name())

	_, err = ByName("protobuf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"protobuf"`)
}

func TestJSONSchemaGenerate(t *testing.T) {
	l := loadTestGraph(t)

	var buf bytes.Buffer
	require.NoError(t, (&JSONSchemaGenerator{}).Generate(&buf, l))

	want := `{"$schema":"http://json-schema.org/draft-07/schema#","definitions":{` +
		`"User":{"type":"object","properties":{` +
		`"id":{"type":"integer"},` +
		`"name":{"type":"string","maxLength":50},` +
		`"created":{"type":"string","format":"date-time"},` +
		`"account":{"$ref":"#/definitions/Account"}` +
		`},"required":["id"]},` +
		`"Account":{"type":"object","properties":{` +
		`"id":{"type":"integer"},` +
		`"active":{"type":"boolean"},` +
		`"balance":{"type":"number"}` +
		`},"required":["id"]}}}` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestJSONSchemaDeterministic(t *testing.T) {
	l := loadTestGraph(t)

	var first bytes.Buffer
	require.NoError(t, (&JSONSchemaGenerator{}).Generate(&first, l))
	for i := 0; i < 5; i++ {
		var again bytes.Buffer
		require.NoError(t, (&JSONSchemaGenerator{}).Generate(&again, l))
		assert.Equal(t, first.String(), again.String())
	}
}

func TestGoStructGenerate(t *testing.T) {
	l := loadTestGraph(t)

	var buf bytes.Buffer
	require.NoError(t, (&GoStructGenerator{}).Generate(&buf, l))
	out := buf.String()

	assert.Contains(t, out, "// Code generated from metadata. DO NOT EDIT.")
	assert.Contains(t, out, "package model")
	assert.Contains(t, out, `import "time"`)
	assert.Contains(t, out, "type User struct {")
	assert.Contains(t, out, "\tId int64 `json:\"id\"`\n")
	assert.Contains(t, out, "\tName string `json:\"name\" db:\"full_name\"`\n")
	assert.Contains(t, out, "\tCreated time.Time `json:\"created\"`\n")
	assert.Contains(t, out, "\tAccount *Account `json:\"account\"`\n")
	assert.Contains(t, out, "\tBalance float64 `json:\"balance\"`\n")
	assert.Contains(t, out, "\tActive bool `json:\"active\"`\n")
}

func TestGoStructCustomPackage(t *testing.T) {
	l := loadTestGraph(t)

	var buf bytes.Buffer
	require.NoError(t, (&GoStructGenerator{PackageName: "entities"}).Generate(&buf, l))
	assert.Contains(t, buf.String(), "package entities")
}
