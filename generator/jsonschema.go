package generator

import (
	"encoding/json"
	"io"

	"github.com/metaobjects-dev/metaobjects/loader"
	"github.com/metaobjects-dev/metaobjects/metadata"
)

// JSONSchemaGenerator emits a JSON Schema document with one definition
// per loaded object. Output is deterministic: objects appear in
// declaration order and properties in field declaration order.
type JSONSchemaGenerator struct{}

// Name implements Generator.
func (*JSONSchemaGenerator) Name() string { return "jsonschema" }

type jsonSchemaDoc struct {
	Schema      string                 `json:"$schema"`
	Definitions map[string]*jsonSchema `json:"definitions"`
}

type jsonSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]*jsonSchema `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
	MaxLength  int                    `json:"maxLength,omitempty"`
	Format     string                 `json:"format,omitempty"`
	Ref        string                 `json:"$ref,omitempty"`

	propOrder []string
}

// MarshalJSON keeps property order stable without relying on Go map
// iteration.
func (s *jsonSchema) MarshalJSON() ([]byte, error) {
	type ordered struct {
		Type      string          `json:"type,omitempty"`
		Props     json.RawMessage `json:"properties,omitempty"`
		Required  []string        `json:"required,omitempty"`
		MaxLength int             `json:"maxLength,omitempty"`
		Format    string          `json:"format,omitempty"`
		Ref       string          `json:"$ref,omitempty"`
	}
	o := ordered{Type: s.Type, Required: s.Required, MaxLength: s.MaxLength, Format: s.Format, Ref: s.Ref}
	if len(s.propOrder) > 0 {
		buf := []byte{'{'}
		for i, name := range s.propOrder {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, _ := json.Marshal(name)
			val, err := json.Marshal(s.Properties[name])
			if err != nil {
				return nil, err
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			buf = append(buf, val...)
		}
		buf = append(buf, '}')
		o.Props = buf
	}
	return json.Marshal(o)
}

// Generate implements Generator.
func (g *JSONSchemaGenerator) Generate(w io.Writer, l *loader.Loader) error {
	doc := jsonSchemaDoc{
		Schema:      "http://json-schema.org/draft-07/schema#",
		Definitions: map[string]*jsonSchema{},
	}

	var defOrder []string
	for _, obj := range l.Objects() {
		def := &jsonSchema{Type: "object", Properties: map[string]*jsonSchema{}}
		for _, f := range obj.Fields() {
			prop := fieldSchema(f)
			def.Properties[f.ShortName()] = prop
			def.propOrder = append(def.propOrder, f.ShortName())
			if f.IsKey() {
				def.Required = append(def.Required, f.ShortName())
			}
		}
		doc.Definitions[obj.ShortName()] = def
		defOrder = append(defOrder, obj.ShortName())
	}

	// definitions in declaration order
	buf := []byte(`{"$schema":"http://json-schema.org/draft-07/schema#","definitions":{`)
	for i, name := range defOrder {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, _ := json.Marshal(name)
		val, err := json.Marshal(doc.Definitions[name])
		if err != nil {
			return err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, '}', '}', '\n')
	_, err := w.Write(buf)
	return err
}

func fieldSchema(f metadata.MetaField) *jsonSchema {
	s := &jsonSchema{}
	switch f.SubType() {
	case metadata.FieldString:
		s.Type = "string"
		if n := f.AttrInt(metadata.AttrNameMaxLength, 0); n > 0 {
			s.MaxLength = n
		}
	case metadata.FieldInt, metadata.FieldLong:
		s.Type = "integer"
	case metadata.FieldDouble:
		s.Type = "number"
	case metadata.FieldBoolean:
		s.Type = "boolean"
	case metadata.FieldDate:
		s.Type = "string"
		s.Format = "date-time"
	default:
		s.Type = "string"
	}
	if ref, err := f.ObjectRef(); err == nil {
		s.Ref = "#/definitions/" + ref.ShortName()
		s.Type = ""
	}
	return s
}
