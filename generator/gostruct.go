package generator

import (
	"fmt"
	"io"
	"strings"

	"github.com/metaobjects-dev/metaobjects/loader"
	"github.com/metaobjects-dev/metaobjects/metadata"
)

// GoStructGenerator emits one Go struct per loaded object, with field
// tags carrying the JSON name and, when present, the database column.
type GoStructGenerator struct {
	// PackageName for the generated file; defaults to "model".
	PackageName string
}

// Name implements Generator.
func (*GoStructGenerator) Name() string { return "gostruct" }

// Generate implements Generator.
func (g *GoStructGenerator) Generate(w io.Writer, l *loader.Loader) error {
	pkg := g.PackageName
	if pkg == "" {
		pkg = "model"
	}

	var b strings.Builder
	b.WriteString("// Code generated from metadata. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n", pkg)

	needsTime := false
	for _, obj := range l.Objects() {
		for _, f := range obj.Fields() {
			if f.SubType() == metadata.FieldDate {
				needsTime = true
			}
		}
	}
	if needsTime {
		b.WriteString("\nimport \"time\"\n")
	}

	for _, obj := range l.Objects() {
		fmt.Fprintf(&b, "\ntype %s struct {\n", exportName(obj.ShortName()))
		for _, f := range obj.Fields() {
			tag := fmt.Sprintf("`json:%q", f.ShortName())
			if col, ok := f.AttrValue(metadata.AttrNameDBColumn); ok && col != "" {
				tag += fmt.Sprintf(" db:%q", col)
			}
			tag += "`"
			fmt.Fprintf(&b, "\t%s %s %s\n", exportName(f.ShortName()), goType(f), tag)
		}
		b.WriteString("}\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func goType(f metadata.MetaField) string {
	if ref, err := f.ObjectRef(); err == nil {
		return "*" + exportName(ref.ShortName())
	}
	switch f.SubType() {
	case metadata.FieldInt:
		return "int32"
	case metadata.FieldLong:
		return "int64"
	case metadata.FieldDouble:
		return "float64"
	case metadata.FieldBoolean:
		return "bool"
	case metadata.FieldDate:
		return "time.Time"
	default:
		return "string"
	}
}

func exportName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
