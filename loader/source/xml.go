package source

import (
	"encoding/xml"
	"fmt"
	"io"
)

// XML metadata document shape, equivalent to the JSON form:
//
//	<metadata package="acme::common">
//	    <object name="User" subType="pojo" dbTable="users">
//	        <field name="id" subType="long" isKey="true"/>
//	    </object>
//	</metadata>
//
// Element names are node types; the name, subType, super, and package
// attributes are structural and every other XML attribute becomes an
// inline attribute.

// ReadXML parses an XML metadata document into a raw tree rooted at a
// "metadata" node.
func ReadXML(r io.Reader) (*RawNode, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("metadata XML missing top-level <metadata> element")
		}
		if err != nil {
			return nil, fmt.Errorf("malformed metadata XML: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "metadata" {
			return nil, fmt.Errorf("metadata XML must start with <metadata>, found <%s>", start.Name.Local)
		}
		return xmlNode(dec, start)
	}
}

func xmlNode(dec *xml.Decoder, start xml.StartElement) (*RawNode, error) {
	n := &RawNode{Type: start.Name.Local, Attrs: map[string]string{}}
	for _, a := range start.Attr {
		switch a.Name.Local {
		case keyName:
			n.Name = a.Value
		case keySubType:
			n.SubType = a.Value
		case keySuper:
			n.Super = a.Value
		case keyPackage:
			n.Package = a.Value
		default:
			n.Attrs[a.Name.Local] = a.Value
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("malformed <%s> element: %w", n.Type, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := xmlNode(dec, t)
			if err != nil {
				return nil, err
			}
			n.addChild(child)
		case xml.EndElement:
			return n, nil
		}
	}
}
