package source

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// JSON metadata document shape:
//
//	{"metadata": {"package": "acme::common", "children": [
//	    {"object": {"name": "User", "subType": "pojo", "dbTable": "users",
//	                "children": [
//	        {"field": {"name": "id", "subType": "long", "isKey": true}}
//	    ]}}
//	]}}
//
// Each child is a single-key object whose key is the node's type. The
// keys "name", "subType", "super", "package", and "children" are
// structural; every other scalar key becomes an inline attribute.

// Reserved JSON/XML keys that are structural rather than attributes.
const (
	keyName     = "name"
	keySubType  = "subType"
	keySuper    = "super"
	keyPackage  = "package"
	keyChildren = "children"
)

// ReadJSON parses a JSON metadata document into a raw tree rooted at a
// "metadata" node.
func ReadJSON(r io.Reader) (*RawNode, error) {
	var doc map[string]json.RawMessage
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed metadata JSON: %w", err)
	}
	body, ok := doc["metadata"]
	if !ok {
		return nil, fmt.Errorf("metadata JSON missing top-level \"metadata\" element")
	}
	root, err := jsonNode("metadata", body)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func jsonNode(typ string, body json.RawMessage) (*RawNode, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("malformed %q element: %w", typ, err)
	}

	n := &RawNode{Type: typ, Attrs: map[string]string{}}
	for _, key := range sortedKeys(fields) {
		raw := fields[key]
		switch key {
		case keyName:
			if err := json.Unmarshal(raw, &n.Name); err != nil {
				return nil, fmt.Errorf("%q element: name must be a string: %w", typ, err)
			}
		case keySubType:
			if err := json.Unmarshal(raw, &n.SubType); err != nil {
				return nil, fmt.Errorf("%q element: subType must be a string: %w", typ, err)
			}
		case keySuper:
			if err := json.Unmarshal(raw, &n.Super); err != nil {
				return nil, fmt.Errorf("%q element: super must be a string: %w", typ, err)
			}
		case keyPackage:
			if err := json.Unmarshal(raw, &n.Package); err != nil {
				return nil, fmt.Errorf("%q element: package must be a string: %w", typ, err)
			}
		case keyChildren:
			var kids []map[string]json.RawMessage
			if err := json.Unmarshal(raw, &kids); err != nil {
				return nil, fmt.Errorf("%q element: children must be an array of single-key objects: %w", typ, err)
			}
			for _, kid := range kids {
				if len(kid) != 1 {
					return nil, fmt.Errorf("%q element: each child must be a single-key object naming its type", typ)
				}
				for childType, childBody := range kid {
					child, err := jsonNode(childType, childBody)
					if err != nil {
						return nil, err
					}
					n.addChild(child)
				}
			}
		default:
			v, err := jsonScalar(raw)
			if err != nil {
				return nil, fmt.Errorf("%q element: attribute %q: %w", typ, key, err)
			}
			n.Attrs[key] = v
		}
	}
	return n, nil
}

func jsonScalar(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected a scalar value")
	}
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
