package datastore

import (
	"encoding/json"
	"io"

	"github.com/openconfig/goyang/pkg/yang"

	"github.com/andaru/yangdata/dom"
)

// WriteJSON serializes root's children as YANG/JSON (RFC 7951): member
// names are qualified with their owning module name only when it
// differs from the enclosing node's module, lists and leaf-lists
// aggregate same-schema siblings into a JSON array, and an empty-type
// leaf's value is the one-element array [null].
//
// The final JSON encoding itself is handed to encoding/json: RFC7951's
// member-naming and list-aggregation rules have no counterpart in any
// JSON library in reach of this module, so building that shape is
// necessarily bespoke, but encoding a plain Go value tree to bytes is
// exactly what encoding/json already does correctly.
func (un *Decoder) WriteJSON(w io.Writer, root dom.Node) error {
	obj, err := un.jsonObject(root, "")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	return enc.Encode(obj)
}

// jsonObject builds the JSON object for parent's element children,
// qualifying member names relative to parentOwner (the JSON module
// name of parent's own schema, or "" for a document root, which always
// qualifies every member).
func (un *Decoder) jsonObject(parent dom.Node, parentOwner string) (map[string]interface{}, error) {
	obj := make(map[string]interface{})
	attrArrayHasValue := make(map[string]bool)
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() != dom.NodeTypeElement {
			continue
		}
		b := un.bindings[c]
		if b == nil || b.Discarded {
			continue
		}
		key := jsonMemberName(b.Schema, parentOwner)
		val, err := un.jsonValue(c, b)
		if err != nil {
			return nil, err
		}
		attrKey := "@" + key
		attrObj := jsonAttrObject(b.Attrs)
		if b.Schema.ListAttr != nil {
			arr, _ := obj[key].([]interface{})
			obj[key] = append(arr, val)
			aarr, _ := obj[attrKey].([]interface{})
			obj[attrKey] = append(aarr, attrObj)
			if attrObj != nil {
				attrArrayHasValue[attrKey] = true
			}
		} else {
			obj[key] = val
			if attrObj != nil {
				obj[attrKey] = attrObj
			}
		}
	}
	// A list/leaf-list's "@name" array is only meaningful when at least
	// one instance actually carries attributes; an all-nil parallel
	// array is noise no reader needs.
	for key, val := range obj {
		if len(key) == 0 || key[0] != '@' {
			continue
		}
		if _, ok := val.([]interface{}); ok && !attrArrayHasValue[key] {
			delete(obj, key)
		}
	}
	return obj, nil
}

// jsonAttrObject renders a node's data attributes as the RFC7952
// metadata object keyed by module-qualified annotation name, or nil if
// the node carries none.
func jsonAttrObject(attrs []Attribute) map[string]interface{} {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(attrs))
	for _, a := range attrs {
		name := a.Name
		if a.Module != nil {
			name = moduleJSONName(a.Module) + ":" + name
		}
		m[name] = a.Value
	}
	return m
}

// jsonValue renders a single bound element's own value: a scalar for a
// leaf/leaf-list, a nested object for a container/list entry/RPC
// input-output, or the opaque payload for anyxml.
func (un *Decoder) jsonValue(n dom.Node, b *Binding) (interface{}, error) {
	switch b.Schema.Kind {
	case yang.AnyXMLEntry:
		return jsonFromAnyxml(b.Anyxml), nil
	case yang.LeafEntry:
		return jsonLeafValue(b), nil
	default:
		return un.jsonObject(n, ownerModuleName(b.Schema))
	}
}

// jsonMemberName returns schema's JSON member name, qualified with its
// owning module name iff that module differs from parentOwner.
func jsonMemberName(schema *yang.Entry, parentOwner string) string {
	owner := ownerModuleName(schema)
	if owner == parentOwner {
		return schema.Name
	}
	return owner + ":" + schema.Name
}

// jsonLeafValue renders a decoded leaf Value per RFC7951 §6.1's type
// table: bool as a JSON boolean, the 32-bit-and-under integer types as
// JSON numbers, empty as the singleton array [null], everything else
// (64-bit integers, decimal64, string-family types, identityref,
// instance-identifier, leafref) as a JSON string using the leaf's
// already-canonical ValueStr.
func jsonLeafValue(b *Binding) interface{} {
	switch b.ValueType {
	case yang.Ybool:
		return b.Value.Bool
	case yang.Yint8, yang.Yint16, yang.Yint32,
		yang.Yuint8, yang.Yuint16, yang.Yuint32:
		return json.Number(b.ValueStr)
	case yang.Yempty:
		return []interface{}{nil}
	default:
		return b.ValueStr
	}
}

// jsonFromAnyxml converts an anyxml payload's shadow document into a
// plain, schema-ignorant JSON value tree: each element becomes an
// object keyed by local name (repeated children aggregate into
// arrays), and an element with no element children renders as its
// text content.
func jsonFromAnyxml(doc dom.Node) interface{} {
	return jsonFromAnyxmlChildren(doc)
}

func jsonFromAnyxmlChildren(n dom.Node) interface{} {
	var hasElementChild bool
	obj := make(map[string]interface{})
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() != dom.NodeTypeElement {
			continue
		}
		hasElementChild = true
		key := c.Name().Local
		val := jsonFromAnyxmlChildren(c)
		if arr, ok := obj[key].([]interface{}); ok {
			obj[key] = append(arr, val)
		} else if existing, ok := obj[key]; ok {
			obj[key] = []interface{}{existing, val}
		} else {
			obj[key] = val
		}
	}
	if hasElementChild {
		return obj
	}
	return n.ChildValue()
}
