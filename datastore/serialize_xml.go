package datastore

import (
	"io"

	xml "github.com/andaru/flexml"
	"github.com/openconfig/goyang/pkg/yang"

	"github.com/andaru/yangdata/dom"
)

// WriteXML serializes root (and its descendants) as YANG/XML
// (RFC 6020 §"XML Encoding Rules"), honoring the schema bindings this
// Decoder built: a Discarded node's subtree is omitted, an anyxml
// node's payload is copied verbatim from its detached shadow document,
// and identityref/instance-identifier leaves (stored internally in
// JSON module-name-prefixed form) are translated back to XML namespace
// prefixes with the namespace declarations they require.
//
// Ordinary structural nodes reuse dom's own namespace-elision rule
// (see dom.Marshaler): a child's namespace is only written when it
// differs from its parent's.
func (un *Decoder) WriteXML(w io.Writer, root dom.Node) error {
	enc := xml.NewEncoder(w)
	if err := un.encodeXML(enc, root); err != nil {
		return err
	}
	return enc.Flush()
}

func (un *Decoder) encodeXML(enc *xml.Encoder, n dom.Node) error {
	switch n.NodeType() {
	case dom.NodeTypeDocument, dom.NodeTypeDocumentFragment:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if err := un.encodeXML(enc, c); err != nil {
				return err
			}
		}
		return nil
	case dom.NodeTypeElement:
		return un.encodeXMLElement(enc, n)
	case dom.NodeTypeText:
		return enc.EncodeToken(xml.CharData(n.Value()))
	default:
		return nil
	}
}

func (un *Decoder) encodeXMLElement(enc *xml.Encoder, n dom.Node) error {
	b := un.bindings[n]
	if b != nil && b.Discarded {
		return nil
	}
	el := n.(dom.Element)
	name := xmlNameRelativeTo(el, n.Parent())

	if b != nil && b.Schema.Kind == yang.AnyXMLEntry {
		if err := enc.EncodeToken(xml.StartElement{Name: name}); err != nil {
			return err
		}
		for c := b.Anyxml.FirstChild(); c != nil; c = c.NextSibling() {
			if err := un.encodeXMLRaw(enc, c); err != nil {
				return err
			}
		}
		return enc.EncodeToken(xml.EndElement{Name: name})
	}

	var attrs []xml.Attr
	var textOverride *string
	if b != nil {
		for _, a := range b.Attrs {
			aname := xml.Name{Local: a.Name}
			if a.Module != nil && a.Module.Namespace != nil && a.Module.Namespace.Name != el.Name().Space {
				prefix := a.Module.Name
				if a.Module.Prefix != nil {
					prefix = a.Module.Prefix.Name
				}
				aname.Space = prefix
				attrs = append(attrs, xml.Attr{
					Name:  xml.Name{Space: "xmlns", Local: prefix},
					Value: a.Module.Namespace.Name,
				})
			}
			attrs = append(attrs, xml.Attr{Name: aname, Value: a.Value})
		}
	}
	if b != nil && b.Schema.Kind == yang.LeafEntry {
		switch b.ValueType {
		case yang.Yidentityref, yang.YinstanceIdentifier:
			owner := ownerModuleName(b.Schema)
			text, decls, err := json2xml(b.ValueStr, owner, un.Modules)
			if err != nil {
				return err
			}
			textOverride = &text
			for _, d := range decls {
				attrs = append(attrs, xml.Attr{
					Name:  xml.Name{Space: "xmlns", Local: d.Prefix},
					Value: d.Namespace,
				})
			}
		}
	}

	if err := enc.EncodeToken(xml.StartElement{Name: name, Attr: attrs}); err != nil {
		return err
	}
	if textOverride != nil {
		if err := enc.EncodeToken(xml.CharData(*textOverride)); err != nil {
			return err
		}
	} else {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if err := un.encodeXML(enc, c); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: name})
}

// encodeXMLRaw copies an anyxml descendant verbatim: no schema lookup,
// no namespace elision beyond what the source document itself carried.
func (un *Decoder) encodeXMLRaw(enc *xml.Encoder, n dom.Node) error {
	switch n.NodeType() {
	case dom.NodeTypeElement:
		el := n.(dom.Element)
		var attrs []xml.Attr
		for a := el.FirstAttribute(); a != nil; {
			attrs = append(attrs, xml.Attr{Name: a.Name(), Value: a.Value()})
			next, _ := a.NextSibling().(dom.Attr)
			a = next
		}
		if err := enc.EncodeToken(xml.StartElement{Name: el.Name(), Attr: attrs}); err != nil {
			return err
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if err := un.encodeXMLRaw(enc, c); err != nil {
				return err
			}
		}
		return enc.EncodeToken(xml.EndElement{Name: el.Name()})
	case dom.NodeTypeText:
		return enc.EncodeToken(xml.CharData(n.Value()))
	default:
		return nil
	}
}

// xmlNameRelativeTo returns el's XML name, eliding its namespace when
// it matches parent's (dom.Marshaler's own elision rule, repeated here
// since this writer does not otherwise share that code path).
func xmlNameRelativeTo(el dom.Element, parent dom.Node) xml.Name {
	name := el.Name()
	if parent == nil {
		return name
	}
	if pe, ok := parent.(dom.Element); ok && pe.Name().Space == name.Space {
		name.Space = ""
	}
	return name
}
