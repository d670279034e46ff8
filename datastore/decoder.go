package datastore

import (
	"io"
	"strings"

	xml "github.com/andaru/flexml"
	"github.com/openconfig/goyang/pkg/yang"
	"github.com/pkg/errors"

	"github.com/andaru/yangdata/dom"
	"github.com/andaru/yangdata/modules"
)

// netconfBaseNS is the NETCONF operation namespace carrying the
// insert/value/key edit attributes recognized under OptEdit.
const netconfBaseNS = "urn:ietf:params:xml:ns:netconf:base:1.0"

// Decoder is a YANG data decoder. It may be used with a dom.Unmarshaler to
// read YANG data from JSON or XML sources with streaming support, binding
// each element to the schema node that defines it (C1), decoding leaf
// values against their schema type (C3) and building the typed Binding
// overlay (C4) described in SPEC_FULL.md.
//
// Example:
//   modules := modules.NewCollection()
//   /* ... import YANG modules ... */
//   document := dom.NewDocument(nil)
//   yangDecoder := &Decoder{Node: document, Modules: modules}
//   r := dom.NewUnmarshaler(yangDecoder)
//   f, err := os.Open("yang_data.xml")
//   if err != nil { panic(err) }
//   r.XMLReader().ReadFrom(f)
//   // set root to the same node as document
//   root := yangDecoder.Root()
type Decoder struct {
	Node    dom.Node
	Modules *modules.Collection
	Options Options
	Hooks   Hooks

	schema    *yang.Entry
	stack     yangDecoderStack
	skip      bool
	errors    []error
	childname nameLookup

	bindings map[dom.Node]*Binding
	deferred []deferral

	// anyxml holds the Bindings of the anyxml ancestors
	// currently open: once non-empty, descendant elements are captured
	// as opaque raw XML rather than schema-resolved (spec.md §4.4 step
	// 6's "anyxml opacity").
	anyxml []*Binding
}

// DecodingErrors returns the YANG schema errors accumulated during
// data decoding.
func (un Decoder) DecodingErrors() []error { return un.errors }

// Root returns the decoder root node
func (un Decoder) Root() dom.Node {
	for n := un.Node; n != nil; n = n.Parent() {
		if n.Parent() == nil {
			return n
		}
	}
	return nil
}

// Binding returns the Binding bound to n, or nil if n was never bound
// by this Decoder (e.g. a document or a raw anyxml descendant).
func (un *Decoder) Binding(n dom.Node) *Binding {
	if un.bindings == nil {
		return nil
	}
	return un.bindings[n]
}

// hooksOf returns the Decoder's Hooks, defaulting to NopHooks.
func (un *Decoder) hooksOf() Hooks {
	if un.Hooks == nil {
		return NopHooks{}
	}
	return un.Hooks
}

// Initialize passes configuration pairs from the calling unmarshaler.
//
// By default, the decoder uses RFC6020 namespace handling, suitable
// for decoding YANG/XML data; namespaces received are used as is (any
// prefix decoding occurs in the xml.Decoder). This can also be
// explicitly enabled using one of the following calls:
//
//   d := &Decoder{ /*...*/ }
//   d.Initialize("name.resolver", "rfc6020") // is equivalent to..
//   d.Initialize("mediatype", "application/yang-data+xml")
//
// If you instead wish to decode JSON documents, you'll need to enable
// YANG/JSON namespace resolution. In this mode, the provided
// namespace is the YANG module name. The resolver converts this to
// the module namespace, by finding the module in its module
// collection.
//
//   d.Initialize("name.resolver", "rfc7951") // which is the same and..
//   d.Initialize("mediatype", "application/yang-data+json")
func (un *Decoder) Initialize(kv ...string) error {
	if len(kv)%2 != 0 {
		return errors.Errorf("called with odd number of arguments: %v", kv)
	}
	var format string
	var k string
	for i := 0; i < len(kv)/2; i++ {
		k = kv[i*2]
		v := kv[i*2+1]
		switch k {
		case "name.resolver", "mediatype", "format":
			format = strings.ToLower(v)
			break
		}
	}

	// default to XML name resolution (pass-through): JSON users must
	// pass arguments to Initialize to have their namespaces decoded
	// correctly in the resulting DOM document.
	un.childname = rfc6020Lookup

	switch format {
	case "rfc7951", "application/yang-data+json", "json":
		un.childname = rfc7951Lookup
	case "", "default", "rfc6020", "application/yang-data+xml", "xml":
		un.childname = rfc6020Lookup
	default:
		return errors.Errorf("unsupported '%s' key value: %v", k, format)
	}
	return nil
}

// SetSchema sets the Decoder's YANG schema node.
func (un *Decoder) SetSchema(e *yang.Entry) { un.schema = e }

// Begin responds to the beginning of document decoding.
func (un Decoder) Begin(se xml.StartElement) error {
	// allow decoding to begin at any element in the token stream,
	// as long as we have a non-nil cursor
	if un.Node == nil {
		return errors.New("error decoding YANG data: node cursor is nil")
	}
	return nil
}

// StartElement responds to a new start element token.
func (un *Decoder) StartElement(se xml.StartElement) error {
	oldSchema := un.schema
	oldNode := un.Node

	if n := len(un.anyxml); n > 0 {
		return un.startAnyxmlChild(se, oldNode)
	}
	if un.skip {
		// already discarding an ancestor subtree (strict-mode error or
		// a prior schema-binding miss); keep descending without
		// attaching anything.
		un.stack.push(func() { un.schema = oldSchema; un.Node = oldNode })
		return nil
	}

	name, err := un.childname(un.Modules, se.Name)
	if err != nil {
		return un.skipElement(err, oldSchema, oldNode)
	}

	newSchema, err := un.resolve(name)
	if err != nil {
		return un.skipElement(err, oldSchema, oldNode)
	}
	if newSchema == nil {
		// lax-mode silent skip: no loaded module owns this element's
		// namespace, so the subtree is silently discarded without
		// setting the error flag (spec.md §4.1 "Errors").
		un.skip = true
		un.stack.push(func() { un.schema = oldSchema; un.Node = oldNode; un.skip = false })
		return nil
	}

	se.Name = name
	newNode := dom.CreateElement(se)

	b := &Binding{Schema: newSchema}
	if un.bindings == nil {
		un.bindings = make(map[dom.Node]*Binding)
	}
	un.bindings[newNode] = b

	ea, editErr := un.bindEditAttrs(se.Attr, newSchema)
	if editErr != nil {
		un.errors = append(un.errors, editErr)
		// grammar was invalid: fall back to ordinary append rather than
		// acting on a partially parsed, rejected edit attribute set.
		ea = EditAttrs{}
	}
	if crit := un.insertChild(oldNode, newNode, newSchema, ea); crit != nil {
		return crit
	}
	if attrErr := un.bindAttributes(newNode, b, se.Attr); attrErr != nil {
		un.errors = append(un.errors, attrErr)
	}

	if hookErr := un.hooksOf().Context(b); hookErr != nil {
		if !un.discardMode() {
			return hookErr
		}
		b.Discarded = true
	}

	// spec.md §4.4 step 8: an RPC or NOTIFICATION subtree is always a
	// full instance, never a filter, so its children recurse with every
	// option bit cleared regardless of what the caller passed in.
	oldOptions := un.Options
	if newSchema.Kind == yang.NotificationEntry || newSchema.RPC != nil {
		un.Options = 0
	}

	if newSchema.Kind == yang.AnyXMLEntry {
		shadow := dom.NewDocument(nil)
		b.Anyxml = shadow
		un.anyxml = append(un.anyxml, b)
		un.schema = newSchema
		un.Node = shadow
		un.stack.push(func() { un.schema = oldSchema; un.Node = oldNode; un.Options = oldOptions })
		return nil
	}

	un.schema = newSchema
	un.Node = newNode
	un.stack.push(func() { un.schema = oldSchema; un.Node = oldNode; un.Options = oldOptions })
	return nil
}

// insertChild places newNode among parent's children according to
// ea.Insert (spec.md §6): InsertFirst prepends, InsertBefore/After
// relocate newNode next to the sibling matched by ea.Keys (lists) or
// ea.Value (leaf-lists), and InsertNone/InsertLast append as normal. A
// before/after insert with no matching sibling cannot be satisfied;
// that is recorded as a decoding error and newNode is appended instead,
// consistent with this decoder's general lax-mode, never-hard-fail
// error handling.
func (un *Decoder) insertChild(parent, newNode dom.Node, schema *yang.Entry, ea EditAttrs) error {
	switch ea.Insert {
	case InsertFirst:
		return parent.PrependChild(newNode)
	case InsertBefore, InsertAfter:
		if target := un.findEditSibling(parent, schema, ea); target != nil {
			if ea.Insert == InsertBefore {
				return parent.InsertChildBefore(newNode, target)
			}
			return parent.InsertChildAfter(newNode, target)
		}
		un.errors = append(un.errors, newError(KindReference,
			"insert=%q: no sibling %s matches key=%q value=%q", ea.Insert, schema.Name, ea.Key, ea.Value))
		return parent.AppendChild(newNode)
	default:
		return parent.AppendChild(newNode)
	}
}

// findEditSibling returns the already-bound child of parent matching
// ea.Keys (list) or ea.Value (leaf-list), the anchor an insert=before
// or insert=after attribute repositions newNode against.
func (un *Decoder) findEditSibling(parent dom.Node, schema *yang.Entry, ea EditAttrs) dom.Node {
	isList := schema.Kind == yang.DirectoryEntry && schema.ListAttr != nil
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() != dom.NodeTypeElement || c.Name().Local != schema.Name {
			continue
		}
		if isList {
			if un.matchesKeys(c, ea.Keys) {
				return c
			}
			continue
		}
		if cb := un.bindings[c]; cb != nil && cb.ValueStr == ea.Value {
			return c
		}
	}
	return nil
}

// skipElement records err and arranges for the element's subtree to be
// silently discarded. Callers pass only non-nil errors: a benign "no
// match" (nil schema, nil error) is handled by StartElement itself.
func (un *Decoder) skipElement(err error, oldSchema *yang.Entry, oldNode dom.Node) error {
	un.errors = append(un.errors, err)
	un.skip = true
	un.stack.push(func() { un.schema = oldSchema; un.Node = oldNode; un.skip = false })
	return nil
}

// startAnyxmlChild appends se as an opaque, schema-unresolved child of
// the currently open anyxml capture (un.Node is the anyxml Binding's
// shadow document, or a descendant already inside it).
func (un *Decoder) startAnyxmlChild(se xml.StartElement, oldNode dom.Node) error {
	newNode := dom.CreateElement(se)
	if crit := un.Node.AppendChild(newNode); crit != nil {
		return crit
	}
	for _, a := range se.Attr {
		if crit := newNode.AppendAttribute(a); crit != nil {
			return crit
		}
	}
	un.Node = newNode
	un.stack.push(func() { un.Node = oldNode })
	return nil
}

// EndElement responds to a new end element token.
func (un *Decoder) EndElement(xml.EndElement) error {
	if n := len(un.anyxml); n > 0 && un.anyxml[n-1].Anyxml == un.Node {
		un.anyxml = un.anyxml[:n-1]
		un.stack.pop()()
		return nil
	}
	if len(un.anyxml) > 0 {
		// closing a raw anyxml descendant: nothing schema-related to do.
		un.stack.pop()()
		return nil
	}

	if !un.skip {
		if b := un.bindings[un.Node]; b != nil {
			switch b.Schema.Kind {
			case yang.LeafEntry:
				if err := un.decodeLeafValue(un.Node, b); err != nil {
					un.errors = append(un.errors, err)
				}
			}
			if hookErr := un.hooksOf().Content(b); hookErr != nil {
				if !un.discardMode() {
					un.stack.pop()()
					return hookErr
				}
				b.Discarded = true
				// The subtree is complete at this point, unlike the
				// Context-time discard in StartElement (which fires
				// before any children exist), so it can be fully
				// detached from its parent rather than left linked
				// with only the Discarded flag set.
				if p := un.Node.Parent(); p != nil {
					_ = p.RemoveChild(un.Node)
				}
			}
		}
	}

	un.stack.pop()()
	return nil
}

// CharData responds to a new text token.
func (un *Decoder) CharData(cd xml.CharData) error {
	if un.skip {
		return nil
	}
	if len(un.anyxml) > 0 {
		text := dom.CreateText(cd)
		return un.Node.AppendChild(text)
	}
	// YANG violation
	if un.schema == nil || un.schema.Kind != yang.LeafEntry {
		un.errors = append(un.errors,
			errors.Wrap(dom.ErrHierarchyRequest, "schema node is not a leaf"))
		return nil
	}
	text := dom.CreateText(cd)
	return un.Node.AppendChild(text)
}

// Comment responds to a new comment token.
func (un *Decoder) Comment(c xml.Comment) error { return nil }

// ProcInst responds to a new processing instruction or declaration.
func (un *Decoder) ProcInst(pi xml.ProcInst) error { return nil }

// Directive responds to a new XML directive (e.g. DOCTYPE). YANG
// instance documents never carry one, so any occurrence is rejected
// rather than silently accepted.
func (un *Decoder) Directive(xml.Directive) error {
	return newError(KindStructural, "XML directives are not valid in YANG instance documents")
}

// End responds to the end of document processing. The error EOF indicates
// normal completion.
func (un Decoder) End(err error) error {
	if err == io.EOF {
		if un.Node.Parent() == nil {
			return nil
		}
		return io.ErrUnexpectedEOF
	}
	return err
}

// resolve dispatches to the C1 root or child resolver depending on
// whether a schema cursor is already established.
func (un *Decoder) resolve(name xml.Name) (*yang.Entry, error) {
	strict := un.Options.Has(OptStrict)
	if un.schema == nil {
		return resolveRoot(un.Modules, name, strict)
	}
	return resolveChild(un.schema, name, strict)
}

// decodeLeafValue runs C3 over node's accumulated text content and
// records the result (and, for leafref/instance-identifier, a
// deferral) on b.
func (un *Decoder) decodeLeafValue(node dom.Node, b *Binding) error {
	text := node.ChildValue()
	ctx := decodeContext{node: node, mods: un.Modules}
	v, kind, valueStr, err := decode(text, b.Schema.Type, ctx)
	if err != nil {
		return err
	}
	b.Value = v
	b.ValueType = kind
	b.ValueStr = valueStr

	if kind == yang.Yleafref || kind == yang.YinstanceIdentifier {
		b.unresolved = true
		if !un.Options.resolveNow() {
			// filter/edit/get/get-config: the value is kept syntactically
			// and flagged unresolved; ResolveDeferred never visits it.
			return nil
		}
		un.deferred = append(un.deferred, deferral{
			node:            node,
			kind:            kind,
			text:            valueStr,
			requireInstance: un.Options.requireInstance(),
		})
	}
	return nil
}

// bindEditAttrs parses and validates the insert/value/key attribute
// grammar (spec.md §6) when OptEdit is set and attrs carries any
// NETCONF operation-namespace attribute on a list or leaf-list. The
// returned EditAttrs drives insertChild's repositioning; it is the
// zero value (InsertNone) whenever OptEdit is unset or no such
// attribute is present, so callers can apply it unconditionally.
func (un *Decoder) bindEditAttrs(attrs []xml.Attr, schema *yang.Entry) (EditAttrs, error) {
	var ea EditAttrs
	if !un.Options.Has(OptEdit) {
		return ea, nil
	}
	var edit []Attribute
	for _, a := range attrs {
		if a.Name.Space == netconfBaseNS {
			edit = append(edit, Attribute{Name: a.Name.Local, Value: a.Value})
		}
	}
	if len(edit) == 0 {
		return ea, nil
	}
	isList := schema.Kind == yang.DirectoryEntry && schema.ListAttr != nil
	ea, err := parseEditAttrs(edit, isList)
	if err != nil {
		return ea, err
	}
	if err := checkUserOrdered(schema, ea); err != nil {
		return ea, err
	}
	return ea, nil
}

// bindAttributes copies XML attributes into b.Attrs, resolving each
// to its owning module by namespace URI (spec.md §4.4 step 7).
// Attributes in the NETCONF operation namespace are consumed by
// bindEditAttrs instead and never become data attributes; attributes
// with no namespace, or whose namespace names no loaded module, are
// warned and dropped.
func (un *Decoder) bindAttributes(node dom.Node, b *Binding, attrs []xml.Attr) error {
	for _, a := range attrs {
		if a.Name.Space == "" {
			logWarning(node, "ignoring attribute %q with no namespace", a.Name.Local)
			continue
		}
		if a.Name.Space == netconfBaseNS {
			continue
		}
		mod, err := un.Modules.ModuleByNamespace(a.Name.Space)
		if err != nil {
			logWarning(node, "ignoring attribute %q from unknown module namespace %q", a.Name.Local, a.Name.Space)
			continue
		}
		b.Attrs = append(b.Attrs, Attribute{Module: mod, Name: a.Name.Local, Value: a.Value})
	}
	return nil
}

type yangDecoderStack struct{ d []func() }

func (s *yangDecoderStack) push(fn func()) { s.d = append(s.d, fn) }
func (s *yangDecoderStack) pop() (fn func()) {
	fn, s.d = s.d[len(s.d)-1], s.d[:len(s.d)-1]
	return
}

type nameLookup func(*modules.Collection, xml.Name) (xml.Name, error)

func rfc7951Lookup(ms *modules.Collection, n xml.Name) (xml.Name, error) {
	// In RFC7951 (YANG/JSON), the "namespace" of n is in fact the module name
	if n.Space == "" {
		return n, nil
	} else if mod, err := ms.ModuleEntry(n.Space); err == nil {
		nn := xml.Name{Local: n.Local, Space: mod.Namespace().Name}
		return nn, nil
	}
	return n, newError(KindSchemaBinding, `unexpected element <%s> in unknown module %q`, n.Local, n.Space)
}

func rfc6020Lookup(ms *modules.Collection, n xml.Name) (xml.Name, error) { return n, nil }
