package datastore

import (
	"github.com/openconfig/goyang/pkg/yang"

	"github.com/andaru/yangdata/dom"
)

// Binding is the data node built by the core: the pairing of a dom.Node
// (which already provides the sibling ring, parent and child links
// spec's invariants describe) with the schema node it was bound to and,
// for leaf/leaf-list nodes, its decoded typed value.
//
// Binding deliberately does not live on dom.Node itself: dom is a
// generic, schema-ignorant XML/JSON tree with no YANG knowledge, so the
// typed overlay is kept in the Decoder's binding table instead.
type Binding struct {
	Schema *yang.Entry

	// ValueStr is the canonical textual value of a leaf/leaf-list: for
	// identityref and instance-identifier values this is always stored
	// in JSON (module-name-prefixed) form, regardless of the input
	// encoding.
	ValueStr string
	// Value is the decoded typed value. Zero for inner nodes.
	Value Value
	// ValueType is the runtime-resolved base type: it may differ from
	// Schema.Type.Kind for unions (set to the winning subtype) and, for
	// leafref/instance-identifier decoded with resolution deferred,
	// until ResolveDeferred clears it.
	ValueType yang.TypeKind

	// Attrs holds the module-resolved data attributes carried on this
	// node (not including namespace declarations).
	Attrs []Attribute

	// Anyxml holds the opaque subtree detached from the input document
	// when Schema.Kind == yang.AnyXMLEntry. It is a standalone
	// dom.Document whose children are the raw XML payload; the payload
	// is built in this disconnected document from the start rather than
	// attached and later removed. Children of the dom.Node itself are never
	// populated for an anyxml node.
	Anyxml dom.Node

	// Discarded marks a node (and, implicitly, its subtree) that a
	// validation hook (C7) rejected under filter semantics. A node
	// discarded at Content time (after its subtree is built) is also
	// detached from its parent via dom.Node.RemoveChild; a node
	// discarded at Context time (before it has any children) is left
	// linked. Either way, ResolveDeferred and the serializers skip any
	// subtree rooted at a Discarded node.
	Discarded bool

	unresolved bool // leafref/instance-identifier awaiting ResolveDeferred
}

// Attribute is a single data attribute: (module, name, value). Module
// resolution happens by namespace URI at parse time and by prefix at
// serialize time (see DESIGN.md for why this dual resolution is kept
// rather than unified).
type Attribute struct {
	Module *yang.Module
	Name   string
	Value  string
}

// PathStep is one step of a resolved instance-identifier: an element
// name qualified by its owning module, plus optional list key
// predicates (name/value pairs, in schema order).
type PathStep struct {
	Module string
	Name   string
	Keys   []PathKey
}

// PathKey is a single "[name='value']" predicate within a PathStep.
type PathKey struct {
	Name  string
	Value string
}

// Value is the tagged union of all decoded leaf values. Only the
// field(s) relevant to Kind are meaningful; the rest are zero.
//
// Union resolution returns a (Value, canonical text) pair without
// mutating the owning Binding until a subtype is chosen, matching the
// the "deep union decoding" design note: no partial state is visible to
// callers if every subtype in a union is rejected.
type Value struct {
	Kind yang.TypeKind

	Bool bool
	Num  yang.Number // used for all Y*int*, Ydecimal64
	Str  string      // Ystring, Ybinary, Yenum (name), Yleafref (text)
	Bits []string    // Ybits, in declaration order

	Identity *Identity // Yidentityref

	// Leafref is filled in by ResolveDeferred when the target is
	// found; nil until then (or forever, if require-instance is false
	// and no match exists).
	Leafref dom.Node

	// InstancePath is the parsed (and, after ResolveDeferred, possibly
	// resolved) instance-identifier path.
	InstancePath []PathStep
	// InstanceTarget is filled in by ResolveDeferred when the target is
	// found.
	InstanceTarget dom.Node
}

// Identity is a resolved, namespace-qualified identity value: the
// module that defines it plus the *yang.Identity itself.
type Identity struct {
	Module *yang.Module
	Ident  *yang.Identity
}

// CanonicalName returns the identity's JSON-canonical "module:name" form.
func (id Identity) CanonicalName() string {
	if id.Module == nil || id.Ident == nil {
		return ""
	}
	return moduleJSONName(id.Module) + ":" + id.Ident.Name
}
