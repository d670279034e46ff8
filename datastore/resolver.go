package datastore

import (
	"fmt"

	xml "github.com/andaru/flexml"
	"github.com/openconfig/goyang/pkg/yang"

	"github.com/andaru/yangdata/modules"
)

// descendKind classifies an Entry for the purposes of schema
// resolution: TRANSPARENT nodes are descended through without
// themselves consuming a data element, OPAQUE nodes are the concrete
// data nodes that can match an element, and SKIP nodes never appear in
// data and are never descended into either.
type descendKind int

const (
	kindOpaque descendKind = iota
	kindTransparent
	kindSkip
)

// classify is a flat, table-driven classifier over yang.EntryKind,
// rather than a type switch spread across the resolver and builder: it
// is the single place that knows which schema nodetypes are
// transparent, matching the design note to avoid type-based dynamic
// dispatch creeping into the resolver.
func classify(e *yang.Entry) descendKind {
	switch e.Kind {
	case yang.ChoiceEntry, yang.CaseEntry, yang.InputEntry, yang.OutputEntry:
		return kindTransparent
	default:
		return kindOpaque
	}
}

// resolveChild resolves name to the schema child of parent that defines
// it, descending through CHOICE/CASE/INPUT/OUTPUT as needed. An
// unmatched name in a namespace we do recognize (i.e. any sibling
// schema node shares name's namespace) is always an error; strict
// controls whether an unmatched name in any other namespace is an error
// or a silent miss.
func resolveChild(parent *yang.Entry, name xml.Name, strict bool) (*yang.Entry, error) {
	if parent == nil {
		return nil, newError(KindInternal, "resolveChild called with nil parent schema")
	}
	// RFC7951 (YANG/JSON) omits the module prefix on a member whose
	// module is unchanged from its parent; such a name arrives here
	// with an empty Space, which inherits the parent schema's own
	// namespace rather than failing the namespace check below.
	if name.Space == "" {
		name.Space = namespaceOf(parent)
	}
	if found := findChild(parent, name); found != nil {
		return found, nil
	}
	return nil, schemaBindingMiss(parent, name, strict)
}

// findChild performs the unguarded search: it never itself decides
// whether a miss is an error.
func findChild(parent *yang.Entry, name xml.Name) *yang.Entry {
	for _, child := range parent.Dir {
		if match := descendInto(child, name); match != nil {
			return match
		}
	}
	return nil
}

// descendInto tests a single schema child (or, recursively, its own
// children if child is transparent) against name.
func descendInto(child *yang.Entry, name xml.Name) *yang.Entry {
	switch classify(child) {
	case kindTransparent:
		for _, grandchild := range child.Dir {
			if match := descendInto(grandchild, name); match != nil {
				return match
			}
		}
		return nil
	case kindSkip:
		return nil
	default:
		if child.Name != name.Local {
			return nil
		}
		if ns := child.Namespace(); ns != nil && ns.Name == name.Space {
			return child
		}
		return nil
	}
}

// resolveRoot resolves a top-level element by scanning every loaded
// module's top-level data nodes, selecting first by namespace URI.
func resolveRoot(mods *modules.Collection, name xml.Name, strict bool) (*yang.Entry, error) {
	entry, err := mods.RootEntry(name)
	if err == nil && entry != nil {
		return entry, nil
	}
	// RootEntry only reports "not found" on both a missing module and a
	// missing child within a matching module; we still need to know
	// whether *some* module owns the namespace, to decide strict vs lax
	// silent-skip behavior.
	ownsNamespace := false
	_ = mods.IterLatest(func(m *yang.Module) error {
		if m.Namespace != nil && m.Namespace.Name == name.Space {
			ownsNamespace = true
		}
		return nil
	})
	if strict || ownsNamespace {
		return nil, newError(KindSchemaBinding, "%s", unexpectedElement(name))
	}
	return nil, nil
}

// schemaBindingMiss decides, for a child miss under parent, whether the
// miss is an error (strict mode, or some sibling already claims name's
// namespace) or a silent skip (returns nil, nil).
func schemaBindingMiss(parent *yang.Entry, name xml.Name, strict bool) error {
	ownsNamespace := false
	for _, child := range parent.Dir {
		if ns := namespaceOf(child); ns != "" && ns == name.Space {
			ownsNamespace = true
			break
		}
	}
	if strict || ownsNamespace {
		return newError(KindSchemaBinding, "%s", unexpectedElement(name))
	}
	return nil
}

// namespaceOf returns the namespace URI of e (or, for a transparent
// node, of its own namespace, which is always that of its defining
// module regardless of depth).
func namespaceOf(e *yang.Entry) string {
	if ns := e.Namespace(); ns != nil {
		return ns.Name
	}
	return ""
}

// moduleOf returns the Module (or submodule) an Entry is defined in, by
// walking to the Entry tree's root.
func moduleOf(e *yang.Entry) *yang.Module {
	for e.Parent != nil {
		e = e.Parent
	}
	mod, _ := e.Node.(*yang.Module)
	return mod
}

// ownerModuleName returns the JSON-canonical module name owning e's
// schema, resolving submodules to their belongs-to module.
func ownerModuleName(e *yang.Entry) string {
	return moduleJSONName(moduleOf(e))
}

func unexpectedElement(n xml.Name) string {
	if n.Space != "" {
		return fmt.Sprintf("unexpected child element <%s xmlns=%q>", n.Local, n.Space)
	}
	return fmt.Sprintf("unexpected child element <%s>", n.Local)
}
