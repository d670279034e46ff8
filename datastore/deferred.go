package datastore

import (
	"strings"

	"github.com/openconfig/goyang/pkg/yang"

	"github.com/andaru/yangdata/dom"
)

// deferral records a leafref or instance-identifier value whose target
// resolution was postponed until the whole document is bound: both
// reference kinds may legally point forward in document order, and an
// instance-identifier's target may be any node in the tree, so neither
// can be resolved from StartElement/EndElement alone.
type deferral struct {
	node dom.Node
	// kind distinguishes leafref (schema-Path driven) from
	// instance-identifier (already-parsed PathStep driven).
	kind yang.TypeKind
	// text is the leafref's own decoded value (to compare the resolved
	// target leaf's value against) or the instance-identifier's
	// canonical path text.
	text string
	// requireInstance is the outcome expected by the caller's Options:
	// when true, a dangling reference is a KindReference error; when
	// false, it is tolerated and the Value's Leafref/InstanceTarget
	// fields are simply left nil.
	requireInstance bool
}

// ResolveDeferred runs the C5 pass: every leafref and instance-
// identifier value recorded during decoding is resolved against the
// now-complete bound tree, in the order the values were decoded.
func (un *Decoder) ResolveDeferred() error {
	for _, d := range un.deferred {
		b := un.bindings[d.node]
		if b == nil || b.Discarded {
			continue
		}
		var err error
		switch d.kind {
		case yang.Yleafref:
			err = un.resolveLeafref(d, b)
		case yang.YinstanceIdentifier:
			err = un.resolveInstanceIdentifier(d, b)
		}
		if err != nil {
			return err
		}
		b.unresolved = false
	}
	return nil
}

// resolveLeafref walks b.Schema.Type.Path, a relative or absolute
// restricted YANG path expression, from d.node to find candidate target
// leaves, then accepts the first whose decoded ValueStr equals d.text.
func (un *Decoder) resolveLeafref(d deferral, b *Binding) error {
	path := b.Schema.Type.Path
	if path == "" {
		return newError(KindInternal, "leafref schema has no path expression")
	}
	targets := un.evalLeafrefPath(path, d.node)
	for _, t := range targets {
		tb := un.bindings[t]
		if tb == nil || tb.Discarded {
			continue
		}
		if tb.ValueStr == d.text {
			// Adopt the target's decoded value and concrete runtime
			// type: per spec.md's testable properties, a leaf's
			// value_type is never left at the LEAFREF placeholder once
			// resolution has succeeded ("stored as target-type value").
			// The pointer back to the bound target node is preserved
			// separately in Leafref, since Value itself carries no back
			// reference for non-path types.
			b.Value = tb.Value
			b.Value.Leafref = t
			b.ValueType = tb.ValueType
			return nil
		}
	}
	if d.requireInstance {
		return newError(KindReference, "leafref %q: no instance found for value %q", path, d.text)
	}
	return nil
}

// evalLeafrefPath evaluates a restricted leafref path expression:
// "../" steps move to the parent, "current()" refers to start, and a
// "name" or "prefix:name" step descends into every same-named element
// child (the prefix is ignored, and list key predicates such as
// "[key=current()/../x]" are stripped and never consulted), so every
// candidate is returned for the caller to filter by value equality.
func (un *Decoder) evalLeafrefPath(path string, start dom.Node) []dom.Node {
	steps := strings.Split(path, "/")
	cursor := []dom.Node{start}
	if strings.HasPrefix(path, "/") {
		root := un.Root()
		cursor = []dom.Node{root}
		steps = steps[1:]
	}
	for _, raw := range steps {
		if raw == "" || raw == "current()" {
			continue
		}
		step := raw
		if i := strings.IndexByte(step, '['); i >= 0 {
			step = step[:i]
		}
		if step == ".." {
			var next []dom.Node
			for _, n := range cursor {
				if p := n.Parent(); p != nil {
					next = append(next, p)
				}
			}
			cursor = next
			continue
		}
		local := step
		if i := strings.IndexByte(step, ':'); i >= 0 {
			local = step[i+1:]
		}
		var next []dom.Node
		for _, n := range cursor {
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if c.NodeType() == dom.NodeTypeElement && c.Name().Local == local {
					next = append(next, c)
				}
			}
		}
		cursor = next
	}
	return cursor
}

// resolveInstanceIdentifier walks b.Value.InstancePath against the
// bound tree from the document root, matching each step's (module,
// name) pair and, when present, its key predicates against the
// corresponding list entry's already-bound key leaf values.
func (un *Decoder) resolveInstanceIdentifier(d deferral, b *Binding) error {
	steps := b.Value.InstancePath
	cursor := un.Root()
	for _, step := range steps {
		var match dom.Node
		for c := cursor.FirstChild(); c != nil; c = c.NextSibling() {
			if c.NodeType() != dom.NodeTypeElement || c.Name().Local != step.Name {
				continue
			}
			cb := un.bindings[c]
			if cb == nil || moduleJSONName(moduleOf(cb.Schema)) != step.Module {
				continue
			}
			if !un.matchesKeys(c, step.Keys) {
				continue
			}
			match = c
			break
		}
		if match == nil {
			if d.requireInstance {
				return newError(KindReference, "instance-identifier %q: no instance found at step %q", d.text, step.Name)
			}
			return nil
		}
		cursor = match
	}
	b.Value.InstanceTarget = cursor
	return nil
}

// matchesKeys reports whether every key predicate is satisfied by a
// same-named key leaf child of candidate with the predicate's value.
func (un *Decoder) matchesKeys(candidate dom.Node, keys []PathKey) bool {
	for _, k := range keys {
		found := false
		for c := candidate.FirstChild(); c != nil; c = c.NextSibling() {
			if c.NodeType() != dom.NodeTypeElement || c.Name().Local != k.Name {
				continue
			}
			cb := un.bindings[c]
			if cb != nil && cb.ValueStr == k.Value {
				found = true
			}
			break
		}
		if !found {
			return false
		}
	}
	return true
}
