package datastore

// Hooks lets a caller observe and veto data nodes as they are bound
// during decoding, without the core needing to know why: NETCONF
// <get-config> filtering, RPC authorization, and test instrumentation
// all plug in here instead of getting bespoke options of their own.
//
// Each method is called once per bound node (Context when the node is
// linked in, Content once the node's value, if any, and its children
// are decoded); returning a non-nil error from either discards the node.
// Whether a discard is soft (node silently dropped, decoding continues)
// or hard (the whole parse fails) is controlled by Options.OptFilter:
// filtering operations discard softly, everything else treats a hook
// error as fatal.
type Hooks interface {
	// Context is called once a data node's schema binding has been
	// resolved, before any children or value are decoded.
	Context(b *Binding) error
	// Content is called for every bound node at its end element, once
	// its value (for a leaf or leaf-list) and its children have been
	// decoded, so a child's call precedes its parent's.
	Content(b *Binding) error
}

// NopHooks accepts every node and is the default when a Decoder is
// constructed without explicit Hooks.
type NopHooks struct{}

func (NopHooks) Context(*Binding) error { return nil }
func (NopHooks) Content(*Binding) error { return nil }

// discardMode reports whether a Hooks error for this Decoder's Options
// should be treated as a soft per-node discard or a fatal parse error.
// A Content-time discard (EndElement) detaches the node from its
// parent via dom.Node.RemoveChild, since its subtree is already fully
// built. A Context-time discard (StartElement) fires before the node
// has any children, so it is left linked and merely flagged via
// Binding.Discarded — ResolveDeferred and the serializers skip any
// subtree rooted at a Discarded node regardless of whether it was also
// detached.
func (un *Decoder) discardMode() bool { return un.Options.Has(OptFilter) }
