package datastore

// Options is the bitfield controlling how a Decoder treats a single
// parse. It corresponds to the libyang parser option flags: STRICT,
// DESTRUCT, FILTER, EDIT, GET and GETCONFIG may be combined freely,
// though GET/GETCONFIG are mutually exclusive with EDIT in practice.
type Options uint16

const (
	// OptStrict rejects unknown elements whose namespace no loaded
	// module (or, below the root, no sibling schema node) owns, rather
	// than silently skipping them. An unknown element in an owned
	// namespace is rejected with or without this flag.
	OptStrict Options = 1 << iota
	// OptDestruct frees each input XML child as soon as it has been
	// consumed. The in-memory dom tree built here does not hold a
	// separate input copy, so this flag is accepted for source
	// compatibility but has no additional effect beyond the default
	// behavior of detaching anyxml children (see Decoder.anyxml).
	OptDestruct
	// OptFilter enables filter semantics: values may be absent,
	// leafref/instance-identifier values are not resolved, and empty
	// nodes may be pruned by validation hooks.
	OptFilter
	// OptEdit enables edit semantics: insert/value attributes in the
	// NETCONF operation namespace are recognized on ordered-by-user
	// lists and leaf-lists, and value resolution is skipped.
	OptEdit
	// OptGet treats the document as a NETCONF <get> reply: structure is
	// retained but leafref/instance-identifier values are not resolved.
	OptGet
	// OptGetConfig is as OptGet for <get-config> replies.
	OptGetConfig
)

// Has reports whether all bits in other are set in o.
func (o Options) Has(other Options) bool { return o&other == other }

// resolveNow reports whether leafref/instance-identifier values should
// be resolved immediately (false for filter/edit/get/get-config modes,
// per spec: such documents may reference nodes not present).
func (o Options) resolveNow() bool {
	return !o.Has(OptFilter) && !o.Has(OptEdit) && !o.Has(OptGet) && !o.Has(OptGetConfig)
}

// requireInstance reports whether a leafref/instance-identifier with no
// matching target is an error once deferred resolution runs (true
// outside filter/edit/get/get-config modes).
func (o Options) requireInstance() bool {
	return o.resolveNow()
}

// Format selects the wire encoding a Decoder or serializer is working
// with.
type Format int

const (
	// FormatXML selects RFC6020-style XML namespace handling.
	FormatXML Format = iota
	// FormatJSON selects RFC7951-style YANG/JSON module-name prefixing.
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}
