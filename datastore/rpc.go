package datastore

import (
	"io"

	"github.com/openconfig/goyang/pkg/yang"

	"github.com/andaru/yangdata/dom"
	"github.com/andaru/yangdata/modules"
)

// ParseRPCOutputXML is the C1 entry point for RPC-output decoding
// (spec.md §4.1 entry point (c), §6 parse_rpc_output_xml): given the
// schema node for an rpc statement and an <rpc-reply>-style XML
// payload, it binds the payload's top-level elements directly against
// rpc's output children, never against the global root/module
// namespace scan that a plain Decoder with no schema set uses.
//
// The OUTPUT node itself is transparent (descended through, never
// matched as a data element: resolver.go classifies it alongside
// CHOICE/CASE/INPUT), so root carries the decoded output's children
// directly as its own children, mirroring how a plain Decoder leaves a
// document whose children are the decoded top-level elements.
func ParseRPCOutputXML(rpc *yang.Entry, mods *modules.Collection, r io.Reader, opts Options) (*Decoder, dom.Node, error) {
	if rpc == nil || rpc.RPC == nil || rpc.RPC.Output == nil {
		return nil, nil, newError(KindSchemaBinding, "ParseRPCOutputXML: schema node is not an rpc with an output")
	}

	root := dom.NewDocument(nil)
	dec := &Decoder{Node: root, Modules: mods, Options: opts}
	dec.SetSchema(rpc.RPC.Output)

	un := dom.NewUnmarshaler(dec)
	un.InitializeArgs = []string{"name.resolver", "rfc6020"}
	if _, err := un.XMLReader().ReadFrom(r); err != nil {
		return dec, root, newError(KindStructural, "decoding rpc-reply for %q: %v", rpc.Name, err)
	}
	return dec, root, nil
}
