package datastore

import (
	"strings"

	xml "github.com/andaru/flexml"
	"github.com/openconfig/goyang/pkg/yang"
	"github.com/pkg/errors"

	"github.com/andaru/yangdata/dom"
	"github.com/andaru/yangdata/modules"
)

// pathToken is a single "prefix:local" (or unprefixed "local") token
// found in an identityref or instance-identifier textual value.
type pathToken struct {
	prefix string
	local  string
}

// splitToken parses a single "prefix:local" token. An absent prefix is
// reported as an empty string, not an error: callers decide whether an
// unprefixed token is legal in context.
func splitToken(s string) (pathToken, error) {
	if s == "" {
		return pathToken{}, errors.New("empty path token")
	}
	if i := strings.IndexByte(s, ':'); i > 0 {
		return pathToken{prefix: s[:i], local: s[i+1:]}, nil
	}
	return pathToken{local: s}, nil
}

// xml2json translates expr, an XML-prefixed identityref value, into its
// JSON-canonical (module-name prefixed) form. ctx supplies the in-scope
// XML namespace declarations at the point expr was read.
//
// instance-identifier paths need per-step handling instead, since each
// step may carry its own prefix and key predicates; that is done by
// parseInstancePath/parseInstanceStep, which resolve each step's
// prefix through resolveStepModule.
func xml2json(expr string, ctx dom.Node, mods *modules.Collection) (string, error) {
	tok, err := splitToken(expr)
	if err != nil {
		return "", err
	}
	return xml2jsonToken(tok, ctx, mods)
}

// xml2jsonToken translates a single prefix-qualified token.
func xml2jsonToken(tok pathToken, ctx dom.Node, mods *modules.Collection) (string, error) {
	if tok.prefix == "" {
		return tok.local, nil
	}
	ns, ok := lookupXMLNSPrefix(ctx, tok.prefix)
	if !ok {
		return "", errors.Errorf("unbound XML namespace prefix %q", tok.prefix)
	}
	mod, err := mods.ModuleByNamespace(ns)
	if err != nil {
		return "", errors.Wrapf(err, "resolving prefix %q", tok.prefix)
	}
	return moduleJSONName(mod) + ":" + tok.local, nil
}

// lookupXMLNSPrefix walks from ctx towards the document root looking
// for an "xmlns:prefix" attribute declaration in scope.
func lookupXMLNSPrefix(ctx dom.Node, prefix string) (string, bool) {
	want := xml.Name{Space: "xmlns", Local: prefix}
	for n := ctx; n != nil; n = n.Parent() {
		if n.NodeType() != dom.NodeTypeElement {
			continue
		}
		el, ok := n.(dom.Element)
		if !ok {
			continue
		}
		for a := el.FirstAttribute(); a != nil; {
			if a.Name() == want {
				return a.Value(), true
			}
			next, _ := a.NextSibling().(dom.Attr)
			a = next
		}
	}
	return "", false
}

// json2xml translates expr, a JSON-canonical "module:local" identityref
// or instance-identifier value, into its XML "prefix:local" form. owner
// is the JSON module name of the schema module the containing leaf
// belongs to, used to avoid declaring a redundant prefix when expr
// refers to the leaf's own module. Returns the namespace declarations
// the caller must emit on the containing element for any other
// module referenced.
func json2xml(expr, ownerModuleName string, mods *modules.Collection) (string, []NSDecl, error) {
	tok, err := splitToken(expr)
	if err != nil {
		return "", nil, err
	}
	if tok.prefix == "" || tok.prefix == ownerModuleName {
		return tok.local, nil, nil
	}
	mod, err := mods.ModuleByName(tok.prefix)
	if err != nil {
		return "", nil, errors.Wrapf(err, "resolving module %q", tok.prefix)
	}
	ns := ""
	if mod.Namespace != nil {
		ns = mod.Namespace.Name
	}
	return tok.prefix + ":" + tok.local, []NSDecl{{Prefix: tok.prefix, Namespace: ns}}, nil
}

// NSDecl is an XML namespace declaration the serializer must emit:
// xmlns:Prefix="Namespace".
type NSDecl struct {
	Prefix    string
	Namespace string
}

// parseInstancePath parses text, an absolute instance-identifier in
// either its XML (namespace-prefixed) or JSON-canonical (module-name
// prefixed) form, into a sequence of PathSteps. Every step is resolved
// to an explicit module name even when the source text omits a
// repeated prefix; canonicalInstancePath re-elides them for display.
func parseInstancePath(text string, ctx dom.Node, mods *modules.Collection) ([]PathStep, error) {
	if !strings.HasPrefix(text, "/") {
		return nil, errors.New("instance-identifier must be absolute")
	}
	segments, err := splitInstanceSteps(text[1:])
	if err != nil {
		return nil, err
	}
	steps := make([]PathStep, 0, len(segments))
	lastModule := ""
	for _, seg := range segments {
		step, err := parseInstanceStep(seg, ctx, mods, lastModule)
		if err != nil {
			return nil, err
		}
		lastModule = step.Module
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, errors.New("instance-identifier has no steps")
	}
	return steps, nil
}

// splitInstanceSteps splits an instance-identifier's step list on '/',
// treating bracketed key predicates as opaque so a '/' appearing
// inside a quoted key value never ends a step early.
func splitInstanceSteps(rest string) ([]string, error) {
	var segs []string
	depth := 0
	start := 0
	for i, r := range rest {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, errors.New("unbalanced ']' in instance-identifier")
			}
		case '/':
			if depth == 0 {
				segs = append(segs, rest[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errors.New("unbalanced '[' in instance-identifier")
	}
	segs = append(segs, rest[start:])
	return segs, nil
}

// parseInstanceStep parses a single "prefix:name[key='value']..." step.
// An unprefixed step name inherits inheritModule, matching RFC 7950's
// rule that a module prefix need only be repeated when it changes from
// the previous step.
func parseInstanceStep(seg string, ctx dom.Node, mods *modules.Collection, inheritModule string) (PathStep, error) {
	name := seg
	var predicates string
	if i := strings.IndexByte(seg, '['); i >= 0 {
		name = seg[:i]
		predicates = seg[i:]
	}
	tok, err := splitToken(name)
	if err != nil {
		return PathStep{}, errors.Wrap(err, "instance-identifier step")
	}
	moduleName := inheritModule
	if tok.prefix != "" {
		resolved, err := resolveStepModule(tok.prefix, ctx, mods)
		if err != nil {
			return PathStep{}, err
		}
		moduleName = resolved
	}
	if moduleName == "" {
		return PathStep{}, errors.Errorf("instance-identifier step %q has no module context", seg)
	}
	keys, err := parseInstanceKeys(predicates)
	if err != nil {
		return PathStep{}, err
	}
	return PathStep{Module: moduleName, Name: tok.local, Keys: keys}, nil
}

// resolveStepModule accepts either a JSON-canonical module name prefix
// or an XML namespace prefix in scope at ctx.
func resolveStepModule(prefix string, ctx dom.Node, mods *modules.Collection) (string, error) {
	if mod, err := mods.ModuleByName(prefix); err == nil {
		return moduleJSONName(mod), nil
	}
	if ns, ok := lookupXMLNSPrefix(ctx, prefix); ok {
		mod, err := mods.ModuleByNamespace(ns)
		if err != nil {
			return "", err
		}
		return moduleJSONName(mod), nil
	}
	return "", errors.Errorf("unresolvable module prefix %q", prefix)
}

// parseInstanceKeys parses a (possibly empty) run of "[name='value']"
// predicates.
func parseInstanceKeys(s string) ([]PathKey, error) {
	var keys []PathKey
	for len(s) > 0 {
		if s[0] != '[' {
			return nil, errors.Errorf("malformed key predicate near %q", s)
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, errors.New("unterminated key predicate")
		}
		body := s[1:end]
		eq := strings.IndexByte(body, '=')
		if eq < 0 {
			return nil, errors.Errorf("malformed key predicate %q", body)
		}
		name := body[:eq]
		val := body[eq+1:]
		if len(val) < 2 || (val[0] != '\'' && val[0] != '"') || val[len(val)-1] != val[0] {
			return nil, errors.Errorf("malformed key value %q", val)
		}
		keys = append(keys, PathKey{Name: name, Value: val[1 : len(val)-1]})
		s = s[end+1:]
	}
	return keys, nil
}

// canonicalInstancePath renders steps back to text, a JSON-canonical
// instance-identifier: the module prefix is emitted only on the first
// step and whenever it changes from the previous step.
func canonicalInstancePath(steps []PathStep) string {
	var b strings.Builder
	last := ""
	for _, step := range steps {
		b.WriteByte('/')
		if step.Module != last {
			b.WriteString(step.Module)
			b.WriteByte(':')
			last = step.Module
		}
		b.WriteString(step.Name)
		for _, k := range step.Keys {
			b.WriteByte('[')
			b.WriteString(k.Name)
			b.WriteString("='")
			b.WriteString(k.Value)
			b.WriteString("']")
		}
	}
	return b.String()
}

// moduleJSONName returns the module name used for RFC7951 JSON
// prefixing, resolving submodules to their belongs-to module per the
// namespace-comparison rule (submodules share their belongs-to
// module's namespace and JSON prefix).
func moduleJSONName(mod *yang.Module) string {
	if mod == nil {
		return ""
	}
	if mod.BelongsTo != nil {
		return mod.BelongsTo.Name
	}
	return mod.Name
}
