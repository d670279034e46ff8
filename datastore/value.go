package datastore

import (
	"encoding/base64"
	"regexp"
	"strings"
	"sync"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/pkg/errors"

	"github.com/andaru/yangdata/dom"
	"github.com/andaru/yangdata/modules"
)

// decodeContext carries the ambient information the value decoder
// needs beyond the text and type: where in the data tree the value is
// being attached (for namespace lookups and instance-identifier/
// leafref path resolution context) and the module collection.
//
// Path-bearing union subtypes (identityref, instance-identifier) get
// the same decodeContext as any other subtype: a prefix/namespace
// translation failure already surfaces as a plain decode error, which
// decodeUnion treats exactly like any other subtype rejection — skip
// and try the next one. No separate "silent" mode is needed to get the
// "translation failure skips the subtype" rule from spec.md §4.3.
type decodeContext struct {
	node dom.Node
	mods *modules.Collection
}

// decode parses text against typ, returning the decoded Value, the
// runtime-resolved base TypeKind (value_type — may differ from
// typ.Kind for unions), and the canonical textual form (value_str:
// integers and decimal64 in their canonical number form, bits joined
// by single spaces, identityref/instance-identifier in JSON
// module-name-prefixed form, and every other type identical to text).
func decode(text string, typ *yang.YangType, ctx decodeContext) (Value, yang.TypeKind, string, error) {
	switch typ.Kind {
	case yang.Ybool:
		return decodeBool(text)
	case yang.Yint8, yang.Yint16, yang.Yint32, yang.Yint64,
		yang.Yuint8, yang.Yuint16, yang.Yuint32, yang.Yuint64:
		return decodeInt(text, typ)
	case yang.Ydecimal64:
		return decodeDecimal64(text, typ)
	case yang.Ystring:
		return decodeString(text, typ)
	case yang.Ybinary:
		return decodeBinary(text, typ)
	case yang.Yenum:
		return decodeEnum(text, typ)
	case yang.Ybits:
		return decodeBits(text, typ)
	case yang.Yempty:
		return decodeEmpty(text)
	case yang.Yidentityref:
		return decodeIdentityref(text, typ, ctx)
	case yang.YinstanceIdentifier:
		return decodeInstanceIdentifier(text, ctx)
	case yang.Yleafref:
		return decodeLeafref(text, typ)
	case yang.Yunion:
		return decodeUnion(text, typ, ctx)
	default:
		return Value{}, typ.Kind, "", newError(KindInternal, "unsupported type kind %v", typ.Kind)
	}
}

func decodeBool(text string) (Value, yang.TypeKind, string, error) {
	switch text {
	case "true":
		return Value{Kind: yang.Ybool, Bool: true}, yang.Ybool, text, nil
	case "false":
		return Value{Kind: yang.Ybool, Bool: false}, yang.Ybool, text, nil
	}
	return Value{}, yang.Ybool, "", newError(KindType, "invalid boolean value %q", text)
}

func decodeEmpty(text string) (Value, yang.TypeKind, string, error) {
	if text != "" {
		return Value{}, yang.Yempty, "", newError(KindType, "empty type must have no content, got %q", text)
	}
	return Value{Kind: yang.Yempty}, yang.Yempty, "", nil
}

func decodeInt(text string, typ *yang.YangType) (Value, yang.TypeKind, string, error) {
	n, err := yang.ParseInt(text)
	if err != nil {
		return Value{}, typ.Kind, "", newError(KindType, "invalid %s value %q: %v", yang.TypeKindToName[typ.Kind], text, err)
	}
	if !inRange(typ.Range, n) {
		return Value{}, typ.Kind, "", newError(KindType, "%s value %q out of range %s", yang.TypeKindToName[typ.Kind], text, typ.Range)
	}
	return Value{Kind: typ.Kind, Num: n}, typ.Kind, n.String(), nil
}

func decodeDecimal64(text string, typ *yang.YangType) (Value, yang.TypeKind, string, error) {
	fd := uint8(typ.FractionDigits)
	n, err := yang.ParseDecimal(text, fd)
	if err != nil {
		return Value{}, yang.Ydecimal64, "", newError(KindType, "invalid decimal64 value %q: %v", text, err)
	}
	if !inRange(typ.Range, n) {
		return Value{}, yang.Ydecimal64, "", newError(KindType, "decimal64 value %q out of range %s", text, typ.Range)
	}
	return Value{Kind: yang.Ydecimal64, Num: n}, yang.Ydecimal64, n.String(), nil
}

// inRange reports whether n satisfies r (an empty r, meaning no
// explicit "range" restriction narrower than the base type, always
// matches).
func inRange(r yang.YangRange, n yang.Number) bool {
	if len(r) == 0 {
		return true
	}
	return r.Contains(yang.YangRange{{Min: n, Max: n}})
}

func decodeString(text string, typ *yang.YangType) (Value, yang.TypeKind, string, error) {
	if err := checkLength(typ.Length, len(text)); err != nil {
		return Value{}, yang.Ystring, "", newError(KindType, "string value fails length constraint: %v", err)
	}
	for _, pat := range typ.Pattern {
		ok, err := matchPattern(pat, text)
		if err != nil {
			return Value{}, yang.Ystring, "", newError(KindType, "invalid pattern %q: %v", pat, err)
		}
		if !ok {
			return Value{}, yang.Ystring, "", newError(KindType, "string value %q does not match pattern %q", text, pat)
		}
	}
	return Value{Kind: yang.Ystring, Str: text}, yang.Ystring, text, nil
}

func decodeBinary(text string, typ *yang.YangType) (Value, yang.TypeKind, string, error) {
	decoded, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return Value{}, yang.Ybinary, "", newError(KindType, "invalid base64 value: %v", err)
	}
	if err := checkLength(typ.Length, len(decoded)); err != nil {
		return Value{}, yang.Ybinary, "", newError(KindType, "binary value fails length constraint: %v", err)
	}
	return Value{Kind: yang.Ybinary, Str: text}, yang.Ybinary, text, nil
}

func checkLength(r yang.YangRange, n int) error {
	if len(r) == 0 {
		return nil
	}
	if !r.Contains(yang.YangRange{{Min: yang.FromUint(uint64(n)), Max: yang.FromUint(uint64(n))}}) {
		return errors.Errorf("length %d not within %s", n, r)
	}
	return nil
}

func decodeEnum(text string, typ *yang.YangType) (Value, yang.TypeKind, string, error) {
	if typ.Enum == nil || !typ.Enum.IsDefined(text) {
		return Value{}, yang.Yenum, "", newError(KindType, "%q is not a valid enum value", text)
	}
	return Value{Kind: yang.Yenum, Str: text, Num: yang.FromInt(typ.Enum.Value(text))}, yang.Yenum, text, nil
}

func decodeBits(text string, typ *yang.YangType) (Value, yang.TypeKind, string, error) {
	fields := strings.Fields(text)
	seen := make(map[string]bool, len(fields))
	for _, name := range fields {
		if typ.Bit == nil || !typ.Bit.IsDefined(name) {
			return Value{}, yang.Ybits, "", newError(KindType, "%q is not a valid bit name", name)
		}
		if seen[name] {
			return Value{}, yang.Ybits, "", newError(KindType, "duplicate bit name %q", name)
		}
		seen[name] = true
	}
	return Value{Kind: yang.Ybits, Bits: fields}, yang.Ybits, strings.Join(fields, " "), nil
}

// decodeIdentityref resolves text (either XML "prefix:name" or JSON
// "module:name") to the identity it names, requiring it to derive from
// typ.IdentityBase.
func decodeIdentityref(text string, typ *yang.YangType, ctx decodeContext) (Value, yang.TypeKind, string, error) {
	tok, err := splitToken(text)
	if err != nil {
		return Value{}, yang.Yidentityref, "", newError(KindType, "invalid identityref value %q", text)
	}
	moduleName := tok.prefix
	if moduleName != "" {
		if mod, mErr := ctx.mods.ModuleByName(moduleName); mErr != nil || mod == nil {
			// not a JSON module-name prefix; try XML namespace scope
			if ns, ok := lookupXMLNSPrefix(ctx.node, tok.prefix); ok {
				if mod, mErr := ctx.mods.ModuleByNamespace(ns); mErr == nil {
					moduleName = moduleJSONName(mod)
				} else {
					return Value{}, yang.Yidentityref, "", newError(KindType, "identityref %q: unknown namespace prefix", text)
				}
			} else {
				return Value{}, yang.Yidentityref, "", newError(KindType, "identityref %q: unknown module or namespace prefix", text)
			}
		}
	} else if base := typ.IdentityBase; base != nil {
		if owner, ok := base.Parent.(*yang.Module); ok {
			moduleName = moduleJSONName(owner)
		}
	}
	mod, err := ctx.mods.ModuleByName(moduleName)
	if err != nil {
		return Value{}, yang.Yidentityref, "", newError(KindType, "identityref %q: %v", text, err)
	}
	id, err := ctx.mods.Identity(moduleName, tok.local)
	if err != nil {
		return Value{}, yang.Yidentityref, "", newError(KindType, "identityref %q: %v", text, err)
	}
	if typ.IdentityBase != nil && !derivesFrom(id, typ.IdentityBase) {
		return Value{}, yang.Yidentityref, "", newError(KindType, "identity %q does not derive from %q", id.Name, typ.IdentityBase.Name)
	}
	v := Identity{Module: mod, Ident: id}
	return Value{Kind: yang.Yidentityref, Identity: &v}, yang.Yidentityref, v.CanonicalName(), nil
}

// decodeInstanceIdentifier parses text (JSON-canonical or XML form) as
// an instance-identifier path. Resolution against the data tree is
// deferred to ResolveDeferred (C5); this only validates and
// canonicalizes the path syntax.
func decodeInstanceIdentifier(text string, ctx decodeContext) (Value, yang.TypeKind, string, error) {
	steps, err := parseInstancePath(text, ctx.node, ctx.mods)
	if err != nil {
		return Value{}, yang.YinstanceIdentifier, "", newError(KindType, "invalid instance-identifier %q: %v", text, err)
	}
	return Value{Kind: yang.YinstanceIdentifier, InstancePath: steps}, yang.YinstanceIdentifier, canonicalInstancePath(steps), nil
}

// decodeLeafref stores the value syntactically; pointer binding happens
// in ResolveDeferred, once the full tree (and hence the target leaf's
// own decoded value) is available, by comparing this text with each
// candidate target's ValueStr. The text is never decoded against the
// target leaf's type.
func decodeLeafref(text string, typ *yang.YangType) (Value, yang.TypeKind, string, error) {
	return Value{Kind: yang.Yleafref, Str: text}, yang.Yleafref, text, nil
}

// decodeUnion tries each subtype in declaration order, returning the
// first that accepts text. A path-bearing subtype (identityref,
// instance-identifier) that fails namespace/prefix translation returns
// a plain decode error like any other subtype, so it is skipped the
// same way a type mismatch would be — no separate silent mode needed.
func decodeUnion(text string, typ *yang.YangType, ctx decodeContext) (Value, yang.TypeKind, string, error) {
	for _, sub := range typ.Type {
		v, kind, valueStr, err := decode(text, sub, ctx)
		if err == nil {
			return v, kind, valueStr, nil
		}
	}
	return Value{}, yang.Yunion, "", newError(KindType, "value %q accepted by no union subtype", text)
}

// matchPattern evaluates a single YANG "pattern" (XSD regular
// expression) restriction against text. goyang stores patterns
// verbatim as XSD syntax; translation to Go's RE2 syntax is
// best-effort for the common subset (anchors, character classes,
// quantifiers) used by the YANG modules this core targets.
func matchPattern(pattern, text string) (bool, error) {
	re, err := compileXSDPattern(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}

var patternCache sync.Map // string -> *regexp.Regexp

// compileXSDPattern compiles an XSD "pattern" facet into an RE2
// regexp, anchoring it to the whole string as RFC 7950 9.4.4 requires.
// XSD and RE2 syntax agree on the common subset this translates
// (literals, character classes, quantifiers, groups); XSD's \p{...}
// Unicode block escapes have no RE2 equivalent and are left as errors
// rather than silently accepted or rejected.
func compileXSDPattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}
