package datastore

import "github.com/openconfig/goyang/pkg/yang"

// InsertOp is a NETCONF edit-config "insert" attribute value.
type InsertOp int

const (
	InsertNone InsertOp = iota
	InsertFirst
	InsertLast
	InsertBefore
	InsertAfter
)

func (op InsertOp) String() string {
	switch op {
	case InsertFirst:
		return "first"
	case InsertLast:
		return "last"
	case InsertBefore:
		return "before"
	case InsertAfter:
		return "after"
	default:
		return "none"
	}
}

// EditAttrs is the parsed "insert"/"value"/"key" attribute set carried
// on a user-ordered list or leaf-list entry during an edit operation.
type EditAttrs struct {
	Insert InsertOp
	Value  string    // sibling leaf-list value; required iff Insert is before/after
	Key    string    // sibling list key predicate; required iff Insert is before/after
	Keys   []PathKey // Key, parsed as "[name='value']..." predicates
}

// parseEditAttrs extracts and validates the insert/value/key attributes
// found among attrs. isList distinguishes the list-vs-leaf-list "before"/
// "after" companion attribute requirement (key vs. value).
func parseEditAttrs(attrs []Attribute, isList bool) (EditAttrs, error) {
	var ea EditAttrs
	seenInsert := false
	for _, a := range attrs {
		switch a.Name {
		case "insert":
			if seenInsert {
				return ea, newError(KindSemantic, "insert attribute may appear at most once")
			}
			seenInsert = true
			switch a.Value {
			case "first":
				ea.Insert = InsertFirst
			case "last":
				ea.Insert = InsertLast
			case "before":
				ea.Insert = InsertBefore
			case "after":
				ea.Insert = InsertAfter
			default:
				return ea, newError(KindSemantic, "invalid insert attribute value %q", a.Value)
			}
		case "value":
			ea.Value = a.Value
		case "key":
			ea.Key = a.Value
		}
	}
	if ea.Insert == InsertBefore || ea.Insert == InsertAfter {
		if isList && ea.Key == "" {
			return ea, newError(KindSemantic, "insert=%q on a list requires a key attribute", ea.Insert)
		}
		if !isList && ea.Value == "" {
			return ea, newError(KindSemantic, "insert=%q on a leaf-list requires a value attribute", ea.Insert)
		}
		if ea.Key != "" {
			keys, err := parseInstanceKeys(ea.Key)
			if err != nil {
				return ea, newError(KindSemantic, "invalid key attribute %q: %v", ea.Key, err)
			}
			ea.Keys = keys
		}
	} else {
		// "value is required iff insert in {before, after} and forbidden
		// otherwise" (spec.md §6) — this covers insert in {first, last,
		// none} including a bare value/key attribute with no insert at all.
		if ea.Value != "" {
			return ea, newError(KindSemantic, "value attribute is only valid with insert=before or insert=after")
		}
		if ea.Key != "" {
			return ea, newError(KindSemantic, "key attribute is only valid with insert=before or insert=after")
		}
	}
	return ea, nil
}

// checkUserOrdered rejects any insert/value/key attribute on a schema
// node that is not declared "ordered-by user": spec.md §6 makes no
// exception for a bare "first"/"last" or a stray value/key with no
// insert at all — "either attribute on a non-user-ordered schema" is
// always an error.
func checkUserOrdered(e *yang.Entry, ea EditAttrs) error {
	if ea.Insert == InsertNone && ea.Value == "" && ea.Key == "" {
		return nil
	}
	if e.ListAttr == nil || e.ListAttr.OrderedBy == nil || e.ListAttr.OrderedBy.Name != "user" {
		return newError(KindSemantic, "insert/value/key attributes are only valid on an ordered-by user list or leaf-list")
	}
	return nil
}
