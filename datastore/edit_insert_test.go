package datastore

import (
	"strings"
	"testing"

	"github.com/andaru/yangdata/dom"
)

// TestEditInsertLeafListBefore is spec.md §8 scenario 1: a user-ordered
// leaf-list's second instance carries insert=before value=a, and must
// end up positioned before the "a" entry rather than appended after it.
func TestEditInsertLeafListBefore(t *testing.T) {
	c := newTestCollection(t)

	xmlDoc := dom.NewDocument(nil)
	td := &Decoder{Node: xmlDoc, Modules: c, Options: OptEdit}
	un := dom.NewUnmarshaler(td)
	un.InitializeArgs = []string{"name.resolver", "rfc6020"}

	src := `<system xmlns="urn:mod1" xmlns:nc="urn:ietf:params:xml:ns:netconf:base:1.0">` +
		`<domain-name-servers>a</domain-name-servers>` +
		`<domain-name-servers nc:insert="before" nc:value="a">b</domain-name-servers>` +
		`</system>`
	if _, err := un.XMLReader().ReadFrom(strings.NewReader(src)); err != nil {
		t.Fatalf("ReadFrom() error: %v", err)
	}
	if errs := td.DecodingErrors(); len(errs) != 0 {
		t.Fatalf("unexpected decoding errors: %v", errs)
	}

	system := xmlDoc.FirstChild()
	first := system.FirstChild()
	second := first.NextSibling()
	if second == nil || second.NextSibling() != nil {
		t.Fatalf("expected exactly two domain-name-servers entries")
	}
	if got := td.Binding(first).ValueStr; got != "b" {
		t.Errorf("first entry = %q, want %q (insert=before should have moved it ahead of \"a\")", got, "b")
	}
	if got := td.Binding(second).ValueStr; got != "a" {
		t.Errorf("second entry = %q, want %q", got, "a")
	}
}

// TestEditInsertListAfterByKey exercises the list (not leaf-list)
// before/after grammar: insert=after with a key predicate relocates a
// new list entry next to the keyed sibling it names.
func TestEditInsertListAfterByKey(t *testing.T) {
	c := newTestCollection(t)

	xmlDoc := dom.NewDocument(nil)
	td := &Decoder{Node: xmlDoc, Modules: c, Options: OptEdit}
	un := dom.NewUnmarshaler(td)
	un.InitializeArgs = []string{"name.resolver", "rfc6020"}

	src := `<interfaces xmlns="urn:mod1" xmlns:nc="urn:ietf:params:xml:ns:netconf:base:1.0">` +
		`<interface><interface-name>eth0</interface-name></interface>` +
		`<interface><interface-name>eth2</interface-name></interface>` +
		`<interface nc:insert="after" nc:key="[interface-name='eth0']">` +
		`<interface-name>eth1</interface-name></interface>` +
		`</interfaces>`
	if _, err := un.XMLReader().ReadFrom(strings.NewReader(src)); err != nil {
		t.Fatalf("ReadFrom() error: %v", err)
	}
	if errs := td.DecodingErrors(); len(errs) != 0 {
		t.Fatalf("unexpected decoding errors: %v", errs)
	}

	interfaces := xmlDoc.FirstChild()
	names := func() []string {
		var got []string
		for c := interfaces.FirstChild(); c != nil; c = c.NextSibling() {
			got = append(got, c.FirstChild().ChildValue())
		}
		return got
	}()
	want := []string{"eth0", "eth1", "eth2"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d = %q, want %q (full order got %v, want %v)", i, names[i], want[i], names, want)
		}
	}
}

// TestEditAttrsRejectedOnNonUserOrdered covers spec.md §6: either
// attribute on a schema node that is not ordered-by user is always an
// error, even a bare value/key with no insert at all.
func TestEditAttrsRejectedOnNonUserOrdered(t *testing.T) {
	c := newTestCollection(t)

	xmlDoc := dom.NewDocument(nil)
	td := &Decoder{Node: xmlDoc, Modules: c, Options: OptEdit}
	un := dom.NewUnmarshaler(td)
	un.InitializeArgs = []string{"name.resolver", "rfc6020"}

	// host-name is a plain leaf, never ordered-by user.
	src := `<system xmlns="urn:mod1" xmlns:nc="urn:ietf:params:xml:ns:netconf:base:1.0">` +
		`<host-name nc:value="x">abc</host-name>` +
		`</system>`
	if _, err := un.XMLReader().ReadFrom(strings.NewReader(src)); err != nil {
		t.Fatalf("ReadFrom() error: %v", err)
	}
	errs := td.DecodingErrors()
	if len(errs) != 1 {
		t.Fatalf("got %d decoding errors, want 1: %v", len(errs), errs)
	}
}

// TestEditAttrsForbiddenWithoutInsert covers the "forbidden otherwise"
// half of spec.md §6: a value/key attribute is only legal alongside
// insert=before or insert=after, never with insert=first/last or absent.
func TestEditAttrsForbiddenWithoutInsert(t *testing.T) {
	c := newTestCollection(t)

	xmlDoc := dom.NewDocument(nil)
	td := &Decoder{Node: xmlDoc, Modules: c, Options: OptEdit}
	un := dom.NewUnmarshaler(td)
	un.InitializeArgs = []string{"name.resolver", "rfc6020"}

	src := `<system xmlns="urn:mod1" xmlns:nc="urn:ietf:params:xml:ns:netconf:base:1.0">` +
		`<domain-name-servers nc:insert="first" nc:value="a">b</domain-name-servers>` +
		`</system>`
	if _, err := un.XMLReader().ReadFrom(strings.NewReader(src)); err != nil {
		t.Fatalf("ReadFrom() error: %v", err)
	}
	if errs := td.DecodingErrors(); len(errs) != 1 {
		t.Fatalf("got %d decoding errors, want 1: %v", len(errs), errs)
	}
}
