package datastore

import (
	"errors"
	"strings"
	"testing"

	"github.com/andaru/yangdata/dom"
)

type recordingHooks struct {
	rejectContext string
	rejectContent string
	contexts      []string
	contents      []string
}

func (h *recordingHooks) Context(b *Binding) error {
	h.contexts = append(h.contexts, b.Schema.Name)
	if b.Schema.Name == h.rejectContext {
		return errors.New("context rejected")
	}
	return nil
}

func (h *recordingHooks) Content(b *Binding) error {
	h.contents = append(h.contents, b.Schema.Name)
	if b.Schema.Name == h.rejectContent {
		return errors.New("content rejected")
	}
	return nil
}

func TestHooksInvocationOrder(t *testing.T) {
	c := newTestCollection(t)

	xmlDoc := dom.NewDocument(nil)
	h := &recordingHooks{}
	td := &Decoder{Node: xmlDoc, Modules: c, Hooks: h}
	un := dom.NewUnmarshaler(td)
	un.InitializeArgs = []string{"name.resolver", "rfc6020"}
	src := `<system xmlns="urn:mod1"><host-name>router1</host-name></system>`
	if _, err := un.XMLReader().ReadFrom(strings.NewReader(src)); err != nil {
		t.Fatalf("ReadFrom() error: %v", err)
	}
	if errs := td.DecodingErrors(); len(errs) != 0 {
		t.Fatalf("unexpected decoding errors: %v", errs)
	}

	wantContext := []string{"system", "host-name"}
	if len(h.contexts) != len(wantContext) {
		t.Fatalf("Context() calls = %v, want %v", h.contexts, wantContext)
	}
	for i, name := range wantContext {
		if h.contexts[i] != name {
			t.Errorf("Context() call %d = %q, want %q", i, h.contexts[i], name)
		}
	}
	// Content is invoked for every bound node at its end element, so
	// the child's call comes before its parent's.
	if want := []string{"host-name", "system"}; len(h.contents) != len(want) || h.contents[0] != want[0] || h.contents[1] != want[1] {
		t.Errorf("Content() calls = %v, want %v", h.contents, want)
	}
}

func TestHooksRejectIsFatalWithoutFilter(t *testing.T) {
	c := newTestCollection(t)

	xmlDoc := dom.NewDocument(nil)
	h := &recordingHooks{rejectContent: "host-name"}
	td := &Decoder{Node: xmlDoc, Modules: c, Hooks: h}
	un := dom.NewUnmarshaler(td)
	un.InitializeArgs = []string{"name.resolver", "rfc6020"}
	src := `<system xmlns="urn:mod1"><host-name>router1</host-name></system>`
	if _, err := un.XMLReader().ReadFrom(strings.NewReader(src)); err == nil {
		t.Fatal("ReadFrom() with a rejecting Hooks.Content and no OptFilter: want error, got nil")
	}
}

func TestHooksRejectIsSoftDiscardUnderFilter(t *testing.T) {
	c := newTestCollection(t)

	xmlDoc := dom.NewDocument(nil)
	h := &recordingHooks{rejectContent: "host-name"}
	td := &Decoder{Node: xmlDoc, Modules: c, Hooks: h, Options: OptFilter}
	un := dom.NewUnmarshaler(td)
	un.InitializeArgs = []string{"name.resolver", "rfc6020"}
	src := `<system xmlns="urn:mod1"><host-name>router1</host-name></system>`
	if _, err := un.XMLReader().ReadFrom(strings.NewReader(src)); err != nil {
		t.Fatalf("ReadFrom() error: %v", err)
	}

	// A Content-time discard detaches the node (spec.md §7: soft-discard
	// "deletes the in-progress subtree"), so <host-name> is no longer
	// reachable from <system> at all.
	system := xmlDoc.FirstChild()
	if c := system.FirstChild(); c != nil {
		t.Errorf("system.FirstChild() = %v, want nil (host-name must be detached)", c)
	}

	var buf strings.Builder
	if err := td.WriteXML(&buf, xmlDoc); err != nil {
		t.Fatalf("WriteXML() error: %v", err)
	}
	want := `<system xmlns="urn:mod1"></system>`
	if got := buf.String(); got != want {
		t.Errorf("WriteXML() = %q, want %q (discarded host-name must not serialize)", got, want)
	}
}

func TestNopHooksAcceptsEverything(t *testing.T) {
	var h NopHooks
	if err := h.Context(&Binding{}); err != nil {
		t.Errorf("NopHooks.Context() = %v, want nil", err)
	}
	if err := h.Content(&Binding{}); err != nil {
		t.Errorf("NopHooks.Content() = %v, want nil", err)
	}
}
