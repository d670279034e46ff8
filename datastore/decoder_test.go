package datastore

import (
	"strings"
	"testing"

	"github.com/andaru/flexml"
	"github.com/andaru/yangdata/dom"
	"github.com/andaru/yangdata/modules"
)

func newTestCollection(t *testing.T) *modules.Collection {
	t.Helper()
	c := modules.NewCollection()
	modules.SetYANGPath("./testdata/")
	if errs := c.ImportAll(); errs != nil {
		for i, err := range errs {
			t.Logf("import error %02d/%02d: %v", i, len(errs), err)
		}
	}
	if errs := c.Process(); errs != nil {
		for _, err := range errs {
			t.Error(err)
		}
		t.Fatal("fatal YANG processing errors")
	}
	return c
}

func TestYANGDecoder(t *testing.T) {
	c := newTestCollection(t)

	for _, tt := range []struct {
		name         string
		xml          string
		json         string
		wantXML      string
		decodeErrors []string
	}{
		{
			name:    "module1 with host-name",
			json:    `{"module1:system":{"host-name": "abc123"}}`,
			xml:     `<system xmlns="urn:mod1"><host-name>abc123</host-name></system>`,
			wantXML: `<system xmlns="urn:mod1"><host-name>abc123</host-name></system>`,
		},
		{
			name:    "module1 with host-name and domain-name-servers",
			json:    `{"module1:system":{"domain-name-servers":["ns1.local","ns2.local"],"host-name":"abc456"}}`,
			xml:     `<system xmlns="urn:mod1"><domain-name-servers>ns1.local</domain-name-servers><domain-name-servers>ns2.local</domain-name-servers><host-name>abc456</host-name></system>`,
			wantXML: `<system xmlns="urn:mod1"><domain-name-servers>ns1.local</domain-name-servers><domain-name-servers>ns2.local</domain-name-servers><host-name>abc456</host-name></system>`,
		},
		{
			name:    "interfaces with choice and case usage",
			json:    `{"module1:interfaces": {"interface":[{"config":{"interface-name":"Ethernet1", "ethernet-address": "aa:bb:cc:dd:ee:ff"}, "interface-name": "Ethernet1"}]}}`,
			xml:     `<interfaces xmlns="urn:mod1"><interface><config><interface-name>Ethernet1</interface-name><ethernet-address>aa:bb:cc:dd:ee:ff</ethernet-address></config><interface-name>Ethernet1</interface-name></interface></interfaces>`,
			wantXML: `<interfaces xmlns="urn:mod1"><interface><config><interface-name>Ethernet1</interface-name><ethernet-address>aa:bb:cc:dd:ee:ff</ethernet-address></config><interface-name>Ethernet1</interface-name></interface></interfaces>`,
		},

		// partial or complete error cases. in partial errors, some
		// elements are decoded (see wantXML).
		{
			name:    "unrecognized root namespace is silently skipped in lax mode",
			xml:     `<system xmlns="BAD:urn:mod1"><host-name>abc123</host-name></system>`,
			wantXML: ``,
		},
		{
			name:    "invalid JSON module name for host-name, only system decoded",
			wantXML: `<system xmlns="urn:mod1"></system>`,
			json:    `{"module1:system": {"bad:host-name":"foo"}}`,
			decodeErrors: []string{
				`unexpected element <host-name> in unknown module "bad"`,
			},
		},
		{
			name:    "unrecognized element namespace, only system decoded",
			xml:     `<system xmlns="urn:mod1"><host-name xmlns="foo">abc123</host-name></system>`,
			wantXML: `<system xmlns="urn:mod1"></system>`,
		},
		{
			name:    "invalid name for hostname, only system decoded",
			xml:     `<system xmlns="urn:mod1"><hostname>abc123</hostname></system>`,
			wantXML: `<system xmlns="urn:mod1"></system>`,
			decodeErrors: []string{
				`unexpected child element <hostname xmlns="urn:mod1">`,
			},
		},
		{
			name:    "invalid name for hostname, only system decoded (json)",
			json:    `{"module1:system": {"hostname":"foo"}}`,
			wantXML: `<system xmlns="urn:mod1"></system>`,
			decodeErrors: []string{
				`unexpected child element <hostname xmlns="urn:mod1">`,
			},
		},
	} {
		if tt.xml != "" {
			t.Run("xml:"+tt.name, func(t *testing.T) {
				xmlDoc := dom.NewDocument(nil)
				td := &Decoder{Node: xmlDoc, Modules: c}
				un := dom.NewUnmarshaler(td)
				un.InitializeArgs = []string{"name.resolver", "rfc6020"}
				n, err := un.XMLReader().ReadFrom(strings.NewReader(tt.xml))
				if err != nil {
					t.Fatalf("Unmarshaler.XMLReader().ReadFrom() err = %v, wantErr = false", err)
				}
				if int(n) != len(tt.xml) {
					t.Errorf("Unmarshaler.XMLReader().ReadFrom() reported %d bytes read, want %d",
						n, len(tt.xml))
				}
				checkDecodeErrors(t, td, tt.decodeErrors)
				b, err := flexml.Marshal(dom.NewMarshaler(xmlDoc))
				if err != nil {
					t.Fatalf("xml.Marshal(xmlDoc) error: %v, wantErr false", err)
				} else if string(b) != tt.wantXML {
					t.Errorf("encoded XML did not match input XML, got:\n%s\nwant:\n%s\n", b, tt.wantXML)
				}
			})
		}

		if tt.json != "" {
			t.Run("json:"+tt.name, func(t *testing.T) {
				jsonDoc := dom.NewDocument(nil)
				td := &Decoder{Node: jsonDoc, Modules: c}
				un := dom.NewUnmarshaler(td)
				un.InitializeArgs = []string{"mediatype", "application/yang-data+json"}
				n, err := un.JSONReader().ReadFrom(strings.NewReader(tt.json))
				if err != nil {
					t.Fatalf("(*dom.Unmarshaler).JSONReader().ReadFrom() err = %v, wantErr false", err)
				}
				if int(n) != len(tt.json) {
					t.Errorf("Unmarshaler.JSONReader().ReadFrom() reported %d bytes read, want %d",
						n, len(tt.json))
				}
				checkDecodeErrors(t, td, tt.decodeErrors)
				b, err := flexml.Marshal(dom.NewMarshaler(jsonDoc))
				if err != nil {
					t.Fatalf("xml.Marshal(jsonDoc) error: %v, wantErr = false", err)
				} else if string(b) != tt.wantXML {
					t.Errorf("encoded XML from JSON did not match input XML, got\n%s\nwant:\n%s\n", b, tt.wantXML)
				}
			})
		}
	}
}

func checkDecodeErrors(t *testing.T, td *Decoder, want []string) {
	t.Helper()
	got := td.DecodingErrors()
	if len(got) != len(want) {
		for i, err := range got {
			t.Logf("error %d: %v", i, err)
		}
		t.Fatalf("got %d decoding errors, want %d", len(got), len(want))
	}
	for i, err := range got {
		if got := err.Error(); got != want[i] {
			t.Errorf("decoding error %d/%d mismatch:\ngot:\n%s\nwant:\n%s\n", i, len(want), got, want[i])
		}
	}
}

func TestDecoderBindings(t *testing.T) {
	c := newTestCollection(t)

	xmlDoc := dom.NewDocument(nil)
	td := &Decoder{Node: xmlDoc, Modules: c}
	un := dom.NewUnmarshaler(td)
	un.InitializeArgs = []string{"name.resolver", "rfc6020"}
	src := `<system xmlns="urn:mod1"><host-name>router1</host-name><preferred-transport>module1:tcp</preferred-transport></system>`
	if _, err := un.XMLReader().ReadFrom(strings.NewReader(src)); err != nil {
		t.Fatalf("ReadFrom() error: %v", err)
	}
	if errs := td.DecodingErrors(); len(errs) != 0 {
		t.Fatalf("unexpected decoding errors: %v", errs)
	}

	system := xmlDoc.FirstChild()
	if system == nil {
		t.Fatal("no <system> element decoded")
	}
	hostName := system.FirstChild()
	if hostName == nil {
		t.Fatal("no <host-name> child decoded")
	}
	b := td.Binding(hostName)
	if b == nil {
		t.Fatal("no Binding for <host-name>")
	}
	if b.ValueStr != "router1" {
		t.Errorf("host-name ValueStr = %q, want %q", b.ValueStr, "router1")
	}

	transport := hostName.NextSibling()
	tb := td.Binding(transport)
	if tb == nil {
		t.Fatal("no Binding for <preferred-transport>")
	}
	if want := "module1:tcp"; tb.ValueStr != want {
		t.Errorf("preferred-transport ValueStr = %q, want %q", tb.ValueStr, want)
	}
	if tb.Value.Identity == nil || tb.Value.Identity.Ident.Name != "tcp" {
		t.Errorf("preferred-transport Value.Identity = %+v, want identity \"tcp\"", tb.Value.Identity)
	}
}

func TestDecoderAnyxmlOpacity(t *testing.T) {
	c := newTestCollection(t)

	xmlDoc := dom.NewDocument(nil)
	td := &Decoder{Node: xmlDoc, Modules: c}
	un := dom.NewUnmarshaler(td)
	un.InitializeArgs = []string{"name.resolver", "rfc6020"}
	src := `<interfaces xmlns="urn:mod1"><interface><interface-name>eth0</interface-name>` +
		`<vendor-config><acme:tuning xmlns:acme="urn:acme">15</acme:tuning></vendor-config>` +
		`</interface></interfaces>`
	if _, err := un.XMLReader().ReadFrom(strings.NewReader(src)); err != nil {
		t.Fatalf("ReadFrom() error: %v", err)
	}
	if errs := td.DecodingErrors(); len(errs) != 0 {
		t.Fatalf("unexpected decoding errors: %v", errs)
	}

	iface := xmlDoc.FirstChild().FirstChild()
	vendorConfig := iface.FirstChild().NextSibling()
	if vendorConfig == nil || vendorConfig.Name().Local != "vendor-config" {
		t.Fatalf("expected <vendor-config>, got %#v", vendorConfig)
	}
	if vendorConfig.FirstChild() != nil {
		t.Errorf("anyxml node should have no structural children, got %#v", vendorConfig.FirstChild())
	}
	b := td.Binding(vendorConfig)
	if b == nil || b.Anyxml == nil {
		t.Fatal("vendor-config Binding missing its Anyxml payload")
	}
	tuning := b.Anyxml.FirstChild()
	if tuning == nil || tuning.Name().Local != "tuning" {
		t.Fatalf("expected raw <tuning> payload, got %#v", tuning)
	}
	if tuning.ChildValue() != "15" {
		t.Errorf("tuning value = %q, want %q", tuning.ChildValue(), "15")
	}
}
