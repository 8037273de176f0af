package whoisrdap

import "testing"

func TestTldOf(t *testing.T) {
	if got := tldOf("foo.bar.Example.COM."); got != "com" {
		t.Fatalf("tldOf = %q, want com", got)
	}
}

func TestFindRegistrar(t *testing.T) {
	doc := map[string]interface{}{
		"entities": []interface{}{
			map[string]interface{}{
				"roles": []interface{}{"registrar"},
				"vcardArray": []interface{}{
					"vcard",
					[]interface{}{
						[]interface{}{"fn", map[string]interface{}{}, "text", "Example Registrar Inc."},
					},
				},
			},
		},
	}
	if got := findRegistrar(doc); got != "Example Registrar Inc." {
		t.Fatalf("findRegistrar = %q", got)
	}
}

func TestFindEventDates(t *testing.T) {
	doc := map[string]interface{}{
		"events": []interface{}{
			map[string]interface{}{"eventAction": "registration", "eventDate": "2020-01-01T00:00:00Z"},
			map[string]interface{}{"eventAction": "expiration", "eventDate": "2030-01-01T00:00:00Z"},
			map[string]interface{}{"eventAction": "last changed", "eventDate": "2024-06-01T00:00:00Z"},
		},
	}
	created, expires, updated := findEventDates(doc)
	if created != "2020-01-01T00:00:00Z" || expires != "2030-01-01T00:00:00Z" || updated != "2024-06-01T00:00:00Z" {
		t.Fatalf("got created=%q expires=%q updated=%q", created, expires, updated)
	}
}

func TestContactRedactionEmptyVCard(t *testing.T) {
	doc := map[string]interface{}{
		"entities": []interface{}{
			map[string]interface{}{
				"roles": []interface{}{"registrant"},
				"vcardArray": []interface{}{
					"vcard",
					[]interface{}{
						[]interface{}{"fn", map[string]interface{}{}, "text", ""},
						[]interface{}{"email", map[string]interface{}{}, "text", "abuse@x"},
					},
				},
			},
		},
	}
	got := findContact(doc, "registrant")
	if got == nil || got.Sentinel == "" {
		t.Fatalf("expected redacted sentinel, got %+v", got)
	}
}

func TestAbuseContactNestedInRegistrar(t *testing.T) {
	doc := map[string]interface{}{
		"entities": []interface{}{
			map[string]interface{}{
				"roles": []interface{}{"registrar"},
				"entities": []interface{}{
					map[string]interface{}{
						"roles": []interface{}{"abuse"},
						"vcardArray": []interface{}{
							"vcard",
							[]interface{}{
								[]interface{}{"fn", map[string]interface{}{}, "text", "Abuse Team"},
								[]interface{}{"email", map[string]interface{}{}, "text", "abuse@example.com"},
							},
						},
					},
				},
			},
		},
	}
	got := findContact(doc, "abuse")
	if got == nil || got.Contact == nil || got.Contact.Name != "Abuse Team" {
		t.Fatalf("expected nested abuse contact, got %+v", got)
	}
}

func TestStatusAndNameserversParsed(t *testing.T) {
	doc := map[string]interface{}{
		"status": []interface{}{"active", "client transfer prohibited"},
		"nameservers": []interface{}{
			map[string]interface{}{"ldhName": "ns1.example.com"},
			map[string]interface{}{"ldhName": ""},
		},
	}
	rec := parseRdapDoc("example.com", doc, "{}")
	if len(rec.Status) != 2 {
		t.Fatalf("Status = %v", rec.Status)
	}
	if len(rec.Nameservers) != 1 || rec.Nameservers[0] != "ns1.example.com" {
		t.Fatalf("Nameservers = %v", rec.Nameservers)
	}
}
