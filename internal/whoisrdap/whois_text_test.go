package whoisrdap

import "testing"

const sampleWhoisText = `Domain Name: EXAMPLE.COM
Registrar: Example Registrar, LLC
Creation Date: 2020-01-15T00:00:00Z
Registry Expiry Date: 2030-01-15T00:00:00Z
Updated Date: 2024-03-01T00:00:00Z
Domain Status: clientTransferProhibited
Domain Status: clientTransferProhibited
Name Server: NS1.EXAMPLE.COM
Name Server: NS2.EXAMPLE.COM
`

func TestParseWhoisTextFields(t *testing.T) {
	rec := parseWhoisText("example.com", sampleWhoisText)
	if rec.Registrar != "Example Registrar, LLC" {
		t.Errorf("Registrar = %q", rec.Registrar)
	}
	if rec.CreationDate != "2020-01-15T00:00:00Z" {
		t.Errorf("CreationDate = %q", rec.CreationDate)
	}
	if rec.ExpirationDate != "2030-01-15T00:00:00Z" {
		t.Errorf("ExpirationDate = %q", rec.ExpirationDate)
	}
	if len(rec.Status) != 1 || rec.Status[0] != "clientTransferProhibited" {
		t.Errorf("Status = %v", rec.Status)
	}
	if len(rec.Nameservers) != 2 {
		t.Errorf("Nameservers = %v", rec.Nameservers)
	}
	if !rec.Registered {
		t.Errorf("expected Registered=true")
	}
	if rec.Registrant.Sentinel != "Not available in WHOIS" {
		t.Errorf("Registrant = %+v", rec.Registrant)
	}
}

func TestParseWhoisTextUnregistered(t *testing.T) {
	rec := parseWhoisText("nope.com", "No match for domain \"NOPE.COM\"\n")
	if rec.Registered {
		t.Errorf("expected Registered=false")
	}
}

func TestIsRegisteredFromStatus(t *testing.T) {
	ok, err := IsRegistered([]string{"available"}, nil)
	if err != nil || ok {
		t.Fatalf("got ok=%v err=%v", ok, err)
	}
}

func TestIsRegisteredSurfacesUnrelatedError(t *testing.T) {
	ok, err := IsRegistered(nil, ErrNoWhoisServer{TLD: "zzz"})
	if err == nil {
		t.Fatalf("expected surfaced error for unrelated failure")
	}
	_ = ok
}

func TestIsRegisteredTrueWhenDataReturnedNoError(t *testing.T) {
	ok, err := IsRegistered([]string{"active"}, nil)
	if err != nil || !ok {
		t.Fatalf("got ok=%v err=%v", ok, err)
	}
}
