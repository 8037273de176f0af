package dnsprobe

import (
	"context"
	"testing"

	"github.com/miekg/dns"

	"github.com/domainguard/domainguard/internal/model"
)

// fakeExchanger answers canned records per query type, keyed by qname.
type fakeExchanger struct {
	answers map[string]map[uint16][]dns.RR
}

func (f *fakeExchanger) Exchange(_ context.Context, qname string, qtype uint16) (*dns.Msg, error) {
	m := new(dns.Msg)
	byName, ok := f.answers[dns.Fqdn(qname)]
	if !ok {
		return m, nil
	}
	m.Answer = byName[qtype]
	return m, nil
}

func mustRR(t *testing.T, s string) dns.RR {
	rr, err := dns.NewRR(s)
	if err != nil {
		t.Fatalf("NewRR(%q): %v", s, err)
	}
	return rr
}

func TestResolveCNAMEEqualsTLDFalsePositive(t *testing.T) {
	candidate := model.Candidate{FQDN: "foo.bar.", TLD: "bar"}
	fe := &fakeExchanger{answers: map[string]map[uint16][]dns.RR{
		"foo.bar.": {
			dns.TypeA:     {mustRR(t, "foo.bar. 300 IN A 1.2.3.4")},
			dns.TypeCNAME: {mustRR(t, "foo.bar. 300 IN CNAME bar.")},
		},
	}}
	p := &Prober{Exchanger: fe}
	_, err := p.Resolve(context.Background(), candidate)
	if err != ErrTLDFalsePositive {
		t.Fatalf("err = %v, want ErrTLDFalsePositive", err)
	}
}

func TestResolveNoCNAME(t *testing.T) {
	candidate := model.Candidate{FQDN: "example.com.", TLD: "com"}
	fe := &fakeExchanger{answers: map[string]map[uint16][]dns.RR{
		"example.com.": {
			dns.TypeA: {mustRR(t, "example.com. 300 IN A 93.184.216.34")},
		},
	}}
	p := &Prober{Exchanger: fe}
	res, err := p.Resolve(context.Background(), candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.IPs) != 1 || res.IPs[0] != "93.184.216.34" {
		t.Fatalf("IPs = %v", res.IPs)
	}
	if res.CNAME != "" {
		t.Fatalf("CNAME = %q, want empty", res.CNAME)
	}
}

func TestResolveNoRecords(t *testing.T) {
	candidate := model.Candidate{FQDN: "nowhere.example.", TLD: "example"}
	fe := &fakeExchanger{answers: map[string]map[uint16][]dns.RR{}}
	p := &Prober{Exchanger: fe}
	_, err := p.Resolve(context.Background(), candidate)
	if err != ErrNoRecords {
		t.Fatalf("err = %v, want ErrNoRecords", err)
	}
}

func TestDmarcAbsentIsSuccessfulReport(t *testing.T) {
	fe := &fakeExchanger{answers: map[string]map[uint16][]dns.RR{}}
	p := &Prober{Exchanger: fe}
	got := p.Dmarc(context.Background(), "example.com")
	if got.Error != "No DMARC record found" {
		t.Fatalf("Dmarc = %+v", got)
	}
	if got.Values != nil {
		t.Fatalf("expected nil Values on absence, got %v", got.Values)
	}
}

func TestDmarcParsesKeyValues(t *testing.T) {
	fe := &fakeExchanger{answers: map[string]map[uint16][]dns.RR{
		"_dmarc.example.com.": {
			dns.TypeTXT: {mustRR(t, `_dmarc.example.com. 300 IN TXT "v=DMARC1; p=reject; rua=mailto:d@example.com"`)},
		},
	}}
	p := &Prober{Exchanger: fe}
	got := p.Dmarc(context.Background(), "example.com")
	if got.Error != "" {
		t.Fatalf("unexpected error: %v", got.Error)
	}
	if got.Values["p"] != "reject" || got.Values["v"] != "DMARC1" {
		t.Fatalf("Values = %v", got.Values)
	}
}

func TestMXEmptyIsNotError(t *testing.T) {
	fe := &fakeExchanger{answers: map[string]map[uint16][]dns.RR{}}
	p := &Prober{Exchanger: fe}
	if got := p.MX(context.Background(), "example.com"); got != nil {
		t.Fatalf("MX = %v, want nil", got)
	}
}

func TestNSDedupesAndStripsDot(t *testing.T) {
	fe := &fakeExchanger{answers: map[string]map[uint16][]dns.RR{
		"example.com.": {
			dns.TypeNS: {
				mustRR(t, "example.com. 300 IN NS ns1.example.com."),
				mustRR(t, "example.com. 300 IN NS ns1.example.com."),
				mustRR(t, "example.com. 300 IN NS ns2.example.com."),
			},
		},
	}}
	p := &Prober{Exchanger: fe}
	got := p.NS(context.Background(), "example.com")
	want := []string{"ns1.example.com", "ns2.example.com"}
	if len(got) != len(want) {
		t.Fatalf("NS = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NS = %v, want %v", got, want)
		}
	}
}

func TestWildcardDetected(t *testing.T) {
	fe := &fakeStarExchanger{ip: "1.2.3.4"}
	p := &Prober{Exchanger: fe}
	if !p.Wildcard(context.Background(), "example.com") {
		t.Fatalf("expected wildcard=true")
	}
}

// fakeStarExchanger answers any A query with a fixed IP, simulating
// wildcard DNS.
type fakeStarExchanger struct{ ip string }

func (f *fakeStarExchanger) Exchange(_ context.Context, qname string, qtype uint16) (*dns.Msg, error) {
	m := new(dns.Msg)
	if qtype == dns.TypeA {
		m.Answer = []dns.RR{mustRRFor(qname, f.ip)}
	}
	return m, nil
}

func mustRRFor(qname, ip string) dns.RR {
	rr, _ := dns.NewRR(dns.Fqdn(qname) + " 300 IN A " + ip)
	return rr
}
