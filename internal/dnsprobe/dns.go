// Package dnsprobe implements the DNS Probe stage of spec.md §4.3: A-record
// resolution composed with CNAME, plus MX/TXT/NS/DMARC/wildcard auxiliary
// lookups. Grounded on the teacher's service.DNSService, which drove
// github.com/miekg/dns directly with a fixed default resolver and
// goroutine fan-out over record types; reworked here into typed,
// independently-testable stages behind an Exchanger interface.
package dnsprobe

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/domainguard/domainguard/internal/model"
)

// Exchanger performs one DNS question/answer round trip. The production
// implementation wraps *dns.Client; tests substitute a canned responder.
type Exchanger interface {
	Exchange(ctx context.Context, qname string, qtype uint16) (*dns.Msg, error)
}

// ClientExchanger is the production Exchanger, talking to a configured
// resolver over UDP/TCP 53 via github.com/miekg/dns.
type ClientExchanger struct {
	Resolver string
	Client   *dns.Client
}

// NewClientExchanger builds an Exchanger against resolver (host:port). An
// empty resolver defaults to Google's public resolver, matching the
// teacher's NewDNSService default.
func NewClientExchanger(resolver string) *ClientExchanger {
	if resolver == "" {
		resolver = "8.8.8.8:53"
	}
	return &ClientExchanger{
		Resolver: resolver,
		Client:   &dns.Client{Timeout: 5 * time.Second},
	}
}

func (e *ClientExchanger) Exchange(ctx context.Context, qname string, qtype uint16) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(qname), qtype)
	in, _, err := e.Client.ExchangeContext(ctx, m, e.Resolver)
	return in, err
}

// Prober runs the DNS stages of spec.md §4.3 against one Exchanger.
type Prober struct {
	Exchanger Exchanger
}

func NewProber(resolver string) *Prober {
	return &Prober{Exchanger: NewClientExchanger(resolver)}
}

// ErrNoRecords is returned by lookupA when the zone has no A records.
var ErrNoRecords = fmt.Errorf("no A records")

// ErrTLDFalsePositive is returned by Resolve when the first CNAME answer
// equals the candidate's TLD — the registry-wildcard false positive
// described in spec.md §4.3/§9.
var ErrTLDFalsePositive = fmt.Errorf("tld matches false positive")

// Resolution is the outcome of the A+CNAME composition in spec.md §4.3.
type Resolution struct {
	IPs   []string
	CNAME string // empty if none
}

func (p *Prober) lookupA(ctx context.Context, fqdn string) ([]string, error) {
	in, err := p.Exchanger.Exchange(ctx, fqdn, dns.TypeA)
	if err != nil {
		return nil, err
	}
	var ips []string
	for _, rr := range in.Answer {
		if a, ok := rr.(*dns.A); ok {
			ips = append(ips, a.A.String())
		}
	}
	if len(ips) == 0 {
		return nil, ErrNoRecords
	}
	return ips, nil
}

func (p *Prober) lookupCNAME(ctx context.Context, fqdn string) (string, error) {
	in, err := p.Exchanger.Exchange(ctx, fqdn, dns.TypeCNAME)
	if err != nil {
		return "", err
	}
	for _, rr := range in.Answer {
		if c, ok := rr.(*dns.CNAME); ok {
			return strings.TrimSuffix(c.Target, "."), nil
		}
	}
	return "", nil
}

// Resolve implements spec.md §4.3's resolution composition: query CNAME
// and A in parallel; A failure propagates; a CNAME equal to the
// candidate's TLD is the registry false positive.
func (p *Prober) Resolve(ctx context.Context, candidate model.Candidate) (Resolution, error) {
	type aResult struct {
		ips []string
		err error
	}
	type cResult struct {
		cname string
		err   error
	}

	aCh := make(chan aResult, 1)
	cCh := make(chan cResult, 1)

	go func() {
		ips, err := p.lookupA(ctx, candidate.FQDN)
		aCh <- aResult{ips, err}
	}()
	go func() {
		cname, err := p.lookupCNAME(ctx, candidate.FQDN)
		cCh <- cResult{cname, err}
	}()

	a := <-aCh
	c := <-cCh

	if a.err != nil {
		return Resolution{}, a.err
	}
	if c.err != nil || c.cname == "" {
		return Resolution{IPs: a.ips}, nil
	}
	if strings.EqualFold(c.cname, candidate.TLD) {
		return Resolution{}, ErrTLDFalsePositive
	}
	return Resolution{IPs: a.ips, CNAME: c.cname}, nil
}

// MX returns the mail-exchanger records in resolver-return order. An empty
// slice is not an error.
func (p *Prober) MX(ctx context.Context, fqdn string) []model.MXRecord {
	in, err := p.Exchanger.Exchange(ctx, fqdn, dns.TypeMX)
	if err != nil || in == nil {
		return nil
	}
	var out []model.MXRecord
	for _, rr := range in.Answer {
		if mx, ok := rr.(*dns.MX); ok {
			out = append(out, model.MXRecord{
				Priority: mx.Preference,
				Server:   strings.TrimSuffix(mx.Mx, "."),
			})
		}
	}
	return out
}

// TXT returns raw TXT record strings, exactly as received.
func (p *Prober) TXT(ctx context.Context, fqdn string) []string {
	in, err := p.Exchanger.Exchange(ctx, fqdn, dns.TypeTXT)
	if err != nil || in == nil {
		return nil
	}
	var out []string
	for _, rr := range in.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			out = append(out, strings.Join(txt.Txt, ""))
		}
	}
	return out
}

// NS returns nameserver hostnames, trailing dot stripped, deduplicated,
// order preserved.
func (p *Prober) NS(ctx context.Context, fqdn string) []string {
	in, err := p.Exchanger.Exchange(ctx, fqdn, dns.TypeNS)
	if err != nil || in == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, rr := range in.Answer {
		ns, ok := rr.(*dns.NS)
		if !ok {
			continue
		}
		host := strings.TrimSuffix(ns.Ns, ".")
		if _, dup := seen[host]; dup {
			continue
		}
		seen[host] = struct{}{}
		out = append(out, host)
	}
	return out
}

// Dmarc queries the _dmarc TXT record and parses it per spec.md §4.3.
// Absence of a record is a successful report carrying Error, never a
// stage failure — preserved intentionally per spec.md §9.
func (p *Prober) Dmarc(ctx context.Context, fqdn string) model.DmarcReport {
	txts := p.TXT(ctx, "_dmarc."+fqdn)
	for _, t := range txts {
		if !strings.HasPrefix(t, "v=DMARC1") {
			continue
		}
		values := map[string]string{}
		for _, part := range strings.Split(t, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			kv := strings.SplitN(part, "=", 2)
			if len(kv) != 2 {
				continue
			}
			values[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
		return model.DmarcReport{Values: values}
	}
	return model.DmarcReport{Error: "No DMARC record found"}
}

// Wildcard detects wildcard DNS per spec.md §4.3: a random 24-hex-character
// label under the candidate's domain resolves to at least one address.
func (p *Prober) Wildcard(ctx context.Context, fqdn string) bool {
	label, err := randomHexLabel(24)
	if err != nil {
		return false
	}
	ips, err := p.lookupA(ctx, label+"."+fqdn)
	return err == nil && len(ips) > 0
}

func randomHexLabel(n int) (string, error) {
	buf := make([]byte, n/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
