package whoisrdap

import (
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/domainguard/domainguard/internal/model"
)

// WhoisClient is the TCP/43 fallback transport, grounded directly on the
// teacher's service.Whois, which already drives github.com/likexian/whois
// over a raw TCP/43 connection and github.com/likexian/whois-parser to
// populate registrar/date/status fields from the raw response. This
// module keeps both of those and maps the parsed result onto the
// WhoisRecord shape of spec.md §3, falling back to spec.md §4.7's
// line-oriented heuristics when whois-parser fails to parse the response
// or leaves a field empty.
type WhoisClient struct {
	client  *whois.Client
	servers *ServerTableSource
}

// NewWhoisClient builds a WhoisClient. serversPath is the path to a
// build-time JSON override for the WHOIS server table (spec.md §6,
// DOMAINGUARD_WHOIS_SERVERS_PATH); an empty path means the built-in
// defaultServerTable is used as-is.
func NewWhoisClient(serversPath string) *WhoisClient {
	c := whois.NewClient()
	c.SetTimeout(3 * time.Second)
	return &WhoisClient{client: c, servers: NewServerTableSource(serversPath)}
}

// ErrNoWhoisServer is returned when the candidate's TLD has no entry in
// the server table.
type ErrNoWhoisServer struct{ TLD string }

func (e ErrNoWhoisServer) Error() string {
	return fmt.Sprintf("No WHOIS server for TLD: %s", e.TLD)
}

// Lookup queries the TLD's WHOIS server for fqdn and parses the response
// with parseWhoisText (whois-parser first, line-oriented heuristics as
// fallback).
func (w *WhoisClient) Lookup(fqdn string) (*model.WhoisRecord, error) {
	tld := tldOf(fqdn)
	server, ok := w.servers.Lookup(tld)
	if !ok {
		return nil, ErrNoWhoisServer{TLD: tld}
	}

	raw, err := w.client.Whois(fqdn, server)
	if err != nil {
		return nil, err
	}

	return parseWhoisText(fqdn, raw), nil
}

// parseWhoisText populates a WhoisRecord via github.com/likexian/whois-parser
// (the teacher's own WHOIS parsing library, service/whois.go:6,99). If
// whois-parser fails, every field comes from spec.md §4.7's line
// heuristics. If it succeeds, the heuristics only fill an empty
// expiration date (whois-parser can miss nonstandard "Expiry date"
// labels), registrar or nameserver list, and each status entry is cut to
// its first token (whois-parser's Domain.Status entries sometimes carry a
// trailing "https://icann.org/epp#..." reference URL).
func parseWhoisText(fqdn, raw string) *model.WhoisRecord {
	lines := strings.Split(raw, "\n")
	lowerRaw := strings.ToLower(raw)

	rec := &model.WhoisRecord{
		Domain:     fqdn,
		Source:     "whois",
		RawData:    raw,
		Registered: !containsUnregisteredMarker(lowerRaw),
	}

	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		rec.Registrar = firstFieldAfterColon(lines, "registrar")
		rec.CreationDate = firstFieldAfterColon(lines, "creation date")
		rec.ExpirationDate = firstExpirField(lines)
		rec.UpdatedDate = firstFieldAfterColon(lines, "updated date")
		rec.Status = statusTokens(lines)
		rec.Nameservers = nameserverTokens(lines)
	} else {
		if parsed.Registrar != nil {
			rec.Registrar = parsed.Registrar.Name
		}
		if parsed.Domain != nil {
			rec.CreationDate = parsed.Domain.CreatedDate
			rec.UpdatedDate = parsed.Domain.UpdatedDate
			rec.ExpirationDate = parsed.Domain.ExpirationDate
			rec.Status = firstStatusToken(parsed.Domain.Status)
			rec.Nameservers = lowerDedup(parsed.Domain.NameServers)
		}
		if rec.ExpirationDate == "" {
			rec.ExpirationDate = firstExpirField(lines)
		}
		if rec.Registrar == "" {
			rec.Registrar = firstFieldAfterColon(lines, "registrar")
		}
		if len(rec.Nameservers) == 0 {
			rec.Nameservers = nameserverTokens(lines)
		}
	}

	sentinel := &model.ContactField{Sentinel: model.SentinelWhoisUnavailable}
	rec.Registrant = sentinel
	rec.AdminContact = sentinel
	rec.TechContact = sentinel
	rec.AbuseContact = sentinel

	return rec
}

// firstStatusToken strips any trailing reference URL from each status
// entry whois-parser returns, keeping only the bare status code per
// spec.md §4.7, deduplicated.
func firstStatusToken(statuses []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range statuses {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			continue
		}
		token := fields[0]
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

func lowerDedup(values []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func containsUnregisteredMarker(lowerRaw string) bool {
	for _, marker := range []string{"no match", "not found", "available"} {
		if strings.Contains(lowerRaw, marker) {
			return true
		}
	}
	return false
}

// firstFieldAfterColon finds the first line whose lowercased form contains
// prefix, and returns the substring after the first colon, trimmed.
func firstFieldAfterColon(lines []string, prefix string) string {
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), prefix) {
			idx := strings.Index(line, ":")
			if idx == -1 {
				continue
			}
			return strings.TrimSpace(line[idx+1:])
		}
	}
	return ""
}

// firstExpirField matches both "Expiration Date" and "Expiry Date" via the
// shared "expir" prefix, first-line-wins per spec.md §9.
func firstExpirField(lines []string) string {
	return firstFieldAfterColon(lines, "expir")
}

func statusTokens(lines []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "status:") && !strings.Contains(lower, "domain status:") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx == -1 {
			continue
		}
		rest := strings.TrimSpace(line[idx+1:])
		token := strings.Fields(rest)
		if len(token) == 0 {
			continue
		}
		if _, dup := seen[token[0]]; dup {
			continue
		}
		seen[token[0]] = struct{}{}
		out = append(out, token[0])
	}
	return out
}

func nameserverTokens(lines []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "name server:") && !strings.Contains(lower, "nserver:") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx == -1 {
			continue
		}
		val := strings.ToLower(strings.TrimSpace(line[idx+1:]))
		if val == "" {
			continue
		}
		if _, dup := seen[val]; dup {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}
