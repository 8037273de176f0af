package whoisrdap

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/domainguard/domainguard/internal/model"
)

// RdapClient fetches and parses RDAP domain records per spec.md §4.7.
type RdapClient struct {
	Bootstrap *BootstrapSource
	Client    *http.Client
}

func NewRdapClient(bootstrap *BootstrapSource) *RdapClient {
	return &RdapClient{
		Bootstrap: bootstrap,
		Client: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

// ErrRdapNotFound is returned when the RDAP server reports 404.
var ErrRdapNotFound = fmt.Errorf("Domain not found in RDAP")

// tldOf returns the last dot-separated label of fqdn, lowercased.
func tldOf(fqdn string) string {
	fqdn = strings.TrimSuffix(fqdn, ".")
	parts := strings.Split(fqdn, ".")
	return strings.ToLower(parts[len(parts)-1])
}

// Lookup performs the RDAP fetch-and-parse of spec.md §4.7: resolve the
// base URL from the bootstrap registry, GET <base>domain/<fqdn> with a
// linear-backoff retry (1s, 2s, capped 5s) on transient errors.
func (c *RdapClient) Lookup(ctx context.Context, fqdn string) (*model.WhoisRecord, error) {
	tld := tldOf(fqdn)
	base, err := c.Bootstrap.BaseURL(ctx, tld)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	url := base + "domain/" + fqdn

	body, statusCode, err := c.getWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}
	if statusCode == http.StatusNotFound {
		return nil, ErrRdapNotFound
	}
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("rdap lookup: status %d", statusCode)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return parseRdapDoc(fqdn, doc, string(body)), nil
}

func (c *RdapClient) getWithRetry(ctx context.Context, url string) ([]byte, int, error) {
	backoffs := []time.Duration{0, 1 * time.Second, 2 * time.Second}
	var lastErr error
	for i, wait := range backoffs {
		if wait > 0 {
			select {
			case <-time.After(min(wait, 5*time.Second)):
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, 0, err
		}
		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if resp.StatusCode >= 500 && i < len(backoffs)-1 {
			lastErr = fmt.Errorf("transient status %d", resp.StatusCode)
			continue
		}
		return body, resp.StatusCode, nil
	}
	return nil, 0, lastErr
}

func parseRdapDoc(fqdn string, doc map[string]interface{}, raw string) *model.WhoisRecord {
	rec := &model.WhoisRecord{
		Domain:     fqdn,
		Source:     "rdap",
		RawData:    raw,
		Registered: true,
	}

	rec.Registrar = findRegistrar(doc)
	rec.CreationDate, rec.ExpirationDate, rec.UpdatedDate = findEventDates(doc)
	rec.Status = stringArray(doc["status"])
	rec.Nameservers = findNameservers(doc)

	rec.Registrant = findContact(doc, "registrant")
	rec.AdminContact = findContact(doc, "administrative")
	rec.TechContact = findContact(doc, "technical")
	rec.AbuseContact = findContact(doc, "abuse")

	return rec
}

func entities(doc map[string]interface{}) []map[string]interface{} {
	raw, _ := doc["entities"].([]interface{})
	var out []map[string]interface{}
	for _, e := range raw {
		if m, ok := e.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

func hasRole(entity map[string]interface{}, role string) bool {
	roles, _ := entity["roles"].([]interface{})
	for _, r := range roles {
		if s, ok := r.(string); ok && strings.EqualFold(s, role) {
			return true
		}
	}
	return false
}

func findRegistrar(doc map[string]interface{}) string {
	for _, e := range entities(doc) {
		if !hasRole(e, "registrar") {
			continue
		}
		props := parseVCardArray(vcardArrayBody(e))
		if p := findProp(props, "fn"); p != nil {
			if s := stringValue(p.Value); s != "" {
				return s
			}
		}
		if p := findProp(props, "org"); p != nil {
			if s := orgString(p.Value); s != "" {
				return s
			}
		}
	}
	return ""
}

func vcardArrayBody(entity map[string]interface{}) interface{} {
	arr, ok := entity["vcardArray"].([]interface{})
	if !ok || len(arr) < 2 {
		return nil
	}
	return arr[1]
}

func findEventDates(doc map[string]interface{}) (created, expires, updated string) {
	events, _ := doc["events"].([]interface{})
	for _, ev := range events {
		m, ok := ev.(map[string]interface{})
		if !ok {
			continue
		}
		action, _ := m["eventAction"].(string)
		date, _ := m["eventDate"].(string)
		lower := strings.ToLower(action)
		switch {
		case strings.Contains(lower, "registration") && created == "":
			created = date
		case strings.Contains(lower, "expiration") && expires == "":
			expires = date
		case strings.Contains(lower, "last changed") && updated == "":
			updated = date
		}
	}
	return
}

func stringArray(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok || len(arr) == 0 {
		return nil
	}
	var out []string
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func findNameservers(doc map[string]interface{}) []string {
	arr, _ := doc["nameservers"].([]interface{})
	var out []string
	for _, e := range arr {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		if name, _ := m["ldhName"].(string); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// findContact finds a top-level entity with role, or recursively searches
// one level into each entity's nested "entities" — abuse contacts are
// commonly nested inside the registrar entity, per spec.md §4.7.
func findContact(doc map[string]interface{}, role string) *model.ContactField {
	for _, e := range entities(doc) {
		if hasRole(e, role) {
			return contactFromEntity(e)
		}
	}
	for _, e := range entities(doc) {
		for _, nested := range entities(e) {
			if hasRole(nested, role) {
				return contactFromEntity(nested)
			}
		}
	}
	return nil
}

func contactFromEntity(entity map[string]interface{}) *model.ContactField {
	props := parseVCardArray(vcardArrayBody(entity))
	fields := extractContact(props)

	if fields.Name == nil && fields.Organization == nil && fields.Address == nil {
		return &model.ContactField{Sentinel: model.SentinelRedacted}
	}

	return &model.ContactField{Contact: &model.Contact{
		Name:         derefOr(fields.Name),
		Organization: derefOr(fields.Organization),
		Email:        derefOr(fields.Email),
		Phone:        derefOr(fields.Phone),
		Fax:          derefOr(fields.Fax),
		Address:      derefOr(fields.Address),
		Country:      derefOr(fields.Country),
	}}
}

func derefOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
