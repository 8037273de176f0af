// Package whoisrdap implements the RDAP-first/WHOIS-fallback resolver of
// spec.md §4.7, with bootstrap caching and vCard contact parsing.
package whoisrdap

import (
	"context"
	"strings"

	"github.com/domainguard/domainguard/internal/model"
)

// Resolver composes RdapClient and WhoisClient per spec.md §4.7's
// strategy: attempt RDAP; on any error, attempt WHOIS.
type Resolver struct {
	Rdap  *RdapClient
	Whois *WhoisClient
}

// NewResolver builds a Resolver sharing bootstrap across lookups.
// whoisServersPath is forwarded to NewWhoisClient (spec.md §6,
// DOMAINGUARD_WHOIS_SERVERS_PATH).
func NewResolver(bootstrapURL, whoisServersPath string) *Resolver {
	bootstrap := NewBootstrapSource(bootstrapURL)
	return &Resolver{
		Rdap:  NewRdapClient(bootstrap),
		Whois: NewWhoisClient(whoisServersPath),
	}
}

// Lookup implements spec.md §4.7/§6's `whois.lookup` contract: RDAP first,
// WHOIS fallback on any RDAP error. The (*model.WhoisRecord, error) return
// is the Go idiom for the spec's {ok, Record} | {error, reason} outcome.
func (r *Resolver) Lookup(ctx context.Context, fqdn string) (*model.WhoisRecord, error) {
	if rec, err := r.Rdap.Lookup(ctx, fqdn); err == nil {
		return rec, nil
	}
	return r.Whois.Lookup(fqdn)
}

var unregisteredMarkers = []string{"available", "no match", "not found"}

// IsRegistered implements spec.md §4.7's helper: inspects a lookup outcome
// (including its error message) for the unregistered markers before
// surfacing any other error.
func IsRegistered(statuses []string, lookupErr error) (bool, error) {
	for _, s := range statuses {
		low := strings.ToLower(s)
		for _, marker := range unregisteredMarkers {
			if strings.Contains(low, marker) {
				return false, nil
			}
		}
	}
	if lookupErr == nil {
		return true, nil
	}
	low := strings.ToLower(lookupErr.Error())
	for _, marker := range unregisteredMarkers {
		if strings.Contains(low, marker) {
			return false, nil
		}
	}
	return false, lookupErr
}

// IsRegistered implements spec.md §6's `whois.is_registered?` library
// operation: look up domain and feed its outcome through the IsRegistered
// helper above.
func (r *Resolver) IsRegistered(ctx context.Context, domain string) (bool, error) {
	rec, err := r.Lookup(ctx, domain)
	if rec == nil {
		return IsRegistered(nil, err)
	}
	return IsRegistered(rec.Status, err)
}
