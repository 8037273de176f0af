// Package spf implements the SPF parser of spec.md §4.8, grounded on the
// teacher's inline "v=spf1" prefix sniff in service.DNSService.Lookup,
// expanded here into a full mechanism parser plus provider categorization
// against a static catalog.
package spf

import (
	"strings"

	"github.com/domainguard/domainguard/internal/model"
)

var allMechanisms = map[string]struct{}{
	"~all": {}, "-all": {}, "?all": {}, "+all": {},
}

// Parse finds the first TXT record beginning with "v=spf1" and parses its
// mechanisms. Absence is reported as an error on the returned report.
func Parse(txtRecords []string) *model.SpfReport {
	var raw string
	found := false
	for _, t := range txtRecords {
		if strings.HasPrefix(t, "v=spf1") {
			raw = t
			found = true
			break
		}
	}
	if !found {
		return &model.SpfReport{Error: "No SPF record found"}
	}

	tokens := strings.Fields(raw)
	report := &model.SpfReport{
		Version:             "spf1",
		AllMechanism:        "~all",
		RawRecord:           raw,
		ProvidersByCategory: map[string][]string{},
	}

	allSeen := false
	for _, tok := range tokens[1:] {
		switch {
		case isAllToken(tok):
			if !allSeen {
				report.AllMechanism = tok
				allSeen = true
			}
		case strings.HasPrefix(tok, "include:"):
			val := strings.TrimPrefix(tok, "include:")
			report.Mechanisms = append(report.Mechanisms, model.SpfMechanism{Tag: "include", Value: val})
			report.Includes = append(report.Includes, val)
		case strings.HasPrefix(tok, "ip4:"):
			report.Mechanisms = append(report.Mechanisms, model.SpfMechanism{Tag: "ip4", Value: strings.TrimPrefix(tok, "ip4:")})
		case strings.HasPrefix(tok, "ip6:"):
			report.Mechanisms = append(report.Mechanisms, model.SpfMechanism{Tag: "ip6", Value: strings.TrimPrefix(tok, "ip6:")})
		case strings.HasPrefix(tok, "a:"):
			report.Mechanisms = append(report.Mechanisms, model.SpfMechanism{Tag: "a", Value: strings.TrimPrefix(tok, "a:")})
		case strings.HasPrefix(tok, "mx:"):
			report.Mechanisms = append(report.Mechanisms, model.SpfMechanism{Tag: "mx", Value: strings.TrimPrefix(tok, "mx:")})
		default:
			report.Mechanisms = append(report.Mechanisms, model.SpfMechanism{Tag: "unknown", Value: tok})
		}
	}

	report.LookupCount = countLookups(report.Mechanisms)
	categorizeProviders(report)
	return report
}

func isAllToken(tok string) bool {
	_, ok := allMechanisms[tok]
	return ok
}

func countLookups(mechs []model.SpfMechanism) int {
	n := 0
	for _, m := range mechs {
		switch m.Tag {
		case "include", "a", "mx":
			n++
		}
	}
	return n
}

// baseDomain returns the last two dot-labels of a domain, e.g.
// "_spf.google.com" -> "google.com".
func baseDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "_")
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return domain
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

func categorizeProviders(report *model.SpfReport) {
	for _, inc := range report.Includes {
		base := baseDomain(inc)
		category := "unknown"
		if p, ok := providerCatalog[base]; ok {
			category = p.Category
		}
		report.ProvidersByCategory[category] = append(report.ProvidersByCategory[category], inc)
	}
}
