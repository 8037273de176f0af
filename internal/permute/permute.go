// Package permute defines the Permutation Source collaborator interface
// of spec.md §6 ("generate_permutations(domain) -> [Candidate]", treated
// as a pure producer outside this module's core scope) plus one small
// default implementation so the CLI and coordinator tests have a real
// producer to drive. This is intentionally minimal — the hard work this
// module specifies is the probing pipeline, not permutation generation.
package permute

import (
	"strings"

	"github.com/domainguard/domainguard/internal/model"
)

// Source produces a finite list of candidate domains for target. Real
// implementations typically wrap a dedicated permutation-generation
// library; DefaultSource below is a small, self-contained stand-in.
type Source interface {
	Generate(target string) []model.Candidate
}

// DefaultSource implements a handful of classic typosquat strategies:
// bitsquatting, homoglyph substitution, keyword insertion and TLD
// swapping.
type DefaultSource struct {
	TLDs []string
}

func NewDefaultSource() *DefaultSource {
	return &DefaultSource{TLDs: []string{"com", "net", "org", "info", "biz", "co"}}
}

var homoglyphs = map[rune][]rune{
	'o': {'0'},
	'l': {'1', 'i'},
	'i': {'1', 'l'},
	'e': {'3'},
	'a': {'4'},
	's': {'5'},
	'g': {'9'},
	'b': {'8'},
}

var keywords = []string{"login", "secure", "account", "verify", "support"}

func (s *DefaultSource) Generate(target string) []model.Candidate {
	label, tld := splitDomain(target)
	var out []model.Candidate

	out = append(out, bitsquat(label, tld)...)
	out = append(out, homoglyph(label, tld)...)
	out = append(out, keywordInsert(label, tld)...)
	out = append(out, tldSwap(label, s.TLDs)...)

	return out
}

func splitDomain(fqdn string) (label, tld string) {
	parts := strings.SplitN(fqdn, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return fqdn, ""
}

func bitsquat(label, tld string) []model.Candidate {
	var out []model.Candidate
	for i := range label {
		b := label[i]
		for bit := 0; bit < 8; bit++ {
			flipped := b ^ (1 << bit)
			if !isDomainByte(flipped) {
				continue
			}
			variant := label[:i] + string(flipped) + label[i+1:]
			out = append(out, model.Candidate{Kind: "Bitsquatting", FQDN: variant + "." + tld, TLD: tld})
		}
	}
	return out
}

func isDomainByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '-'
}

func homoglyph(label, tld string) []model.Candidate {
	var out []model.Candidate
	runes := []rune(label)
	for i, r := range runes {
		subs, ok := homoglyphs[r]
		if !ok {
			continue
		}
		for _, sub := range subs {
			variant := append([]rune{}, runes...)
			variant[i] = sub
			out = append(out, model.Candidate{Kind: "Homoglyph", FQDN: string(variant) + "." + tld, TLD: tld})
		}
	}
	return out
}

func keywordInsert(label, tld string) []model.Candidate {
	var out []model.Candidate
	for _, kw := range keywords {
		out = append(out, model.Candidate{Kind: "Keyword", FQDN: label + "-" + kw + "." + tld, TLD: tld})
		out = append(out, model.Candidate{Kind: "Keyword", FQDN: kw + "-" + label + "." + tld, TLD: tld})
	}
	return out
}

func tldSwap(label string, tlds []string) []model.Candidate {
	var out []model.Candidate
	for _, tld := range tlds {
		out = append(out, model.Candidate{Kind: "Tld", FQDN: label + "." + tld, TLD: tld})
	}
	return out
}
