// Package model holds the data types shared across every probe stage and
// the scan coordinator. Every exported struct here is a fixed schema: a
// ScanResult always carries every field listed in spec.md §3, populated
// with its typed empty/zero value when a stage has nothing to report.
package model

import "time"

// Candidate is one generated variant of a target domain. Immutable once
// produced by a permute.Source.
type Candidate struct {
	Kind string `json:"kind"`
	FQDN string `json:"fqdn"`
	TLD  string `json:"tld"`
}

// IPFlag tags a notable address class found among a candidate's resolved
// IPs.
type IPFlag string

const (
	FlagLocalhost  IPFlag = "localhost"
	FlagNullRoute  IPFlag = "null_route"
	FlagPrivate10  IPFlag = "private_10"
	FlagPrivate172 IPFlag = "private_172"
	FlagPrivate192 IPFlag = "private_192"
)

// MXRecord is one mail-exchanger entry as returned by the resolver, in the
// order the resolver returned it.
type MXRecord struct {
	Priority uint16 `json:"priority"`
	Server   string `json:"server"`
}

// SpfReport is the parsed form of a domain's SPF TXT record.
type SpfReport struct {
	Version             string              `json:"version"`
	Mechanisms          []SpfMechanism      `json:"mechanisms"`
	AllMechanism        string              `json:"all_mechanism"`
	Includes            []string            `json:"includes"`
	LookupCount         int                 `json:"lookup_count"`
	RawRecord           string              `json:"raw_record"`
	ProvidersByCategory map[string][]string `json:"providers_by_category"`
	Error               string              `json:"error,omitempty"`
}

// SpfMechanism is one non-"all" token of an SPF record.
type SpfMechanism struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// DmarcReport is either a successful key/value map parsed from a domain's
// _dmarc TXT record, or a successful "absent" report carrying Error —
// absence of a DMARC record is a normal outcome, not a stage failure.
type DmarcReport struct {
	Values map[string]string `json:"values,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// HttpFingerprint is the outcome of the raw HEAD-request prober.
type HttpFingerprint struct {
	StatusCode int               `json:"status_code,omitempty"`
	Server     string            `json:"server,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Status     string            `json:"status,omitempty"` // "error" | "skipped"
	Reason     string            `json:"reason,omitempty"`
}

// Contact is a parsed vCard-derived registrant/admin/tech/abuse contact. A
// nil *Contact paired with a Sentinel string represents the redacted or
// WHOIS-unavailable cases described in spec.md §3.
type Contact struct {
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Fax          string `json:"fax,omitempty"`
	Address      string `json:"address,omitempty"`
	Country      string `json:"country,omitempty"`
}

// ContactField carries either a parsed Contact or one of the sentinel
// strings ("Redacted by provider", "Not available in WHOIS").
type ContactField struct {
	Contact  *Contact `json:"contact,omitempty"`
	Sentinel string   `json:"sentinel,omitempty"`
}

const (
	SentinelRedacted         = "Redacted by provider"
	SentinelWhoisUnavailable = "Not available in WHOIS"
)

// WhoisRecord is the merged result of the RDAP-first/WHOIS-fallback
// resolver.
type WhoisRecord struct {
	Domain         string        `json:"domain"`
	Source         string        `json:"source"` // "rdap" | "whois"
	RawData        string        `json:"raw_data"`
	Registered     bool          `json:"registered"`
	Registrar      string        `json:"registrar,omitempty"`
	CreationDate   string        `json:"creation_date,omitempty"`
	ExpirationDate string        `json:"expiration_date,omitempty"`
	UpdatedDate    string        `json:"updated_date,omitempty"`
	Status         []string      `json:"status,omitempty"`
	Nameservers    []string      `json:"nameservers,omitempty"`
	Registrant     *ContactField `json:"registrant,omitempty"`
	AdminContact   *ContactField `json:"admin_contact,omitempty"`
	TechContact    *ContactField `json:"tech_contact,omitempty"`
	AbuseContact   *ContactField `json:"abuse_contact,omitempty"`
}

// ContentFingerprint is the pre-fetched, normalized, shingled snapshot of
// the scan target's homepage, built once by the coordinator and shared
// read-only across every probe.
type ContentFingerprint struct {
	Domain   string
	Content  string
	Shingles map[string]struct{}
	Length   int
}

// ContentScoreDetails breaks the composite content-similarity score into
// its components, or carries Error when the candidate's page could not be
// fetched.
type ContentScoreDetails struct {
	Jaccard      float64 `json:"jaccard,omitempty"`
	LengthRatio  float64 `json:"length_ratio,omitempty"`
	Structure    float64 `json:"structure,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// ContentScore is the composite content-similarity outcome for one
// candidate.
type ContentScore struct {
	Score   int                  `json:"score"`
	Details ContentScoreDetails  `json:"details"`
}

// FuzzyScores are the deterministic, I/O-free similarity metrics between a
// target and a candidate: JaroWinkler compares the full FQDNs, every other
// metric compares their first labels.
type FuzzyScores struct {
	JaroWinkler           float64 `json:"jaro_winkler"`
	Levenshtein           int     `json:"levenshtein"`
	LevenshteinNormalized float64 `json:"levenshtein_normalized"`
	CharDiff              int     `json:"char_diff"`
	KeyboardProximity     float64 `json:"keyboard_proximity"`
}

// RdapBootstrapEntry is one entry of the IANA RDAP bootstrap registry:
// a set of TLDs mapped to candidate RDAP base URLs, tried in order.
type RdapBootstrapEntry struct {
	TLDs    []string
	Servers []string
}

// RdapBootstrap is the parsed IANA bootstrap document, cached for the
// lifetime of the process/scan.
type RdapBootstrap struct {
	Services []RdapBootstrapEntry
}

// ScanResult merges a Candidate with every probe stage's output. Every
// field below is always present; absence of data is represented by the
// field's typed empty/null value, never a missing key.
type ScanResult struct {
	Candidate

	ScannedAt time.Time `json:"scanned_at"`

	Resolvable  bool     `json:"resolvable"`
	IPAddresses []string `json:"ip_addresses"`
	PublicIPs   []string `json:"public_ips"`
	InternalIPs []string `json:"internal_ips"`
	IPFlags     []IPFlag `json:"ip_flags"`

	MXRecords  []MXRecord `json:"mx_records"`
	TXTRecords []string   `json:"txt_records"`
	SpfRecords *SpfReport `json:"spf_records"`

	Dmarc DmarcReport `json:"dmarc"`

	Nameservers []string `json:"nameservers"`
	Wildcard    bool     `json:"wildcard"`

	ServerResponse HttpFingerprint `json:"server_response"`

	Whois *WhoisRecord `json:"whois"`

	ContentHash *ContentScore `json:"content_hash"`

	Fuzzy FuzzyScores `json:"fuzzy"`
}
