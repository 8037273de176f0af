package scanner

import (
	"context"
	"time"

	"github.com/domainguard/domainguard/internal/content"
	"github.com/domainguard/domainguard/internal/fuzzy"
	"github.com/domainguard/domainguard/internal/ipclassify"
	"github.com/domainguard/domainguard/internal/model"
	"github.com/domainguard/domainguard/internal/obs"
	"github.com/domainguard/domainguard/internal/spf"
)

// probeOutcome is {ok, ScanResult} or a dropped probe — spec.md §4.2
// stage 1 is the only stage that can gate the whole probe.
type probeOutcome struct {
	result model.ScanResult
	ok     bool
}

// probeCandidate runs the full stage pipeline of spec.md §4.2 for one
// candidate. Stage 1 (DNS resolution) gates the probe; stages 2-7 are
// best-effort and each substitutes a typed default on failure.
func (c *Coordinator) probeCandidate(ctx context.Context, target string, candidate model.Candidate, fp *model.ContentFingerprint, opts Options) probeOutcome {
	start := time.Now()
	defer func() {
		obs.ProbeDuration.WithLabelValues("total").Observe(time.Since(start).Seconds())
	}()

	// Stage 1: validate resolution. Any error here — including the
	// CNAME-equals-TLD false positive — drops the whole probe.
	resolution, err := c.DNS.Resolve(ctx, candidate)
	if err != nil {
		obs.ProbesTotal.WithLabelValues("resolve", "not_resolvable").Inc()
		return probeOutcome{}
	}
	obs.ProbesTotal.WithLabelValues("resolve", "ok").Inc()

	result := model.ScanResult{
		Candidate:   candidate,
		ScannedAt:   time.Now().UTC(),
		Resolvable:  true,
		IPAddresses: resolution.IPs,
	}

	classification := ipclassify.Classify(resolution.IPs)
	result.PublicIPs = classification.Public
	result.InternalIPs = classification.Internal
	result.IPFlags = classification.Flags

	// Stage 2: auxiliary DNS, independently, each defaulting on failure.
	result.MXRecords = c.DNS.MX(ctx, candidate.FQDN)
	result.TXTRecords = c.DNS.TXT(ctx, candidate.FQDN)
	result.Nameservers = c.DNS.NS(ctx, candidate.FQDN)
	result.Dmarc = c.DNS.Dmarc(ctx, candidate.FQDN)
	result.Wildcard = c.DNS.Wildcard(ctx, candidate.FQDN)

	// Stage 3: SPF parse over the TXT records just gathered.
	result.SpfRecords = spf.Parse(result.TXTRecords)

	// Stage 4: HTTP fingerprint, only when public IPs exist.
	result.ServerResponse = c.httpFingerprint(ctx, candidate.FQDN, len(result.PublicIPs) > 0)

	// Stage 5: WHOIS/RDAP, only when requested.
	if opts.Whois {
		result.Whois = c.whoisLookup(ctx, candidate.FQDN)
	}

	// Stage 6: content similarity, only when a target fingerprint exists
	// and public IPs are present.
	if fp != nil && len(result.PublicIPs) > 0 {
		result.ContentHash = content.Compare(c.ContentFetcher, candidate.FQDN, fp)
	}

	// Stage 7: fuzzy scores, deterministic, no I/O.
	result.Fuzzy = fuzzy.Score(target, candidate.FQDN)

	return probeOutcome{result: result, ok: true}
}

func (c *Coordinator) httpFingerprint(ctx context.Context, fqdn string, hasPublicIP bool) model.HttpFingerprint {
	if !hasPublicIP {
		return model.HttpFingerprint{Status: "skipped", Reason: "no public IPs"}
	}

	res := c.HTTP.Fingerprint(ctx, fqdn)
	if res.Err != nil {
		return model.HttpFingerprint{Status: "error", Reason: res.Err.Error()}
	}
	return model.HttpFingerprint{
		StatusCode: res.StatusCode,
		Server:     res.Server,
		Headers:    res.Headers,
	}
}

func (c *Coordinator) whoisLookup(ctx context.Context, fqdn string) *model.WhoisRecord {
	rec, err := c.Whois.Lookup(ctx, fqdn)
	if err != nil {
		obs.Log.Debug("whois lookup failed", obs.Field("fqdn", fqdn), obs.Field("error", err.Error()))
		return nil
	}
	return rec
}
