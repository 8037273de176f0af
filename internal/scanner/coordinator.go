// Package scanner implements the Scan Coordinator and per-candidate Probe
// Pipeline of spec.md §4.1/§4.2 — the concurrent, best-effort, bounded
// fan-out/fan-in engine that is the hard part of this module. Grounded on
// the teacher's service.ScanPortsStream, which already uses a buffered
// channel as a concurrency semaphore around a sync.WaitGroup fan-out; the
// same idiom is generalized here to a multi-stage, context-deadlined
// probe instead of a single port dial.
package scanner

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/domainguard/domainguard/internal/content"
	"github.com/domainguard/domainguard/internal/dnsprobe"
	"github.com/domainguard/domainguard/internal/httpprobe"
	"github.com/domainguard/domainguard/internal/model"
	"github.com/domainguard/domainguard/internal/obs"
	"github.com/domainguard/domainguard/internal/permute"
	"github.com/domainguard/domainguard/internal/whoisrdap"
)

// dnsStage is the subset of dnsprobe.Prober the coordinator drives,
// narrowed to an interface so tests can substitute fakes without network
// access.
type dnsStage interface {
	Resolve(ctx context.Context, candidate model.Candidate) (dnsprobe.Resolution, error)
	MX(ctx context.Context, fqdn string) []model.MXRecord
	TXT(ctx context.Context, fqdn string) []string
	NS(ctx context.Context, fqdn string) []string
	Dmarc(ctx context.Context, fqdn string) model.DmarcReport
	Wildcard(ctx context.Context, fqdn string) bool
}

type httpStage interface {
	Fingerprint(ctx context.Context, host string) httpprobe.Result
}

type whoisStage interface {
	Lookup(ctx context.Context, fqdn string) (*model.WhoisRecord, error)
}

// Coordinator is the scan engine of spec.md §4.1, holding every shared,
// read-mostly collaborator: the DNS/HTTP/WHOIS stages, the content
// fetcher, and the external permutation Source.
type Coordinator struct {
	DNS             dnsStage
	HTTP            httpStage
	Whois           whoisStage
	ContentFetcher  content.Fetcher
	PermSource      permute.Source
	Limiter         *rate.Limiter
}

// NewCoordinator builds a Coordinator wired to real network transports:
// miekg/dns for the DNS stage, a raw TCP HEAD prober for HTTP, and the
// RDAP-first/WHOIS-fallback resolver.
func NewCoordinator(resolver, rdapBootstrapURL, whoisServersPath string, permSource permute.Source) *Coordinator {
	return &Coordinator{
		DNS:            dnsprobe.NewProber(resolver),
		HTTP:           httpprobe.NewProber(),
		Whois:          whoisrdap.NewResolver(rdapBootstrapURL, whoisServersPath),
		ContentFetcher: content.NewHTTPFetcher(),
		PermSource:     permSource,
	}
}

// AnalyzeDomain implements spec.md §6's `analyze_domain`: generate
// candidates via PermSource, then scan them per §4.1.
func (c *Coordinator) AnalyzeDomain(ctx context.Context, target string, opts Options) []model.ScanResult {
	candidates := c.PermSource.Generate(target)
	return c.AnalyzeChunk(ctx, target, candidates, opts)
}

// GetLiveMXDomains implements spec.md §6's `get_live_mx_domains`:
// analyze_domain with mx_only forced true.
func (c *Coordinator) GetLiveMXDomains(ctx context.Context, target string, opts Options) []model.ScanResult {
	opts.MxOnly = true
	return c.AnalyzeDomain(ctx, target, opts)
}

// AnalyzeChunk implements spec.md §6's `analyze_chunk`: exactly
// AnalyzeDomain's contract, but candidates are supplied directly instead
// of generated — the hook an outer distributed fan-out layer calls per
// spec.md §6's distributed-collaborator interface.
func (c *Coordinator) AnalyzeChunk(ctx context.Context, target string, candidates []model.Candidate, opts Options) []model.ScanResult {
	opts = opts.WithDefaults()
	runID := uuid.NewString()
	obs.Log.Info("scan started",
		obs.Field("run_id", runID),
		obs.Field("target", target),
		obs.Field("candidates", len(candidates)),
	)
	obs.ScanCandidates.Observe(float64(len(candidates)))

	var fp *model.ContentFingerprint
	if opts.ContentHash {
		built, err := content.BuildFingerprint(c.ContentFetcher, target)
		if err != nil {
			obs.Log.Warn("target content fingerprint failed, disabling content_hash for this run",
				obs.Field("run_id", runID), obs.Field("error", err.Error()))
		} else {
			fp = built
		}
	}

	type indexed struct {
		idx    int
		result model.ScanResult
	}

	limiter := c.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(opts.RatePerSecond)
	}

	sem := make(chan struct{}, opts.MaxConcurrency)
	resultsCh := make(chan indexed, len(candidates))
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, candidate model.Candidate) {
			defer wg.Done()
			defer func() { <-sem }()

			if limiter != nil {
				_ = limiter.Wait(ctx)
			}

			candCtx, cancel := context.WithTimeout(ctx, opts.TimeoutPerCandidate)
			defer cancel()

			outcome := c.probeCandidate(candCtx, target, candidate, fp, opts)
			if candCtx.Err() != nil {
				// Timed out or parent cancelled: drop silently per
				// spec.md §4.1 step 4.
				return
			}
			if !outcome.ok {
				return
			}
			resultsCh <- indexed{idx: i, result: outcome.result}
		}(i, candidate)
	}

	wg.Wait()
	close(resultsCh)

	var collected []indexed
	for r := range resultsCh {
		if r.result.FQDN == target {
			continue
		}
		if opts.MxOnly && len(r.result.MXRecords) == 0 {
			continue
		}
		collected = append(collected, r)
	}

	if opts.Ordered {
		sort.Slice(collected, func(i, j int) bool { return collected[i].idx < collected[j].idx })
	}

	out := make([]model.ScanResult, 0, len(collected))
	for _, r := range collected {
		out = append(out, r.result)
	}

	obs.Log.Info("scan finished", obs.Field("run_id", runID), obs.Field("results", len(out)))
	return out
}

// NewRateLimiter builds a soft outbound-rate limiter for Options.RatePerSecond,
// wrapping golang.org/x/time/rate the way rexlx-threatco uses it to
// throttle outbound dials.
func NewRateLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}
