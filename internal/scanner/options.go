package scanner

import (
	"runtime"
	"time"
)

// Options configures one scan run per spec.md §4.1.
type Options struct {
	MaxConcurrency      int
	TimeoutPerCandidate time.Duration
	Ordered             bool
	Whois               bool
	ContentHash         bool
	MxOnly              bool

	// RatePerSecond, if > 0, caps outbound probe starts per second across
	// the whole scan (spec.md §5's "fixed concurrency cap" made explicit
	// as a soft rate limiter rather than upstream negotiation; see
	// DESIGN.md).
	RatePerSecond float64
}

// WithDefaults fills zero-valued fields with spec.md §4.1's defaults.
func (o Options) WithDefaults() Options {
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = 2 * runtime.NumCPU()
	}
	if o.TimeoutPerCandidate <= 0 {
		o.TimeoutPerCandidate = 15_000 * time.Millisecond
	}
	return o
}
