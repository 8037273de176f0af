// Package scheduler periodically re-scans a watched target list, grounded
// on the teacher's service.Scheduler/MonitorService (robfig/cron-driven,
// one job per scheduled tick, WHOIS+DNS checks fanned out per item).
// Reworked here to drive a full Coordinator.AnalyzeDomain run per watched
// target instead of the teacher's ad-hoc WHOIS+DNS+CT fan-out.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/domainguard/domainguard/internal/history"
	"github.com/domainguard/domainguard/internal/model"
	"github.com/domainguard/domainguard/internal/obs"
	"github.com/domainguard/domainguard/internal/scanner"
)

// Runner is the subset of *scanner.Coordinator the scheduler needs.
type Runner interface {
	AnalyzeDomain(ctx context.Context, target string, opts scanner.Options) []model.ScanResult
}

// Scheduler re-runs AnalyzeDomain for every watched target on a cron
// schedule and persists each run via history.Store.
type Scheduler struct {
	Cron    *cron.Cron
	Runner  Runner
	History *history.Store
	Opts    scanner.Options
	Targets []string
}

func New(runner Runner, hist *history.Store, opts scanner.Options, targets []string) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(),
		Runner:  runner,
		History: hist,
		Opts:    opts,
		Targets: targets,
	}
}

// Start schedules a daily re-scan of every watched target, mirroring the
// teacher's "0 2 * * *" daily monitoring job.
func (s *Scheduler) Start() {
	_, _ = s.Cron.AddFunc("0 2 * * *", func() {
		for _, target := range s.Targets {
			go s.RunCheck(context.Background(), target)
		}
	})
	s.Cron.Start()
	obs.Log.Info("scheduler started", obs.Field("targets", len(s.Targets)))
}

// RunCheck runs one scan for target and persists the results.
func (s *Scheduler) RunCheck(ctx context.Context, target string) {
	obs.Log.Info("running scheduled scan", obs.Field("target", target))
	results := s.Runner.AnalyzeDomain(ctx, target, s.Opts)
	if s.History != nil {
		if err := s.History.AddSnapshot(ctx, target, results); err != nil {
			obs.Log.Error("failed to persist scan history", obs.Field("target", target), obs.Field("error", err.Error()))
		}
	}
	obs.Log.Info("finished scheduled scan", obs.Field("target", target), obs.Field("results", len(results)))
}

// Stop halts the cron scheduler.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
}
