// Package history is an optional, caller-invoked persistence layer for
// scan results, grounded directly on the teacher's internal/storage
// (storage.Storage, AddDNSHistory/GetHistoryWithDiffs): same Redis list
// per key, same "skip if unchanged from last entry" rule, same
// timestamped JSON envelope — repurposed here to store ScanResult batches
// per target instead of raw DNS lookup maps. This is not an engine-level
// cache consulted during scanning (spec.md's Non-goals exclude that); it
// is an explicit store a caller opts into between runs.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/redis/go-redis/v9"

	"github.com/domainguard/domainguard/internal/model"
)

// Store persists per-target scan snapshots in Redis, one list entry per
// run, newest first, trimmed to the most recent 100 entries.
type Store struct {
	Client *redis.Client
}

func NewStore(addr string) *Store {
	return &Store{Client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Entry is one stored snapshot: a timestamp plus the serialized results of
// one AnalyzeDomain run.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Results   string `json:"results"`
}

func key(target string) string {
	return "scan_history:" + target
}

// AddSnapshot stores results for target, skipping the write if it is
// identical to the most recent stored snapshot — mirrors the teacher's
// AddDNSHistory de-duplication rule.
func (s *Store) AddSnapshot(ctx context.Context, target string, results []model.ScanResult) error {
	resBytes, err := json.Marshal(results)
	if err != nil {
		return err
	}
	resStr := string(resBytes)

	lastJSON, err := s.Client.LIndex(ctx, key(target), 0).Result()
	if err == nil {
		var last Entry
		if json.Unmarshal([]byte(lastJSON), &last) == nil && last.Results == resStr {
			return nil
		}
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Results:   resStr,
	}
	entryBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := s.Client.Pipeline()
	pipe.LPush(ctx, key(target), string(entryBytes))
	pipe.LTrim(ctx, key(target), 0, 99)
	_, err = pipe.Exec(ctx)
	return err
}

// GetSnapshots returns every stored snapshot for target, newest first.
func (s *Store) GetSnapshots(ctx context.Context, target string) ([]Entry, error) {
	vals, err := s.Client.LRange(ctx, key(target), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, v := range vals {
		var e Entry
		if json.Unmarshal([]byte(v), &e) == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetSnapshotsWithDiffs returns every stored snapshot for target alongside
// a unified diff against the snapshot immediately before it, via
// github.com/hexops/gotextdiff — mirrors the teacher's
// GetHistoryWithDiffs, which the teacher built for the same "what changed
// since last run" UX on raw DNS history.
func (s *Store) GetSnapshotsWithDiffs(ctx context.Context, target string) ([]Entry, []string, error) {
	entries, err := s.GetSnapshots(ctx, target)
	if err != nil {
		return nil, nil, err
	}

	diffs := make([]string, len(entries))
	for i := 0; i < len(entries)-1; i++ {
		edits := myers.ComputeEdits(span.URIFromPath("before"), entries[i+1].Results, entries[i].Results)
		diffs[i] = fmt.Sprint(gotextdiff.ToUnified("before", "after", entries[i+1].Results, edits))
	}
	return entries, diffs, nil
}
