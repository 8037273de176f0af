package history

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/domainguard/domainguard/internal/model"
)

func newTestStore(t *testing.T) *Store {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &Store{Client: client}
}

func TestAddAndGetSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	results := []model.ScanResult{{Candidate: model.Candidate{FQDN: "evil.com"}}}
	if err := s.AddSnapshot(ctx, "example.com", results); err != nil {
		t.Fatalf("AddSnapshot: %v", err)
	}

	got, err := s.GetSnapshots(ctx, "example.com")
	if err != nil {
		t.Fatalf("GetSnapshots: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
}

func TestAddSnapshotSkipsDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	results := []model.ScanResult{{Candidate: model.Candidate{FQDN: "evil.com"}}}

	_ = s.AddSnapshot(ctx, "example.com", results)
	_ = s.AddSnapshot(ctx, "example.com", results)

	got, _ := s.GetSnapshots(ctx, "example.com")
	if len(got) != 1 {
		t.Fatalf("expected duplicate snapshot to be skipped, got %d entries", len(got))
	}
}

func TestGetSnapshotsWithDiffs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.AddSnapshot(ctx, "example.com", []model.ScanResult{{Candidate: model.Candidate{FQDN: "a.com"}}})
	_ = s.AddSnapshot(ctx, "example.com", []model.ScanResult{{Candidate: model.Candidate{FQDN: "b.com"}}})

	entries, diffs, err := s.GetSnapshotsWithDiffs(ctx, "example.com")
	if err != nil {
		t.Fatalf("GetSnapshotsWithDiffs: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if len(diffs) != 2 {
		t.Fatalf("got %d diffs, want 2", len(diffs))
	}
}
