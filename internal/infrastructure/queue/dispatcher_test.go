package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

type stubRecorder struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
	err     error
}

func (r *stubRecorder) Record(_ context.Context, e domain.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func TestDispatcher_DeliversInOrderPerUser(t *testing.T) {
	rec := &stubRecorder{}
	d := NewDispatcher(3, rec, zerolog.Nop())
	d.Start(context.Background())

	actions := []string{"login", "password_change", "logout-1", "logout-2"}
	for _, a := range actions {
		_ = d.Record(context.Background(), domain.ActivityEntry{UserID: "u1", Action: a})
	}
	_ = d.Record(context.Background(), domain.ActivityEntry{UserID: "u2", Action: "login"})
	d.Close()

	var got []string
	for _, e := range rec.entries {
		if e.UserID == "u1" {
			got = append(got, e.Action)
		}
	}
	if len(got) != len(actions) {
		t.Fatalf("expected %d entries for u1, got %d", len(actions), len(got))
	}
	for i := range actions {
		if got[i] != actions[i] {
			t.Fatalf("order broken: %v", got)
		}
	}
	if len(rec.entries) != 5 {
		t.Fatalf("expected 5 entries in total, got %d", len(rec.entries))
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(0, &stubRecorder{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected default worker count, got %d", len(d.workers))
	}
	for _, id := range []string{"", "u1", "65f0c0ffee"} {
		a, b := d.shardIndex(id), d.shardIndex(id)
		if a != b || a < 0 || a >= len(d.workers) {
			t.Fatalf("shard for %q unstable or out of range: %d %d", id, a, b)
		}
	}
}

func TestDispatcher_RecorderErrorsAreSwallowed(t *testing.T) {
	rec := &stubRecorder{err: errors.New("mongo down")}
	d := NewDispatcher(1, rec, zerolog.Nop())
	d.Start(context.Background())
	if err := d.Record(context.Background(), domain.ActivityEntry{UserID: "u1"}); err != nil {
		t.Fatalf("record should never fail the caller: %v", err)
	}
	d.Close()
}

func TestDispatcher_RecordAfterClose(t *testing.T) {
	rec := &stubRecorder{}
	d := NewDispatcher(1, rec, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()
	if err := d.Record(context.Background(), domain.ActivityEntry{UserID: "u1"}); err != nil {
		t.Fatalf("record after close: %v", err)
	}
	if len(rec.entries) != 0 {
		t.Fatalf("entries after close must be ignored")
	}
}
