package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestProcess_BoundsConcurrencyAndKeepsOrder(t *testing.T) {
	var running, peak atomic.Int32

	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results := Process(context.Background(), items, 3, func(_ context.Context, n int) (int, error) {
		now := running.Add(1)
		for {
			old := peak.Load()
			if now <= old || peak.CompareAndSwap(old, now) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		if n == 4 {
			return 0, errors.New("boom")
		}
		return n * n, nil
	}, nil)

	if p := peak.Load(); p > 3 {
		t.Fatalf("expected at most 3 concurrent jobs, saw %d", p)
	}
	for i, r := range results {
		if r.Item != items[i] {
			t.Fatalf("results out of order at %d: %+v", i, r)
		}
		if r.Item == 4 {
			if r.Err == nil {
				t.Fatalf("expected error for item 4")
			}
			continue
		}
		if r.Err != nil || r.Value != r.Item*r.Item {
			t.Fatalf("unexpected result %+v", r)
		}
	}
}

func TestProcess_ReportsProgress(t *testing.T) {
	var calls, lastFailed atomic.Int32

	Process(context.Background(), []string{"a", "b", "c"}, 2, func(_ context.Context, s string) (string, error) {
		if s == "b" {
			return "", errors.New("bad")
		}
		return s, nil
	}, func(completed, failed, total int) {
		calls.Add(1)
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
		if completed == total {
			lastFailed.Store(int32(failed))
		}
	})

	if calls.Load() != 3 {
		t.Fatalf("expected 3 progress calls, got %d", calls.Load())
	}
	if lastFailed.Load() != 1 {
		t.Fatalf("expected 1 failure at completion, got %d", lastFailed.Load())
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	results := Process(ctx, []int{1, 2}, 1, func(context.Context, int) (int, error) {
		ran.Add(1)
		return 0, nil
	}, nil)

	if ran.Load() != 0 {
		t.Fatalf("expected no jobs to run after cancel")
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", r.Err)
		}
	}
}
