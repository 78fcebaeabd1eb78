package visits

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSweeperRunOnceReportsOutcome(t *testing.T) {
	svc, repo, _, obs := newTestService(t)
	old := day("2024-01-01")
	repo.seed("2024-01-01", 3, old)

	sw := NewSweeper(svc, time.Hour, 30, zerolog.Nop())
	deleted, err := sw.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected bucket and event removed, got %d", deleted)
	}
	if obs.sweeps != 1 || obs.purged != 2 {
		t.Fatalf("unexpected observer state %+v", obs)
	}
}

func TestSweeperSurvivesFailures(t *testing.T) {
	svc, repo, _, obs := newTestService(t)
	repo.failPurge = errors.New("db down")

	sw := NewSweeper(svc, 10*time.Millisecond, 30, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	err := sw.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected run to stop with the context, got %v", err)
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if obs.sweeps < 2 || obs.sweepErr != obs.sweeps {
		t.Fatalf("expected repeated failing sweeps, got %d/%d", obs.sweepErr, obs.sweeps)
	}
}

func TestNewSweeperDefaults(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	sw := NewSweeper(svc, 0, 0, zerolog.Nop())
	if sw.interval != 24*time.Hour || sw.retention != DefaultRetentionDays {
		t.Fatalf("unexpected defaults %v/%d", sw.interval, sw.retention)
	}
}
