package cleanup

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type fakePurger struct {
	cutoff  time.Time
	deleted int64
	err     error
	calls   int
}

func (f *fakePurger) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.deleted, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
}

func TestJob_Run_UsesRetentionCutoff(t *testing.T) {
	events := &fakePurger{deleted: 4}
	audit := &fakePurger{deleted: 9}

	now := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	j := NewJob(events, audit, testLogger())
	j.now = func() time.Time { return now }

	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	wantCutoff := now.AddDate(0, 0, -90)
	if !events.cutoff.Equal(wantCutoff) {
		t.Errorf("events cutoff = %v, want %v", events.cutoff, wantCutoff)
	}
	if !audit.cutoff.Equal(wantCutoff) {
		t.Errorf("audit cutoff = %v, want %v", audit.cutoff, wantCutoff)
	}
}

func TestJob_Run_CustomRetention(t *testing.T) {
	events := &fakePurger{}
	audit := &fakePurger{}

	now := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	j := NewJob(events, audit, testLogger())
	j.RetentionDays = 30
	j.now = func() time.Time { return now }

	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	wantCutoff := now.AddDate(0, 0, -30)
	if !events.cutoff.Equal(wantCutoff) {
		t.Errorf("cutoff = %v, want %v", events.cutoff, wantCutoff)
	}
}

func TestJob_Run_EventFailureStillPurgesAudit(t *testing.T) {
	events := &fakePurger{err: errors.New("db down")}
	audit := &fakePurger{deleted: 2}

	j := NewJob(events, audit, testLogger())

	err := j.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from failing purge")
	}
	if audit.calls != 1 {
		t.Errorf("audit purge calls = %d, want 1", audit.calls)
	}
}

func TestJob_Start_StopsOnCancel(t *testing.T) {
	j := NewJob(&fakePurger{}, &fakePurger{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not stop after cancel")
	}
}
