package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner("Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Testing success...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("Testing error...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Failed!")
}
