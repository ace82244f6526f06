package core

import (
	"testing"
	"time"
)

func TestRequestEndEventDuration(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	e := RequestEndEvent{Start: start, End: start.Add(250 * time.Millisecond)}

	if got := e.Duration(); got != 250*time.Millisecond {
		t.Errorf("Duration() = %v, want 250ms", got)
	}
}

func TestNoopTelemetryHookDoesNothing(t *testing.T) {
	// Must not panic on zero-valued events.
	var hook NoopTelemetryHook
	hook.OnRequestStart(RequestStartEvent{})
	hook.OnRequestEnd(RequestEndEvent{})
}
