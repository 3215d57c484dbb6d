package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRingTracerWrapsInOrder(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: name})
	}

	snap := ring.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Errorf("snapshot[%d] = %q, want %q", i, snap[i].Name, want)
		}
	}
}

func TestRingTracerFiltersByLevel(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	ring.Emit(&Event{Kind: KindSpanBegin, Scope: ScopePass, Name: "SCOPE 1"})
	ring.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: "let"})

	if got := len(ring.Snapshot()); got != 1 {
		t.Fatalf("expected only the pass event, got %d", got)
	}
}

func TestSessionBothModeSharesSequence(t *testing.T) {
	var buf bytes.Buffer
	session, err := New(Config{Level: LevelDebug, Mode: ModeBoth, Format: FormatText, Output: &buf, RingSize: 16})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithTracer(context.Background(), session.Tracer)

	span := Begin(FromContext(ctx), ScopePass, "SCOPE 4", CurrentSpan(ctx))
	span.Point(ScopeNode, "borrow_start", "mystr", nil)
	span.End("")
	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := session.Ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 ring events, got %d", len(events))
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 streamed lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "borrow_start") {
		t.Errorf("second line should be the point event, got %q", lines[1])
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq <= events[i-1].Seq {
			t.Fatalf("sequence not monotonic: %d then %d", events[i-1].Seq, events[i].Seq)
		}
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	session, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if session.Tracer.Enabled() || session.Ring != nil {
		t.Error("off level must produce a disabled tracer and no ring")
	}
}
