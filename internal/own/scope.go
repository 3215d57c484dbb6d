package own

import (
	"context"
	"fmt"
	"strconv"

	"ownership/internal/source"
	"ownership/internal/trace"
)

// Scope is a lexical block owning binding slots and the borrows taken on them.
type Scope struct {
	name    string
	step    uint32
	slots   []*slot
	borrows *BorrowTable
	events  []Event
	span    *trace.Span
	ended   bool
}

type depthKey struct{}

// Enter opens a scope named name. The top-level scope of a lesson is traced
// as a pass; scopes entered beneath it (function bodies) as modules. The
// returned context carries the new scope's span and depth.
func Enter(ctx context.Context, name string) (context.Context, *Scope) {
	if ctx == nil {
		ctx = context.Background()
	}
	depth, _ := ctx.Value(depthKey{}).(int)
	level := trace.ScopePass
	if depth > 0 {
		level = trace.ScopeModule
	}
	span := trace.Begin(trace.FromContext(ctx), level, name, trace.CurrentSpan(ctx))
	sc := &Scope{
		name:    name,
		borrows: NewBorrowTable(),
		span:    span,
	}
	ctx = context.WithValue(ctx, depthKey{}, depth+1)
	return trace.WithSpan(ctx, span), sc
}

// Name returns the scope name.
func (sc *Scope) Name() string {
	return sc.name
}

// Ended reports whether End has run.
func (sc *Scope) Ended() bool {
	return sc.ended
}

// Events returns a copy of the recorded events.
func (sc *Scope) Events() []Event {
	out := make([]Event, len(sc.events))
	copy(out, sc.events)
	return out
}

// Borrows exposes the scope's borrow table for inspection.
func (sc *Scope) Borrows() *BorrowTable {
	return sc.borrows
}

// BindingState summarises one slot for inspection.
type BindingState struct {
	Name    string
	Mutable bool
	State   string // "live", "moved" or "dropped"
}

// Bindings lists every slot in declaration order, shadowed ones included.
func (sc *Scope) Bindings() []BindingState {
	out := make([]BindingState, 0, len(sc.slots))
	for _, s := range sc.slots {
		out = append(out, BindingState{Name: s.name, Mutable: s.mutable, State: s.state()})
	}
	return out
}

// End releases all borrows, drops live slots in reverse declaration order and
// closes the trace span. Calling End twice is a no-op.
func (sc *Scope) End() {
	if sc == nil || sc.ended {
		return
	}
	for _, id := range sc.borrows.EndAll() {
		info := sc.borrows.Info(id)
		ev := Event{Kind: EvBorrowEnd, Borrow: id, BorrowKind: info.Kind, Note: "scope end"}
		if s := sc.slotAt(info.Place); s != nil {
			ev.Binding = s.name
		}
		sc.record(ev)
	}
	for i := len(sc.slots) - 1; i >= 0; i-- {
		s := sc.slots[i]
		if s.moved || s.dropped {
			continue
		}
		s.release()
		s.dropped = true
		s.droppedAt = sc.record(Event{Kind: EvDrop, Binding: s.name, Note: "scope end"})
	}
	sc.ended = true
	sc.span.End(fmt.Sprintf("%d events", len(sc.events)))
}

// peekSite returns the site the next recorded event will get.
func (sc *Scope) peekSite(label string) source.Site {
	return source.Site{Block: sc.name, Step: sc.step + 1, Label: label}
}

// record stamps ev with the next site, stores it and forwards it to the tracer.
func (sc *Scope) record(ev Event) source.Site {
	ev.Site = sc.peekSite(ev.Binding)
	sc.step++
	sc.events = append(sc.events, ev)

	extra := map[string]string{"step": strconv.FormatUint(uint64(ev.Site.Step), 10)}
	if ev.Borrow != NoBorrowID {
		extra["borrow"] = strconv.FormatUint(uint64(ev.Borrow), 10)
		extra["kind"] = ev.BorrowKind.String()
	}
	if ev.Issue != 0 {
		extra["issue"] = ev.Issue.ID()
	}
	if ev.Note != "" {
		extra["note"] = ev.Note
	}
	sc.span.Point(trace.ScopeNode, ev.Kind.String(), ev.Binding, extra)
	return ev.Site
}

func (sc *Scope) addSlot(name string, mutable bool) *slot {
	s := &slot{
		place:   PlaceID(len(sc.slots) + 1),
		name:    name,
		mutable: mutable,
	}
	sc.slots = append(sc.slots, s)
	return s
}

func (sc *Scope) slotAt(place PlaceID) *slot {
	if !place.IsValid() || int(place) > len(sc.slots) {
		return nil
	}
	return sc.slots[place-1]
}

// slot is the runtime state of one binding.
type slot struct {
	place   PlaceID
	name    string
	mutable bool
	moved   bool
	dropped bool

	declared  source.Site
	movedAt   source.Site
	movedTo   string
	droppedAt source.Site

	release func()
}

func (s *slot) state() string {
	switch {
	case s.dropped:
		return "dropped"
	case s.moved:
		return "moved"
	default:
		return "live"
	}
}

// dropper is implemented by values that own resources released on drop.
type dropper interface {
	drop()
}
