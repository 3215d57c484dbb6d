package own

import (
	"ownership/internal/diag"
	"ownership/internal/source"
)

// EventKind identifies the type of ownership event recorded by a Scope.
type EventKind uint8

const (
	// EvLet declares a binding.
	EvLet EventKind = iota
	// EvCopy declares a binding from a copy of another.
	EvCopy
	EvRead
	EvWrite
	EvMove
	EvBorrowStart
	EvBorrowEnd
	EvDrop
)

func (k EventKind) String() string {
	switch k {
	case EvLet:
		return "let"
	case EvCopy:
		return "copy"
	case EvRead:
		return "read"
	case EvWrite:
		return "write"
	case EvMove:
		return "move"
	case EvBorrowStart:
		return "borrow_start"
	case EvBorrowEnd:
		return "borrow_end"
	case EvDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// Event is a lightweight log entry produced while a scope runs.
// It is meant for tracing and tests and does not affect rule checks.
type Event struct {
	Kind    EventKind
	Site    source.Site
	Binding string

	// Borrow and BorrowKind are set for borrow events.
	Borrow     BorrowID
	BorrowKind BorrowKind

	// Issue is non-zero when the action was refused.
	Issue diag.Code

	Note string
}
