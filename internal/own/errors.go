package own

import (
	"ownership/internal/diag"
	"ownership/internal/source"
)

// Error reports a refused ownership action.
type Error struct {
	Code    diag.Code
	Binding string
	Site    source.Site
	Message string

	// Related points at the action that made this one invalid, e.g. the move
	// or the still-live borrow.
	Related     source.Site
	RelatedNote string
}

func (e *Error) Error() string {
	return e.Code.ID() + ": " + e.Message
}

// Report emits the error as a diagnostic, attaching the related site as a note.
func (e *Error) Report(r diag.Reporter, fixes ...diag.Fix) {
	if e == nil {
		return
	}
	builder := diag.ReportError(r, e.Code, e.Site, e.Message)
	if !e.Related.Empty() && e.RelatedNote != "" {
		builder.WithNote(e.Related, e.RelatedNote)
	}
	for _, fix := range fixes {
		builder.WithFix(fix.Title, fix.Replacement)
	}
	builder.Emit()
}
