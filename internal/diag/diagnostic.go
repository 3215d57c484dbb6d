package diag

import (
	"ownership/internal/source"
)

type Note struct {
	Site source.Site
	Msg  string
}

// Fix is a suggestion; Replacement is the code the user could write instead.
type Fix struct {
	Title       string
	Replacement string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Site
	Notes    []Note
	Fixes    []Fix
}
