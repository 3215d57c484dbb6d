package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	ShowFixes bool
	Max       int // 0 means no limit
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // trims the output, not the Bag
	IncludeNotes bool
	IncludeFixes bool
}
