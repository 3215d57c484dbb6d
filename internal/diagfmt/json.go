package diagfmt

import (
	"encoding/json"
	"io"

	"ownership/internal/diag"
	"ownership/internal/source"
)

// SiteJSON locates a diagnostic inside a lesson block.
type SiteJSON struct {
	Block   string `json:"block"`
	Step    uint32 `json:"step"`
	Binding string `json:"binding,omitempty"`
}

type NoteJSON struct {
	Message string   `json:"message"`
	Site    SiteJSON `json:"site"`
}

type FixJSON struct {
	Title       string `json:"title"`
	Replacement string `json:"replacement,omitempty"`
}

type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Site     SiteJSON   `json:"site"`
	Notes    []NoteJSON `json:"notes,omitempty"`
	Fixes    []FixJSON  `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeSite(s source.Site) SiteJSON {
	return SiteJSON{Block: s.Block, Step: s.Step, Binding: s.Label}
}

// BuildDiagnosticsOutput builds the JSON structure without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Site:     makeSite(d.Primary),
		}
		if opts.IncludeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, n := range d.Notes {
				dj.Notes[j] = NoteJSON{Message: n.Msg, Site: makeSite(n.Site)}
			}
		}
		if opts.IncludeFixes && len(d.Fixes) > 0 {
			dj.Fixes = make([]FixJSON, len(d.Fixes))
			for j, f := range d.Fixes {
				dj.Fixes[j] = FixJSON{Title: f.Title, Replacement: f.Replacement}
			}
		}
		diagnostics = append(diagnostics, dj)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON writes diagnostics as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, opts))
}
