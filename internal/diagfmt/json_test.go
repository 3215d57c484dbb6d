package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJSONBasic(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, movedBag(), JSONOpts{IncludeNotes: true, IncludeFixes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, buf.String())
	}

	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "OWN3101",
			Title:    output.Diagnostics[0].Title,
			Message:  "use of moved value 's'",
			Site:     SiteJSON{Block: "SCOPE 2", Step: 4, Binding: "s"},
			Notes:    []NoteJSON{{Message: "value moved into 't' here", Site: SiteJSON{Block: "SCOPE 2", Step: 2, Binding: "s"}}},
			Fixes:    []FixJSON{{Title: "clone the buffer instead of moving it", Replacement: "own.Let(sc, \"t\", sv.Clone())"}},
		}},
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if output.Diagnostics[0].Title == "" {
		t.Fatal("title should be filled from the code table")
	}
}

func TestJSONOmitsNotesByDefault(t *testing.T) {
	out := BuildDiagnosticsOutput(movedBag(), JSONOpts{})
	if len(out.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(out.Diagnostics))
	}
	if out.Diagnostics[0].Notes != nil || out.Diagnostics[0].Fixes != nil {
		t.Fatalf("notes and fixes should be omitted: %+v", out.Diagnostics[0])
	}
}

func TestJSONMax(t *testing.T) {
	bag := movedBag()
	bag.Add(movedBag().Items()[0])
	out := BuildDiagnosticsOutput(bag, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("expected count=1, got %d", out.Count)
	}
}
