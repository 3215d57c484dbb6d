package diag

import (
	"strings"
)

// FormatShortDiagnostics renders diagnostics one line per entry:
//
//	error OWN3101 SCOPE 2#4 (s) use of moved value 's'
//
// Entries keep their input order. Multi-line messages are folded onto one line.
func FormatShortDiagnostics(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		lines = append(lines, shortLine(severityLabel(d.Severity), d.Code, d.Primary.String(), d.Message))
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			lines = append(lines, shortLine("note", d.Code, note.Site.String(), note.Msg))
		}
	}
	return strings.Join(lines, "\n")
}

func shortLine(label string, code Code, where, msg string) string {
	return label + " " + code.ID() + " " + where + " " + flattenMessage(msg)
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevInfo:
		return "info"
	default:
		return "unknown"
	}
}

func flattenMessage(msg string) string {
	if msg == "" {
		return ""
	}
	return strings.Join(strings.Fields(msg), " ")
}
