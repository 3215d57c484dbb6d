// Package diag defines the diagnostic model used to report ownership rule
// violations.
//
// # Purpose
//
//   - Provide deterministic data structures for the findings produced when a
//     program breaks a move or borrow rule at run time.
//   - Offer light-weight utilities (Reporter, Bag) so producers can emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not format for terminals or do IO. Rendering lives in
// internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier (codes.go) with a stable string form
//     such as OWN3101.
//   - Message – short, actionable text.
//   - Primary – the source.Site where the offending action happened.
//   - Notes – secondary sites, e.g. "value moved into 't' here".
//   - Fixes – suggestions phrased as a title and an optional replacement.
//
// Notes should add context rather than repeat the message.
//
// # Emitting diagnostics
//
// Producers build a ReportBuilder with ReportError or ReportWarning,
// chain WithNote / WithFix and call Emit. BagReporter collects into a Bag,
// which supports sorting and deduplication.
package diag
