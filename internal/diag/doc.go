// Package diag defines the diagnostic model shared by the analysis stages.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings of the delimiter
//     tracker, the statement parser and the semantic passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//   - Model quick fixes as structured text edits.
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt,
// applying fixes lives in internal/fix.
//
// # Data model
//
//   - Severity – Info, Warning, Error.
//   - Code – numeric identifier grouped in families: LEX (lexical), DEL
//     (delimiter balance), DCL (declarations), REF (references), STY (style
//     warnings), IO (driver only). Code.Category maps a family to its
//     taxonomy name.
//   - Message – short human text; it names the offending identifier in quotes.
//   - Primary – the source.Span of the issue.
//   - Notes – secondary spans (e.g. "first defined here").
//   - Fixes – zero or more Fix records, each a list of FixEdit.
//
// # Emitting diagnostics
//
// Stages take a diag.Reporter. They build a ReportBuilder via ReportError /
// ReportWarning, chain WithNote / WithFix and call Emit. BagReporter collects
// into a Bag, which keeps detection order; Sort is for presentation only.
package diag
