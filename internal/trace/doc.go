// Package trace records span events of an analysis run.
//
// Enable it from the command line:
//
//	sysy diag --trace=- --trace-level=detail main.sy
//
// Spans nest run -> file -> pass (track, lex, parse, sema). A tracer is
// carried in the context; code that finds none gets Nop and pays nothing.
//
// Output formats: text (default) and ndjson (selected by a ".ndjson" path).
package trace
