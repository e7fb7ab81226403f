// Package token defines lexical token kinds and trivia for SysY+ sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Comments and whitespace are leading Trivia and never appear in the
//     main token stream.
//   - Keyword classification goes through a Keywords table handed to the
//     lexer; DefaultKeywords is the language table.
package token
