package lexer

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"

	"sysyplus/internal/diag"
	"sysyplus/internal/source"
)

// Mode is the lexical state of a byte offset.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeString
	ModeChar
	ModeLineComment
	ModeBlockComment
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeString:
		return "string"
	case ModeChar:
		return "char"
	case ModeLineComment:
		return "line-comment"
	case ModeBlockComment:
		return "block-comment"
	default:
		return "invalid"
	}
}

// DelimKind selects one of the four balance stacks.
type DelimKind uint8

const (
	DelimBrace DelimKind = iota
	DelimParen
	DelimBracket
	DelimQuote
	delimKinds
)

func (k DelimKind) String() string {
	switch k {
	case DelimBrace:
		return "brace"
	case DelimParen:
		return "paren"
	case DelimBracket:
		return "bracket"
	case DelimQuote:
		return "quote"
	default:
		return "invalid"
	}
}

// PendingDelimiter is an opener still waiting for its closer.
type PendingDelimiter struct {
	Kind DelimKind
	Open byte // '{', '(', '[', '"' or '\''
	Span source.Span
}

// Region is a maximal run of non-normal bytes. The span includes the quotes
// or comment markers. Terminated is false for literals cut by a newline or
// EOF and for block comments that run to EOF.
type Region struct {
	Mode       Mode
	Span       source.Span
	Terminated bool
}

// Tracker classifies every offset of a file and balances delimiters.
// It reports illegal characters and extra closers as soon as they are
// scanned, leftovers of the four stacks once the scan is over.
type Tracker struct {
	file    *source.File
	rep     diag.Reporter
	cursor  Cursor
	regions []Region
	stacks  [delimKinds][]PendingDelimiter
	pending []PendingDelimiter
	extras  []source.Span
}

// Track scans the whole file. rep may be nil.
func Track(file *source.File, rep diag.Reporter) *Tracker {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	t := &Tracker{
		file:   file,
		rep:    rep,
		cursor: NewCursor(file),
	}
	t.run()
	t.finish()
	return t
}

// Mode returns the lexical mode at off.
func (t *Tracker) Mode(off uint32) Mode {
	if r, ok := t.RegionAt(off); ok {
		return r.Mode
	}
	return ModeNormal
}

// RegionAt returns the non-normal region covering off.
func (t *Tracker) RegionAt(off uint32) (Region, bool) {
	i := sort.Search(len(t.regions), func(i int) bool {
		return t.regions[i].Span.End > off
	})
	if i < len(t.regions) && t.regions[i].Span.Start <= off {
		return t.regions[i], true
	}
	return Region{}, false
}

// Regions returns literal and comment regions in source order. READONLY.
func (t *Tracker) Regions() []Region { return t.regions }

// Pending returns openers left unmatched at end of document, grouped by
// stack (braces, parens, brackets, quotes) and ordered by position.
func (t *Tracker) Pending() []PendingDelimiter { return t.pending }

// ExtraClosers returns positions of closers that found an empty stack.
func (t *Tracker) ExtraClosers() []source.Span { return t.extras }

// Balanced reports whether every stack ended empty and no closer was extra.
func (t *Tracker) Balanced() bool {
	return len(t.pending) == 0 && len(t.extras) == 0
}

func (t *Tracker) run() {
	c := &t.cursor
	for !c.EOF() {
		b := c.Peek()
		switch b {
		case '"':
			t.scanQuoted('"', ModeString)
		case '\'':
			t.scanQuoted('\'', ModeChar)
		case '/':
			_, b1, ok := c.Peek2()
			switch {
			case ok && b1 == '/':
				t.scanLineComment()
			case ok && b1 == '*':
				t.scanBlockComment()
			default:
				c.Bump()
			}
		case '{':
			t.open(DelimBrace, b)
		case '(':
			t.open(DelimParen, b)
		case '[':
			t.open(DelimBracket, b)
		case '}':
			t.close(DelimBrace, b)
		case ')':
			t.close(DelimParen, b)
		case ']':
			t.close(DelimBracket, b)
		default:
			if b >= utf8.RuneSelf {
				t.illegal()
				continue
			}
			c.Bump()
		}
	}
}

func (t *Tracker) open(kind DelimKind, b byte) {
	sp := source.At(t.file.ID, t.cursor.Off)
	t.stacks[kind] = append(t.stacks[kind], PendingDelimiter{Kind: kind, Open: b, Span: sp})
	t.cursor.Bump()
}

func (t *Tracker) close(kind DelimKind, b byte) {
	sp := source.At(t.file.ID, t.cursor.Off)
	t.cursor.Bump()
	stack := t.stacks[kind]
	if len(stack) == 0 {
		t.extras = append(t.extras, sp)
		diag.ReportError(t.rep, extraCode(kind), sp, fmt.Sprintf("extra closing delimiter '%c'", b)).Emit()
		return
	}
	t.stacks[kind] = stack[:len(stack)-1]
}

func (t *Tracker) illegal() {
	c := &t.cursor
	start := c.Mark()
	r, size := utf8.DecodeRune(t.file.Content[c.Off:])
	if size <= 0 {
		size = 1
	}
	c.Skip(uint32(size)) // #nosec G115 -- rune size is at most 4
	sp := c.SpanFrom(start)
	var msg string
	if r == utf8.RuneError && size == 1 {
		msg = fmt.Sprintf("illegal byte 0x%02X: only ASCII is allowed outside literals and comments", t.file.Content[sp.Start])
	} else {
		name := runenames.Name(r)
		msg = fmt.Sprintf("illegal character '%c' (U+%04X %s): only ASCII is allowed outside literals and comments", r, r, name)
	}
	diag.ReportError(t.rep, diag.LexIllegalChar, sp, msg).Emit()
}

// scanQuoted consumes a string or char literal. Backslash escapes the next
// byte. A newline ends the literal as unterminated without being consumed;
// EOF leaves the quote on the stack.
func (t *Tracker) scanQuoted(q byte, mode Mode) {
	c := &t.cursor
	start := c.Mark()
	opener := PendingDelimiter{Kind: DelimQuote, Open: q, Span: source.At(t.file.ID, c.Off)}
	t.stacks[DelimQuote] = append(t.stacks[DelimQuote], opener)
	c.Bump()
	for !c.EOF() {
		b := c.Peek()
		switch b {
		case '\\':
			c.Bump()
			if c.Peek() == '\n' {
				// перевод строки после '\' не продолжает литерал
				t.unterminated(start, mode)
				return
			}
			c.Bump()
		case q:
			c.Bump()
			t.popQuote()
			t.regions = append(t.regions, Region{Mode: mode, Span: c.SpanFrom(start), Terminated: true})
			return
		case '\n':
			t.unterminated(start, mode)
			return
		default:
			c.Bump()
		}
	}
	// EOF: кавычка остаётся в стеке и уйдёт в missing closer
	t.regions = append(t.regions, Region{Mode: mode, Span: c.SpanFrom(start)})
}

func (t *Tracker) unterminated(start Mark, mode Mode) {
	sp := t.cursor.SpanFrom(start)
	t.popQuote()
	t.regions = append(t.regions, Region{Mode: mode, Span: sp})
	code, what := diag.LexUnterminatedString, "string"
	if mode == ModeChar {
		code, what = diag.LexUnterminatedChar, "character"
	}
	diag.ReportError(t.rep, code, sp, "unterminated "+what+" literal").Emit()
}

func (t *Tracker) popQuote() {
	if n := len(t.stacks[DelimQuote]); n > 0 {
		t.stacks[DelimQuote] = t.stacks[DelimQuote][:n-1]
	}
}

func (t *Tracker) scanLineComment() {
	c := &t.cursor
	start := c.Mark()
	c.Skip(2)
	for !c.EOF() && c.Peek() != '\n' {
		c.Bump()
	}
	t.regions = append(t.regions, Region{Mode: ModeLineComment, Span: c.SpanFrom(start), Terminated: true})
}

// вложенность не поддерживается: первый "*/" закрывает комментарий
func (t *Tracker) scanBlockComment() {
	c := &t.cursor
	start := c.Mark()
	c.Skip(2)
	for !c.EOF() {
		if b0, b1, ok := c.Peek2(); ok && b0 == '*' && b1 == '/' {
			c.Skip(2)
			t.regions = append(t.regions, Region{Mode: ModeBlockComment, Span: c.SpanFrom(start), Terminated: true})
			return
		}
		c.Bump()
	}
	sp := c.SpanFrom(start)
	t.regions = append(t.regions, Region{Mode: ModeBlockComment, Span: sp})
	opener := source.Span{File: t.file.ID, Start: sp.Start, End: sp.Start + 2}
	diag.ReportError(t.rep, diag.LexUnterminatedBlockComment, opener, "unterminated block comment").Emit()
}

func (t *Tracker) finish() {
	for kind := DelimBrace; kind < delimKinds; kind++ {
		for _, p := range t.stacks[kind] {
			t.pending = append(t.pending, p)
			diag.ReportError(t.rep, missingCode(kind), p.Span, missingMessage(p)).Emit()
		}
		t.stacks[kind] = nil
	}
}

func missingMessage(p PendingDelimiter) string {
	switch p.Kind {
	case DelimQuote:
		if p.Open == '\'' {
			return "missing matching closer ''' for character literal"
		}
		return "missing matching closer '\"' for string literal"
	default:
		return fmt.Sprintf("missing matching closer '%c' for '%c'", closerOf(p.Open), p.Open)
	}
}

func closerOf(open byte) byte {
	switch open {
	case '{':
		return '}'
	case '(':
		return ')'
	case '[':
		return ']'
	}
	return open
}

func extraCode(kind DelimKind) diag.Code {
	switch kind {
	case DelimParen:
		return diag.DelExtraParen
	case DelimBracket:
		return diag.DelExtraBracket
	default:
		return diag.DelExtraBrace
	}
}

func missingCode(kind DelimKind) diag.Code {
	switch kind {
	case DelimParen:
		return diag.DelMissingParen
	case DelimBracket:
		return diag.DelMissingBracket
	case DelimQuote:
		return diag.DelMissingQuote
	default:
		return diag.DelMissingBrace
	}
}
