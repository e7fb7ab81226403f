package format

import (
	"sysyplus/internal/source"
)

// Options controls the output layout.
type Options struct {
	IndentWidth   int  // spaces per level, 4 by default
	UseTabs       bool // one tab per level
	MaxBlankLines int  // consecutive blank lines kept, 0 keeps all
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	return o
}

// Writer accumulates formatted output and provides helpers for copying source
// fragments and emitting canonical indentation.
type Writer struct {
	sf          *source.File
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a new formatting writer.
func NewWriter(sf *source.File, opt Options) *Writer {
	return &Writer{
		sf:          sf,
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, len(sf.Content)),
		atLineStart: true,
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// SetIndent sets the level used for the next line start.
func (w *Writer) SetIndent(level int) {
	if level < 0 {
		level = 0
	}
	w.indentLevel = level
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		spaceCount := w.indentLevel * w.opt.IndentWidth
		for range spaceCount {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes a string to the output, handling indentation.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Newline terminates the current line; blank lines are allowed.
func (w *Writer) Newline() {
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// CopyRange copies source bytes [start, end) as is, without indentation.
func (w *Writer) CopyRange(start, end uint32) {
	if w.sf == nil {
		return
	}
	if n := uint32(len(w.sf.Content)); end > n { // #nosec G115 -- content fits FileSet limits
		end = n
	}
	if start >= end {
		return
	}
	chunk := w.sf.Content[start:end]
	w.buf = append(w.buf, chunk...)
	w.atLineStart = chunk[len(chunk)-1] == '\n'
}

// IndentedRange copies [start, end) after the current indentation.
func (w *Writer) IndentedRange(start, end uint32) {
	if start >= end {
		return
	}
	w.writeIndent()
	w.CopyRange(start, end)
}

// trimTrailingBlank drops trailing newlines and keeps exactly one.
func (w *Writer) trimTrailingBlank() {
	n := len(w.buf)
	for n > 0 && w.buf[n-1] == '\n' {
		n--
	}
	w.buf = w.buf[:n]
	if n > 0 {
		w.buf = append(w.buf, '\n')
	}
}
