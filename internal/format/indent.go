package format

import (
	"errors"

	"sysyplus/internal/lexer"
	"sysyplus/internal/source"
)

// FormatFile reindents every line by the number of open structural braces
// at its start. A line that starts with '}' goes one level out. Lines that
// continue a block comment are copied untouched, trailing whitespace is
// dropped unless it belongs to a literal and the result ends with a single
// newline. Blank lines are kept; opt.MaxBlankLines > 0 squeezes longer runs.
// Leading blank lines are dropped.
func FormatFile(sf *source.File, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	opt = opt.withDefaults()
	tr := lexer.Track(sf, nil)
	w := NewWriter(sf, opt)

	depth := 0
	blanks := 0
	wrote := false
	for line := uint32(1); line <= sf.LineCount(); line++ {
		start := sf.Offset(source.LineCol{Line: line, Col: 1})
		end := sf.EndOfLine(start)

		if r, ok := tr.RegionAt(start); ok && r.Span.Start < start && r.Mode == lexer.ModeBlockComment {
			// продолжение многострочного комментария
			w.CopyRange(start, trimRight(sf, tr, start, end))
			w.Newline()
			depth = scanDepth(sf, tr, start, end, depth)
			blanks = 0
			wrote = true
			continue
		}

		first := skipBlank(sf.Content, start, end)
		if first == end {
			blanks++
			if wrote && (opt.MaxBlankLines <= 0 || blanks <= opt.MaxBlankLines) {
				w.Newline()
			}
			continue
		}
		blanks = 0
		wrote = true

		level := depth - leadingClosers(sf, tr, first, end)
		w.SetIndent(level)
		w.IndentedRange(first, trimRight(sf, tr, first, end))
		w.Newline()
		depth = scanDepth(sf, tr, first, end, depth)
	}
	w.trimTrailingBlank()
	return w.Bytes(), nil
}

func skipBlank(content []byte, off, end uint32) uint32 {
	for off < end && (content[off] == ' ' || content[off] == '\t' || content[off] == '\r') {
		off++
	}
	return off
}

// trimRight returns the end of meaningful text; blanks inside a string or
// char literal stay.
func trimRight(sf *source.File, tr *lexer.Tracker, start, end uint32) uint32 {
	for end > start {
		b := sf.Content[end-1]
		if b != ' ' && b != '\t' && b != '\r' {
			break
		}
		if m := tr.Mode(end - 1); m == lexer.ModeString || m == lexer.ModeChar {
			break
		}
		end--
	}
	return end
}

func leadingClosers(sf *source.File, tr *lexer.Tracker, off, end uint32) int {
	n := 0
	for off < end {
		b := sf.Content[off]
		if b == '}' && tr.Mode(off) == lexer.ModeNormal {
			n++
			off++
			continue
		}
		if b == ' ' || b == '\t' {
			off++
			continue
		}
		break
	}
	return n
}

func scanDepth(sf *source.File, tr *lexer.Tracker, start, end uint32, depth int) int {
	for off := start; off < end; off++ {
		switch sf.Content[off] {
		case '{':
			if tr.Mode(off) == lexer.ModeNormal {
				depth++
			}
		case '}':
			if tr.Mode(off) == lexer.ModeNormal && depth > 0 {
				depth--
			}
		}
	}
	return depth
}
