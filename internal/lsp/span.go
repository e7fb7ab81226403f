package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"sysyplus/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// utf16Units is the width of r in UTF-16 code units; broken bytes count as one.
func utf16Units(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

func lineBounds(file *source.File, line int) (start, end uint32) {
	contentLen := safeUint32(len(file.Content))
	if line > len(file.LineIdx) {
		return contentLen, contentLen
	}
	if line > 0 {
		start = file.LineIdx[line-1] + 1
	}
	end = contentLen
	if line < len(file.LineIdx) {
		end = file.LineIdx[line]
	}
	return start, end
}

// offsetForPositionInFile converts an LSP position (0-based line, UTF-16
// character) into a byte offset. Positions past the end of a line clamp to
// the line end, lines past the end of the file clamp to EOF.
func offsetForPositionInFile(file *source.File, pos position) uint32 {
	if file == nil || pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	start, end := lineBounds(file, pos.Line)
	units := 0
	off := start
	for off < end && units < pos.Character {
		r, size := utf8.DecodeRune(file.Content[off:end])
		need := utf16Units(r)
		if units+need > pos.Character {
			// середина суррогатной пары
			break
		}
		units += need
		off += safeUint32(size)
	}
	return off
}

// positionForOffsetInFile is the inverse of offsetForPositionInFile.
func positionForOffsetInFile(file *source.File, offset uint32) position {
	if file == nil {
		return position{}
	}
	if contentLen := safeUint32(len(file.Content)); offset > contentLen {
		offset = contentLen
	}
	lineIdx := file.LineIdx
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	start, _ := lineBounds(file, line)
	units := 0
	for off := start; off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		units += utf16Units(r)
		off += safeUint32(size)
	}
	return position{Line: line, Character: units}
}

func rangeForSpan(file *source.File, span source.Span) lspRange {
	if file == nil {
		return lspRange{}
	}
	return lspRange{
		Start: positionForOffsetInFile(file, span.Start),
		End:   positionForOffsetInFile(file, span.End),
	}
}

func rangesOverlap(a, b lspRange) bool {
	return !positionLess(a.End, b.Start) && !positionLess(b.End, a.Start)
}

func positionLess(a, b position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}
