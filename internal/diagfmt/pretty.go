package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sysyplus/internal/diag"
	"sysyplus/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид в порядке bag.Items():
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	   3 |   int x = 2;
//	     |       ^
//	  note: <path>:<line>:<col>: <msg>
//	  fix: <title>
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

// Plain renders diagnostics that have no source file, such as IO failures.
func Plain(w io.Writer, path string, bag *diag.Bag, useColor bool) {
	p := newPalette(useColor)
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n", path, p.severity(d.Severity).Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fileOf(fs, d.Primary)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		displayPath(fs, f, opts.PathMode), start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)
	writeSnippet(w, f, start, end, int(opts.Context), p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fileOf(fs, n.Span)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), displayPath(fs, nf, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.fix.Sprint("fix:"), fx.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, e := range fx.Edits {
				pv, err := buildFixEditPreview(fs, e)
				if err != nil {
					continue
				}
				for _, l := range pv.before {
					fmt.Fprintf(w, "    %s %s\n", p.err.Sprint("-"), l)
				}
				for _, l := range pv.after {
					fmt.Fprintf(w, "    %s %s\n", p.fix.Sprint("+"), l)
				}
			}
		}
	}
}

// writeSnippet prints the primary line with context and a caret line.
// Multi-line spans are underlined to the end of their first line.
func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, context int, p palette) {
	if len(f.Content) == 0 {
		return
	}
	first := int(start.Line) - context
	if first < 1 {
		first = 1
	}
	last := int(start.Line) + context
	if n := int(f.LineCount()); last > n {
		last = n
	}
	width := len(fmt.Sprint(last))
	for ln := first; ln <= last; ln++ {
		text := f.GetLine(uint32(ln)) // #nosec G115 -- bounded by LineCount
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width+2, ln), text)
		if ln != int(start.Line) {
			continue
		}
		from := int(start.Col) - 1
		to := len(text)
		if end.Line == start.Line {
			to = int(end.Col) - 1
		}
		from = min(from, len(text))
		to = max(min(to, len(text)), from)
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", width+2, ""),
			padFor(text[:from]),
			p.caret.Sprint(underline(text[from:to])))
	}
}

// padFor keeps tabs and replaces every other rune by its display width in
// spaces, so the caret lines up under wide characters too.
func padFor(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func underline(s string) string {
	n := runewidth.StringWidth(s)
	if n <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", n-1)
}
