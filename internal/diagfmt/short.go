package diagfmt

import (
	"fmt"
	"io"

	"sysyplus/internal/diag"
	"sysyplus/internal/source"
)

// Short prints one line per diagnostic in detection order:
// "SEV CODE path:line:col message". Notes become "note" lines when asked.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, withNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, withNotes)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
