package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns the documents of one analysis run. Every run builds its own
// FileSet; it is read-only once all files have been added.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0, 1),
		index: make(map[string]FileID),
	}
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the directory relative paths are rendered against.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores normalized content and returns a new FileID.
// A second Add for the same path creates a new ID and makes it the latest.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(n)
	normalized := normalizePath(path)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	})
	fileSet.index[normalized] = id
	return id
}

// Load reads a file from disk, strips a BOM, normalizes CRLF and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(content)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory document (editor buffer, stdin, test).
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := Normalize(content)
	return fileSet.Add(name, content, flags|FileVirtual)
}

// Get returns the file for id.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Len reports the number of files.
func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fileSet.files[span.File]
	return f.Position(span.Start), f.Position(span.End)
}

// Position converts a byte offset into a 1-based line/column pair.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// Offset converts a 1-based line/column back to a byte offset, clamping to the
// end of the line and the end of the file.
func (f *File) Offset(pos LineCol) uint32 {
	if pos.Line == 0 {
		return 0
	}
	start, end := f.lineBounds(pos.Line)
	if pos.Col == 0 {
		return start
	}
	off := start + pos.Col - 1
	if off > end {
		off = end
	}
	return off
}

// LineCount returns the number of physical lines; an empty file has one line.
func (f *File) LineCount() uint32 {
	return uint32(len(f.LineIdx)) + 1 // #nosec G115 -- bounded by content length
}

// GetLine returns the text of line lineNum (1-based) without its newline.
// Returns "" for out-of-range lines.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || lineNum > f.LineCount() {
		return ""
	}
	start, end := f.lineBounds(lineNum)
	return string(f.Content[start:end])
}

func (f *File) lineBounds(lineNum uint32) (start, end uint32) {
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if lineNum > 1 {
		idx := int(lineNum) - 2
		if idx >= len(f.LineIdx) {
			return lenContent, lenContent
		}
		start = f.LineIdx[idx] + 1
	}
	end = lenContent
	if idx := int(lineNum) - 1; idx < len(f.LineIdx) {
		end = f.LineIdx[idx]
	}
	if start > end {
		start = end
	}
	return start, end
}

// EndOfLine returns the offset of the newline ending the line that contains
// off, or the end of the content.
func (f *File) EndOfLine(off uint32) uint32 {
	_, end := f.lineBounds(f.Position(off).Line)
	return end
}

// FormatPath renders the path in mode "absolute", "relative", "basename" or "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return f.Path
		}
		if rel, err := filepath.Rel(baseDir, abs); err == nil {
			return filepath.ToSlash(rel)
		}
		return f.Path
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return filepath.Base(f.Path)
	default:
		return f.Path
	}
}
