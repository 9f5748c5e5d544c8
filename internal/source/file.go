package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileFlags encode metadata about how a file entered the set.
type FileFlags uint8

const (
	// FileVirtual marks content added from memory (tests, stdin, decoded units).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// FileSet manages source files and resolves spans to line/column positions.
type FileSet struct {
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{
		index: make(map[string]FileID),
	}
}

// Add stores normalized content, computes the line index and content hash,
// and returns a fresh FileID. Re-adding a path creates a new generation and
// repoints the path index at it.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("fileset overflow: %w", err))
	}
	id := FileID(lenFiles)
	normalized := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[normalized] = id
	return id
}

// Load reads a file from disk, strips a BOM, normalizes CRLF and adds it.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return NoFileID, err
	}
	content, hadBOM := stripBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	var flags FileFlags
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content under a synthetic name.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id, or nil when id is out of range.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// ByPath returns the latest generation registered under path.
func (fs *FileSet) ByPath(path string) (*File, bool) {
	if id, ok := fs.index[normalizePath(path)]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

// Len reports the number of stored files.
func (fs *FileSet) Len() int { return len(fs.files) }

// Resolve converts a span into start and end line/column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Position resolves just the start of a span.
func (fs *FileSet) Position(span Span) LineCol {
	start, _ := fs.Resolve(span)
	return start
}

// Offset is the inverse of Position: it maps a 1-based line and column back
// to a byte offset. Reports false for an unknown file or an out-of-range
// position.
func (fs *FileSet) Offset(id FileID, pos LineCol) (uint32, bool) {
	f := fs.Get(id)
	if f == nil || pos.Line < 1 || pos.Col < 1 {
		return 0, false
	}
	var lineStart uint32
	if pos.Line > 1 {
		idx := int(pos.Line) - 2
		if idx >= len(f.LineIdx) {
			return 0, false
		}
		lineStart = f.LineIdx[idx] + 1
	}
	off := lineStart + pos.Col - 1
	if off > uint32(len(f.Content)) {
		return 0, false
	}
	return off, true
}

func buildLineIndex(content []byte) []uint32 {
	var out []uint32
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol finds the largest newline offset <= off by binary search.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi
	if line < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	start := lineIdx[line] + 1
	return LineCol{Line: uint32(line) + 2, Col: off - start + 1}
}

func stripBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func normalizeCRLF(content []byte) ([]byte, bool) {
	hasCR := false
	for _, b := range content {
		if b == '\r' {
			hasCR = true
			break
		}
	}
	if !hasCR {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i++
			changed = true
			continue
		}
		out = append(out, content[i])
	}
	return out, changed
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
