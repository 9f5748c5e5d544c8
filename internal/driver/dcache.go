package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"janus/internal/diag"
	"janus/internal/project"
	"janus/internal/source"
)

// Bump when the payload layout changes; stale schemas read as misses.
const diskCacheSchemaVersion uint16 = 1

// DiskCache memoizes per-unit analysis verdicts keyed by content hash and
// configuration fingerprint. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// cachedSpan is a Span without the FileID, which is not stable across runs.
type cachedSpan struct {
	Start uint32
	End   uint32
}

type cachedNote struct {
	Message string
	Span    cachedSpan
}

type cachedSuggestion struct {
	Message     string
	Confidence  float64
	Replacement string
}

type cachedDiagnostic struct {
	Severity    uint8
	Code        uint16
	Message     string
	Primary     cachedSpan
	Notes       []cachedNote
	Suggestions []cachedSuggestion
}

// DiskPayload is one unit's cached analysis outcome.
type DiskPayload struct {
	Schema      uint16
	Errors      int
	Diagnostics []cachedDiagnostic
}

// OpenDiskCache initializes a disk cache rooted at dir. An empty dir yields
// a nil cache, on which every method is a no-op.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Key derives the cache key for a unit: content hash folded with the
// configuration fingerprint, so a profile switch never serves stale
// verdicts.
func Key(contentHash [32]byte, fingerprint string) project.Digest {
	return project.Combine(contentHash, sha256.Sum256([]byte(fingerprint)))
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "units", hexKey+".mp")
}

// Put serializes and atomically writes a payload.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or a schema mismatch is a miss, not
// an error.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// Stat reports entry count and total size for `janus cache stat`.
func (c *DiskCache) Stat() (entries int, bytes int64, err error) {
	if c == nil {
		return 0, 0, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	root := filepath.Join(c.dir, "units")
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries++
		bytes += info.Size()
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	}
	return entries, bytes, err
}

// encodeDiagnostics flattens diagnostics for storage.
func encodeDiagnostics(items []diag.Diagnostic) []cachedDiagnostic {
	out := make([]cachedDiagnostic, 0, len(items))
	for i := range items {
		d := &items[i]
		cd := cachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Primary:  cachedSpan{Start: d.Primary.Start, End: d.Primary.End},
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{
				Message: n.Message,
				Span:    cachedSpan{Start: n.Span.Start, End: n.Span.End},
			})
		}
		for _, s := range d.Suggestions {
			cd.Suggestions = append(cd.Suggestions, cachedSuggestion{
				Message:     s.Message,
				Confidence:  s.Confidence,
				Replacement: s.Replacement,
			})
		}
		out = append(out, cd)
	}
	return out
}

// decodeDiagnostics rebuilds diagnostics against the current file ID.
func decodeDiagnostics(items []cachedDiagnostic, file source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(items))
	for _, cd := range items {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  source.Span{File: file, Start: cd.Primary.Start, End: cd.Primary.End},
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{
				Message: n.Message,
				Span:    source.Span{File: file, Start: n.Span.Start, End: n.Span.End},
			})
		}
		for _, s := range cd.Suggestions {
			d.Suggestions = append(d.Suggestions, diag.Suggestion{
				Message:     s.Message,
				Confidence:  s.Confidence,
				Replacement: s.Replacement,
			})
		}
		out = append(out, d)
	}
	return out
}
