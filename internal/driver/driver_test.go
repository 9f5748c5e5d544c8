package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/profile"
	"janus/internal/project"
	"janus/internal/source"
	"janus/internal/symbols"
	"janus/internal/testkit"
)

// writeUnit serializes a synthesized unit into dir as a container file.
// content stands in for the original source text; it only matters for the
// cache key, so each unit gets distinct bytes.
func writeUnit(t *testing.T, dir, name string, content string, build func(s *testkit.Synth) *ast.Unit) string {
	t.Helper()
	names := source.NewInterner()
	s := testkit.NewSynth(1, 1, names)
	u := build(s)

	path := filepath.Join(dir, name+UnitExt)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	file := &source.File{Path: name + ".jn", Content: []byte(content)}
	if err := ast.EncodeUnit(f, u, file, names); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
	return path
}

func cleanUnit(s *testkit.Synth) *ast.Unit {
	return s.Unit(s.Let("x", ast.NoNodeID, s.Int(1)))
}

func brokenUnit(s *testkit.Synth) *ast.Unit {
	return s.Unit(s.Let("y", ast.NoNodeID, s.Ident("nope")))
}

func noCacheConfig(dir string) project.Config {
	cfg := project.Default(dir)
	cfg.CacheDir = ""
	return cfg
}

func TestAnalyzeDirReportsPerUnit(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a_clean", "let x = 1\n", cleanUnit)
	writeUnit(t, dir, "b_broken", "let y = nope\n", brokenUnit)

	_, results, stats, err := AnalyzeDir(context.Background(), dir, noCacheConfig(dir), 2, nil)
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if stats.Units != 2 {
		t.Fatalf("stats.Units = %d, want 2", stats.Units)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// path order, not completion order
	if !strings.HasSuffix(results[0].Path, "a_clean"+UnitExt) {
		t.Fatalf("results[0].Path = %q, want the a_clean container", results[0].Path)
	}
	if results[0].Errors != 0 {
		t.Fatalf("clean unit reported %d errors: %v", results[0].Errors, results[0].Diagnostics)
	}
	if results[1].Errors == 0 {
		t.Fatalf("broken unit reported no errors")
	}
	found := false
	for _, d := range results[1].Diagnostics {
		if d.Code == diag.UnresolvedSymbol {
			found = true
		}
	}
	if !found {
		t.Fatalf("broken unit missing UnresolvedSymbol, got %v", results[1].Diagnostics)
	}
	if got := results[1].SemanticErrors(); len(got) != results[1].Errors {
		t.Fatalf("SemanticErrors returned %d entries for %d errors", len(got), results[1].Errors)
	}
	if got := results[0].SemanticErrors(); len(got) != 0 {
		t.Fatalf("clean unit reported semantic errors: %v", got)
	}
	if stats.Errors != results[1].Errors {
		t.Fatalf("stats.Errors = %d, want %d", stats.Errors, results[1].Errors)
	}
	if stats.CacheHits != 0 {
		t.Fatalf("stats.CacheHits = %d on a cacheless run", stats.CacheHits)
	}
	if stats.Symbols == 0 || stats.Types == 0 {
		t.Fatalf("stats did not aggregate session sizes: %+v", stats)
	}
}

func TestSecondRunHitsCache(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a_clean", "let x = 1\n", cleanUnit)
	writeUnit(t, dir, "b_broken", "let y = nope\n", brokenUnit)

	cfg := project.Default(dir)
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")

	_, first, _, err := AnalyzeDir(context.Background(), dir, cfg, 1, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	for _, r := range first {
		if r.FromCache {
			t.Fatalf("%s came from an empty cache", r.Path)
		}
	}

	_, second, stats, err := AnalyzeDir(context.Background(), dir, cfg, 1, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.CacheHits != 2 {
		t.Fatalf("stats.CacheHits = %d, want 2", stats.CacheHits)
	}
	for i, r := range second {
		if !r.FromCache {
			t.Fatalf("%s missed the cache on the second run", r.Path)
		}
		if r.Errors != first[i].Errors {
			t.Fatalf("%s: cached errors %d, fresh %d", r.Path, r.Errors, first[i].Errors)
		}
		if len(r.Diagnostics) != len(first[i].Diagnostics) {
			t.Fatalf("%s: cached %d diagnostics, fresh %d", r.Path, len(r.Diagnostics), len(first[i].Diagnostics))
		}
		for j, d := range r.Diagnostics {
			fresh := first[i].Diagnostics[j]
			if d.Message != fresh.Message || d.Code != fresh.Code || d.Severity != fresh.Severity {
				t.Fatalf("%s: cached diagnostic %d diverged: %+v vs %+v", r.Path, j, d, fresh)
			}
			if d.Primary.File != r.Unit.File {
				t.Fatalf("%s: cached span not rebound to the current file", r.Path)
			}
		}
	}
}

func TestFingerprintChangeMissesCache(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a_clean", "let x = 1\n", cleanUnit)

	cfg := project.Default(dir)
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")
	if _, _, _, err := AnalyzeDir(context.Background(), dir, cfg, 1, nil); err != nil {
		t.Fatalf("warm run: %v", err)
	}

	cfg.Profile = profile.Sovereign
	_, results, stats, err := AnalyzeDir(context.Background(), dir, cfg, 1, nil)
	if err != nil {
		t.Fatalf("sovereign run: %v", err)
	}
	if stats.CacheHits != 0 {
		t.Fatalf("profile switch served %d stale cache hits", stats.CacheHits)
	}
	if results[0].FromCache {
		t.Fatalf("result replayed despite a changed fingerprint")
	}
}

func TestProgressCallbackPerUnit(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a_clean", "let x = 1\n", cleanUnit)
	writeUnit(t, dir, "b_broken", "let y = nope\n", brokenUnit)
	writeUnit(t, dir, "c_clean", "let z = 2\n", func(s *testkit.Synth) *ast.Unit {
		return s.Unit(s.Let("z", ast.NoNodeID, s.Int(2)))
	})

	var dones []int
	onProgress := func(done, total int, res *UnitResult) {
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		if res == nil || res.Path == "" {
			t.Errorf("progress callback without a result")
		}
		dones = append(dones, done)
	}
	// jobs=1 keeps callbacks on one goroutine and in order
	if _, _, _, err := AnalyzeDir(context.Background(), dir, noCacheConfig(dir), 1, onProgress); err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if len(dones) != 3 {
		t.Fatalf("got %d progress callbacks, want 3", len(dones))
	}
	for i, d := range dones {
		if d != i+1 {
			t.Fatalf("done values %v, want 1..3", dones)
		}
	}
}

func TestAnalyzeAllEmptyInput(t *testing.T) {
	a := NewAnalyzer(noCacheConfig(t.TempDir()), source.NewFileSet(), source.NewInterner(), nil)
	results, stats, err := a.AnalyzeAll(context.Background(), nil, 4, nil)
	if err != nil {
		t.Fatalf("AnalyzeAll: %v", err)
	}
	if len(results) != 0 || stats.Units != 0 {
		t.Fatalf("empty input produced results: %d units", stats.Units)
	}
}

func TestSemanticInfoAtFindsDeclaration(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "hover", "let counter = 1\n", func(s *testkit.Synth) *ast.Unit {
		return s.Unit(s.Let("counter", ast.NoNodeID, s.Int(1)))
	})

	fs, names, units, err := LoadUnits(dir)
	if err != nil {
		t.Fatalf("LoadUnits: %v", err)
	}
	a := NewAnalyzer(noCacheConfig(dir), fs, names, nil)
	res, err := a.AnalyzeUnit(units[0])
	if err != nil {
		t.Fatalf("AnalyzeUnit: %v", err)
	}
	if res.Session() == nil {
		t.Fatalf("fresh result has no session")
	}

	// the let statement's span starts at the beginning of the synthetic file
	info, ok := res.SemanticInfoAt(names, 0)
	if !ok {
		t.Fatalf("no semantic info at the declaration")
	}
	if info.Name != "counter" {
		t.Fatalf("info.Name = %q, want counter", info.Name)
	}
	if info.Kind != symbols.SymbolVar {
		t.Fatalf("info.Kind = %v, want a variable", info.Kind)
	}
	if info.Type != "i32" {
		t.Fatalf("info.Type = %q, want i32", info.Type)
	}

	// the name token itself sits past the initializer token in the synthetic
	// layout; both offsets must resolve to the same declaration
	atName, ok := res.SemanticInfoAt(names, 2)
	if !ok || atName != info {
		t.Fatalf("name-token lookup diverged: %+v vs %+v", atName, info)
	}

	byPos, ok := res.SemanticInfoAtPosition(names, fs, source.LineCol{Line: 1, Col: 1})
	if !ok || byPos != info {
		t.Fatalf("line/col lookup diverged: %+v vs %+v", byPos, info)
	}

	if _, ok := res.SemanticInfoAt(names, 10_000); ok {
		t.Fatalf("semantic info reported past the end of the unit")
	}
}

func TestCacheStatAndDrop(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	cache, err := OpenDiskCache(cacheDir)
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	key := Key([32]byte{1, 2, 3}, "profile=core;npu=false;max=0")
	payload := DiskPayload{Schema: diskCacheSchemaVersion, Errors: 1}
	if err := cache.Put(key, &payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got DiskPayload
	hit, err := cache.Get(key, &got)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if got.Errors != 1 {
		t.Fatalf("got.Errors = %d, want 1", got.Errors)
	}

	count, size, err := cache.Stat()
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if count != 1 || size == 0 {
		t.Fatalf("Stat = (%d, %d), want one nonempty entry", count, size)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	hit, err = cache.Get(key, &got)
	if err != nil {
		t.Fatalf("Get after drop: %v", err)
	}
	if hit {
		t.Fatalf("entry survived DropAll")
	}
}

func TestNilCacheIsInert(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(project.Digest{}, &DiskPayload{}); err != nil {
		t.Fatalf("nil Put: %v", err)
	}
	hit, err := cache.Get(project.Digest{}, &DiskPayload{})
	if err != nil || hit {
		t.Fatalf("nil Get: hit=%v err=%v", hit, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("nil DropAll: %v", err)
	}
}
