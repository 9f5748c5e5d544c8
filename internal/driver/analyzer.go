package driver

import (
	"fmt"

	"janus/internal/ast"
	"janus/internal/diag"
	"janus/internal/observ"
	"janus/internal/project"
	"janus/internal/sema"
	"janus/internal/source"
	"janus/internal/symbols"
)

// Analyzer runs sessions over loaded units with one shared configuration.
// The file set and interner are shared read-only; each unit gets a private
// session, so AnalyzeUnit is safe to call concurrently.
type Analyzer struct {
	cfg   project.Config
	fs    *source.FileSet
	names *source.Interner
	cache *DiskCache
	timer *observ.Timer
}

// UnitResult is the outcome of analyzing one unit.
type UnitResult struct {
	Path        string
	Unit        *ast.Unit
	Diagnostics []diag.Diagnostic
	Errors      int
	FromCache   bool

	// session is retained for queries; nil when the result came from cache.
	session *sema.Session
}

// Statistics aggregates a run for the CLI summary line.
type Statistics struct {
	Units     int
	Symbols   int
	Types     int
	Errors    int
	CacheHits int
	ElapsedMS float64
}

// NewAnalyzer wires an analyzer. cache may be nil to disable memoization.
func NewAnalyzer(cfg project.Config, fs *source.FileSet, names *source.Interner, cache *DiskCache) *Analyzer {
	return &Analyzer{
		cfg:   cfg,
		fs:    fs,
		names: names,
		cache: cache,
		timer: observ.NewTimer(),
	}
}

// Timer exposes phase timings recorded so far.
func (a *Analyzer) Timer() *observ.Timer { return a.timer }

// AnalyzeUnit analyzes one unit, consulting the cache first. Cached entries
// replay the stored diagnostics against the unit's current file ID.
func (a *Analyzer) AnalyzeUnit(lu LoadedUnit) (*UnitResult, error) {
	file := a.fs.Get(lu.Unit.File)
	if file == nil {
		return nil, fmt.Errorf("unit %d references unknown file", lu.Unit.ID)
	}
	key := Key(file.Hash, a.cfg.Fingerprint())

	var payload DiskPayload
	if hit, err := a.cache.Get(key, &payload); err == nil && hit {
		return &UnitResult{
			Path:        lu.Path,
			Unit:        lu.Unit,
			Diagnostics: decodeDiagnostics(payload.Diagnostics, lu.Unit.File),
			Errors:      payload.Errors,
			FromCache:   true,
		}, nil
	}

	sess := sema.NewSession(lu.Unit, a.names, sema.Config{
		Profile:        a.cfg.Profile,
		NPU:            a.cfg.NPU,
		MaxDiagnostics: a.cfg.MaxDiagnostics,
	})
	sess.Analyze()

	res := &UnitResult{
		Path:        lu.Path,
		Unit:        lu.Unit,
		Diagnostics: sess.TakeDiagnostics(),
		Errors:      sess.ErrorCount(),
		session:     sess,
	}
	if err := a.cache.Put(key, &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Errors:      res.Errors,
		Diagnostics: encodeDiagnostics(res.Diagnostics),
	}); err != nil {
		// the cache is an optimization; analysis already succeeded
		return res, nil
	}
	return res, nil
}

// Session returns the retained session, nil for cache hits.
func (r *UnitResult) Session() *sema.Session { return r.session }

// SemanticErrors filters the unit's diagnostics down to hard errors.
func (r *UnitResult) SemanticErrors() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, r.Errors)
	for _, d := range r.Diagnostics {
		if d.Severity >= diag.SevError {
			out = append(out, d)
		}
	}
	return out
}

// SemanticInfo is a hover answer: the symbol and type under an offset.
type SemanticInfo struct {
	Name     string
	Kind     symbols.SymbolKind
	Type     string
	DeclSpan source.Span
	Public   bool
}

// SemanticInfoAt resolves what sits at a byte offset inside the unit. Works
// only on fresh results; cache hits carry no session to query.
func (r *UnitResult) SemanticInfoAt(names *source.Interner, offset uint32) (SemanticInfo, bool) {
	if r.session == nil {
		return SemanticInfo{}, false
	}
	node := r.nodeAt(offset)
	if !node.IsValid() {
		return SemanticInfo{}, false
	}
	symID := r.session.SymbolOf(node)
	if !symID.IsValid() {
		return SemanticInfo{}, false
	}
	sym := r.session.Table().Symbols.Get(symID)
	if sym == nil {
		return SemanticInfo{}, false
	}
	name, _ := names.Lookup(sym.Name)
	return SemanticInfo{
		Name:     name,
		Kind:     sym.Kind,
		Type:     r.session.Types().Format(sym.Type, names),
		DeclSpan: sym.Span,
		Public:   sym.Flags&symbols.SymbolFlagPublic != 0,
	}, true
}

// SemanticInfoAtPosition is SemanticInfoAt addressed by 1-based line and
// column, the shape editors ask in.
func (r *UnitResult) SemanticInfoAtPosition(names *source.Interner, fs *source.FileSet, pos source.LineCol) (SemanticInfo, bool) {
	off, ok := fs.Offset(r.Unit.File, pos)
	if !ok {
		return SemanticInfo{}, false
	}
	return r.SemanticInfoAt(names, off)
}

// nodeAt finds the smallest identifier-like node whose span covers offset.
func (r *UnitResult) nodeAt(offset uint32) ast.NodeID {
	best := ast.NoNodeID
	bestLen := uint32(0)
	for i := 1; i <= r.Unit.NumNodes(); i++ {
		id := ast.NodeID(i)
		n := r.Unit.Node(id)
		if n == nil {
			continue
		}
		switch n.Kind {
		case ast.NodeIdent, ast.NodeLet, ast.NodeParam, ast.NodeFunc, ast.NodeFor:
		default:
			continue
		}
		sp := r.Unit.Span(id)
		if offset < sp.Start || offset >= sp.End {
			continue
		}
		if !best.IsValid() || sp.Len() < bestLen {
			best, bestLen = id, sp.Len()
		}
	}
	return best
}

// Collect folds unit results into run statistics.
func Collect(results []*UnitResult, elapsedMS float64) Statistics {
	st := Statistics{Units: len(results), ElapsedMS: elapsedMS}
	for _, r := range results {
		if r == nil {
			continue
		}
		st.Errors += r.Errors
		if r.FromCache {
			st.CacheHits++
			continue
		}
		if r.session != nil {
			st.Symbols += r.session.Table().Symbols.Len()
			st.Types += r.session.Types().Len()
		}
	}
	return st
}
