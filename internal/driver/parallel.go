package driver

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"janus/internal/project"
	"janus/internal/source"
)

// Progress receives one callback per finished unit. Callbacks may arrive
// from multiple goroutines.
type Progress func(done, total int, res *UnitResult)

// AnalyzeAll runs every unit through its own session with bounded
// parallelism. Result order matches the input order regardless of
// completion order.
func (a *Analyzer) AnalyzeAll(ctx context.Context, units []LoadedUnit, jobs int, onProgress Progress) ([]*UnitResult, Statistics, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if len(units) == 0 {
		return nil, Statistics{}, nil
	}
	start := time.Now()
	phase := a.timer.Begin("analyze")

	// indexes are unique per goroutine, no mutex needed
	results := make([]*UnitResult, len(units))
	var finished atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))
	for i, lu := range units {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := a.AnalyzeUnit(lu)
			if err != nil {
				return err
			}
			results[i] = res
			if onProgress != nil {
				onProgress(int(finished.Add(1)), len(units), res)
			}
			return nil
		})
	}
	err := g.Wait()
	a.timer.End(phase, "")
	stats := Collect(results, float64(time.Since(start))/float64(time.Millisecond))
	if err != nil {
		return results, stats, err
	}
	return results, stats, nil
}

// AnalyzeDir loads every unit container under dir and analyzes them.
func AnalyzeDir(ctx context.Context, dir string, cfg project.Config, jobs int, onProgress Progress) (*source.FileSet, []*UnitResult, Statistics, error) {
	fs, names, units, err := LoadUnits(dir)
	if err != nil {
		return nil, nil, Statistics{}, err
	}
	cache, err := OpenDiskCache(cfg.CacheDir)
	if err != nil {
		return fs, nil, Statistics{}, err
	}
	a := NewAnalyzer(cfg, fs, names, cache)
	results, stats, err := a.AnalyzeAll(ctx, units, jobs, onProgress)
	return fs, results, stats, err
}
