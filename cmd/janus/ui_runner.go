package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"janus/internal/driver"
	"janus/internal/ui"
)

type analyzeOutcome struct {
	results []*driver.UnitResult
	stats   driver.Statistics
	err     error
}

// runAnalyzeWithUI runs the analysis behind a live progress display. Unit
// completions stream into the model over a channel that closes when the run
// is done.
func runAnalyzeWithUI(ctx context.Context, a *driver.Analyzer, units []driver.LoadedUnit, jobs int) ([]*driver.UnitResult, driver.Statistics, error) {
	paths := make([]string, 0, len(units))
	for _, u := range units {
		paths = append(paths, u.Path)
	}
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		results, stats, err := a.AnalyzeAll(ctx, units, jobs, func(done, total int, res *driver.UnitResult) {
			events <- ui.Event{Path: res.Path, Errors: res.Errors, Cached: res.FromCache}
		})
		outcomeCh <- analyzeOutcome{results: results, stats: stats, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("analyzing units", paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, outcome.stats, uiErr
	}
	return outcome.results, outcome.stats, outcome.err
}
