package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"janus/internal/diag"
	"janus/internal/diagfmt"
	"janus/internal/driver"
	"janus/internal/profile"
	"janus/internal/project"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [directory]",
	Short: "Analyze unit containers in a directory",
	Long:  `Analyze runs semantic analysis over the *.jnu unit containers in a directory and reports diagnostics`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	analyzeCmd.Flags().String("profile", "", "override the capability profile (core|service|cluster|compute|sovereign)")
	analyzeCmd.Flags().Bool("npu", false, "override the NPU gate")
	analyzeCmd.Flags().Bool("no-cache", false, "skip the on-disk result cache")
	analyzeCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	analyzeCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
	analyzeCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	analyzeCmd.Flags().Bool("suggest", true, "include fix suggestions in output")
	analyzeCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	mode, err := readUIMode(cmd.Flag("ui").Value.String())
	if err != nil {
		return err
	}
	colorValue, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	colorOn, err := useColor(colorValue)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	cfg, err := project.LoadFrom(dir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("profile") {
		name, _ := cmd.Flags().GetString("profile")
		p, ok := profile.Parse(name)
		if !ok {
			return fmt.Errorf("unknown profile %q (expected one of %v)", name, profile.Names())
		}
		cfg.Profile = p
	}
	if cmd.Flags().Changed("npu") {
		cfg.NPU, _ = cmd.Flags().GetBool("npu")
	}
	if cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		cfg.MaxDiagnostics, _ = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	}
	if noCache {
		cfg.CacheDir = ""
	}

	fs, names, units, err := driver.LoadUnits(dir)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		_, _ = fmt.Fprintf(os.Stdout, "no %s containers found in %s\n", driver.UnitExt, dir)
		return nil
	}
	cache, err := driver.OpenDiskCache(cfg.CacheDir)
	if err != nil {
		return err
	}
	analyzer := driver.NewAnalyzer(cfg, fs, names, cache)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var results []*driver.UnitResult
	var stats driver.Statistics
	if format == "pretty" && shouldUseTUI(mode) {
		results, stats, err = runAnalyzeWithUI(ctx, analyzer, units, jobs)
	} else {
		results, stats, err = analyzer.AnalyzeAll(ctx, units, jobs, nil)
	}
	if err != nil {
		return err
	}

	all := make([]diag.Diagnostic, 0, 16)
	for _, r := range results {
		if r != nil {
			all = append(all, r.Diagnostics...)
		}
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "json":
		err = diagfmt.JSON(os.Stdout, all, fs, diagfmt.JSONOpts{
			IncludePositions:   true,
			PathMode:           pathMode,
			Max:                cfg.MaxDiagnostics,
			IncludeNotes:       withNotes,
			IncludeSuggestions: suggest,
		})
		if err != nil {
			return err
		}
	default:
		diagfmt.Pretty(os.Stdout, all, fs, diagfmt.PrettyOpts{
			Color:           colorOn,
			PathMode:        pathMode,
			ShowNotes:       withNotes,
			ShowSuggestions: suggest,
			ShowSource:      true,
		})
		_, _ = fmt.Fprintf(os.Stdout, "%d unit(s), %d error(s), %d cache hit(s) in %.1fms\n",
			stats.Units, stats.Errors, stats.CacheHits, stats.ElapsedMS)
	}

	if showTimings {
		_, _ = fmt.Fprint(os.Stderr, analyzer.Timer().Summary())
	}

	if stats.Errors > 0 {
		os.Exit(1)
	}
	return nil
}
