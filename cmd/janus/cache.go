package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"janus/internal/driver"
	"janus/internal/project"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the analysis result cache",
}

var cacheStatCmd = &cobra.Command{
	Use:   "stat [directory]",
	Short: "Show cache entry count and size",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheStat,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [directory]",
	Short: "Drop every cached analysis result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openProjectCache(args []string) (*driver.DiskCache, string, error) {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	cfg, err := project.LoadFrom(dir)
	if err != nil {
		return nil, "", err
	}
	if cfg.CacheDir == "" {
		return nil, "", nil
	}
	cache, err := driver.OpenDiskCache(cfg.CacheDir)
	if err != nil {
		return nil, "", err
	}
	return cache, cfg.CacheDir, nil
}

func runCacheStat(_ *cobra.Command, args []string) error {
	cache, dir, err := openProjectCache(args)
	if err != nil {
		return err
	}
	if cache == nil {
		_, _ = fmt.Fprintln(os.Stdout, "cache is disabled for this project")
		return nil
	}
	entries, size, err := cache.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat cache %q: %w", dir, err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "%s: %d entr%s, %s\n", dir, entries, pluralY(entries), formatBytes(size))
	return nil
}

func runCacheClear(_ *cobra.Command, args []string) error {
	cache, dir, err := openProjectCache(args)
	if err != nil {
		return err
	}
	if cache == nil {
		_, _ = fmt.Fprintln(os.Stdout, "cache is disabled for this project")
		return nil
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear cache %q: %w", dir, err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "cleared %s\n", dir)
	return nil
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
