package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"janus/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "janus",
	Short: "Janus semantic analyzer",
	Long:  `Janus type-checks serialized unit containers: inference, profile compliance and flow analysis`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show per-phase timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "cap diagnostics kept per unit (0=unlimited)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
