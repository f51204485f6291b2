package cmd

import (
	"fmt"
	"os"

	"github.com/mattco98/gcverify/cache"
	"github.com/mattco98/gcverify/config"
	"github.com/mattco98/gcverify/constants/lipgloss"
	"github.com/spf13/cobra"
)

// RootDependencies holds the common dependencies constructed once per
// invocation and shared by the subcommands.
type RootDependencies struct {
	Config *config.Config
	Cwd    string
	Cache  *cache.Manager
}

var rootCmd = &cobra.Command{
	Use:   "gcverify",
	Short: "Run the GC-safety verifier across the engine's source tree.",
	Long: `gcverify drives the Clang-based garbage-collection safety verifier over
the engine's headers and sources. It builds the verifier, discovers the
files to check, and fans the analysis out over a bounded pool of worker
processes, streaming each file's diagnostics as they complete.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

func init() {
	config.InitFlags(rootCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

// handleRootCommand loads configuration and builds the shared
// dependencies. Returns nil after printing a diagnostic on failure.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	cfg := config.LoadConfigs(cmd.Root(), cwd)

	deps := &RootDependencies{
		Config: cfg,
		Cwd:    cwd,
	}

	if cfg.EnableCache {
		manager, err := cache.NewManager("")
		if err != nil {
			// Caching is an optimization; a broken cache never blocks a run.
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: result cache disabled: %v", err)))
		} else {
			deps.Cache = manager
		}
	}

	return deps
}
