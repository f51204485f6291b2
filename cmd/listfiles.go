package cmd

import (
	"fmt"
	"os"

	"github.com/mattco98/gcverify/constants/lipgloss"
	"github.com/mattco98/gcverify/discovery"
	"github.com/mattco98/gcverify/toolchain"
	"github.com/spf13/cobra"
)

// listFilesCmd: gcverify list-files
var listFilesCmd = &cobra.Command{
	Use:   "list-files",
	Short: "Print the worklist of files the verifier would analyze, without running it.",
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			os.Exit(1)
		}
		if code := handleListFilesCommand(rootDependencies); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(listFilesCmd)
}

func handleListFilesCommand(deps *RootDependencies) int {
	cfg := deps.Config

	layout, err := toolchain.ResolveLayout(cfg.ProjectRoot, cfg.BuildPreset)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return 1
	}

	paths, err := discovery.Discover(layout.SourceRoot, cfg.SearchRoots, cfg.Suffixes)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return 1
	}

	for _, path := range paths {
		fmt.Println(path)
	}
	return 0
}
