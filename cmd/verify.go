package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattco98/gcverify/constants/lipgloss"
	"github.com/mattco98/gcverify/discovery"
	"github.com/mattco98/gcverify/runner"
	"github.com/mattco98/gcverify/toolchain"
	"github.com/mattco98/gcverify/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// verifyCmd: gcverify verify
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Build the verifier and run it over every header and source in the search roots.",
	Long: `The 'verify' subcommand runs the full pipeline: it builds the verifier and
the compile database, discovers every header and source file beneath the
configured search roots, and analyzes each file with a bounded pool of
verifier processes. Diagnostics stream to stdout as files complete; a file
with findings never aborts the rest of the batch.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			os.Exit(1)
		}

		skipBuild, _ := cmd.Flags().GetBool("skip-build")
		noFail, _ := cmd.Flags().GetBool("no-fail-on-findings")

		opts := verifyOptions{
			skipBuild:      skipBuild || rootDependencies.Config.SkipBuild,
			failOnFindings: rootDependencies.Config.FailOnFindings && !noFail,
		}

		if code := handleVerifyCommand(rootDependencies, opts); code != 0 {
			os.Exit(code)
		}
	},
}

type verifyOptions struct {
	skipBuild      bool
	failOnFindings bool
}

// Pipeline stages, swapped out in tests to observe sequencing.
var (
	buildFunc    = toolchain.Build
	discoverFunc = discovery.Discover
	dispatchFunc = func(ctx context.Context, r *runner.Runner, paths []string) (runner.Summary, error) {
		return r.Run(ctx, paths)
	}
)

func init() {
	verifyCmd.Flags().Bool("skip-build", false, "Skip the build step and analyze with the existing verifier and compile database.")
	verifyCmd.Flags().Bool("no-fail-on-findings", false, "Exit 0 even when files report findings (legacy behavior).")
	rootCmd.AddCommand(verifyCmd)
}

func handleVerifyCommand(deps *RootDependencies, opts verifyOptions) int {
	// Interrupt tears down the pool and every in-flight verifier process.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := deps.Config

	if !opts.skipBuild {
		fmt.Println(lipgloss.Info.Render("Building verifier..."))
		if err := buildFunc(ctx, cfg.BuildDir, os.Stdout, os.Stderr); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return 1
		}
	}

	layout, err := toolchain.ResolveLayout(cfg.ProjectRoot, cfg.BuildPreset)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return 1
	}

	// The compile database must exist before any discovery or dispatch.
	if err := layout.Validate(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return 1
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	spinnerDiscover, _ := spinner.Start("Discovering files...")

	go utils.GracefulShutdown(ctx, cancel, func() {
		spinnerDiscover.Stop()
	})

	paths, err := discoverFunc(layout.SourceRoot, cfg.SearchRoots, cfg.Suffixes)

	spinnerDiscover.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return 1
	}

	if ctx.Err() != nil {
		fmt.Println(lipgloss.Yellow.Render("🔄 Interrupted, exiting..."))
		return 130
	}

	fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("%d files to verify", len(paths))))

	var render func([]byte) []byte
	if cfg.Highlight {
		theme := cfg.Theme
		render = func(block []byte) []byte {
			return utils.RenderDiagnostics(block, theme)
		}
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	run := &runner.Runner{
		Analyzer: &toolchain.Verifier{
			ExePath:    cfg.VerifierPath,
			IncludeDir: layout.IncludeDir,
			Define:     cfg.Define,
			CompileDB:  layout.CompileDB,
		},
		Emitter: runner.NewEmitter(out, render),
		Jobs:    cfg.Jobs,
	}
	if deps.Cache != nil {
		run.Cache = deps.Cache
	}

	sum, err := dispatchFunc(ctx, run, paths)
	_ = out.Flush()

	if sum.Interrupted || errors.Is(err, context.Canceled) {
		fmt.Println(lipgloss.Yellow.Render("🔄 Interrupted, workers terminated..."))
		return 130
	}
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return 1
	}

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔ %d analyzed, %d skipped (cached), %d with findings", sum.Analyzed, sum.Skipped, sum.Findings)))

	if sum.Findings > 0 && opts.failOnFindings {
		return 1
	}
	return 0
}
