package toolchain

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// execCommandContext is swapped out in tests to avoid spawning real tools.
var execCommandContext = exec.CommandContext

// Build runs the build tool against the given build directory. The build
// produces the verifier executable and the compile database consumed by
// the rest of the run. Build output is passed through untouched; a
// non-zero exit aborts the whole run.
func Build(ctx context.Context, buildDir string, stdout, stderr io.Writer) error {
	cmd := execCommandContext(ctx, "cmake", "--build", buildDir)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("toolchain: build of %s failed: %w", buildDir, err)
	}

	return nil
}
