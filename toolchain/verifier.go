package toolchain

import (
	"context"
	"errors"
	"os/exec"
)

// Verifier runs the prebuilt GC-safety analysis executable against single
// source files. All fields are read-only shared inputs, safe for
// concurrent use from multiple workers.
type Verifier struct {
	// ExePath is the analysis executable, relative to the working directory.
	ExePath string
	// IncludeDir is forwarded to the underlying compiler via --extra-arg.
	IncludeDir string
	// Define is a macro defined (=1) so headers preprocess cleanly outside
	// a full build.
	Define string
	// CompileDB reconstructs the original compiler invocation per file.
	CompileDB string
}

// Result is the outcome of verifying one file. Capture is decoupled from
// emission: the caller decides how and when Output reaches the user.
type Result struct {
	// Path of the analyzed file.
	Path string
	// Output is the verifier's combined stdout and stderr, verbatim.
	Output []byte
	// ExitCode of the verifier process. Non-zero means the file had
	// findings; it never aborts the batch.
	ExitCode int
	// Err is set when the process could not be run at all (missing
	// executable, cancelled context). Exit-status failures are reported
	// through ExitCode instead.
	Err error
}

// Args builds the command-line arguments for analyzing one file.
func (v *Verifier) Args(path string) []string {
	return []string{
		"--extra-arg", "-I" + v.IncludeDir,
		"--extra-arg", "-D" + v.Define + "=1",
		"-p", v.CompileDB,
		path,
	}
}

// Run executes the verifier for one file and blocks until it finishes,
// returning its combined output and exit status. Cancelling the context
// kills the child process.
func (v *Verifier) Run(ctx context.Context, path string) Result {
	cmd := execCommandContext(ctx, v.ExePath, v.Args(path)...)

	out, err := cmd.CombinedOutput()
	res := Result{Path: path, Output: out}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.Err = err
		}
	}

	return res
}

// Clean reports whether the invocation completed without findings.
func (r Result) Clean() bool {
	return r.ExitCode == 0 && r.Err == nil
}
