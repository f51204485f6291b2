package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMissingCompileDB indicates that the compile database the verifier
// needs has not been generated yet. Running a build produces it.
var ErrMissingCompileDB = errors.New("compile database not found")

// Layout holds the resolved filesystem locations the verifier depends on.
// It is computed once per run and treated as read-only afterwards.
type Layout struct {
	// ProjectRoot is the absolute path of the engine checkout.
	ProjectRoot string
	// SourceRoot is the directory the search roots are relative to.
	SourceRoot string
	// IncludeDir is the sysroot include directory passed to the verifier.
	IncludeDir string
	// CompileDB is the compile_commands.json consumed by the verifier.
	CompileDB string
}

// ResolveLayout derives all toolchain locations from the project root and
// the build preset. The relative offsets mirror the engine's build layout.
func ResolveLayout(projectRoot, preset string) (*Layout, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("toolchain: failed to resolve project root %q: %w", projectRoot, err)
	}

	buildRoot := filepath.Join(root, "Build", preset)

	return &Layout{
		ProjectRoot: root,
		SourceRoot:  filepath.Join(root, "Userland"),
		IncludeDir:  filepath.Join(buildRoot, "Root", "usr", "include"),
		CompileDB:   filepath.Join(buildRoot, "compile_commands.json"),
	}, nil
}

// Validate checks that the compile database exists. It must be called
// before discovery and dispatch so a missing build artifact fails the run
// up front instead of once per file.
func (l *Layout) Validate() error {
	if _, err := os.Stat(l.CompileDB); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingCompileDB, l.CompileDB)
		}
		return fmt.Errorf("toolchain: failed to stat %s: %w", l.CompileDB, err)
	}
	return nil
}
