package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("// test\n"), 0644))
}

func TestDiscover_CollectsMatchingSuffixes(t *testing.T) {
	sourceRoot := t.TempDir()

	writeFile(t, filepath.Join(sourceRoot, "LibA", "x.h"))
	writeFile(t, filepath.Join(sourceRoot, "LibA", "x.cpp"))
	writeFile(t, filepath.Join(sourceRoot, "LibA", "y.txt"))
	writeFile(t, filepath.Join(sourceRoot, "LibA", "nested", "deep", "z.h"))
	require.NoError(t, os.MkdirAll(filepath.Join(sourceRoot, "LibB"), 0755))

	paths, err := Discover(sourceRoot, []string{"LibA", "LibB"}, []string{".h", ".cpp"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(sourceRoot, "LibA", "x.h"),
		filepath.Join(sourceRoot, "LibA", "x.cpp"),
		filepath.Join(sourceRoot, "LibA", "nested", "deep", "z.h"),
	}, paths)
}

func TestDiscover_MissingRootContributesNothing(t *testing.T) {
	sourceRoot := t.TempDir()

	writeFile(t, filepath.Join(sourceRoot, "LibA", "a.cpp"))

	paths, err := Discover(sourceRoot, []string{"DoesNotExist", "LibA"}, []string{".h", ".cpp"})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(sourceRoot, "LibA", "a.cpp")}, paths)
}

func TestDiscover_UnreadableRootContributesNothing(t *testing.T) {
	sourceRoot := t.TempDir()

	// LibX is a file, so stat on LibX/sub fails with ENOTDIR rather than
	// not-exist; the root must still be skipped without failing the run.
	writeFile(t, filepath.Join(sourceRoot, "LibX"))
	writeFile(t, filepath.Join(sourceRoot, "LibA", "a.cpp"))

	paths, err := Discover(sourceRoot, []string{"LibX/sub", "LibA"}, []string{".h", ".cpp"})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(sourceRoot, "LibA", "a.cpp")}, paths)
}

func TestDiscover_EmptyRootsReturnEmptyWorklist(t *testing.T) {
	sourceRoot := t.TempDir()

	paths, err := Discover(sourceRoot, []string{"LibA", "LibB"}, []string{".h", ".cpp"})
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDiscover_SuffixMatchesFileNameEndOnly(t *testing.T) {
	sourceRoot := t.TempDir()

	writeFile(t, filepath.Join(sourceRoot, "LibA", "notes.cpp.txt"))
	writeFile(t, filepath.Join(sourceRoot, "LibA", "README"))
	writeFile(t, filepath.Join(sourceRoot, "LibA", "Cell.h"))

	paths, err := Discover(sourceRoot, []string{"LibA"}, []string{".h", ".cpp"})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(sourceRoot, "LibA", "Cell.h")}, paths)
}
