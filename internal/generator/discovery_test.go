package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for module discovery:
// - Glob patterns pick up matching files recursively, root level included
// - Ignore patterns drop files and prune whole directories at any depth
// - The state directory is never discovered
// - Results come back sorted
// - Matches agrees with the walk for individual relative paths

func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("pass\n"), 0644))
	}
}

func TestDiscoverModules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"app.py",
		"pkg/util.py",
		"pkg/deep/extra.py",
		"pkg/readme.md",
		"__pycache__/app.cpython-312.py",
		"pkg/__pycache__/util.cpython-312.py",
		".venv/lib/site.py",
		".helpgen/exclusions.json",
	)

	discovery, err := NewModuleDiscovery(root, ".helpgen",
		[]string{"**/*.py"},
		[]string{"**/__pycache__/**", "**/.venv/**"})
	require.NoError(t, err)

	modules, err := discovery.DiscoverModules()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "app.py"),
		filepath.Join(root, "pkg", "deep", "extra.py"),
		filepath.Join(root, "pkg", "util.py"),
	}, modules)
}

func TestDiscoverModules_IgnoredDirectoriesPruned(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "keep.py", "build/generated.py", "src/build/nested.py")

	discovery, err := NewModuleDiscovery(root, ".helpgen",
		[]string{"**/*.py"}, []string{"**/build/**"})
	require.NoError(t, err)

	modules, err := discovery.DiscoverModules()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "keep.py")}, modules)
}

func TestMatches(t *testing.T) {
	t.Parallel()

	discovery, err := NewModuleDiscovery(".", ".helpgen",
		[]string{"**/*.py"}, []string{"tests/**"})
	require.NoError(t, err)

	assert.True(t, discovery.Matches("app.py"))
	assert.True(t, discovery.Matches("pkg/util.py"))
	assert.False(t, discovery.Matches("pkg/readme.md"))
	assert.False(t, discovery.Matches("tests/test_app.py"))
	assert.False(t, discovery.Matches(".helpgen/exclusions.json"))
}

func TestNewModuleDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewModuleDiscovery(".", ".helpgen", []string{"[bad"}, nil)
	require.Error(t, err)
}
