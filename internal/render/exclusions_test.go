package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for exclusion sets:
// - Exact names match only themselves
// - Glob entries match by pattern
// - Empty entries are ignored
// - Invalid patterns fail compilation
// - A nil set excludes nothing

func TestExclusionSet_ExactNames(t *testing.T) {
	t.Parallel()

	set, err := NewExclusionSet([]string{"_Hidden", "legacy_entry"})
	require.NoError(t, err)

	assert.True(t, set.Excluded("_Hidden"))
	assert.True(t, set.Excluded("legacy_entry"))
	assert.False(t, set.Excluded("Hidden"))
	assert.False(t, set.Excluded("legacy"))
}

func TestExclusionSet_Globs(t *testing.T) {
	t.Parallel()

	set, err := NewExclusionSet([]string{"_*", "test_?"})
	require.NoError(t, err)

	assert.True(t, set.Excluded("_internal"))
	assert.True(t, set.Excluded("test_a"))
	assert.False(t, set.Excluded("public"))
	assert.False(t, set.Excluded("test_many"))
}

func TestExclusionSet_EmptyEntriesIgnored(t *testing.T) {
	t.Parallel()

	set, err := NewExclusionSet([]string{"", "keep"})
	require.NoError(t, err)

	assert.True(t, set.Excluded("keep"))
	assert.False(t, set.Excluded(""))
}

func TestExclusionSet_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewExclusionSet([]string{"[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclusion pattern")
}

func TestExclusionSet_NilExcludesNothing(t *testing.T) {
	t.Parallel()

	var set *ExclusionSet
	assert.False(t, set.Excluded("anything"))
}
