package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testID(path ...string) TestID {
	return TestID{Path: path}
}

func TestRegexFilters(t *testing.T) {
	var filters RegexFilters
	assert.True(t, filters.AsFilter(testID("anything")))

	require.NoError(t, filters.MustMatch.Set("^spy/"))
	require.NoError(t, filters.MustMatch.Set("^stub/"))
	require.NoError(t, filters.MustNotMatch.Set("async"))

	assert.True(t, filters.AsFilter(testID("spy", "called once")))
	assert.True(t, filters.AsFilter(testID("stub", "callback")))
	assert.False(t, filters.AsFilter(testID("stub2", "async")))
	assert.False(t, filters.AsFilter(testID("mock", "spy + stub")))
	assert.Equal(t, `"^spy/" or "^stub/"`, filters.MustMatch.String())
	assert.Equal(t, []string{"^spy/", "^stub/"}, filters.MustMatch.Patterns())
}

func TestRegexListRejectsBadPattern(t *testing.T) {
	var list RegexList
	err := list.Set("(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid test path pattern "("`)
	assert.Empty(t, list)
}

func TestRegexFiltersSkipWinsOverRun(t *testing.T) {
	var filters RegexFilters
	assert.False(t, filters.IsDefined())
	require.NoError(t, filters.MustMatch.Set("^b/"))
	require.NoError(t, filters.MustNotMatch.Set("b2$"))

	assert.True(t, filters.IsDefined())
	assert.True(t, filters.AsFilter(testID("b", "b = nil")))
	assert.False(t, filters.AsFilter(testID("b", "b2")))
	assert.False(t, filters.AsFilter(testID("a", "a")))
}

func TestPrintFilterDescription(t *testing.T) {
	var buf bytes.Buffer
	PrintFilterDescription(&buf, RegexFilters{})
	assert.Empty(t, buf.String())

	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("retries"))
	PrintFilterDescription(&buf, filters)
	assert.Contains(t, buf.String(), `skip any matching "retries"`)
	assert.NotContains(t, buf.String(), "skip any not matching")
}

func TestTestIDPlusDoesNotAlias(t *testing.T) {
	base := TestID{Path: make([]string, 1, 10)}
	base.Path[0] = "root"
	a := base.Plus("a")
	b := base.Plus("b")

	assert.Equal(t, "root/a", a.String())
	assert.Equal(t, "root/b", b.String())
	assert.Equal(t, base, base.Plus(""))
	assert.Equal(t, "b", b.Name())
	assert.Equal(t, "", TestID{}.Name())
}
