package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeywordList(t *testing.T) {
	fallback := []string{"x"}

	assert.Equal(t, fallback, ParseKeywordList("", fallback))
	assert.Equal(t, fallback, ParseKeywordList("  ,  , ", fallback))
	assert.Equal(t, []string{"foo", "bar"}, ParseKeywordList("foo, BAR", fallback))
}

func TestParseKeywordList_DoesNotAliasFallback(t *testing.T) {
	fallback := []string{"x"}
	got := ParseKeywordList("", fallback)
	got[0] = "y"
	assert.Equal(t, "x", fallback[0])
}

func TestStatusClassifier_Defaults(t *testing.T) {
	c := DefaultStatusClassifier()

	assert.True(t, c.IsClosed("Closed - done"))
	assert.True(t, c.IsClosed("Resolved"))
	assert.False(t, c.IsClosed("Open"))
	assert.False(t, c.IsClosed(""))
	assert.False(t, c.IsPending(""))
}

func TestStatusClassifier_PendingCount(t *testing.T) {
	c := DefaultStatusClassifier()

	pending := 0
	for _, status := range []string{"Waiting on user reply", "In-progress", "Open"} {
		if c.IsPending(status) {
			pending++
		}
	}
	assert.Equal(t, 2, pending)
}

func TestStatusClassifier_ConfiguredOverridesDefaults(t *testing.T) {
	c := NewStatusClassifier("done", "")

	assert.True(t, c.IsClosed("Done"))
	assert.False(t, c.IsClosed("Closed"))
	assert.True(t, c.IsPending("Pending vendor"))
}

func TestStatusClassifier_RuleVariants(t *testing.T) {
	c := NewStatusClassifier("=open, re:^clos(ed|ing)$, re:([, spam", "")

	assert.True(t, c.IsClosed("Open"))
	assert.False(t, c.IsClosed("Reopened"))
	assert.True(t, c.IsClosed("Closing"))
	assert.False(t, c.IsClosed("Closed - done"))
	assert.True(t, c.IsClosed("Marked as spam"))

	// некорректное регулярное выражение пропускается
	require.Len(t, c.ClosedRules(), 3)
}

func TestNewKeywordRule(t *testing.T) {
	rule, ok := NewKeywordRule("=open")
	require.True(t, ok)
	assert.Equal(t, RuleExact, rule.Kind)
	assert.Equal(t, "open", rule.Pattern)

	rule, ok = NewKeywordRule("re:^wait")
	require.True(t, ok)
	assert.Equal(t, RuleRegex, rule.Kind)
	assert.True(t, rule.Match("waiting"))

	_, ok = NewKeywordRule("=")
	assert.False(t, ok)
}
