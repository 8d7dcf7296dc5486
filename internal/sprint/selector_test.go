package sprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func testWindows() []Window {
	return []Window{
		{Start: day(1), Finish: day(7), Name: "Sprint 11", Path: `WebShop\Release 3\Sprint 11`, ID: "a1"},
		{Start: day(8), Finish: day(14), Name: "Sprint 12", Path: `WebShop\Release 3\Sprint 12`, ID: "a2"},
		{Start: day(15), Finish: day(21), Name: "Sprint 13", Path: `WebShop\Release 3\Sprint 13`, ID: "a3"},
	}
}

func TestSelect_EmptyWindows(t *testing.T) {
	sel, err := Select(nil, day(10), "")
	require.NoError(t, err)
	assert.Empty(t, sel.Windows)
	assert.Empty(t, sel.Label)

	sel, err = Select(nil, day(10), " Sprint 12 ")
	require.NoError(t, err)
	assert.Empty(t, sel.Windows)
	assert.Equal(t, "Sprint 12", sel.Label)
}

func TestSelect_NoQuery(t *testing.T) {
	t.Run("prefers the window containing now", func(t *testing.T) {
		sel, err := Select(testWindows(), day(10), "")
		require.NoError(t, err)
		require.Len(t, sel.Windows, 1)
		assert.Equal(t, "Sprint 12", sel.Windows[0].Name)
		assert.Equal(t, "Sprint 12", sel.Label)
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		sel, err := Select(testWindows(), day(8), "")
		require.NoError(t, err)
		assert.Equal(t, "Sprint 12", sel.Label)

		sel, err = Select(testWindows(), day(14), "")
		require.NoError(t, err)
		assert.Equal(t, "Sprint 12", sel.Label)
	})

	t.Run("falls back to the latest window", func(t *testing.T) {
		sel, err := Select(testWindows(), day(30), "")
		require.NoError(t, err)
		require.Len(t, sel.Windows, 1)
		assert.Equal(t, "Sprint 13", sel.Windows[0].Name)
	})
}

func TestSelect_Query(t *testing.T) {
	t.Run("exact name match ignores case and whitespace", func(t *testing.T) {
		sel, err := Select(testWindows(), day(10), "  sprint 11  ")
		require.NoError(t, err)
		require.Len(t, sel.Windows, 1)
		assert.Equal(t, "Sprint 11", sel.Windows[0].Name)
	})

	t.Run("matches a path segment", func(t *testing.T) {
		// "Release 3" is a segment of every path; the first window wins.
		sel, err := Select(testWindows(), day(10), "release 3")
		require.NoError(t, err)
		assert.Equal(t, "Sprint 11", sel.Label)
	})

	t.Run("matches by id", func(t *testing.T) {
		sel, err := Select(testWindows(), day(10), "A3")
		require.NoError(t, err)
		assert.Equal(t, "Sprint 13", sel.Label)
	})

	t.Run("exact match wins over substring", func(t *testing.T) {
		windows := []Window{
			{Name: "Sprint 1 extended", Start: day(1), Finish: day(7)},
			{Name: "Sprint 1", Start: day(8), Finish: day(14)},
		}
		sel, err := Select(windows, day(10), "sprint 1")
		require.NoError(t, err)
		assert.Equal(t, "Sprint 1", sel.Label)
	})

	t.Run("substring match as fallback", func(t *testing.T) {
		sel, err := Select(testWindows(), day(10), "13")
		require.NoError(t, err)
		assert.Equal(t, "Sprint 13", sel.Label)
	})

	t.Run("no match names the query", func(t *testing.T) {
		_, err := Select(testWindows(), day(10), "Sprint 99")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Sprint 99")
		assert.Contains(t, err.Error(), "no matching iteration")
	})
}
