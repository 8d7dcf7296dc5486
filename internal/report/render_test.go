package report

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = `<h1>QA Report {sprint}</h1>
<table>
<tr><th>ID</th><th>Assignee</th><th>Suite</th></tr>
<tr><td>{id}</td><td>{assigned_to}</td><td><a href="{test_plan_link}">link</a></td></tr>
</table>`

func TestRender_SingleRow(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": 42, "assigned_to": "Alice", "test_plan_link": "https://x/y"},
	}

	out, err := Render(testTemplate, "Sprint 12", rows)
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>QA Report Sprint 12</h1>")
	assert.Contains(t, out, "<td>42</td>")
	assert.Contains(t, out, "<td>Alice</td>")
	assert.Contains(t, out, `href="https://x/y"`)
	// Header row survives untouched.
	assert.Contains(t, out, "<tr><th>ID</th><th>Assignee</th><th>Suite</th></tr>")
	// The placeholder row itself is gone.
	assert.NotContains(t, out, "{id}")
}

func TestRender_MultipleRowsStampTheTemplate(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": 1, "assigned_to": "Alice", "test_plan_link": "https://x/1"},
		{"id": 2, "assigned_to": "Bob", "test_plan_link": "https://x/2"},
	}

	out, err := Render(testTemplate, "Sprint 12", rows)
	require.NoError(t, err)
	assert.Contains(t, out, "<td>1</td>")
	assert.Contains(t, out, "<td>2</td>")
	assert.Contains(t, out, "<td>Bob</td>")
}

func TestRender_ZeroRows(t *testing.T) {
	out, err := Render(testTemplate, "Sprint 12", nil)
	require.NoError(t, err)

	assert.Contains(t, out, "<td>No work items found</td>")
	// The dead link attribute is removed entirely.
	assert.NotContains(t, out, "href=")
	assert.Contains(t, out, "<a>link</a>")
}

func TestRender_LinkPlaceholderAsTextGetsSentinel(t *testing.T) {
	// The link placeholder appears both inside the href and as element text.
	template := `<table>
<tr><td>{id}</td><td><a href="{test_plan_link}">{test_plan_link}</a></td></tr>
</table>`

	t.Run("zero rows", func(t *testing.T) {
		out, err := Render(template, "Sprint 12", nil)
		require.NoError(t, err)
		assert.NotContains(t, out, "href=")
		assert.NotContains(t, out, "{test_plan_link}")
		assert.Contains(t, out, "<a>No work items found</a>")
	})

	t.Run("row without a link", func(t *testing.T) {
		rows := []map[string]interface{}{
			{"id": 7, "test_plan_link": ""},
		}

		out, err := Render(template, "Sprint 12", rows)
		require.NoError(t, err)
		assert.Contains(t, out, "<td>7</td>")
		assert.NotContains(t, out, "href=")
		assert.Contains(t, out, "<a>N/A</a>")
	})

	t.Run("row with a link keeps both occurrences", func(t *testing.T) {
		rows := []map[string]interface{}{
			{"id": 7, "test_plan_link": "https://x/7"},
		}

		out, err := Render(template, "Sprint 12", rows)
		require.NoError(t, err)
		assert.Contains(t, out, `<a href="https://x/7">https://x/7</a>`)
	})
}

func TestRender_MissingLinkSuppressesHref(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": 7, "assigned_to": "Carol", "test_plan_link": ""},
	}

	out, err := Render(testTemplate, "Sprint 12", rows)
	require.NoError(t, err)
	assert.Contains(t, out, "<td>7</td>")
	assert.NotContains(t, out, "href=")
}

func TestRender_EscapesValues(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": 1, "assigned_to": `O'Brien <QA> & "Co"`, "test_plan_link": "https://x/1"},
	}

	out, err := Render(testTemplate, "R&D Sprint", rows)
	require.NoError(t, err)
	assert.Contains(t, out, "O&#39;Brien &lt;QA&gt; &amp; &quot;Co&quot;")
	assert.Contains(t, out, "QA Report R&amp;D Sprint")
}

func TestRender_TemplateErrors(t *testing.T) {
	t.Run("no table row at all", func(t *testing.T) {
		_, err := Render("<p>{sprint}</p>", "Sprint 12", nil)
		assert.Error(t, err)
	})

	t.Run("no row with placeholders", func(t *testing.T) {
		_, err := Render("<table><tr><td>static</td></tr></table>", "Sprint 12", nil)
		assert.Error(t, err)
	})
}

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, "N/A"},
		{"empty string", "   ", "N/A"},
		{"string trimmed", "  Alice  ", "Alice"},
		{"int", 42, "42"},
		{"float", 3.5, "3.5"},
		{"integral float", float64(7), "7"},
		{"NaN", math.NaN(), "N/A"},
		{"zero time", time.Time{}, "N/A"},
		{"time", time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC), "2026-08-16T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayValue(tt.in))
		})
	}
}
