package stringutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"illegal chars stripped and whitespace collapsed", "Sprint 12 / QA!", "sprint-12-qa!"},
		{"lowercased", "SPRINT 42", "sprint-42"},
		{"all illegal falls back", `\/:*?"<>|`, "report"},
		{"empty falls back", "", "report"},
		{"whitespace only falls back", "   ", "report"},
		{"tabs and newlines collapse", "Sprint\t12\nQA", "sprint-12-qa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "sprint 12", NormalizeKey("  Sprint 12  "))
	assert.Equal(t, "", NormalizeKey("   "))
}
