package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyles(t *testing.T) {
	// Styles may or may not emit ANSI depending on the test terminal; the
	// text content must survive either way.
	assert.Contains(t, Title("QA Report"), "QA Report")
	assert.Contains(t, Success("published"), "published")
	assert.Contains(t, Info("nothing to report"), "nothing to report")
	assert.Contains(t, Warn("ignoring argument"), "ignoring argument")

	kv := KV("Rows", 7)
	assert.Contains(t, kv, "Rows")
	assert.Contains(t, kv, "7")
}
