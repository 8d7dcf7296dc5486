package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureCmd_IsRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "configure" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestConfigureQuestions(t *testing.T) {
	questions := configureQuestions()
	require.Len(t, questions, 10)

	names := map[string]bool{}
	required := 0
	for _, q := range questions {
		names[q.Name] = true
		if q.Validate != nil {
			required++
		}
	}

	for _, want := range []string{"org_url", "project", "team", "pat", "base_url", "page_id", "email", "api_token"} {
		assert.True(t, names[want], "missing question %q", want)
	}
	// Space key and parent page id stay optional.
	assert.Equal(t, 8, required)
}
