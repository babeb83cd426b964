package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/utils/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_APIKey(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, false, true, "", time.Hour))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	key := strings.TrimPrefix(lines[0], "API key (send as X-API-Key): ")
	hash := strings.TrimPrefix(lines[1], "API_KEY_HASH=")
	assert.Len(t, key, 2*apiKeyBytes)
	assert.True(t, credentials.CheckAPIKey(key, hash))
}

func TestRun_Token(t *testing.T) {
	t.Setenv("JWT_SECRET", "credentials-cli-secret")
	t.Setenv("DATA_BACKEND", "memory")

	var out bytes.Buffer
	require.NoError(t, run(&out, true, false, "user-1", time.Hour))

	subject, err := credentials.ParseToken(strings.TrimSpace(out.String()), "credentials-cli-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(&out, false, false, "", time.Hour))
	assert.Error(t, run(&out, true, true, "u", time.Hour))

	t.Setenv("DATA_BACKEND", "memory")
	assert.ErrorIs(t, run(&out, true, false, "", time.Hour), credentials.ErrEmptySubject)
	assert.Error(t, run(&out, true, false, "u", 0))
	assert.Empty(t, out.String())
}
