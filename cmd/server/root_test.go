package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KirkDiggler/barcrew/internal/handlers/api"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "alice", "--role", api.RoleAdmin})

	require.NoError(t, cmd.Execute())

	var claims api.Claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(out.String()), &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, api.RoleAdmin, claims.Role)
}

func TestTokenCommandNeedsSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"token", "alice"})

	assert.Error(t, cmd.Execute())
}

func TestCommandTree(t *testing.T) {
	cmd := newRootCommand()

	for _, path := range [][]string{
		{"serve"},
		{"sweep", "reminders"},
		{"sweep", "challenges"},
		{"purge", "feed"},
		{"purge", "messages"},
		{"reset", "checkins"},
		{"token"},
		{"drink", "add"},
		{"drink", "remove"},
		{"drink", "sync"},
	} {
		found, _, err := cmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}
