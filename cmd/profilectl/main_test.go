package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "bizledger/internal/jwt_token"
	"bizledger/internal/profile/signer"
	id "bizledger/pkg/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestKeygen(t *testing.T) {
	line, err := execute(t, "keygen", "alice")
	require.NoError(t, err)

	keys := signer.NewKeyring()
	require.NoError(t, keys.LoadSeeds([]string{line}))

	parts := strings.SplitN(line, ":", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "alice", parts[1])
}

func TestToken(t *testing.T) {
	t.Setenv("PROFILES_JWT_SIGNING_KEY", "cli-test-key")
	partyID := id.NewPartyID()

	token, err := execute(t, "token", partyID.String(), "--name", "alice", "--ttl", "5m")
	require.NoError(t, err)

	claims, err := jwttoken.NewJWTService("cli-test-key", "bizledger", "bizledger-api").ValidateToken(token)
	require.NoError(t, err)
	got, err := claims.PartyID()
	require.NoError(t, err)
	assert.Equal(t, partyID, got)
}

func TestToken_RejectsBadPartyID(t *testing.T) {
	_, err := execute(t, "token", "not-a-uuid")
	require.Error(t, err)
}
