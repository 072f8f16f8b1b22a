package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "bizledger/pkg/domain"
	audit "bizledger/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	alice := id.NewPartyID()
	bob := id.NewPartyID()

	require.NoError(t, store.Append(ctx, audit.Event{PartyID: alice, Action: string(audit.EventProfileCreated)}))
	require.NoError(t, store.Append(ctx, audit.Event{PartyID: bob, Action: string(audit.EventProfileCreated)}))
	require.NoError(t, store.Append(ctx, audit.Event{PartyID: alice, Action: string(audit.EventProfileUpdated)}))

	t.Run("list by party", func(t *testing.T) {
		events, err := store.ListByParty(ctx, alice)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, string(audit.EventProfileUpdated), events[1].Action)
	})

	t.Run("list recent keeps append order", func(t *testing.T) {
		events, err := store.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, bob, events[0].PartyID)
		assert.Equal(t, alice, events[1].PartyID)
	})

	t.Run("limit larger than history", func(t *testing.T) {
		events, err := store.ListRecent(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})

	t.Run("clear", func(t *testing.T) {
		store.Clear()
		events, err := store.ListRecent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}
