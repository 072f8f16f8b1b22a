package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"bizledger/internal/profile/models"
	id "bizledger/pkg/domain"
	"bizledger/pkg/requestcontext"
)

type recordingProducer struct {
	records []*kgo.Record
	err     error
}

func (p *recordingProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	var results kgo.ProduceResults
	for _, r := range rs {
		p.records = append(p.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

func committedUpdate() models.SignedTransition {
	owner := models.Party{ID: id.NewPartyID(), Name: "alice", OwningKey: "alice-key"}
	prev := models.Profile{ID: id.NewProfileID(), Owner: owner, Version: 1, Ref: models.Ref{TxID: "tx-1"}}
	next := prev
	next.Version = 2
	tr := models.NewUpdate(prev, next)
	txID := tr.Seal()
	return models.SignedTransition{
		TxID:       txID,
		Transition: tr,
		Signatures: []models.Signature{{Party: owner.ID, Key: owner.OwningKey, Token: "sig"}},
	}
}

func TestKafkaFeed_Record(t *testing.T) {
	committedAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), committedAt)
	st := committedUpdate()

	t.Run("publishes entry keyed by profile", func(t *testing.T) {
		producer := &recordingProducer{}
		feed := NewKafkaFeed(producer, "profile.transitions")

		require.NoError(t, feed.Record(ctx, st))
		require.Len(t, producer.records, 1)

		rec := producer.records[0]
		assert.Equal(t, "profile.transitions", rec.Topic)
		assert.Equal(t, st.Transition.Outputs[0].ID.String(), string(rec.Key))

		var entry Entry
		require.NoError(t, json.Unmarshal(rec.Value, &entry))
		assert.Equal(t, st.TxID, entry.TxID)
		assert.Equal(t, models.KindUpdate, entry.Kind)
		assert.Equal(t, []models.Ref{{TxID: "tx-1"}}, entry.Consumes)
		assert.True(t, committedAt.Equal(entry.CommittedAt))
		require.Len(t, entry.Signatures, 1)
		assert.Equal(t, "sig", entry.Signatures[0].Token)
	})

	t.Run("producer failure is returned", func(t *testing.T) {
		feed := NewKafkaFeed(&recordingProducer{err: errors.New("not leader")}, "profile.transitions")
		require.Error(t, feed.Record(ctx, st))
	})
}

func TestInMemoryFeed_History(t *testing.T) {
	feed := NewInMemoryFeed()
	st := committedUpdate()
	other := committedUpdate()

	require.NoError(t, feed.Record(context.Background(), st))
	require.NoError(t, feed.Record(context.Background(), other))

	history := feed.History(st.Transition.Outputs[0].ID)
	require.Len(t, history, 1)
	assert.Equal(t, st.TxID, history[0].TxID)
	assert.Equal(t, 2, feed.Len())
}
