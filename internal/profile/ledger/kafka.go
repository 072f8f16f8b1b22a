package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"bizledger/internal/profile/models"
	"bizledger/pkg/requestcontext"
)

// Producer is the subset of *kgo.Client the feed needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaFeed publishes one record per committed transition, keyed by profile
// id so a profile's history is totally ordered within its partition.
type KafkaFeed struct {
	producer Producer
	topic    string
}

func NewKafkaFeed(producer Producer, topic string) *KafkaFeed {
	return &KafkaFeed{producer: producer, topic: topic}
}

// Record publishes st.
func (f *KafkaFeed) Record(ctx context.Context, st models.SignedTransition) error {
	entry := NewEntry(st, requestcontext.Now(ctx))
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	var key []byte
	if len(st.Transition.Outputs) > 0 {
		key = []byte(st.Transition.Outputs[0].ID.String())
	}
	record := &kgo.Record{
		Topic: f.topic,
		Key:   key,
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "kind", Value: []byte(st.Transition.Kind)},
			{Key: "tx_id", Value: []byte(st.TxID)},
		},
	}
	if err := f.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce ledger entry: %w", err)
	}
	return nil
}
