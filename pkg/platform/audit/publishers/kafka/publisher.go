// Package kafka forwards audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "bizledger/pkg/platform/audit"
)

// Producer is the subset of *kgo.Client the sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Sink implements audit.Store by producing one record per event. Records are
// keyed by profile id so a profile's history stays in one partition.
type Sink struct {
	producer Producer
	topic    string
}

// NewSink creates a Kafka audit sink writing to topic.
func NewSink(producer Producer, topic string) *Sink {
	return &Sink{producer: producer, topic: topic}
}

type payload struct {
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	PartyID   string `json:"party_id"`
	ProfileID string `json:"profile_id,omitempty"`
	Action    string `json:"action"`
	Version   int    `json:"version,omitempty"`
	TxID      string `json:"tx_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
}

// Append produces event synchronously.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	p := payload{
		Category:  string(audit.AuditEvent(event.Action).Category()),
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		PartyID:   event.PartyID.String(),
		Action:    event.Action,
		Version:   event.Version,
		TxID:      event.TxID,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ClientIP:  event.ClientIP,
	}
	key := p.PartyID
	if !event.ProfileID.IsNil() {
		p.ProfileID = event.ProfileID.String()
		key = p.ProfileID
	}

	value, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Action)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}
