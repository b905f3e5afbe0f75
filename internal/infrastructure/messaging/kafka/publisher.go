package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/restobook/restaurant-api/internal/core/domain"
	"github.com/restobook/restaurant-api/internal/core/ports"
)

// Envelope is the JSON body of every published message. Realtime gateways
// route on entity and action.
type Envelope struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata"`
	Data       any               `json:"data"`
}

func envelope(e domain.ReservationEvent) Envelope {
	meta := map[string]string{
		"occurredAt": e.OccurredAt.UTC().Format(time.RFC3339),
	}
	if e.RestaurantID != "" {
		meta["restaurantId"] = e.RestaurantID
	}
	if e.Status != "" {
		meta["status"] = string(e.Status)
	}
	return Envelope{
		Entity:     e.Entity,
		Action:     e.Action,
		ResourceID: e.ResourceID,
		Topic:      e.Topic(),
		Metadata:   meta,
		Data:       e.Data,
	}
}

// Publisher writes reservation events to one topic per entity,
// "<prefix>.<entity>", keyed by resource id so a reservation's events keep
// their order within a partition.
type Publisher struct {
	writer *kafka.Writer
	prefix string
}

var _ ports.EventPublisher = (*Publisher)(nil)

func NewPublisher(brokers []string, prefix string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		prefix: strings.TrimSuffix(prefix, "."),
	}
}

func (p *Publisher) topic(entity string) string {
	if p.prefix == "" {
		return entity
	}
	return p.prefix + "." + entity
}

func (p *Publisher) Publish(ctx context.Context, e domain.ReservationEvent) error {
	body, err := json.Marshal(envelope(e))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic(e.Entity),
		Key:   []byte(e.ResourceID),
		Value: body,
		Time:  e.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", e.Topic(), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// LogPublisher only logs events. It stands in when no brokers are configured.
type LogPublisher struct {
	log zerolog.Logger
}

var _ ports.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e domain.ReservationEvent) error {
	p.log.Info().
		Str("topic", e.Topic()).
		Str("resource_id", e.ResourceID).
		Str("restaurant_id", e.RestaurantID).
		Str("status", string(e.Status)).
		Msg("reservation event")
	return nil
}
