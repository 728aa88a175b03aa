package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const TopicProfileEvents = "profile.events"

// messageWriter is the part of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ProfileEventsWriter messageWriter
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'profile.events'; the user id key keeps one user's events ordered
	profileWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicProfileEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		ProfileEventsWriter: profileWriter,
		logger:              log,
	}, nil
}

// EncodeProfileEvent builds the wire message for e.
func EncodeProfileEvent(e profile.Event) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal profile event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(e.UserID.String()),
		Value: value,
	}, nil
}

// DecodeProfileEvent is the inverse of EncodeProfileEvent.
func DecodeProfileEvent(msg kafka.Message) (profile.Event, error) {
	var e profile.Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return profile.Event{}, fmt.Errorf("unmarshal profile event: %w", err)
	}
	return e, nil
}

func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, e profile.Event) error {
	msg, err := EncodeProfileEvent(e)
	if err != nil {
		return err
	}
	if err := c.ProfileEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", e.Type, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		if err := c.ProfileEventsWriter.Close(); err != nil {
			c.logger.Error("Failed to close Kafka profile writer", err)
		}
	}
	c.logger.Info("Closed Kafka Producers")
}
