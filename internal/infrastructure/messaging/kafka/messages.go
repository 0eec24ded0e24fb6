// Package kafka wraps segmentio/kafka-go with the producer, consumer, and
// topic management used for registry eventing.
package kafka

import (
	"context"
	"time"
)

// Message is a consumed Kafka message in broker-independent form.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
	Headers   map[string]string
}

// MessageHandler processes one consumed message.  Returning an error triggers
// the consumer's retry and dead-letter handling.
type MessageHandler func(ctx context.Context, msg *Message) error

// ProducerMessage is a message to be published.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
	Partition int
}

// BatchItemError records the failure of one message within a batch.
type BatchItemError struct {
	Index int
	Topic string
	Error error
}

// BatchPublishResult summarizes a batch publish.
type BatchPublishResult struct {
	Succeeded int
	Failed    int
	Errors    []BatchItemError
}

// TopicConfig describes a topic to be created by the TopicManager.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
	CleanupPolicy     string
	MaxMessageBytes   int
	Configs           map[string]string
}
