package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closeFunc func() error
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockKafkaWriter) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func (m *mockKafkaWriter) Stats() kafka.WriterStats { return kafka.WriterStats{} }

func newTestProducer(mockWriter WriterInterface) *Producer {
	return &Producer{
		writer: mockWriter,
		config: ProducerConfig{
			Brokers:         []string{"localhost:9092"},
			MaxMessageBytes: 1024 * 1024,
		},
		logger:  newMockLogger(),
		metrics: &ProducerMetrics{},
	}
}

func registeredEventMessage(idcode string) *ProducerMessage {
	return &ProducerMessage{
		Topic: TopicMoleculeRegistered,
		Key:   []byte(idcode),
		Value: []byte(`{"idcode":"` + idcode + `"}`),
	}
}

func TestValidateProducerConfig(t *testing.T) {
	valid := ProducerConfig{Brokers: []string{"localhost:9092"}}
	assert.NoError(t, ValidateProducerConfig(valid))

	assert.Error(t, ValidateProducerConfig(ProducerConfig{}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{
		Brokers:    []string{"localhost:9092"},
		MaxRetries: -1,
	}))
}

func TestPublish_Success(t *testing.T) {
	var captured []kafka.Message
	p := newTestProducer(&mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			captured = msgs
			return nil
		},
	})

	require.NoError(t, p.Publish(context.Background(), registeredEventMessage("abc")))

	require.Len(t, captured, 1)
	assert.Equal(t, TopicMoleculeRegistered, captured[0].Topic)
	assert.Equal(t, "abc", string(captured[0].Key))
	assert.Equal(t, int64(1), p.metrics.MessagesSent.Load())
}

func TestPublish_RejectsInvalidMessages(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	ctx := context.Background()

	assert.Error(t, p.Publish(ctx, &ProducerMessage{Value: []byte("v")}), "missing topic")
	assert.Error(t, p.Publish(ctx, &ProducerMessage{Topic: "t"}), "missing value")

	p.config.MaxMessageBytes = 4
	assert.Error(t, p.Publish(ctx, &ProducerMessage{Topic: "t", Value: []byte("too large")}))
}

func TestPublish_WriteFailureCountsAsFailed(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return errors.New("write failed")
		},
	})

	err := p.Publish(context.Background(), registeredEventMessage("abc"))
	assert.Error(t, err)
	assert.Equal(t, int64(1), p.metrics.MessagesFailed.Load())
}

func TestPublish_AfterCloseFailsFast(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	require.NoError(t, p.Close())

	err := p.Publish(context.Background(), registeredEventMessage("abc"))
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestPublishBatch_PartialFailure(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			errs := make(kafka.WriteErrors, len(msgs))
			errs[1] = errors.New("fail")
			return errs
		},
	})

	res, err := p.PublishBatch(context.Background(), []*ProducerMessage{
		registeredEventMessage("a"),
		registeredEventMessage("b"),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
}

func TestPublishAsync_InvokesErrorHandler(t *testing.T) {
	handled := make(chan error, 1)
	p := newTestProducer(&mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return errors.New("broker down")
		},
	})
	p.config.AsyncErrorHandler = func(err error, msg *ProducerMessage) {
		handled <- err
	}

	p.PublishAsync(context.Background(), registeredEventMessage("abc"))

	select {
	case err := <-handled:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for async error handler")
	}
}

func TestPublishAsync_Success(t *testing.T) {
	done := make(chan struct{})
	p := newTestProducer(&mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			close(done)
			return nil
		},
	})

	p.PublishAsync(context.Background(), registeredEventMessage("abc"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for async publish")
	}
}

func TestProducer_GetMetricsSnapshot(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	require.NoError(t, p.Publish(context.Background(), registeredEventMessage("abc")))

	stats := p.GetMetrics()
	assert.Equal(t, int64(1), stats.MessagesSent)
	assert.Equal(t, int64(0), stats.MessagesFailed)
	assert.False(t, stats.LastSentAt.IsZero())
}

func TestProducer_CloseIsIdempotent(t *testing.T) {
	closes := 0
	p := newTestProducer(&mockKafkaWriter{
		closeFunc: func() error {
			closes++
			return nil
		},
	})

	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
	assert.Equal(t, 1, closes)
}
