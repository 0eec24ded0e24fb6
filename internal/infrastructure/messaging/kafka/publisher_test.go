package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolCanon/pkg/types/chem"
	"github.com/turtacn/MolCanon/pkg/types/common"
)

func TestPublishRegistered(t *testing.T) {
	var captured []kafka.Message
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			captured = msgs
			return nil
		},
	}
	pub := NewRegistryPublisher(newTestProducer(mock), "registry-test")

	entry := &chem.RegistryEntryDTO{
		BaseEntity: common.BaseEntity{ID: "id-1"},
		IDCode:     "abc",
		Name:       "test molecule",
		AtomCount:  4,
		BondCount:  3,
		Stereo:     chem.StereoSummary{ChiralText: "this enantiomer"},
	}

	err := pub.PublishRegistered(context.Background(), entry)
	require.NoError(t, err)
	require.Len(t, captured, 1)
	assert.Equal(t, TopicMoleculeRegistered, captured[0].Topic)
	assert.Equal(t, "abc", string(captured[0].Key))

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(captured[0].Value, &env))
	assert.Equal(t, TopicMoleculeRegistered, env.EventType)
	assert.Equal(t, "registry-test", env.Source)

	var payload MoleculeRegisteredPayload
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, "abc", payload.IDCode)
	assert.Equal(t, 4, payload.AtomCount)
	assert.Equal(t, "this enantiomer", payload.Chirality)
}
