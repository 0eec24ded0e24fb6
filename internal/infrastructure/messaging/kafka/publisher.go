package kafka

import (
	"context"

	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// RegistryPublisher emits registry lifecycle events.  It satisfies the
// application layer's EventPublisher port.
type RegistryPublisher struct {
	producer *Producer
	source   string
}

// NewRegistryPublisher wraps a Producer for registry eventing.  source names
// the emitting service in the event envelope.
func NewRegistryPublisher(producer *Producer, source string) *RegistryPublisher {
	if source == "" {
		source = "molcanon"
	}
	return &RegistryPublisher{producer: producer, source: source}
}

// PublishRegistered emits a molecule.registered event for a new entry.
func (p *RegistryPublisher) PublishRegistered(ctx context.Context, entry *chem.RegistryEntryDTO) error {
	env, err := NewEventEnvelope(TopicMoleculeRegistered, p.source, MoleculeRegisteredPayload{
		EntryID:      string(entry.ID),
		IDCode:       entry.IDCode,
		Name:         entry.Name,
		AtomCount:    entry.AtomCount,
		BondCount:    entry.BondCount,
		Chirality:    entry.Stereo.ChiralText,
		RegisteredAt: entry.CreatedAt,
	})
	if err != nil {
		return err
	}

	msg, err := env.ToMessage(TopicMoleculeRegistered)
	if err != nil {
		return err
	}
	// Key by identifier so events for one structure stay ordered.
	msg.Key = []byte(entry.IDCode)
	return p.producer.Publish(ctx, msg)
}
