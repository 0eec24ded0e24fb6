// Package registry provides the application-level service for molecule
// canonicalization and registration.  It sits between the HTTP/CLI interfaces
// and the molecule domain, adding persistence, caching, eventing, and metrics
// around the pure canonicalization core.
package registry

import (
	"context"
	"time"

	"github.com/turtacn/MolCanon/pkg/types/chem"
	"github.com/turtacn/MolCanon/pkg/types/common"
)

// Repository is the persistence contract for registry entries.  Entries are
// keyed by canonical identifier; Insert of an existing identifier returns
// errors.ErrCodeMoleculeAlreadyExists.
type Repository interface {
	Insert(ctx context.Context, entry *chem.RegistryEntryDTO) error

	// FindByIDCode returns errors.CodeNotFound when no entry matches.
	FindByIDCode(ctx context.Context, idcode string) (*chem.RegistryEntryDTO, error)

	List(ctx context.Context, p common.Pagination) ([]*chem.RegistryEntryDTO, int64, error)

	DeleteByIDCode(ctx context.Context, idcode string) error
}

// EventPublisher emits registry lifecycle events to the message bus.
// Publishing failures are logged and do not fail the originating operation.
type EventPublisher interface {
	PublishRegistered(ctx context.Context, entry *chem.RegistryEntryDTO) error
}

// EntryCache is the slice of the cache API the service needs.  The redis
// cache implementation satisfies it.
type EntryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
