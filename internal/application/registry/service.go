package registry

import (
	"context"
	"time"

	"github.com/turtacn/MolCanon/internal/domain/molecule"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
	"github.com/turtacn/MolCanon/pkg/types/common"
)

// cacheTTL bounds how long a registry entry may be served from cache.
const cacheTTL = 15 * time.Minute

// Service exposes the registry use cases to the interface layer.
type Service interface {
	// Canonicalize computes the canonical identifier, coordinate encoding,
	// ranks, and stereo summary of a molecule without persisting anything.
	Canonicalize(ctx context.Context, dto *chem.MoleculeDTO) (*chem.CanonicalResult, error)

	// Validate reports the first ill-formed stereo specification, if any.
	Validate(ctx context.Context, dto *chem.MoleculeDTO) (*chem.ValidationVerdict, error)

	// Register canonicalizes, validates, and persists a molecule.  A molecule
	// whose identifier is already registered returns the existing entry; the
	// second result reports whether this call created the entry.
	Register(ctx context.Context, dto *chem.MoleculeDTO) (*chem.RegistryEntryDTO, bool, error)

	// Lookup fetches a registry entry by canonical identifier.
	Lookup(ctx context.Context, idcode string) (*chem.RegistryEntryDTO, error)

	// List pages through registered entries.
	List(ctx context.Context, p common.Pagination) (*common.PageResponse[*chem.RegistryEntryDTO], error)

	// Decode reconstructs a molecule from its identifier and optional
	// coordinate encoding.
	Decode(ctx context.Context, idcode, coordinates string) (*chem.MoleculeDTO, error)
}

type service struct {
	repo    Repository
	cache   EntryCache
	events  EventPublisher
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewService constructs the registry application service.  cache, events, and
// metrics may be nil; the service then runs without that capability.
func NewService(repo Repository, cache EntryCache, events EventPublisher, logger logging.Logger, metrics *prometheus.AppMetrics) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &service{
		repo:    repo,
		cache:   cache,
		events:  events,
		logger:  logger.Named("registry"),
		metrics: metrics,
	}
}

func (s *service) Canonicalize(ctx context.Context, dto *chem.MoleculeDTO) (*chem.CanonicalResult, error) {
	start := time.Now()
	sm, err := molecule.FromDTO(dto)
	if err != nil {
		return nil, err
	}

	res, err := sm.CanonicalResult()
	prometheus.RecordCanonicalization(s.metrics, time.Since(start), len(dto.Atoms), err)
	if err != nil {
		s.logger.Error("canonicalization failed",
			logging.Int("atoms", len(dto.Atoms)),
			logging.Err(err))
		return nil, err
	}
	return res, nil
}

func (s *service) Validate(ctx context.Context, dto *chem.MoleculeDTO) (*chem.ValidationVerdict, error) {
	sm, err := molecule.FromDTO(dto)
	if err != nil {
		return nil, err
	}
	v, err := sm.Validate()
	if err != nil {
		return nil, err
	}
	if !v.Valid {
		prometheus.RecordValidationFailure(s.metrics, v.Condition)
	}
	return v, nil
}

func (s *service) Register(ctx context.Context, dto *chem.MoleculeDTO) (*chem.RegistryEntryDTO, bool, error) {
	start := time.Now()
	sm, err := molecule.FromDTO(dto)
	if err != nil {
		return nil, false, err
	}

	v, err := sm.Validate()
	if err != nil {
		return nil, false, err
	}
	if !v.Valid {
		prometheus.RecordValidationFailure(s.metrics, v.Condition)
		return nil, false, errors.Condition(errors.ErrorCode(v.Condition)).WithDetail(v.Message)
	}

	res, err := sm.CanonicalResult()
	prometheus.RecordCanonicalization(s.metrics, time.Since(start), len(dto.Atoms), err)
	if err != nil {
		return nil, false, err
	}

	// Registration is idempotent over the canonical identifier.
	if existing, err := s.repo.FindByIDCode(ctx, res.IDCode); err == nil {
		s.logger.Info("molecule already registered",
			logging.String("idcode", res.IDCode),
			logging.String("id", string(existing.ID)))
		prometheus.RecordRegistration(s.metrics, "duplicate")
		return existing, false, nil
	} else if !errors.IsNotFound(err) {
		return nil, false, errors.Wrap(err, errors.CodeDatabaseError, "registry lookup failed")
	}

	entry := &chem.RegistryEntryDTO{
		BaseEntity:  common.BaseEntity{ID: common.NewID()},
		Name:        dto.Name,
		IDCode:      res.IDCode,
		Coordinates: res.Coordinates,
		AtomCount:   len(dto.Atoms),
		BondCount:   len(dto.Bonds),
		Stereo:      res.Stereo,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		if errors.IsCode(err, errors.ErrCodeMoleculeAlreadyExists) {
			// Lost the race against a concurrent registration of the same
			// structure; the stored entry wins.
			existing, err := s.repo.FindByIDCode(ctx, res.IDCode)
			if err != nil {
				return nil, false, err
			}
			prometheus.RecordRegistration(s.metrics, "duplicate")
			return existing, false, nil
		}
		return nil, false, errors.Wrap(err, errors.ErrCodeRegistryWriteFailed, "failed to write registry entry")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, EntryCacheKey(entry.IDCode), entry, cacheTTL); err != nil {
			s.logger.Warn("failed to cache registry entry", logging.Err(err))
		}
	}

	if s.events != nil {
		err := s.events.PublishRegistered(ctx, entry)
		prometheus.RecordRegistryEvent(s.metrics, "molecule.registered", err)
		if err != nil {
			// The entry is persisted; the event is best-effort.
			s.logger.Error("failed to publish registration event",
				logging.String("idcode", entry.IDCode),
				logging.Err(err))
		}
	}

	prometheus.RecordRegistration(s.metrics, "created")
	s.logger.Info("molecule registered",
		logging.String("idcode", entry.IDCode),
		logging.Int("atoms", entry.AtomCount),
		logging.String("chirality", entry.Stereo.ChiralText))
	return entry, true, nil
}

func (s *service) Lookup(ctx context.Context, idcode string) (*chem.RegistryEntryDTO, error) {
	if idcode == "" {
		return nil, errors.InvalidParam("idcode is required")
	}

	if s.cache != nil {
		var cached chem.RegistryEntryDTO
		if err := s.cache.Get(ctx, EntryCacheKey(idcode), &cached); err == nil {
			prometheus.RecordCacheAccess(s.metrics, "registry", true)
			return &cached, nil
		}
		prometheus.RecordCacheAccess(s.metrics, "registry", false)
	}

	entry, err := s.repo.FindByIDCode(ctx, idcode)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, EntryCacheKey(idcode), entry, cacheTTL); err != nil {
			s.logger.Warn("failed to cache registry entry", logging.Err(err))
		}
	}
	return entry, nil
}

func (s *service) List(ctx context.Context, p common.Pagination) (*common.PageResponse[*chem.RegistryEntryDTO], error) {
	if err := p.Validate(); err != nil {
		return nil, errors.InvalidParam(err.Error())
	}

	entries, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "registry listing failed")
	}

	pages := 0
	if p.PageSize > 0 {
		pages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return &common.PageResponse[*chem.RegistryEntryDTO]{
		Items:      entries,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: pages,
	}, nil
}

func (s *service) Decode(ctx context.Context, idcode, coordinates string) (*chem.MoleculeDTO, error) {
	sm, err := molecule.FromIDCode(idcode, coordinates)
	if err != nil {
		return nil, err
	}
	return sm.ToDTO(), nil
}

func EntryCacheKey(idcode string) string {
	return "entry:" + idcode
}
