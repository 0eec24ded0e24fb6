// Package repositories contains the PostgreSQL implementations of the
// application layer's persistence ports.
package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
	"github.com/turtacn/MolCanon/pkg/types/common"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// queryExecutor is the slice of sql.DB the repository uses; sql.Tx satisfies
// it too, so the same methods work inside transactions.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

const registryColumns = `id, name, idcode, coordinates, atom_count, bond_count,
       stereo_center_count, stereo_bond_count, chirality, chiral_text,
       created_at, updated_at, version`

// ─────────────────────────────────────────────────────────────────────────────
// RegistryRepository
// ─────────────────────────────────────────────────────────────────────────────

// RegistryRepository is the PostgreSQL implementation of the registry's
// Repository port.  Entries are keyed by their canonical identifier, enforced
// with a unique index so that concurrent registrations of the same structure
// surface as ErrCodeMoleculeAlreadyExists.
type RegistryRepository struct {
	db     queryExecutor
	logger logging.Logger
}

// NewRegistryRepository constructs a ready-to-use RegistryRepository.
func NewRegistryRepository(db queryExecutor, logger logging.Logger) *RegistryRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RegistryRepository{db: db, logger: logger.Named("registry_repo")}
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert
// ─────────────────────────────────────────────────────────────────────────────

// Insert persists a new registry entry.  Audit timestamps and the initial
// version are populated on the passed entry so callers see the stored values.
func (r *RegistryRepository) Insert(ctx context.Context, entry *chem.RegistryEntryDTO) error {
	r.logger.Debug("RegistryRepository.Insert", logging.String("idcode", entry.IDCode))

	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.Version == 0 {
		entry.Version = 1
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO registry_entries (
			id, name, idcode, coordinates, atom_count, bond_count,
			stereo_center_count, stereo_bond_count, chirality, chiral_text,
			created_at, updated_at, version
		) VALUES (
			$1,$2,$3,$4,$5,$6,
			$7,$8,$9,$10,
			$11,$12,$13
		)`,
		entry.ID, entry.Name, entry.IDCode, entry.Coordinates, entry.AtomCount, entry.BondCount,
		entry.Stereo.StereoCenterCount, entry.Stereo.StereoBondCount, int(entry.Stereo.Chirality), entry.Stereo.ChiralText,
		entry.CreatedAt, entry.UpdatedAt, entry.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return appErrors.Wrap(err, appErrors.ErrCodeMoleculeAlreadyExists,
				fmt.Sprintf("identifier %q is already registered", entry.IDCode))
		}
		r.logger.Error("RegistryRepository.Insert", logging.Err(err))
		return appErrors.Wrap(err, appErrors.ErrCodeRegistryWriteFailed, "failed to insert registry entry")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FindByIDCode
// ─────────────────────────────────────────────────────────────────────────────

// FindByIDCode looks up an entry by its canonical identifier.  Returns
// CodeNotFound when no entry exists.
func (r *RegistryRepository) FindByIDCode(ctx context.Context, idcode string) (*chem.RegistryEntryDTO, error) {
	r.logger.Debug("RegistryRepository.FindByIDCode", logging.String("idcode", idcode))

	row := r.db.QueryRowContext(ctx, `
		SELECT `+registryColumns+`
		FROM registry_entries WHERE idcode = $1`, idcode)

	entry, err := scanRegistryEntry(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New(appErrors.CodeNotFound,
				fmt.Sprintf("no registry entry for identifier %q", idcode))
		}
		r.logger.Error("RegistryRepository.FindByIDCode", logging.Err(err))
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to scan registry entry")
	}
	return entry, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// List
// ─────────────────────────────────────────────────────────────────────────────

// List returns one page of entries, newest first, plus the total entry count.
func (r *RegistryRepository) List(ctx context.Context, p common.Pagination) ([]*chem.RegistryEntryDTO, int64, error) {
	r.logger.Debug("RegistryRepository.List",
		logging.Int("page", p.Page), logging.Int("page_size", p.PageSize))

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registry_entries`).Scan(&total); err != nil {
		r.logger.Error("RegistryRepository.List: count", logging.Err(err))
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to count registry entries")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+registryColumns+`
		FROM registry_entries
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`, p.PageSize, p.Offset())
	if err != nil {
		r.logger.Error("RegistryRepository.List: query", logging.Err(err))
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to list registry entries")
	}
	defer rows.Close()

	var entries []*chem.RegistryEntryDTO
	for rows.Next() {
		entry, err := scanRegistryEntry(rows)
		if err != nil {
			r.logger.Error("RegistryRepository.List: scan", logging.Err(err))
			return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to scan registry entry row")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "row iteration error")
	}
	return entries, total, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteByIDCode
// ─────────────────────────────────────────────────────────────────────────────

// DeleteByIDCode removes an entry by its canonical identifier.  Returns
// CodeNotFound when no entry matched.
func (r *RegistryRepository) DeleteByIDCode(ctx context.Context, idcode string) error {
	r.logger.Debug("RegistryRepository.DeleteByIDCode", logging.String("idcode", idcode))

	res, err := r.db.ExecContext(ctx, `DELETE FROM registry_entries WHERE idcode = $1`, idcode)
	if err != nil {
		r.logger.Error("RegistryRepository.DeleteByIDCode", logging.Err(err))
		return appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to delete registry entry")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to read affected rows")
	}
	if affected == 0 {
		return appErrors.New(appErrors.CodeNotFound,
			fmt.Sprintf("no registry entry for identifier %q", idcode))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal scanner
// ─────────────────────────────────────────────────────────────────────────────

func scanRegistryEntry(row scanner) (*chem.RegistryEntryDTO, error) {
	var (
		e         chem.RegistryEntryDTO
		chirality int
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.IDCode, &e.Coordinates, &e.AtomCount, &e.BondCount,
		&e.Stereo.StereoCenterCount, &e.Stereo.StereoBondCount, &chirality, &e.Stereo.ChiralText,
		&e.CreatedAt, &e.UpdatedAt, &e.Version,
	)
	if err != nil {
		return nil, err
	}
	e.Stereo.Chirality = chem.Chirality(chirality)
	return &e, nil
}
