package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolCanon/internal/application/registry"
	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
	"github.com/turtacn/MolCanon/pkg/types/common"
)

func TestRegistryFlow_RegisterAndLookup(t *testing.T) {
	env := setupEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entry, created, err := env.Service.Register(ctx, ethanol())
	require.NoError(t, err)
	require.NotEmpty(t, entry.IDCode)
	assert.True(t, created)
	assert.Equal(t, "ethanol", entry.Name)
	assert.Equal(t, 3, entry.AtomCount)
	assert.Equal(t, 2, entry.BondCount)

	got, err := env.Service.Lookup(ctx, entry.IDCode)
	require.NoError(t, err)
	assert.Equal(t, entry.IDCode, got.IDCode)
	assert.Equal(t, entry.ID, got.ID)
}

func TestRegistryFlow_RegisterIsIdempotent(t *testing.T) {
	env := setupEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	first, created, err := env.Service.Register(ctx, ethanol())
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := env.Service.Register(ctx, ethanol())
	require.NoError(t, err)
	assert.False(t, created, "duplicate registration must not report creation")

	assert.Equal(t, first.IDCode, second.IDCode)
	assert.Equal(t, first.ID, second.ID, "duplicate registration must return the existing entry")

	page, err := env.Service.List(ctx, common.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestRegistryFlow_LookupUnknownIDCode(t *testing.T) {
	env := setupEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := env.Service.Lookup(ctx, "deNoSuchCode")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestRegistryFlow_LookupServedFromCacheAfterDBDelete(t *testing.T) {
	env := setupEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entry, _, err := env.Service.Register(ctx, ethanol())
	require.NoError(t, err)

	// Warm the cache.
	_, err = env.Service.Lookup(ctx, entry.IDCode)
	require.NoError(t, err)

	// Remove the row behind the service's back.  A subsequent lookup still
	// succeeds because the cached copy has not expired.
	require.NoError(t, env.Repo.DeleteByIDCode(ctx, entry.IDCode))

	got, err := env.Service.Lookup(ctx, entry.IDCode)
	require.NoError(t, err)
	assert.Equal(t, entry.IDCode, got.IDCode)

	// After an explicit cache eviction the miss falls through to postgres.
	require.NoError(t, env.Cache.Delete(ctx, registry.EntryCacheKey(entry.IDCode)))
	_, err = env.Service.Lookup(ctx, entry.IDCode)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestRegistryFlow_StereoMoleculeRoundTrip(t *testing.T) {
	env := setupEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entry, _, err := env.Service.Register(ctx, chiralMethane())
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Stereo.StereoCenterCount)

	mol, err := env.Service.Decode(ctx, entry.IDCode, entry.Coordinates)
	require.NoError(t, err)
	assert.Len(t, mol.Atoms, 4)
	assert.Len(t, mol.Bonds, 3)

	// Re-canonicalizing the decoded molecule must reproduce the identifier.
	res, err := env.Service.Canonicalize(ctx, mol)
	require.NoError(t, err)
	assert.Equal(t, entry.IDCode, res.IDCode)
}

func TestRegistryFlow_ListPagination(t *testing.T) {
	env := setupEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Register five structurally distinct alkanes (chains of increasing length).
	for n := 2; n <= 6; n++ {
		mol := &chem.MoleculeDTO{Name: fmt.Sprintf("alkane-%d", n)}
		for i := 0; i < n; i++ {
			mol.Atoms = append(mol.Atoms, chem.AtomDTO{
				AtomicNo: 6,
				Coord:    chem.Coord{X: float64(i) * 1.5},
			})
		}
		for i := 0; i < n-1; i++ {
			mol.Bonds = append(mol.Bonds, chem.BondDTO{Atom1: i, Atom2: i + 1, Order: 1})
		}
		_, _, err := env.Service.Register(ctx, mol)
		require.NoError(t, err)
	}

	page1, err := env.Service.List(ctx, common.Pagination{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page1.Total)
	assert.Len(t, page1.Items, 2)
	assert.Equal(t, 3, page1.TotalPages)

	page3, err := env.Service.List(ctx, common.Pagination{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)

	// Pages must not overlap.
	seen := map[string]bool{}
	for _, p := range []*common.PageResponse[*chem.RegistryEntryDTO]{page1, page3} {
		for _, e := range p.Items {
			assert.False(t, seen[e.IDCode], "idcode %s returned twice", e.IDCode)
			seen[e.IDCode] = true
		}
	}
}

func TestRegistryFlow_ValidationRejectsBeforePersisting(t *testing.T) {
	env := setupEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// An AND group member without a known configuration is ill-formed.
	mol := ethanol()
	mol.Atoms[0].ESR = chem.ESR{Type: chem.ESRTypeAnd}

	verdict, err := env.Service.Validate(ctx, mol)
	require.NoError(t, err)
	require.False(t, verdict.Valid)
	assert.Equal(t, 0, verdict.Atom)

	_, _, err = env.Service.Register(ctx, mol)
	require.Error(t, err)

	page, err := env.Service.List(ctx, common.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total, "rejected molecule must not be persisted")
}
