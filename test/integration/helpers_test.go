// Integration tests run the registry flow against real PostgreSQL and Redis
// instances started through testcontainers.  They are skipped unless
// MOLCANON_INTEGRATION_TEST is set, so the regular unit test run stays fast
// and docker-free.
package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/MolCanon/internal/application/registry"
	"github.com/turtacn/MolCanon/internal/infrastructure/database/postgres"
	"github.com/turtacn/MolCanon/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/MolCanon/internal/infrastructure/database/redis"
	"github.com/turtacn/MolCanon/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

const (
	envIntegrationEnabled = "MOLCANON_INTEGRATION_TEST"

	setupTimeout  = 120 * time.Second
	migrationsDir = "../../migrations"
)

func skipIfNoIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv(envIntegrationEnabled) == "" {
		t.Skipf("skipping integration test: set %s=1 to enable", envIntegrationEnabled)
	}
}

// testEnv holds the container-backed service stack for one test.
type testEnv struct {
	Service registry.Service
	Repo    *repositories.RegistryRepository
	Cache   redis.Cache
	Conn    *postgres.Connection
}

// setupEnv starts postgres and redis containers, runs migrations, and wires a
// registry service against them.  Containers and connections are torn down
// through t.Cleanup.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	skipIfNoIntegration(t)

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	t.Cleanup(cancel)

	logger := logging.NewNopLogger()

	conn := startPostgres(t, ctx, logger)
	require.NoError(t, conn.RunMigrations(migrationsDir))

	cache := startRedis(t, ctx, logger)

	repo := repositories.NewRegistryRepository(conn.DB(), logger)
	svc := registry.NewService(repo, cache, nil, logger, nil)

	return &testEnv{Service: svc, Repo: repo, Cache: cache, Conn: conn}
}

func startPostgres(t *testing.T, ctx context.Context, logger logging.Logger) *postgres.Connection {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "molcanon",
				"POSTGRES_PASSWORD": "molcanon",
				"POSTGRES_DB":       "molcanon_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	conn, err := postgres.NewConnection(postgres.PostgresConfig{
		Host:     host,
		Port:     port.Int(),
		Database: "molcanon_test",
		Username: "molcanon",
		Password: "molcanon",
		SSLMode:  "disable",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func startRedis(t *testing.T, ctx context.Context, logger logging.Logger) redis.Cache {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client, err := redis.NewClient(&redis.RedisConfig{
		Addr: fmt.Sprintf("%s:%d", host, port.Int()),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewRedisCache(client, logger, redis.WithPrefix("it"))
}

// ethanol is an achiral three-atom test molecule.
func ethanol() *chem.MoleculeDTO {
	return &chem.MoleculeDTO{
		Name: "ethanol",
		Atoms: []chem.AtomDTO{
			{AtomicNo: 6},
			{AtomicNo: 6, Coord: chem.Coord{X: 1.5}},
			{AtomicNo: 8, Coord: chem.Coord{X: 3.0}},
		},
		Bonds: []chem.BondDTO{
			{Atom1: 0, Atom2: 1, Order: 1},
			{Atom1: 1, Atom2: 2, Order: 1},
		},
	}
}

// bromochlorofluoromethane carries one stereo center, drawn with a wedge.
func chiralMethane() *chem.MoleculeDTO {
	return &chem.MoleculeDTO{
		Name: "bromochlorofluoromethane",
		Atoms: []chem.AtomDTO{
			{AtomicNo: 6},
			{AtomicNo: 9, Coord: chem.Coord{X: -1, Y: 0.5}},
			{AtomicNo: 17, Coord: chem.Coord{X: 1, Y: 0.5}},
			{AtomicNo: 35, Coord: chem.Coord{X: 0, Y: -1}},
		},
		Bonds: []chem.BondDTO{
			{Atom1: 0, Atom2: 1, Order: 1, Stereo: chem.StereoUp},
			{Atom1: 0, Atom2: 2, Order: 1},
			{Atom1: 0, Atom2: 3, Order: 1},
		},
	}
}
