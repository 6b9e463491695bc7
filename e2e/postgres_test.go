package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgOnce sync.Once
	pgDSN  string
	pgErr  error
)

// getSharedPostgresDatabase starts one PostgreSQL container for the run and
// returns its DSN. The container is terminated when the calling test ends;
// only one e2e test uses it.
func getSharedPostgresDatabase(t *testing.T) string {
	t.Helper()

	pgOnce.Do(func() {
		ctx := context.Background()

		container, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("sheetbridge"),
			pgcontainer.WithUsername("bridge"),
			pgcontainer.WithPassword("bridge"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			pgErr = err
			return
		}
		t.Cleanup(func() {
			if err := testcontainers.TerminateContainer(container); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		})

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			pgErr = err
			return
		}

		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			pgErr = err
			return
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			pgErr = err
			return
		}

		pgDSN = dsn
	})

	if pgErr != nil {
		t.Fatalf("postgres container: %v", pgErr)
	}
	return pgDSN
}
