//go:build integration

package shortcodes

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("shortcodes_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return connStr, cleanup
}

func TestPostgres_E2E_SnippetStore(t *testing.T) {
	connStr, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store, err := NewPostgresSnippetStore(PostgresSnippetConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
	})
	require.NoError(t, err)

	snippetStoreContract(t, store)

	// Close is not idempotent
	assert.Error(t, store.Close())
}

func TestPostgres_E2E_Migrations(t *testing.T) {
	connStr, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	store, err := NewPostgresSnippetStore(PostgresSnippetConfig{ConnectionString: connStr})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RunMigrations(ctx))
	version, err := store.CurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	// Re-running is a no-op
	require.NoError(t, store.RunMigrations(ctx))
	version, err = store.CurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestPostgres_E2E_ConcurrentPut(t *testing.T) {
	connStr, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	store, err := NewPostgresSnippetStore(PostgresSnippetConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
	})
	require.NoError(t, err)
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Put(ctx, fmt.Sprintf("s%02d", i), fmt.Sprintf("body %d", i)))
		}(i)
	}
	wg.Wait()

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 20)
	assert.Equal(t, "s00", names[0])
}

func TestPostgres_E2E_SnippetShortcode(t *testing.T) {
	connStr, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	config := DefaultConfig()
	config.Snippets.Driver = SnippetDriverPostgres
	config.Snippets.DSN = connStr
	config.Snippets.AutoMigrate = true
	config.Snippets.CacheTTL = "1m"

	p, store, err := NewFromConfig(config, WithoutGlobal())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ctx, "footer", "Thanks for reading"))

	out, err := p.ParseContext(ctx, `{% upper %}{% snippet footer %}{% endupper %} / {% snippet nope default="-" %}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "THANKS FOR READING / -", out)
}
