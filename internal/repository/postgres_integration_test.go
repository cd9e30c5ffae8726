//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/spec-kit/org-services/internal/domain"
	"github.com/spec-kit/org-services/internal/persistence"
	"github.com/spec-kit/org-services/internal/repository"
)

// setupPostgres starts a disposable Postgres and applies every migration set.
func setupPostgres(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	for _, set := range []string{persistence.MigrationsDepartment, persistence.MigrationsEmployee, persistence.MigrationsInventory} {
		require.NoError(t, persistence.RunMigrations(ctx, pool, set, zap.NewNop()))
		// Re-running must be harmless.
		require.NoError(t, persistence.RunMigrations(ctx, pool, set, zap.NewNop()))
	}
	return pool
}

func TestPostgresRepositories(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	t.Run("departments", func(t *testing.T) {
		repo := repository.NewDepartmentRepository(pool)

		dept := &domain.Department{Name: "Engineering", Code: "D1", Description: "Builds"}
		require.NoError(t, repo.Create(ctx, dept))
		assert.Positive(t, dept.ID)

		got, err := repo.GetByCode(ctx, "D1")
		require.NoError(t, err)
		assert.Equal(t, dept.ID, got.ID)

		err = repo.Create(ctx, &domain.Department{Name: "Dup", Code: "D1"})
		require.ErrorIs(t, err, repository.ErrDuplicate)

		dept.Name = "Platform"
		require.NoError(t, repo.Update(ctx, dept))
		got, err = repo.GetByID(ctx, dept.ID)
		require.NoError(t, err)
		assert.Equal(t, "Platform", got.Name)

		require.ErrorIs(t, repo.Update(ctx, &domain.Department{ID: 999, Name: "x", Code: "x"}), pgx.ErrNoRows)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, repo.Delete(ctx, dept.ID))
		require.ErrorIs(t, repo.Delete(ctx, dept.ID), pgx.ErrNoRows)
	})

	t.Run("employees", func(t *testing.T) {
		repo := repository.NewEmployeeRepository(pool)

		emp := &domain.Employee{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", DepartmentCode: "D1"}
		require.NoError(t, repo.Create(ctx, emp))

		exists, err := repo.ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		err = repo.Create(ctx, &domain.Employee{FirstName: "A", LastName: "B", Email: "alice@example.com", DepartmentCode: "D1"})
		require.ErrorIs(t, err, repository.ErrDuplicate)
		err = repo.Create(ctx, &domain.Employee{FirstName: "A", LastName: "B", Email: "Alice@Example.com", DepartmentCode: "D1"})
		require.ErrorIs(t, err, repository.ErrDuplicate)

		got, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, emp.ID, got.ID)

		_, err = repo.GetByID(ctx, 999)
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("inventory seed", func(t *testing.T) {
		repo := repository.NewInventoryRepository(pool)

		item, err := repo.GetBySKU(ctx, "iphone_13")
		require.NoError(t, err)
		assert.True(t, item.InStock())

		item, err = repo.GetBySKU(ctx, "iphone_13_red")
		require.NoError(t, err)
		assert.False(t, item.InStock())

		require.NoError(t, repo.Upsert(ctx, &domain.InventoryItem{SKUCode: "iphone_13_red", Quantity: 3}))
		item, err = repo.GetBySKU(ctx, "iphone_13_red")
		require.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
	})
}
