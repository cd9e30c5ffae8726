package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationFiles(t *testing.T) {
	tests := []struct {
		set  string
		want []string
	}{
		{MigrationsDepartment, []string{"001_create_departments.sql"}},
		{MigrationsEmployee, []string{"001_create_employees.sql", "002_employee_email_ci.sql"}},
		{MigrationsInventory, []string{"001_create_inventory.sql", "002_seed_inventory.sql"}},
	}
	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			got, err := MigrationFiles(tt.set)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrationFiles_UnknownSet(t *testing.T) {
	_, err := MigrationFiles("payroll")
	require.Error(t, err)
}

func TestRunMigrations_NoPool(t *testing.T) {
	require.NoError(t, RunMigrations(context.Background(), nil, MigrationsDepartment, zap.NewNop()))
}

func TestPingWithoutPool(t *testing.T) {
	var pg *Postgres
	assert.Error(t, pg.Ping(context.Background()))
	assert.Nil(t, pg.PoolHandle())
}
