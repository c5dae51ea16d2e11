package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"overtime-approval/models"
	"overtime-approval/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
profiles:
  - nik: "2001"
    full_name: Lina
    line_area: Line A
    role: leader
    email: lina@example.com
  - nik: "1001"
    full_name: Budi
    line_area: Line A
    approver1_nik: "2001"
    approver2_nik: admin
categories:
  - name: Regular
    start_time: "17:00"
    end_time: "20:00"
  - name: Legacy
    start_time: "08:00:00"
    end_time: "12:00:00"
    is_active: false
`

func TestSeed_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	data, err := LoadSeedFile(path)
	require.NoError(t, err)

	store := memory.NewStore()
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		require.NoError(t, Seed(ctx, store.Profiles(), store.Categories(), data))
	}

	profiles, err := store.Profiles().List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 3)

	admin, err := store.Profiles().GetByNIK(ctx, DefaultAdminNIK)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	budi, err := store.Profiles().GetByNIK(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOperator, budi.Role)
	require.NotNil(t, budi.Approver1NIK)
	assert.Equal(t, "2001", *budi.Approver1NIK)
	assert.Nil(t, budi.Email)

	categories, err := store.Categories().List(ctx, false)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	active, err := store.Categories().List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 3.0, active[0].DefaultHours())
}

func TestSeed_WithoutFileCreatesAdmin(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, Seed(context.Background(), store.Profiles(), store.Categories(), nil))

	admin, err := store.Profiles().GetByNIK(context.Background(), DefaultAdminNIK)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestLoadSeedFile_Errors(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles: [nik"), 0o600))
	_, err = LoadSeedFile(path)
	assert.Error(t, err)
}
