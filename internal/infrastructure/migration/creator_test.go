package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/farmerp/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add harvest index", "add_harvest_index"},
		{"Add-Harvest-Index", "add_harvest_index"},
		{"ADD__HARVEST__INDEX", "add_harvest_index"},
		{"stock ledger 2", "stock_ledger_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"!!! ???", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_existing.up.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_existing.down.sql"), []byte("--"), 0o644))

	mf, err := CreateMigration(dir, "add harvest index", "Index harvests by crop and date")
	require.NoError(t, err)

	assert.Equal(t, "000008", mf.Version)
	assert.Equal(t, filepath.Join(dir, "000008_add_harvest_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000008_add_harvest_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Index harvests by crop and date")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback of add harvest index")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)

	assert.Equal(t, "000001", mf.Version)
	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "???", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_stock_ledger.up.sql":   {Data: []byte("--")},
		"000002_stock_ledger.down.sql": {Data: []byte("--")},
		"000001_catalog.up.sql":        {Data: []byte("--")},
		"000001_catalog.down.sql":      {Data: []byte("--")},
		"README.md":                    {Data: []byte("docs")},
		"subdir.up.sql/keep":           {Data: []byte("")},
	}

	list, err := ListMigrations(fsys)

	require.NoError(t, err)
	assert.Equal(t, []string{"000001_catalog", "000002_stock_ledger"}, list)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	list, err := ListMigrations(os.DirFS("/nonexistent/path/to/migrations"))

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListMigrations_Embedded(t *testing.T) {
	list, err := ListMigrations(migrations.FS)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_catalog_and_partners",
		"000002_stock_ledger",
		"000003_transactions",
	}, list)
}
