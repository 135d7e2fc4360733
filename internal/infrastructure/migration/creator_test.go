package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/Mandoobi/jaber-backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add samples table", "add_samples_table"},
		{"Add-Samples-Table", "add_samples_table"},
		{"ADD_SAMPLES_TABLE", "add_samples_table"},
		{"add__samples__table", "add_samples_table"},
		{"Rep Stock 2", "rep_stock_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("numbers after the highest existing version", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range []string{"000001_init.up.sql", "000001_init.down.sql", "000007_ledger.up.sql", "000007_ledger.down.sql"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0o644))
		}

		mf, err := CreateMigration(dir, "add report index", "Speeds up day stats")
		require.NoError(t, err)
		assert.Equal(t, "000008", mf.Version)
		assert.Equal(t, filepath.Join(dir, "000008_add_report_index.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000008_add_report_index.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add report index")
		assert.Contains(t, string(up), "Speeds up day stats")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback")
	})

	t.Run("starts at one and creates the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")

		mf, err := CreateMigration(dir, "init", "")
		require.NoError(t, err)
		assert.Equal(t, "000001", mf.Version)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects names with nothing usable", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_rep_stock.up.sql":   {Data: []byte("--")},
		"000002_rep_stock.down.sql": {Data: []byte("--")},
		"000001_directory.up.sql":   {Data: []byte("--")},
		"000001_directory.down.sql": {Data: []byte("--")},
		"README.md":                 {Data: []byte("docs")},
		"subdir.up.sql/keep":        {Data: []byte("")},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_directory", "000002_rep_stock"}, names)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	names, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCheckPairs(t *testing.T) {
	t.Run("embedded schema is complete", func(t *testing.T) {
		names, err := ListMigrations(migrations.FS)
		require.NoError(t, err)
		assert.NotEmpty(t, names)
		assert.NoError(t, CheckPairs(migrations.FS))
	})

	t.Run("reports a missing down file", func(t *testing.T) {
		err := CheckPairs(fstest.MapFS{"000001_init.up.sql": {Data: []byte("--")}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "000001_init")
	})
}
