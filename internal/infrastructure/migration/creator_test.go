package migration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add cargo index", "add_cargo_index"},
		{"Add-Cargo-Index", "add_cargo_index"},
		{"ADD_CARGO_INDEX", "add_cargo_index"},
		{"add__cargo__index", "add_cargo_index"},
		{"Add Route 2", "add_route_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "special_chars"},
		{"وثيقة", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 9, 14, 5, 6, 0, time.UTC)

	mf, err := createMigration(dir, "add cargo index", "index cargo lines by status", now)
	require.NoError(t, err)

	assert.Equal(t, "20250309140506", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20250309140506_add_cargo_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20250309140506_add_cargo_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add cargo index")
	assert.Contains(t, string(up), "-- index cargo lines by status")
	assert.Contains(t, string(up), "2025-03-09T14:05:06Z")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")
}

func TestCreateMigration_Errors(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 9, 14, 5, 6, 0, time.UTC)

	_, err := createMigration(dir, "!!!", "", now)
	assert.Error(t, err)

	_, err = createMigration(dir, "twice", "", now)
	require.NoError(t, err)
	_, err = createMigration(dir, "twice", "", now)
	assert.Error(t, err, "existing files are never overwritten")
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_second.up.sql":   {Data: []byte("SELECT 1;")},
		"000002_second.down.sql": {Data: []byte("SELECT 1;")},
		"000001_first.up.sql":    {Data: []byte("SELECT 1;")},
		"000001_first.down.sql":  {Data: []byte("SELECT 1;")},
		"README.md":              {Data: []byte("notes")},
		"nested/000003.up.sql":   {Data: []byte("SELECT 1;")},
	}

	migrations, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_first", "000002_second"}, migrations)
}

func TestListMigrations_MissingDir(t *testing.T) {
	migrations, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := ListMigrations(Embedded())
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "000001_create_shipping_documents", migrations[0])

	for _, name := range migrations {
		up, err := fsReadString(name + ".up.sql")
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(up))

		down, err := fsReadString(name + ".down.sql")
		require.NoError(t, err, "every up migration has a down migration")
		assert.Contains(t, down, "DROP TABLE")
	}
}

func TestEmbeddedSchemaMatchesModels(t *testing.T) {
	up, err := fsReadString("000001_create_shipping_documents.up.sql")
	require.NoError(t, err)

	for _, column := range []string{
		"document_number", "is_negotiable", "truck_axles", "driver_id_type",
		"sender_address", "recipient_notes", "route_to_country", "payment_instructions",
	} {
		assert.Contains(t, up, column)
	}
	assert.Contains(t, up, "REFERENCES shipping_documents (id) ON DELETE CASCADE")
}

func fsReadString(name string) (string, error) {
	data, err := fsReadFile(name)
	return string(data), err
}

func fsReadFile(name string) ([]byte, error) {
	return fs.ReadFile(Embedded(), name)
}
