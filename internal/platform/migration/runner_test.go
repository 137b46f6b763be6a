// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/riddlerush/internal/platform/migration"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/admin", "pgx5://u:p@db:5432/admin"},
		{"postgresql://u@db/admin?sslmode=disable", "pgx5://u@db/admin?sslmode=disable"},
		{"pgx5://u@db/admin", "pgx5://u@db/admin"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.in))
		})
	}
}

func TestSource_Embedded(t *testing.T) {
	ups, err := fs.Glob(migration.Source(""), "*.up.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_kv_entry.up.sql"}, ups)

	schema, err := fs.ReadFile(migration.Source(""), ups[0])
	require.NoError(t, err)
	assert.Contains(t, string(schema), "admin.kv_entry")
}

func TestSource_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000002_extra.up.sql"), []byte("SELECT 1;"), 0o600))

	ups, err := fs.Glob(migration.Source(dir), "*.up.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"000002_extra.up.sql"}, ups)
}
