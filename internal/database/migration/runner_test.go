package migration

import (
	"context"
	"testing"
	"testing/fstest"

	"skill-gap/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_OrdersAndChecksums(t *testing.T) {
	src := fstest.MapFS{
		"V2__add_index.sql":    {Data: []byte("CREATE INDEX x ON t (a);")},
		"V1__create_table.sql": {Data: []byte("  CREATE TABLE t (a INT);\n")},
		"README.md":            {Data: []byte("ignored")},
		"V3__not_sql.txt":      {Data: []byte("ignored")},
		"nested/V9__skip.sql":  {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "create_table", migs[0].Name)
	assert.Equal(t, "CREATE TABLE t (a INT);", migs[0].SQL)
	assert.Len(t, migs[0].Checksum, 64)
	assert.Equal(t, int64(2), migs[1].Version)
}

func TestLoadMigrations_Rejects(t *testing.T) {
	_, err := loadMigrations(fstest.MapFS{"V1__empty.sql": {Data: []byte("  ")}})
	assert.Error(t, err)

	_, err = loadMigrations(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	})
	assert.Error(t, err)
}

func TestLoadMigrations_Embedded(t *testing.T) {
	migs, err := loadMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, "create_courses", migs[0].Name)
}

func TestRun_NilDB(t *testing.T) {
	assert.Error(t, Runner{FS: migrations.FS}.Run(context.Background(), nil))
}

func TestPlan(t *testing.T) {
	migs, err := loadMigrations(fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V2__b.sql": {Data: []byte("SELECT 2;")},
	})
	require.NoError(t, err)

	pending, err := plan(migs, map[int64]string{1: migs[0].Checksum})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].Version)

	_, err = plan(migs, map[int64]string{1: "changed"})
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestRunner_RequiresSource(t *testing.T) {
	_, err := Runner{}.source()
	assert.Error(t, err)

	src, err := Runner{Dir: t.TempDir()}.source()
	require.NoError(t, err)
	migs, err := loadMigrations(src)
	require.NoError(t, err)
	assert.Empty(t, migs)
}
