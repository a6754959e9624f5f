package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_EveryDialectHasTheSameVersions(t *testing.T) {
	pg, err := fs.Glob(Migrations, PostgresDir+"/*.sql")
	require.NoError(t, err)
	lite, err := fs.Glob(Migrations, SQLiteDir+"/*.sql")
	require.NoError(t, err)

	require.NotEmpty(t, pg)
	require.Len(t, lite, len(pg))

	for i := range pg {
		assert.Equal(t, strings.TrimPrefix(pg[i], PostgresDir+"/"), strings.TrimPrefix(lite[i], SQLiteDir+"/"))
	}
}

func TestMigrations_HaveGooseAnnotations(t *testing.T) {
	err := fs.WalkDir(Migrations, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := fs.ReadFile(Migrations, path)
		if err != nil {
			return err
		}
		assert.Contains(t, string(b), "-- +goose Up", path)
		assert.Contains(t, string(b), "-- +goose Down", path)
		return nil
	})
	require.NoError(t, err)
}
