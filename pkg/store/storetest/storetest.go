// Package storetest opens throwaway SQLite-backed stores for tests.
package storetest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tarlatakip/database"
	"tarlatakip/pkg/store/repository"
	"tarlatakip/pkg/store/repositoryImp"
)

// New opens a fresh store in t's temp dir, closed when t ends.
func New(t testing.TB, rules repositoryImp.Rules) repository.Store {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositoryImp.New(db, rules)
}

// Open is New with the collection-group query allowed.
func Open(t testing.TB) repository.Store {
	return New(t, repositoryImp.Rules{AllowCollectionGroup: true})
}
