package file_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/wortdrill/internal/repository"
	"github.com/vytor/wortdrill/internal/repository/file"
	"github.com/vytor/wortdrill/internal/testutil"
)

func TestFileStore(t *testing.T) {
	suite.Run(t, &testutil.KVStoreSuite{
		NewStore: func() repository.KVStore {
			s, err := file.Open(filepath.Join(t.TempDir(), "progress.json"))
			require.NoError(t, err)
			return s
		},
	})
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "progress.json")

	first, err := file.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "learnedWords", []byte(`["der Hund"]`)))

	second, err := file.Open(path)
	require.NoError(t, err)
	v, ok, err := second.Get(ctx, "learnedWords")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["der Hund"]`, string(v))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_SeesWritesFromAnotherInstance(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.json")

	a, err := file.Open(path)
	require.NoError(t, err)
	b, err := file.Open(path)
	require.NoError(t, err)

	require.NoError(t, a.Set(ctx, "learnedWords", []byte(`[]`)))
	require.NoError(t, b.Set(ctx, "mistakes", []byte(`[]`)))

	keys, err := a.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"learnedWords", "mistakes"}, keys)
}

func TestFileStore_ConcurrentInstancesUseSeparateTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.json")

	a, err := file.Open(path)
	require.NoError(t, err)
	b, err := file.Open(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i, store := range []*file.Store{a, b} {
		wg.Add(1)
		go func(id int, s *file.Store) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				errs <- s.Set(ctx, "writer"+strconv.Itoa(id), []byte(strconv.Itoa(n)))
			}
		}(i, store)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files are left behind")
	assert.Equal(t, "progress.json", entries[0].Name())
}

func TestFileStore_CorruptDocumentIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := file.Open(path)
	assert.ErrorIs(t, err, repository.ErrUnavailable)
}
