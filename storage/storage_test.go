package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smileworthy/benefix/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)

	require.NoError(t, store.WriteAll([]byte(`{"a":"b"}`)))

	data, err := store.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `{"a":"b"}`, string(data))
}

func TestFileStoreMissingFile(t *testing.T) {
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)

	_, err = store.ReadAll()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileStoreOverwriteReplacesWholeFile(t *testing.T) {
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)

	require.NoError(t, store.WriteAll([]byte("first contents, longer")))
	require.NoError(t, store.WriteAll([]byte("second")))

	data, err := store.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "ledger.json")
	store, err := storage.NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.WriteAll([]byte("{}")))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
