package cartsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, ok, err := storage.Get(GuestCartKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Set(GuestCartKey, `[{"service_id":1}]`))

	value, ok, err := storage.Get(GuestCartKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"service_id":1}]`, value)

	require.NoError(t, storage.Delete(GuestCartKey))

	_, ok, err = storage.Get(GuestCartKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStorage_DeleteMissingKey(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, storage.Delete("absent"))
}

func TestFileStorage_SanitizesKey(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, storage.Set("../evasion/clé", "valeur"))

	value, ok, err := storage.Get("../evasion/clé")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "valeur", value)
}
