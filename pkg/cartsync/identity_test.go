package cartsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityHolder_LoadWithoutPersistedIdentity(t *testing.T) {
	holder := NewIdentityHolder(NewMemoryStorage(), nil)

	assert.False(t, holder.Loaded())

	holder.Load()

	assert.True(t, holder.Loaded())
	_, authenticated := holder.Current()
	assert.False(t, authenticated)
}

func TestIdentityHolder_LoginPersistsIdentity(t *testing.T) {
	storage := NewMemoryStorage()
	holder := NewIdentityHolder(storage, nil)
	holder.Load()

	err := holder.Login(Identity{ID: 3, Email: "marie@example.com", Role: "Utilisateur"})
	require.NoError(t, err)

	current, authenticated := holder.Current()
	assert.True(t, authenticated)
	assert.Equal(t, uint(3), current.ID)

	// une nouvelle session réhydrate l'identité depuis le stockage
	rehydrated := NewIdentityHolder(storage, nil)
	rehydrated.Load()

	current, authenticated = rehydrated.Current()
	assert.True(t, authenticated)
	assert.Equal(t, "marie@example.com", current.Email)
}

func TestIdentityHolder_CorruptedEntryDiscarded(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(IdentityKey, "{pas du json"))

	holder := NewIdentityHolder(storage, nil)
	holder.Load()

	assert.True(t, holder.Loaded())
	_, authenticated := holder.Current()
	assert.False(t, authenticated)

	// l'entrée corrompue est supprimée
	_, ok, err := storage.Get(IdentityKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityHolder_LogoutClearsStorageAndNavigates(t *testing.T) {
	storage := NewMemoryStorage()
	navigated := false
	holder := NewIdentityHolder(storage, func() { navigated = true })
	holder.Load()

	require.NoError(t, holder.Login(Identity{ID: 1, Email: "admin@example.com", Role: "Admin"}))
	require.NoError(t, holder.Logout())

	_, authenticated := holder.Current()
	assert.False(t, authenticated)
	assert.True(t, navigated)

	_, ok, err := storage.Get(IdentityKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityHolder_IsAdmin(t *testing.T) {
	holder := NewIdentityHolder(NewMemoryStorage(), nil)
	holder.Load()

	assert.False(t, holder.IsAdmin())

	require.NoError(t, holder.Login(Identity{ID: 2, Email: "user@example.com", Role: "Utilisateur"}))
	assert.False(t, holder.IsAdmin())

	require.NoError(t, holder.Login(Identity{ID: 1, Email: "admin@example.com", Role: "Admin"}))
	assert.True(t, holder.IsAdmin())
}
