package cartsync

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote rejoue les règles serveur : ajout cumulatif avec
// rafraîchissement du prix, quantité absolue en mise à jour, panier
// complet renvoyé après chaque mutation.
type fakeRemote struct {
	lines   []Line
	failAll bool
}

func (r *fakeRemote) snapshot() []Line {
	lines := make([]Line, len(r.lines))
	copy(lines, r.lines)
	return lines
}

func (r *fakeRemote) FetchCart(ctx context.Context) ([]Line, error) {
	if r.failAll {
		return nil, errors.New("connection refused")
	}
	return r.snapshot(), nil
}

func (r *fakeRemote) AddLine(ctx context.Context, line Line, quantity int) ([]Line, error) {
	if r.failAll {
		return nil, errors.New("connection refused")
	}
	for i := range r.lines {
		if r.lines[i].ServiceID == line.ServiceID {
			r.lines[i].Quantite += quantity
			r.lines[i].PrixUnitaire = line.PrixUnitaire
			return r.snapshot(), nil
		}
	}
	added := line
	added.Quantite = quantity
	r.lines = append(r.lines, added)
	return r.snapshot(), nil
}

func (r *fakeRemote) UpdateLineQuantity(ctx context.Context, serviceID, quantity int) ([]Line, error) {
	if r.failAll {
		return nil, errors.New("connection refused")
	}
	for i := range r.lines {
		if r.lines[i].ServiceID == serviceID {
			r.lines[i].Quantite = quantity
			return r.snapshot(), nil
		}
	}
	return nil, &APIError{StatusCode: http.StatusNotFound, Code: "CART_ITEM_NOT_FOUND", Message: "Article absent du panier"}
}

func (r *fakeRemote) DeleteLine(ctx context.Context, serviceID int) ([]Line, error) {
	if r.failAll {
		return nil, errors.New("connection refused")
	}
	kept := r.lines[:0]
	for _, line := range r.lines {
		if line.ServiceID != serviceID {
			kept = append(kept, line)
		}
	}
	r.lines = kept
	return r.snapshot(), nil
}

func (r *fakeRemote) DeleteAll(ctx context.Context) ([]Line, error) {
	if r.failAll {
		return nil, errors.New("connection refused")
	}
	r.lines = []Line{}
	return r.snapshot(), nil
}

func guestSynchronizer(t *testing.T) (*Synchronizer, Storage) {
	t.Helper()
	storage := NewMemoryStorage()
	identity := NewIdentityHolder(storage, nil)
	identity.Load()

	sync := NewSynchronizer(identity, &fakeRemote{}, storage, nil)
	sync.LoadCart(context.Background())
	return sync, storage
}

func TestLoadCart_DeferredUntilIdentityDetermined(t *testing.T) {
	storage := NewMemoryStorage()
	identity := NewIdentityHolder(storage, nil)

	sync := NewSynchronizer(identity, &fakeRemote{}, storage, nil)
	sync.LoadCart(context.Background())

	// identité non déterminée : rien n'est chargé ni marqué chargé
	assert.False(t, sync.InitiallyLoaded())

	identity.Load()
	sync.LoadCart(context.Background())
	assert.True(t, sync.InitiallyLoaded())
}

func TestGuestAddToCart_AccumulatesQuantity(t *testing.T) {
	sync, _ := guestSynchronizer(t)
	ctx := context.Background()

	line := Line{ServiceID: 1, Nom: "Logo", PrixUnitaire: 20.0}
	require.NoError(t, sync.AddToCart(ctx, line, 1))
	require.NoError(t, sync.AddToCart(ctx, line, 1))

	lines := sync.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].ServiceID)
	assert.Equal(t, 2, lines[0].Quantite)
	assert.Equal(t, 40.0, sync.Total())

	require.NoError(t, sync.UpdateQuantity(ctx, 1, 0))
	assert.Empty(t, sync.Lines())
	assert.Equal(t, 0, sync.ItemCount())
}

func TestGuestAddToCart_RefreshesUnitPrice(t *testing.T) {
	sync, _ := guestSynchronizer(t)
	ctx := context.Background()

	require.NoError(t, sync.AddToCart(ctx, Line{ServiceID: 5, Nom: "Flyer", PrixUnitaire: 80.0}, 1))
	// le prix catalogue a changé entre deux vues
	require.NoError(t, sync.AddToCart(ctx, Line{ServiceID: 5, Nom: "Flyer", PrixUnitaire: 95.0}, 2))

	lines := sync.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantite)
	assert.Equal(t, 95.0, lines[0].PrixUnitaire)
}

func TestGuestAddToCart_NonPositiveQuantityIsNoOp(t *testing.T) {
	sync, _ := guestSynchronizer(t)
	ctx := context.Background()

	require.NoError(t, sync.AddToCart(ctx, Line{ServiceID: 1, Nom: "Logo", PrixUnitaire: 50.0}, 0))
	require.NoError(t, sync.AddToCart(ctx, Line{ServiceID: 1, Nom: "Logo", PrixUnitaire: 50.0}, -2))

	assert.Empty(t, sync.Lines())
}

func TestGuestUpdateQuantity_ReplacesWholesale(t *testing.T) {
	sync, _ := guestSynchronizer(t)
	ctx := context.Background()

	require.NoError(t, sync.AddToCart(ctx, Line{ServiceID: 1, Nom: "Logo", PrixUnitaire: 50.0}, 2))
	require.NoError(t, sync.UpdateQuantity(ctx, 1, 7))

	lines := sync.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantite)
}

func TestGuestRemoveFromCart_AbsentLineIsNotAnError(t *testing.T) {
	sync, _ := guestSynchronizer(t)

	require.NoError(t, sync.RemoveFromCart(context.Background(), 99))
	assert.Empty(t, sync.Lines())
}

func TestGuestPersistence_RoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	identity := NewIdentityHolder(storage, nil)
	identity.Load()

	sync := NewSynchronizer(identity, &fakeRemote{}, storage, nil)
	sync.LoadCart(context.Background())

	line := Line{ServiceID: 7, Nom: "Logo", PrixUnitaire: 50.0}
	require.NoError(t, sync.AddToCart(context.Background(), line, 1))

	// rechargement simulé : nouvelle session sur le même stockage
	reloaded := NewSynchronizer(identity, &fakeRemote{}, storage, nil)
	reloaded.LoadCart(context.Background())

	lines := reloaded.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].ServiceID)
	assert.Equal(t, "Logo", lines[0].Nom)
	assert.Equal(t, 50.0, lines[0].PrixUnitaire)
	assert.Equal(t, 1, lines[0].Quantite)
}

func TestLoginTransition_AdoptsServerCartAndPurgesGuestStorage(t *testing.T) {
	storage := NewMemoryStorage()
	identity := NewIdentityHolder(storage, nil)
	identity.Load()

	remote := &fakeRemote{lines: []Line{
		{ServiceID: 10, Nom: "Site vitrine", PrixUnitaire: 1200.0, Quantite: 1},
		{ServiceID: 11, Nom: "Logo", PrixUnitaire: 450.0, Quantite: 2},
	}}

	sync := NewSynchronizer(identity, remote, storage, nil)
	sync.LoadCart(context.Background())
	require.NoError(t, sync.AddToCart(context.Background(), Line{ServiceID: 1, Nom: "Flyer", PrixUnitaire: 80.0}, 1))

	// connexion : le panier serveur fait foi
	require.NoError(t, identity.Login(Identity{ID: 3, Email: "marie@example.com", Role: "Utilisateur"}))
	sync.LoadCart(context.Background())

	lines := sync.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 10, lines[0].ServiceID)
	assert.Equal(t, 11, lines[1].ServiceID)

	_, ok, err := storage.Get(GuestCartKey)
	require.NoError(t, err)
	assert.False(t, ok, "le panier invité ne doit pas réapparaître après déconnexion")
}

func TestLoadCart_RemoteFailureFallsBackToEmpty(t *testing.T) {
	storage := NewMemoryStorage()
	identity := NewIdentityHolder(storage, nil)
	identity.Load()
	require.NoError(t, identity.Login(Identity{ID: 1, Email: "a@b.fr", Role: "Utilisateur"}))

	sync := NewSynchronizer(identity, &fakeRemote{failAll: true}, storage, nil)
	sync.LoadCart(context.Background())

	assert.True(t, sync.InitiallyLoaded())
	assert.Empty(t, sync.Lines())
}

func TestLoadCart_CorruptedGuestStorageDiscarded(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(GuestCartKey, "[{cassé"))

	identity := NewIdentityHolder(storage, nil)
	identity.Load()

	sync := NewSynchronizer(identity, &fakeRemote{}, storage, nil)
	sync.LoadCart(context.Background())

	assert.Empty(t, sync.Lines())

	_, ok, err := storage.Get(GuestCartKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthenticatedMutation_AdoptsServerResponse(t *testing.T) {
	storage := NewMemoryStorage()
	identity := NewIdentityHolder(storage, nil)
	identity.Load()
	require.NoError(t, identity.Login(Identity{ID: 1, Email: "a@b.fr", Role: "Utilisateur"}))

	remote := &fakeRemote{lines: []Line{
		{ServiceID: 1, Nom: "Logo", PrixUnitaire: 450.0, Quantite: 1},
	}}
	sync := NewSynchronizer(identity, remote, storage, nil)
	sync.LoadCart(context.Background())

	require.NoError(t, sync.AddToCart(context.Background(), Line{ServiceID: 1, Nom: "Logo", PrixUnitaire: 450.0}, 2))

	lines := sync.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantite)
}

func TestAuthenticatedMutation_FailureLeavesStateUntouchedAndNotifies(t *testing.T) {
	storage := NewMemoryStorage()
	identity := NewIdentityHolder(storage, nil)
	identity.Load()
	require.NoError(t, identity.Login(Identity{ID: 1, Email: "a@b.fr", Role: "Utilisateur"}))

	remote := &fakeRemote{lines: []Line{
		{ServiceID: 1, Nom: "Logo", PrixUnitaire: 450.0, Quantite: 1},
	}}

	var notified string
	sync := NewSynchronizer(identity, remote, storage, func(message string) {
		notified = message
	})
	sync.LoadCart(context.Background())

	remote.failAll = true
	err := sync.AddToCart(context.Background(), Line{ServiceID: 2, Nom: "Flyer", PrixUnitaire: 80.0}, 1)
	require.Error(t, err)

	// l'état mémoire est inchangé et l'utilisateur prévenu
	lines := sync.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].ServiceID)
	assert.Equal(t, genericCartError, notified)
}

func TestAuthenticatedMutation_APIErrorMessageSurfaced(t *testing.T) {
	storage := NewMemoryStorage()
	identity := NewIdentityHolder(storage, nil)
	identity.Load()
	require.NoError(t, identity.Login(Identity{ID: 1, Email: "a@b.fr", Role: "Utilisateur"}))

	var notified string
	sync := NewSynchronizer(identity, &fakeRemote{}, storage, func(message string) {
		notified = message
	})
	sync.LoadCart(context.Background())

	err := sync.UpdateQuantity(context.Background(), 42, 3)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Erreur panier: Article absent du panier", notified)
}

func TestDerivedValues_PureOverState(t *testing.T) {
	sync, _ := guestSynchronizer(t)
	ctx := context.Background()

	require.NoError(t, sync.AddToCart(ctx, Line{ServiceID: 1, Nom: "Logo", PrixUnitaire: 50.0}, 2))
	require.NoError(t, sync.AddToCart(ctx, Line{ServiceID: 2, Nom: "Flyer", PrixUnitaire: 80.0}, 3))

	// recalculés à l'identique quel que soit l'ordre des appels
	assert.Equal(t, 340.0, sync.Total())
	assert.Equal(t, 5, sync.ItemCount())
	assert.Equal(t, 340.0, sync.Total())
}

func TestClearCart_Guest(t *testing.T) {
	sync, storage := guestSynchronizer(t)
	ctx := context.Background()

	require.NoError(t, sync.AddToCart(ctx, Line{ServiceID: 1, Nom: "Logo", PrixUnitaire: 50.0}, 2))
	require.NoError(t, sync.ClearCart(ctx))

	assert.Empty(t, sync.Lines())
	assert.Equal(t, 0, sync.ItemCount())

	// le stockage invité reflète le panier vidé
	raw, ok, err := storage.Get(GuestCartKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, "[]", raw)
}
