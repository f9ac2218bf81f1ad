package cartsync

import (
	"encoding/json"
	"sync"

	"github.com/mlegrand/portfolio-backend/pkg/logger"
)

// Identity l'utilisateur reconnu pour la session.
type Identity struct {
	ID     uint   `json:"id"`
	Email  string `json:"email"`
	Nom    string `json:"nom,omitempty"`
	Prenom string `json:"prenom,omitempty"`
	Role   string `json:"role"`
}

// IdentityHolder source unique de vérité sur l'identité de la session,
// persistée dans le stockage local pour survivre aux rechargements.
//
// Machine à états : non initialisé, puis invité ou authentifié après Load.
// Le retour à l'état invité ne se fait que par Logout.
type IdentityHolder struct {
	mu       sync.RWMutex
	storage  Storage
	identity *Identity
	loaded   bool
	onLogout func()
}

// NewIdentityHolder crée le porteur d'identité. onLogout est appelé après
// une déconnexion, typiquement pour naviguer vers l'accueil ; nil accepté.
func NewIdentityHolder(storage Storage, onLogout func()) *IdentityHolder {
	return &IdentityHolder{
		storage:  storage,
		onLogout: onLogout,
	}
}

// Load réhydrate l'identité persistée. Une entrée corrompue est supprimée
// et la session démarre en invité, jamais en erreur.
func (h *IdentityHolder) Load() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded {
		return
	}
	h.loaded = true

	raw, ok, err := h.storage.Get(IdentityKey)
	if err != nil {
		logger.Warn("Failed to read persisted identity", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if !ok {
		return
	}

	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil || identity.ID == 0 {
		logger.Warn("Discarding corrupted persisted identity", nil)
		h.storage.Delete(IdentityKey)
		return
	}

	h.identity = &identity
}

// Login remplace l'identité courante et la persiste. L'appel réseau qui a
// produit l'identité est à la charge de l'appelant.
func (h *IdentityHolder) Login(identity Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.identity = &identity
	h.loaded = true
	return h.storage.Set(IdentityKey, string(data))
}

// Logout efface l'identité et sa copie persistée, puis déclenche la
// navigation de retour à l'accueil.
func (h *IdentityHolder) Logout() error {
	h.mu.Lock()
	h.identity = nil
	err := h.storage.Delete(IdentityKey)
	h.mu.Unlock()

	if h.onLogout != nil {
		h.onLogout()
	}
	return err
}

// Current renvoie l'identité tenue, false en invité.
func (h *IdentityHolder) Current() (Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.identity == nil {
		return Identity{}, false
	}
	return *h.identity, true
}

// Loaded indique si l'initialisation est terminée. Tant qu'elle ne l'est
// pas, "pas d'identité" signifie "pas encore déterminé", pas "invité".
func (h *IdentityHolder) Loaded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loaded
}

// IsAdmin prédicat pur sur le rôle de l'identité tenue.
func (h *IdentityHolder) IsAdmin() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.identity != nil && h.identity.Role == "Admin"
}
