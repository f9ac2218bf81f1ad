package cartsync

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mlegrand/portfolio-backend/pkg/logger"
)

// Notifier reçoit les messages d'erreur destinés à l'utilisateur, le
// pendant de l'alerte bloquante du site d'origine. nil accepté.
type Notifier func(message string)

const genericCartError = "Une erreur de communication est survenue lors de l'opération sur le panier."

// Synchronizer détient le panier canonique en mémoire et choisit sa
// stratégie de persistance selon l'état du porteur d'identité : API
// distante en session authentifiée, stockage local en invité.
//
// Aucune sérialisation des mutations concurrentes : deux mutations
// authentifiées lancées en parallèle aboutissent à l'état de la réponse
// appliquée en dernier.
type Synchronizer struct {
	mu       sync.Mutex
	identity *IdentityHolder
	remote   Remote
	storage  Storage
	notify   Notifier

	lines           []Line
	initiallyLoaded bool
	busy            bool
}

func NewSynchronizer(identity *IdentityHolder, remote Remote, storage Storage, notify Notifier) *Synchronizer {
	return &Synchronizer{
		identity: identity,
		remote:   remote,
		storage:  storage,
		notify:   notify,
		lines:    []Line{},
	}
}

// LoadCart charge le panier initial. Tant que l'identité n'est pas
// déterminée le chargement est différé et le panier n'est pas marqué
// chargé. Un échec de chargement n'est jamais bloquant : le panier
// retombe simplement à vide.
func (s *Synchronizer) LoadCart(ctx context.Context) {
	if !s.identity.Loaded() {
		return
	}

	if _, authenticated := s.identity.Current(); authenticated {
		s.loadRemote(ctx)
	} else {
		s.loadGuest()
	}

	s.mu.Lock()
	s.initiallyLoaded = true
	s.mu.Unlock()
}

func (s *Synchronizer) loadRemote(ctx context.Context) {
	lines, err := s.remote.FetchCart(ctx)
	if err != nil {
		logger.Warn("Failed to load remote cart, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		s.adopt([]Line{})
		return
	}

	s.adopt(lines)

	// le panier serveur fait foi, l'état invité ne doit pas réapparaître
	// à la prochaine déconnexion
	if err := s.storage.Delete(GuestCartKey); err != nil {
		logger.Warn("Failed to purge guest cart after login", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Synchronizer) loadGuest() {
	raw, ok, err := s.storage.Get(GuestCartKey)
	if err != nil || !ok {
		s.adopt([]Line{})
		return
	}

	lines, err := ParseLines([]byte(raw))
	if err != nil {
		logger.Warn("Discarding corrupted guest cart", map[string]interface{}{
			"error": err.Error(),
		})
		s.storage.Delete(GuestCartKey)
		s.adopt([]Line{})
		return
	}

	s.adopt(lines)
}

func (s *Synchronizer) adopt(lines []Line) {
	if lines == nil {
		lines = []Line{}
	}
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

// AddToCart ajoute une ligne ou cumule la quantité d'une ligne existante.
// Le prix unitaire de la ligne existante est remplacé par celui fourni,
// le catalogue ayant pu changer entre deux vues. Quantité non positive :
// aucune action.
func (s *Synchronizer) AddToCart(ctx context.Context, line Line, quantity int) error {
	if quantity <= 0 {
		return nil
	}

	if _, authenticated := s.identity.Current(); authenticated {
		return s.applyRemote(func() ([]Line, error) {
			return s.remote.AddLine(ctx, line, quantity)
		})
	}

	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].ServiceID == line.ServiceID {
			s.lines[i].Quantite += quantity
			s.lines[i].PrixUnitaire = line.PrixUnitaire
			found = true
			break
		}
	}
	if !found {
		added := line
		added.Quantite = quantity
		s.lines = append(s.lines, added)
	}
	s.mu.Unlock()

	s.persistGuest()
	return nil
}

// UpdateQuantity remplace la quantité d'une ligne. Une quantité non
// positive équivaut à un retrait de la ligne.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, serviceID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, serviceID)
	}

	if _, authenticated := s.identity.Current(); authenticated {
		return s.applyRemote(func() ([]Line, error) {
			return s.remote.UpdateLineQuantity(ctx, serviceID, quantity)
		})
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ServiceID == serviceID {
			s.lines[i].Quantite = quantity
			break
		}
	}
	s.mu.Unlock()

	s.persistGuest()
	return nil
}

// RemoveFromCart retire une ligne. L'absence de la ligne n'est pas une
// erreur côté invité.
func (s *Synchronizer) RemoveFromCart(ctx context.Context, serviceID int) error {
	if _, authenticated := s.identity.Current(); authenticated {
		return s.applyRemote(func() ([]Line, error) {
			return s.remote.DeleteLine(ctx, serviceID)
		})
	}

	s.mu.Lock()
	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.ServiceID != serviceID {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	s.mu.Unlock()

	s.persistGuest()
	return nil
}

// ClearCart vide le panier.
func (s *Synchronizer) ClearCart(ctx context.Context) error {
	if _, authenticated := s.identity.Current(); authenticated {
		return s.applyRemote(func() ([]Line, error) {
			return s.remote.DeleteAll(ctx)
		})
	}

	s.mu.Lock()
	s.lines = []Line{}
	s.mu.Unlock()

	s.persistGuest()
	return nil
}

// applyRemote exécute une mutation distante et adopte le panier renvoyé
// comme nouvel état. En cas d'échec l'état mémoire reste inchangé et
// l'utilisateur est notifié ; aucune nouvelle tentative automatique.
func (s *Synchronizer) applyRemote(op func() ([]Line, error)) error {
	s.mu.Lock()
	s.busy = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	lines, err := op()
	if err != nil {
		logger.Error("Cart operation failed", err)
		s.notifyError(err)
		return err
	}

	s.adopt(lines)
	return nil
}

func (s *Synchronizer) notifyError(err error) {
	if s.notify == nil {
		return
	}
	if apiErr, ok := err.(*APIError); ok && apiErr.Message != "" {
		s.notify("Erreur panier: " + apiErr.Message)
		return
	}
	s.notify(genericCartError)
}

// persistGuest sérialise le panier courant vers le stockage invité.
// Inactif tant que le chargement initial n'a pas eu lieu, pour ne pas
// écraser un panier persisté avec l'état vide de démarrage.
func (s *Synchronizer) persistGuest() {
	s.mu.Lock()
	if !s.initiallyLoaded {
		s.mu.Unlock()
		return
	}
	data, err := json.Marshal(s.lines)
	s.mu.Unlock()

	if err != nil {
		logger.Error("Failed to serialize guest cart", err)
		return
	}
	if err := s.storage.Set(GuestCartKey, string(data)); err != nil {
		logger.Error("Failed to persist guest cart", err)
	}
}

// Lines copie de l'état courant du panier.
func (s *Synchronizer) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// Total somme de prix unitaire x quantité, recalculée à chaque appel.
func (s *Synchronizer) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, line := range s.lines {
		total += line.PrixUnitaire * float64(line.Quantite)
	}
	return total
}

// ItemCount somme des quantités de toutes les lignes.
func (s *Synchronizer) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantite
	}
	return count
}

// InitiallyLoaded vrai après la première tentative de chargement, réussie
// ou non. Ne redevient jamais faux, même après un changement d'identité.
func (s *Synchronizer) InitiallyLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initiallyLoaded
}

// Busy vrai pendant une mutation distante en cours.
func (s *Synchronizer) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
