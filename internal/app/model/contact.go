package model

import (
	"time"
)

// ContactMessage message envoyé via le formulaire de contact du site.
// Purgé automatiquement après la durée de rétention configurée.
type ContactMessage struct {
	ID        uint      `gorm:"primarykey" json:"id"`                       // ID message
	Nom       string    `gorm:"not null" json:"nom"`                        // nom de famille
	Prenom    string    `gorm:"not null" json:"prenom"`                     // prénom
	Email     string    `gorm:"not null" json:"email"`                      // email de réponse
	Telephone string    `json:"telephone"`                                  // téléphone (optionnel)
	Objet     string    `gorm:"not null" json:"objet"`                      // objet du message
	Message   string    `gorm:"type:text;not null" json:"message"`          // corps du message
	CreatedAt time.Time `gorm:"column:date_envoyee" json:"date_envoyee"`    // date d'envoi
}

func (ContactMessage) TableName() string {
	return "contact"
}
