package model

import (
	"time"

	"gorm.io/gorm"
)

// CartItem ligne de panier persistée pour un utilisateur connecté.
// Une seule ligne par couple (utilisateur, service), la quantité s'incrémente.
type CartItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                             // ID ligne de panier
	UserID       uint           `gorm:"not null;uniqueIndex:idx_cart_user_service" json:"user_id"`        // propriétaire du panier
	ServiceID    uint           `gorm:"not null;uniqueIndex:idx_cart_user_service" json:"service_id"`     // service au panier
	Quantite     int            `gorm:"not null;default:1" json:"quantite"`                               // quantité (>= 1)
	PrixUnitaire float64        `gorm:"not null" json:"prix_unitaire"`                                    // prix figé au moment de l'ajout
	CreatedAt    time.Time      `json:"created_at"`                                                       // date d'ajout
	UpdatedAt    time.Time      `json:"updated_at"`                                                       // date de modification
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                                   // suppression logique

	User    User    `gorm:"foreignKey:UserID" json:"-"`                       // propriétaire
	Service Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`    // service rattaché
}

func (CartItem) TableName() string {
	return "cart_items"
}
