package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string // statut de commande

const (
	OrderStatusPending   OrderStatus = "pending"   // en attente de traitement
	OrderStatusPaid      OrderStatus = "paid"      // réglée
	OrderStatusCancelled OrderStatus = "cancelled" // annulée
)

// ValidOrderStatus vérifie qu'un statut reçu du tableau de bord est connu.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`                              // ID commande
	UserID      *uint          `gorm:"index" json:"user_id,omitempty"`                    // client connecté (null si invité)
	TotalAmount float64        `gorm:"not null" json:"total_amount"`                      // montant total
	Status      OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`  // statut
	ClientNom   string         `gorm:"not null" json:"client_nom"`                        // nom du client au moment de la commande
	ClientEmail string         `gorm:"not null" json:"client_email"`                      // email de contact
	ClientNotes string         `gorm:"type:text" json:"client_notes"`                     // précisions du client
	CreatedAt   time.Time      `json:"created_at"`                                        // date de commande
	UpdatedAt   time.Time      `json:"updated_at"`                                        // date de modification
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                    // suppression logique

	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`                                     // client (si connecté)
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"` // lignes de commande
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem ligne de commande, prix et nom figés à la validation du panier.
type OrderItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`               // ID ligne
	OrderID      uint      `gorm:"not null;index" json:"order_id"`     // commande
	ServiceID    uint      `gorm:"not null;index" json:"service_id"`   // service commandé
	NomService   string    `gorm:"not null" json:"nom_service"`        // nom figé
	Quantite     int       `gorm:"not null" json:"quantite"`           // quantité
	PrixUnitaire float64   `gorm:"not null" json:"prix_unitaire"`      // prix unitaire figé
	SubTotal     float64   `gorm:"not null" json:"sub_total"`          // quantité x prix unitaire
	CreatedAt    time.Time `json:"created_at"`                         // date de création

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`                   // commande
	Service Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"` // service rattaché
}

func (OrderItem) TableName() string {
	return "order_items"
}
