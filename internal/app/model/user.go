package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // rôle utilisateur

const (
	RoleUtilisateur UserRole = "Utilisateur" // client du site
	RoleAdmin       UserRole = "Admin"       // accès au tableau de bord
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                 // ID utilisateur
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                    // email (identifiant de connexion)
	PasswordHash string         `gorm:"not null" json:"-"`                                    // hash bcrypt du mot de passe
	Nom          string         `gorm:"not null" json:"nom"`                                  // nom de famille
	Prenom       string         `gorm:"not null" json:"prenom"`                               // prénom
	Role         UserRole       `gorm:"type:varchar(20);default:'Utilisateur'" json:"role"`   // rôle
	CreatedAt    time.Time      `json:"created_at"`                                           // date de création
	UpdatedAt    time.Time      `json:"updated_at"`                                           // date de modification
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                       // suppression logique
}

func (User) TableName() string {
	return "users"
}

// IsAdmin indique si l'utilisateur a accès au tableau de bord.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
