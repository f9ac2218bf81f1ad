package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Service prestation vendue sur le site (ligne du catalogue)
type Service struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                   // ID service
	Nom           string         `gorm:"not null" json:"nom"`                                    // nom affiché
	Slug          string         `gorm:"column:slugs;uniqueIndex;not null" json:"slugs"`         // slug d'URL
	Description   string         `gorm:"type:text" json:"description"`                           // description longue
	Prix          float64        `gorm:"not null" json:"prix"`                                   // prix unitaire en euros
	ImageURL      string         `json:"image_url"`                                              // visuel du service
	EstDisponible bool           `json:"est_disponible"`                                         // visible et commandable
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`                      // mots-clés de recherche
	SubCategoryID uint           `gorm:"column:id_sous_categorie;not null;index" json:"id_sous_categorie"` // sous-catégorie
	CreatedAt     time.Time      `json:"created_at"`                                             // date de création
	UpdatedAt     time.Time      `json:"updated_at"`                                             // date de modification
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                         // suppression logique

	SousCategorie SubCategory `gorm:"foreignKey:SubCategoryID" json:"sous_categorie,omitempty"` // sous-catégorie rattachée
}

func (Service) TableName() string {
	return "services"
}
