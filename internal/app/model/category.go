package model

import (
	"time"
)

// Category catégorie principale du catalogue (ex: "Développement web")
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`                 // ID catégorie
	Nom       string    `gorm:"uniqueIndex;not null" json:"nom"`      // nom affiché
	Slug      string    `gorm:"column:slugs;uniqueIndex;not null" json:"slugs"` // slug d'URL
	CreatedAt time.Time `json:"date_creation"`                        // date de création

	SousCategories []SubCategory `gorm:"foreignKey:CategoryID" json:"sous_categories,omitempty"` // sous-catégories rattachées
}

func (Category) TableName() string {
	return "categories"
}

// SubCategory sous-catégorie rattachée à une catégorie principale
type SubCategory struct {
	ID         uint      `gorm:"primarykey" json:"id"`                           // ID sous-catégorie
	Nom        string    `gorm:"not null" json:"nom"`                            // nom affiché
	Slug       string    `gorm:"column:slugs;uniqueIndex;not null" json:"slugs"` // slug d'URL
	CategoryID uint      `gorm:"column:id_categorie;not null;index" json:"id_categorie"` // catégorie parente
	CreatedAt  time.Time `json:"date_creation"`                                  // date de création

	Category Category  `gorm:"foreignKey:CategoryID" json:"categorie,omitempty"`      // catégorie parente
	Services []Service `gorm:"foreignKey:SubCategoryID" json:"services,omitempty"`    // services rattachés
}

func (SubCategory) TableName() string {
	return "sous_categorie"
}
