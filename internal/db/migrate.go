package db

import (
	"os"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"github.com/mlegrand/portfolio-backend/pkg/util"
)

// Migrate exécute les migrations automatiques et le seed initial.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Category{},
		&model.SubCategory{},
		&model.Service{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.ContactMessage{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed insère les données initiales (idempotent).
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedAdminUser(); err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}

	if err := seedBaseCategories(); err != nil {
		logger.Error("Failed to seed base categories", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedAdminUser crée le compte Admin initial si aucun n'existe.
// Identifiants via ADMIN_EMAIL / ADMIN_PASSWORD, sinon rien n'est créé.
func seedAdminUser() error {
	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Warn("No admin user exists and ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: hash,
		Nom:          "Admin",
		Prenom:       "Site",
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("Admin user seeded", map[string]interface{}{
		"email": email,
	})
	return nil
}

// seedBaseCategories crée les catégories de départ du catalogue si la
// table est vide. Le reste du catalogue arrive via le tableau de bord
// ou la commande d'import.
func seedBaseCategories() error {
	var count int64
	if err := DB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []model.Category{
		{Nom: "Design Graphique", Slug: util.Slugify("Design Graphique")},
		{Nom: "Développement Front-end", Slug: util.Slugify("Développement Front-end")},
		{Nom: "Développement Back-end", Slug: util.Slugify("Développement Back-end")},
	}
	if err := DB.Create(&categories).Error; err != nil {
		return err
	}

	logger.Info("Base categories seeded", map[string]interface{}{
		"count": len(categories),
	})
	return nil
}
