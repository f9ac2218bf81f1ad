package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mlegrand/portfolio-backend/config"
	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/internal/db"
	"github.com/mlegrand/portfolio-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Colonnes attendues dans la feuille :
// Catégorie | Sous-catégorie | Service | Description | Prix | Disponible | Tags | Image
const expectedColumns = 8

type catalogRow struct {
	category    string
	subCategory string
	service     string
	description string
	prix        float64
	disponible  bool
	tags        []string
	imageURL    string
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	serviceRepo := repository.NewServiceRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total services to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	created, err := importCatalog(categoryRepo, serviceRepo, rows)
	if err != nil {
		log.Fatal("Failed to import catalog:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total services imported: %d\n", created)
}

func readCatalogFromXLSX(filePath string) ([]catalogRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var catalog []catalogRow
	seenServices := make(map[string]bool)
	skippedCount := 0
	invalidPriceCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 5 {
			skippedCount++
			continue
		}

		// complète les colonnes optionnelles absentes en fin de ligne
		for len(row) < expectedColumns {
			row = append(row, "")
		}

		category := strings.TrimSpace(row[0])
		subCategory := strings.TrimSpace(row[1])
		service := strings.TrimSpace(row[2])
		description := strings.TrimSpace(row[3])
		prixStr := strings.TrimSpace(row[4])
		disponibleStr := strings.TrimSpace(row[5])
		tagsStr := strings.TrimSpace(row[6])
		imageURL := strings.TrimSpace(row[7])

		if category == "" || subCategory == "" || service == "" {
			skippedCount++
			continue
		}

		prixStr = strings.ReplaceAll(prixStr, ",", ".")
		prix, err := strconv.ParseFloat(prixStr, 64)
		if err != nil || prix < 0 {
			invalidPriceCount++
			skippedCount++
			continue
		}

		disponible := true
		switch strings.ToLower(disponibleStr) {
		case "non", "no", "false", "0":
			disponible = false
		}

		var tags []string
		if tagsStr != "" {
			for _, tag := range strings.Split(tagsStr, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					tags = append(tags, tag)
				}
			}
		}

		// dédoublonnage sur catégorie + sous-catégorie + service
		key := fmt.Sprintf("%s|%s|%s", category, subCategory, service)
		if seenServices[key] {
			skippedCount++
			continue
		}
		seenServices[key] = true

		catalog = append(catalog, catalogRow{
			category:    category,
			subCategory: subCategory,
			service:     service,
			description: description,
			prix:        prix,
			disponible:  disponible,
			tags:        tags,
			imageURL:    imageURL,
		})
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid services: %d\n", len(catalog))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with invalid price: %d\n", invalidPriceCount)

	return catalog, nil
}

// importCatalog crée les catégories et sous-catégories au fil des lignes,
// en réutilisant celles qui existent déjà en base.
func importCatalog(
	categoryRepo repository.CategoryRepository,
	serviceRepo repository.ServiceRepository,
	rows []catalogRow,
) (int, error) {
	categories := make(map[string]*model.Category)
	subCategories := make(map[string]*model.SubCategory)
	slugCounter := make(map[string]int)
	created := 0

	for _, row := range rows {
		category, ok := categories[row.category]
		if !ok {
			slug := util.Slugify(row.category)
			existing, err := categoryRepo.FindBySlug(slug)
			if err == nil {
				category = existing
			} else {
				category = &model.Category{
					Nom:  row.category,
					Slug: slug,
				}
				if err := categoryRepo.Create(category); err != nil {
					return created, fmt.Errorf("failed to create category %q: %w", row.category, err)
				}
				fmt.Printf("Created category: %s\n", row.category)
			}
			categories[row.category] = category
		}

		subKey := fmt.Sprintf("%s|%s", row.category, row.subCategory)
		subCategory, ok := subCategories[subKey]
		if !ok {
			subCategory = findSubCategory(category, row.subCategory)
			if subCategory == nil {
				subCategory = &model.SubCategory{
					Nom:        row.subCategory,
					Slug:       util.Slugify(row.subCategory),
					CategoryID: category.ID,
				}
				if err := categoryRepo.CreateSubCategory(subCategory); err != nil {
					return created, fmt.Errorf("failed to create sub-category %q: %w", row.subCategory, err)
				}
				fmt.Printf("Created sub-category: %s (%s)\n", row.subCategory, row.category)
			}
			subCategories[subKey] = subCategory
		}

		baseSlug := util.Slugify(row.service)
		slug := baseSlug
		if count, exists := slugCounter[baseSlug]; exists {
			slugCounter[baseSlug] = count + 1
			slug = fmt.Sprintf("%s-%d", baseSlug, count+1)
		} else {
			slugCounter[baseSlug] = 1
		}

		service := &model.Service{
			Nom:           row.service,
			Slug:          slug,
			Description:   row.description,
			Prix:          row.prix,
			ImageURL:      row.imageURL,
			EstDisponible: row.disponible,
			Tags:          row.tags,
			SubCategoryID: subCategory.ID,
		}
		if err := serviceRepo.Create(service); err != nil {
			return created, fmt.Errorf("failed to create service %q: %w", row.service, err)
		}
		created++

		if created%100 == 0 {
			fmt.Printf("Processed %d services...\n", created)
		}
	}

	return created, nil
}

func findSubCategory(category *model.Category, nom string) *model.SubCategory {
	for i := range category.SousCategories {
		if category.SousCategories[i].Nom == nom {
			return &category.SousCategories[i]
		}
	}
	return nil
}
