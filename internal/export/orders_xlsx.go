package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

var orderHeaders = []string{
	"N° commande", "Date", "Client", "Email", "Statut",
	"Service", "Quantité", "Prix unitaire", "Sous-total", "Total commande",
}

// OrdersToXLSX génère un classeur Excel des commandes pour l'export
// comptable du tableau de bord, une ligne par article commandé.
func OrdersToXLSX(orders []model.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Commandes"

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, header := range orderHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	rowIdx := 2
	for _, order := range orders {
		for _, item := range order.OrderItems {
			values := []interface{}{
				order.ID,
				order.CreatedAt.Format("02/01/2006 15:04"),
				order.ClientNom,
				order.ClientEmail,
				string(order.Status),
				item.NomService,
				item.Quantite,
				strconv.FormatFloat(item.PrixUnitaire, 'f', 2, 64),
				strconv.FormatFloat(item.SubTotal, 'f', 2, 64),
				strconv.FormatFloat(order.TotalAmount, 'f', 2, 64),
			}
			for col, value := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return nil, err
				}
			}
			rowIdx++
		}
	}

	return f, nil
}

// ExportFilename nom de fichier daté pour le téléchargement.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("commandes-%s.xlsx", now.Format("2006-01-02"))
}
