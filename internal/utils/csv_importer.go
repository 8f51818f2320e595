package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dglmedia/adops-backend/internal/models"
)

// ParseMaterialsCSV reads a material registry export with the header
// materialId,materialType,driverId,vehicleRef and returns the valid rows.
// Rows with an unknown material type or missing materialId are reported in
// skipped rather than aborting the whole import.
func ParseMaterialsCSV(r io.Reader) (materials []*models.Material, skipped []string, err error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("CSV is empty or has only a header")
	}

	for i, record := range records {
		if i == 0 {
			continue
		}
		if len(record) < 2 {
			skipped = append(skipped, fmt.Sprintf("row %d: expected at least 2 fields, got %d", i, len(record)))
			continue
		}

		materialID := strings.TrimSpace(record[0])
		if materialID == "" {
			skipped = append(skipped, fmt.Sprintf("row %d: missing materialId", i))
			continue
		}
		materialType, ok := models.ParseMaterialType(strings.ToUpper(strings.TrimSpace(record[1])))
		if !ok {
			skipped = append(skipped, fmt.Sprintf("row %d: unknown materialType %q", i, record[1]))
			continue
		}

		material := &models.Material{
			MaterialID:   materialID,
			MaterialType: materialType,
			Active:       true,
		}
		if len(record) > 2 {
			material.DriverID = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			material.VehicleRef = strings.TrimSpace(record[3])
		}
		materials = append(materials, material)
	}

	return materials, skipped, nil
}
