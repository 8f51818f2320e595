package utils

import (
	"strings"
	"testing"

	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMaterialsCSV(t *testing.T) {
	input := strings.Join([]string{
		"materialId,materialType,driverId,vehicleRef",
		"DGL-LCD-CAR-001,LCD,driver-1,LAG-123-XY",
		"DGL-BANNER-CAR-007,banner,,",
		"DGL-???-CAR-009,HOLOGRAM,driver-9,",
		",LCD,driver-2,",
	}, "\n")

	materials, skipped, err := ParseMaterialsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, materials, 2)
	assert.Len(t, skipped, 2)

	assert.Equal(t, "DGL-LCD-CAR-001", materials[0].MaterialID)
	assert.Equal(t, models.MaterialTypeLCD, materials[0].MaterialType)
	assert.Equal(t, "driver-1", materials[0].DriverID)
	assert.Equal(t, "LAG-123-XY", materials[0].VehicleRef)
	assert.True(t, materials[0].Active)

	// Material type is case-insensitive on import.
	assert.Equal(t, models.MaterialTypeBanner, materials[1].MaterialType)
}

func TestParseMaterialsCSVEmpty(t *testing.T) {
	_, _, err := ParseMaterialsCSV(strings.NewReader("materialId,materialType\n"))
	require.Error(t, err)
}
