package handlers

import (
	"net/http"

	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// MaterialHandler handles material-registry HTTP requests
type MaterialHandler struct {
	materialService services.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materialService services.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// CreateMaterial handles POST /materials
type CreateMaterialRequest struct {
	MaterialID   string `json:"materialId" binding:"required"`
	MaterialType string `json:"materialType" binding:"required"`
	DriverID     string `json:"driverId"`
	VehicleRef   string `json:"vehicleRef"`
}

func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var request CreateMaterialRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	material := &models.Material{
		MaterialID:   request.MaterialID,
		MaterialType: models.MaterialType(request.MaterialType),
		DriverID:     request.DriverID,
		VehicleRef:   request.VehicleRef,
	}
	created, err := h.materialService.CreateMaterial(c.Request.Context(), material)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetMaterialByID handles GET /materials/:materialId
func (h *MaterialHandler) GetMaterialByID(c *gin.Context) {
	material, err := h.materialService.GetMaterialByID(c.Request.Context(), c.Param("materialId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

// GetAllMaterials handles GET /materials
func (h *MaterialHandler) GetAllMaterials(c *gin.Context) {
	materials, err := h.materialService.GetAllMaterials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

// AssignDriver handles PATCH /materials/:materialId/driver
type AssignDriverRequest struct {
	DriverID string `json:"driverId" binding:"required"`
}

func (h *MaterialHandler) AssignDriver(c *gin.Context) {
	var request AssignDriverRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	material, err := h.materialService.AssignDriver(c.Request.Context(), c.Param("materialId"), request.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}
