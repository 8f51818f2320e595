package handlers

import (
	"net/http"
	"time"

	"github.com/dglmedia/adops-backend/internal/apperrors"
	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeploymentHandler handles deployment-related HTTP requests
type DeploymentHandler struct {
	deploymentService services.DeploymentService
	activationService services.ActivationService
}

// NewDeploymentHandler creates a new DeploymentHandler
func NewDeploymentHandler(deploymentService services.DeploymentService, activationService services.ActivationService) *DeploymentHandler {
	return &DeploymentHandler{
		deploymentService: deploymentService,
		activationService: activationService,
	}
}

// CreateDeployment handles POST /deployments
type CreateDeploymentRequest struct {
	AdID       string    `json:"adId" binding:"required"`
	MaterialID string    `json:"materialId" binding:"required"`
	DriverID   string    `json:"driverId" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	EndTime    time.Time `json:"endTime" binding:"required"`
}

func (h *DeploymentHandler) CreateDeployment(c *gin.Context) {
	var request CreateDeploymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adID, err := primitive.ObjectIDFromHex(request.AdID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adId format"})
		return
	}

	deployment, err := h.deploymentService.CreateDeployment(c.Request.Context(), adID, request.MaterialID, request.DriverID, request.StartTime, request.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deployment)
}

// AllocateSlot handles POST /deployments/material/:materialId/slots
type AllocateSlotRequest struct {
	AdID      string    `json:"adId" binding:"required"`
	DriverID  string    `json:"driverId" binding:"required"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
}

func (h *DeploymentHandler) AllocateSlot(c *gin.Context) {
	var request AllocateSlotRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adID, err := primitive.ObjectIDFromHex(request.AdID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adId format"})
		return
	}

	slot, err := h.deploymentService.AllocateSlot(c.Request.Context(), c.Param("materialId"), request.DriverID, adID, request.StartTime, request.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// UpdateDeploymentStatus handles PATCH /deployments/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *DeploymentHandler) UpdateDeploymentStatus(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	var request UpdateStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, ok := models.ParseDeploymentStatus(request.Status)
	if !ok {
		respondError(c, apperrors.E(apperrors.CodeValidation, "unknown status %q", request.Status))
		return
	}

	deployment, err := h.deploymentService.UpdateDeploymentStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployment)
}

// UpdateSlotStatus handles PATCH /deployments/material/:materialId/slots/status
type UpdateSlotStatusRequest struct {
	AdID   string `json:"adId" binding:"required"`
	Status string `json:"status" binding:"required"`
	Actor  string `json:"actor"`
}

func (h *DeploymentHandler) UpdateSlotStatus(c *gin.Context) {
	var request UpdateSlotStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adID, err := primitive.ObjectIDFromHex(request.AdID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adId format"})
		return
	}
	status, ok := models.ParseDeploymentStatus(request.Status)
	if !ok {
		respondError(c, apperrors.E(apperrors.CodeValidation, "unknown status %q", request.Status))
		return
	}

	deployment, err := h.deploymentService.UpdateSlotStatus(c.Request.Context(), c.Param("materialId"), adID, status, request.Actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployment)
}

// RemoveAds handles POST /deployments/material/:materialId/remove-ads
type RemoveAdsRequest struct {
	AdIDs     []string `json:"adIds" binding:"required"`
	RemovedBy string   `json:"removedBy" binding:"required"`
	Reason    string   `json:"reason"`
}

func (h *DeploymentHandler) RemoveAds(c *gin.Context) {
	var request RemoveAdsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adIDs := make([]primitive.ObjectID, 0, len(request.AdIDs))
	for _, raw := range request.AdIDs {
		adID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adId format: " + raw})
			return
		}
		adIDs = append(adIDs, adID)
	}

	result, err := h.deploymentService.RemoveAds(c.Request.Context(), c.Param("materialId"), adIDs, request.RemovedBy, request.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ReassignSlots handles POST /deployments/material/:materialId/reassign-slots
func (h *DeploymentHandler) ReassignSlots(c *gin.Context) {
	reassignments, err := h.deploymentService.ReassignSlots(c.Request.Context(), c.Param("materialId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reassignments": reassignments})
}

// RetryDeployment handles POST /deployments/retry/:adId
func (h *DeploymentHandler) RetryDeployment(c *gin.Context) {
	adID, ok := parseObjectID(c, "adId")
	if !ok {
		return
	}
	deployment, err := h.activationService.RetryDeployment(c.Request.Context(), adID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployment)
}

// DeleteDeployment handles DELETE /deployments/:id
func (h *DeploymentHandler) DeleteDeployment(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.deploymentService.DeleteDeployment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deployment deleted successfully"})
}

// GetDeploymentByID handles GET /deployments/:id
func (h *DeploymentHandler) GetDeploymentByID(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	deployment, err := h.deploymentService.GetDeploymentByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployment)
}

// GetDeploymentsByDriver handles GET /deployments/driver/:driverId
func (h *DeploymentHandler) GetDeploymentsByDriver(c *gin.Context) {
	deployments, err := h.deploymentService.GetDeploymentsByDriver(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployments)
}

// GetDeploymentsByAd handles GET /deployments/ad/:adId
func (h *DeploymentHandler) GetDeploymentsByAd(c *gin.Context) {
	adID, ok := parseObjectID(c, "adId")
	if !ok {
		return
	}
	deployments, err := h.deploymentService.GetDeploymentsByAd(c.Request.Context(), adID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployments)
}

// GetDeploymentByMaterial handles GET /deployments/material/:materialId
func (h *DeploymentHandler) GetDeploymentByMaterial(c *gin.Context) {
	deployment, err := h.deploymentService.GetDeploymentByMaterial(c.Request.Context(), c.Param("materialId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployment)
}

// GetActiveDeployments handles GET /deployments/active
func (h *DeploymentHandler) GetActiveDeployments(c *gin.Context) {
	deployments, err := h.deploymentService.GetActiveDeployments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployments)
}
