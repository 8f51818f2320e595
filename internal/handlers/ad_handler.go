package handlers

import (
	"net/http"
	"time"

	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdHandler handles ad-related HTTP requests
type AdHandler struct {
	adService services.AdService
}

// NewAdHandler creates a new AdHandler
func NewAdHandler(adService services.AdService) *AdHandler {
	return &AdHandler{adService: adService}
}

// CreateAd handles POST /ads
type CreateAdRequest struct {
	UserID     string    `json:"userId" binding:"required"`
	MaterialID string    `json:"materialId" binding:"required"`
	PlanID     string    `json:"planId"`
	AdType     string    `json:"adType" binding:"required"`
	MediaFile  string    `json:"mediaFile" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	EndTime    time.Time `json:"endTime" binding:"required"`
}

func (h *AdHandler) CreateAd(c *gin.Context) {
	var request CreateAdRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId format"})
		return
	}

	ad := &models.Ad{
		UserID:     userID,
		MaterialID: request.MaterialID,
		PlanID:     request.PlanID,
		AdType:     models.AdType(request.AdType),
		MediaFile:  request.MediaFile,
		StartTime:  request.StartTime,
		EndTime:    request.EndTime,
	}
	created, err := h.adService.CreateAd(c.Request.Context(), ad)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetAdByID handles GET /ads/:id
func (h *AdHandler) GetAdByID(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	ad, err := h.adService.GetAdByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

// GetAdsByUser handles GET /ads/user/:userId
func (h *AdHandler) GetAdsByUser(c *gin.Context) {
	userID, ok := parseObjectID(c, "userId")
	if !ok {
		return
	}
	ads, err := h.adService.GetAdsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ads)
}

// GetAdsPendingDeployment handles GET /ads/pending-deployment
func (h *AdHandler) GetAdsPendingDeployment(c *gin.Context) {
	ads, err := h.adService.GetAdsPendingDeployment(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ads)
}

// ApproveAd handles POST /ads/:id/approve
func (h *AdHandler) ApproveAd(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	ad, err := h.adService.ApproveAd(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}
