package handlers

import (
	"net/http"

	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePayment handles POST /payments
type CreatePaymentRequest struct {
	AdID      string  `json:"adId" binding:"required"`
	UserID    string  `json:"userId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Reference string  `json:"reference" binding:"required"`
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var request CreatePaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adID, err := primitive.ObjectIDFromHex(request.AdID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid adId format"})
		return
	}
	userID, err := primitive.ObjectIDFromHex(request.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId format"})
		return
	}

	payment := &models.Payment{
		AdID:      adID,
		UserID:    userID,
		Amount:    request.Amount,
		Reference: request.Reference,
	}
	created, err := h.paymentService.CreatePayment(c.Request.Context(), payment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetPaymentByID handles GET /payments/:id
func (h *PaymentHandler) GetPaymentByID(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// GetPaymentsByAd handles GET /payments/ad/:adId
func (h *PaymentHandler) GetPaymentsByAd(c *gin.Context) {
	adID, ok := parseObjectID(c, "adId")
	if !ok {
		return
	}
	payments, err := h.paymentService.GetPaymentsByAd(c.Request.Context(), adID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// Webhook handles POST /payments/webhook. The provider notifies settlement by
// reference; the response carries the staged activation report so callers can
// see exactly which stage failed, if any.
type WebhookRequest struct {
	Reference string `json:"reference" binding:"required"`
}

func (h *PaymentHandler) Webhook(c *gin.Context) {
	var request WebhookRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.paymentService.SettleByReference(c.Request.Context(), request.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
