package services

import (
	"context"
	"time"

	"github.com/dglmedia/adops-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeploymentService defines the interface for the scheduling and slot
// allocation engine.
type DeploymentService interface {
	// CreateDeployment routes an ad onto a material per its material type.
	CreateDeployment(ctx context.Context, adID primitive.ObjectID, materialID, driverID string, startTime, endTime time.Time) (*models.Deployment, error)
	// Deploy routes an already-loaded ad/material pair. Called exactly once
	// per successful activation by the cascade.
	Deploy(ctx context.Context, ad *models.Ad, material *models.Material) (*models.Deployment, error)
	// AllocateSlot assigns the ad to the first free slot number on a shared material.
	AllocateSlot(ctx context.Context, materialID, driverID string, adID primitive.ObjectID, startTime, endTime time.Time) (*models.Slot, error)

	UpdateDeploymentStatus(ctx context.Context, id primitive.ObjectID, status models.DeploymentStatus) (*models.Deployment, error)
	UpdateSlotStatus(ctx context.Context, materialID string, adID primitive.ObjectID, status models.DeploymentStatus, actor string) (*models.Deployment, error)
	RemoveAds(ctx context.Context, materialID string, adIDs []primitive.ObjectID, removedBy, reason string) (*models.RemovalResult, error)
	ReassignSlots(ctx context.Context, materialID string) ([]models.SlotReassignment, error)
	DeleteDeployment(ctx context.Context, id primitive.ObjectID) error

	GetDeploymentByID(ctx context.Context, id primitive.ObjectID) (*models.Deployment, error)
	GetDeploymentsByDriver(ctx context.Context, driverID string) ([]*models.Deployment, error)
	GetDeploymentsByAd(ctx context.Context, adID primitive.ObjectID) ([]*models.Deployment, error)
	GetDeploymentByMaterial(ctx context.Context, materialID string) (*models.Deployment, error)
	GetActiveDeployments(ctx context.Context) ([]*models.Deployment, error)
}

// ActivationService defines the payment-settled activation pipeline.
type ActivationService interface {
	HandlePaymentSettled(ctx context.Context, paymentID primitive.ObjectID) (*CascadeReport, error)
	RetryDeployment(ctx context.Context, adID primitive.ObjectID) (*models.Deployment, error)
}

// PaymentService defines payment recording and webhook settlement.
type PaymentService interface {
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	GetPaymentsByAd(ctx context.Context, adID primitive.ObjectID) ([]*models.Payment, error)
	SettleByReference(ctx context.Context, reference string) (*CascadeReport, error)
}

// AdService defines the collaborator surface for ads the engine needs in-repo.
type AdService interface {
	CreateAd(ctx context.Context, ad *models.Ad) (*models.Ad, error)
	GetAdByID(ctx context.Context, id primitive.ObjectID) (*models.Ad, error)
	GetAdsByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ad, error)
	GetAdsPendingDeployment(ctx context.Context) ([]*models.Ad, error)
	ApproveAd(ctx context.Context, id primitive.ObjectID) (*models.Ad, error)
}

// MaterialService defines the collaborator surface for materials.
type MaterialService interface {
	CreateMaterial(ctx context.Context, material *models.Material) (*models.Material, error)
	GetMaterialByID(ctx context.Context, materialID string) (*models.Material, error)
	GetAllMaterials(ctx context.Context) ([]*models.Material, error)
	AssignDriver(ctx context.Context, materialID, driverID string) (*models.Material, error)
}

// AuthService defines admin authentication operations.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
}
