package repositories

import (
	"context"
	"time"

	"github.com/dglmedia/adops-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeploymentRepository defines the interface for deployment data operations
type DeploymentRepository interface {
	Create(ctx context.Context, deployment *models.Deployment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Deployment, error)
	FindByMaterialAndDriver(ctx context.Context, materialID, driverID string) (*models.Deployment, error)
	FindByMaterial(ctx context.Context, materialID string) ([]*models.Deployment, error)
	FindByDriver(ctx context.Context, driverID string) ([]*models.Deployment, error)
	FindByAd(ctx context.Context, adID primitive.ObjectID) ([]*models.Deployment, error)
	FindDirect(ctx context.Context, adID primitive.ObjectID, materialID, driverID string) (*models.Deployment, error)
	FindActive(ctx context.Context, now time.Time) ([]*models.Deployment, error)
	Update(ctx context.Context, deployment *models.Deployment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AdRepository defines the interface for ad data operations
type AdRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ad, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Ad, error)
	FindByLifecycleStatus(ctx context.Context, status models.AdLifecycleStatus) ([]*models.Ad, error)
	Update(ctx context.Context, ad *models.Ad) error
}

// MaterialRepository defines the interface for material data operations
type MaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	CreateMany(ctx context.Context, materials []*models.Material) error
	FindByMaterialID(ctx context.Context, materialID string) (*models.Material, error)
	FindAll(ctx context.Context) ([]*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	AssignDriver(ctx context.Context, materialID, driverID string) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	FindByReference(ctx context.Context, reference string) (*models.Payment, error)
	FindByAdID(ctx context.Context, adID primitive.ObjectID) ([]*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}
