package services

import (
	"context"
	"errors"

	"github.com/dglmedia/adops-backend/internal/apperrors"
	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AdServiceImpl implements AdService
var _ AdService = (*AdServiceImpl)(nil)

// AdServiceImpl is the minimal ad collaborator the engine needs in-repo:
// booking, lookup and approval. Full ad management lives elsewhere.
type AdServiceImpl struct {
	adRepo       repositories.AdRepository
	materialRepo repositories.MaterialRepository
}

// NewAdService creates a new AdServiceImpl
func NewAdService(adRepo repositories.AdRepository, materialRepo repositories.MaterialRepository) *AdServiceImpl {
	return &AdServiceImpl{
		adRepo:       adRepo,
		materialRepo: materialRepo,
	}
}

// CreateAd books a new ad against a material. It starts PENDING review,
// INACTIVE and unpaid.
func (s *AdServiceImpl) CreateAd(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	if ad.MaterialID == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "materialId is required")
	}
	if ad.MediaFile == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "mediaFile is required")
	}
	if !ad.EndTime.After(ad.StartTime) {
		return nil, apperrors.E(apperrors.CodeValidation, "endTime must be after startTime")
	}
	if ad.AdType != models.AdTypeDigital && ad.AdType != models.AdTypeNonDigital {
		return nil, apperrors.E(apperrors.CodeValidation, "unknown adType %q", ad.AdType)
	}

	if _, err := s.materialRepo.FindByMaterialID(ctx, ad.MaterialID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "material %s not found", ad.MaterialID)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load material %s", ad.MaterialID)
	}

	ad.Status = models.AdApprovalPending
	ad.AdStatus = models.AdLifecycleInactive
	ad.PaymentStatus = models.PaymentStatusPending
	if err := s.adRepo.Create(ctx, ad); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create ad")
	}
	slog.Info("Ad booked", "adId", ad.ID.Hex(), "materialId", ad.MaterialID, "adType", ad.AdType)
	return ad, nil
}

// GetAdByID retrieves an ad.
func (s *AdServiceImpl) GetAdByID(ctx context.Context, id primitive.ObjectID) (*models.Ad, error) {
	ad, err := s.adRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "ad %s not found", id.Hex())
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load ad %s", id.Hex())
	}
	return ad, nil
}

// GetAdsByUser retrieves all ads owned by a user.
func (s *AdServiceImpl) GetAdsByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Ad, error) {
	ads, err := s.adRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load ads for user %s", userID.Hex())
	}
	return ads, nil
}

// GetAdsPendingDeployment lists ads whose payment settled but whose deployment
// stage failed, the worklist for deployment retries.
func (s *AdServiceImpl) GetAdsPendingDeployment(ctx context.Context) ([]*models.Ad, error) {
	ads, err := s.adRepo.FindByLifecycleStatus(ctx, models.AdLifecyclePendingDeployment)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load ads pending deployment")
	}
	return ads, nil
}

// ApproveAd moves a pending ad to APPROVED so a payment can be taken.
func (s *AdServiceImpl) ApproveAd(ctx context.Context, id primitive.ObjectID) (*models.Ad, error) {
	ad, err := s.GetAdByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ad.Status != models.AdApprovalPending {
		return nil, apperrors.E(apperrors.CodeInvalidState,
			"ad %s is not pending review (current: %s)", id.Hex(), ad.Status)
	}
	ad.Status = models.AdApprovalApproved
	if err := s.adRepo.Update(ctx, ad); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to approve ad %s", id.Hex())
	}
	slog.Info("Ad approved", "adId", id.Hex())
	return ad, nil
}
