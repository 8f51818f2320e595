package services

import (
	"context"
	"errors"
	"time"

	"github.com/dglmedia/adops-backend/internal/apperrors"
	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Cascade stage names, in execution order.
const (
	StagePayment      = "payment"
	StageAdActivation = "ad-activation"
	StageDeployment   = "deployment"
)

// StageResult reports the outcome of one cascade stage.
type StageResult struct {
	Stage  string         `json:"stage"`
	Status string         `json:"status"` // OK, FAILED or SKIPPED
	Code   apperrors.Code `json:"code,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// CascadeReport is the per-stage account of one activation run. A caller can
// see "payment recorded, activation done, deployment failed: capacity
// exceeded" instead of a silently half-completed chain.
type CascadeReport struct {
	PaymentID  primitive.ObjectID `json:"paymentId"`
	AdID       primitive.ObjectID `json:"adId,omitempty"`
	Stages     []StageResult      `json:"stages"`
	Deployment *models.Deployment `json:"deployment,omitempty"`
}

func (r *CascadeReport) ok(stage string) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Status: "OK"})
}

func (r *CascadeReport) failed(stage string, err error) {
	r.Stages = append(r.Stages, StageResult{
		Stage:  stage,
		Status: "FAILED",
		Code:   apperrors.CodeOf(err),
		Error:  err.Error(),
	})
}

// Compile-time check to ensure ActivationServiceImpl implements ActivationService
var _ ActivationService = (*ActivationServiceImpl)(nil)

// ActivationServiceImpl runs the payment → ad → deployment activation
// pipeline as explicit stages. A later stage failing does not roll back an
// earlier one; the failure is surfaced on the ad as PENDING_DEPLOYMENT and in
// the returned report.
type ActivationServiceImpl struct {
	paymentRepo       repositories.PaymentRepository
	adRepo            repositories.AdRepository
	materialRepo      repositories.MaterialRepository
	deploymentService DeploymentService
	now               func() time.Time
}

// NewActivationService creates a new ActivationServiceImpl
func NewActivationService(
	paymentRepo repositories.PaymentRepository,
	adRepo repositories.AdRepository,
	materialRepo repositories.MaterialRepository,
	deploymentService DeploymentService,
) *ActivationServiceImpl {
	return &ActivationServiceImpl{
		paymentRepo:       paymentRepo,
		adRepo:            adRepo,
		materialRepo:      materialRepo,
		deploymentService: deploymentService,
		now:               time.Now,
	}
}

// HandlePaymentSettled marks the payment PAID and drives the downstream
// stages. The report is returned even when a stage fails; only a missing
// payment is an outright error.
func (s *ActivationServiceImpl) HandlePaymentSettled(ctx context.Context, paymentID primitive.ObjectID) (*CascadeReport, error) {
	report := &CascadeReport{PaymentID: paymentID}

	// Stage 1: payment settlement.
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "payment %s not found", paymentID.Hex())
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load payment %s", paymentID.Hex())
	}
	report.AdID = payment.AdID

	if payment.Status != models.PaymentStatusPaid {
		now := s.now()
		payment.Status = models.PaymentStatusPaid
		payment.PaidAt = &now
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			report.failed(StagePayment, apperrors.Wrap(apperrors.CodeInternal, err, "failed to mark payment paid"))
			return report, nil
		}
	}
	report.ok(StagePayment)

	// Stage 2: ad activation.
	ad, err := s.adRepo.FindByID(ctx, payment.AdID)
	if err != nil {
		report.failed(StageAdActivation, apperrors.Wrap(apperrors.CodeNotFound, err, "ad %s not found", payment.AdID.Hex()))
		slog.Error("Activation cascade: ad lookup failed", "paymentId", paymentID.Hex(), "adId", payment.AdID.Hex(), "error", err)
		return report, nil
	}
	ad.AdStatus = models.AdLifecycleActive
	ad.PaymentStatus = models.PaymentStatusPaid
	if err := s.adRepo.Update(ctx, ad); err != nil {
		report.failed(StageAdActivation, apperrors.Wrap(apperrors.CodeInternal, err, "failed to activate ad"))
		slog.Error("Activation cascade: ad activation failed", "adId", ad.ID.Hex(), "error", err)
		return report, nil
	}
	report.ok(StageAdActivation)

	// Stage 3: deployment.
	deployment, err := s.deployActivatedAd(ctx, ad)
	if err != nil {
		report.failed(StageDeployment, err)
		slog.Warn("Activation cascade: deployment failed, ad parked for retry",
			"adId", ad.ID.Hex(), "code", apperrors.CodeOf(err), "error", err)
		return report, nil
	}
	report.ok(StageDeployment)
	report.Deployment = deployment

	slog.Info("Activation cascade completed", "paymentId", paymentID.Hex(),
		"adId", ad.ID.Hex(), "deploymentId", deployment.ID.Hex())
	return report, nil
}

// RetryDeployment re-runs only the deployment stage for an ad parked in
// PENDING_DEPLOYMENT.
func (s *ActivationServiceImpl) RetryDeployment(ctx context.Context, adID primitive.ObjectID) (*models.Deployment, error) {
	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "ad %s not found", adID.Hex())
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load ad %s", adID.Hex())
	}
	if ad.AdStatus != models.AdLifecyclePendingDeployment {
		return nil, apperrors.E(apperrors.CodeInvalidState,
			"ad %s is not pending deployment (current: %s)", adID.Hex(), ad.AdStatus)
	}
	if ad.PaymentStatus != models.PaymentStatusPaid {
		return nil, apperrors.E(apperrors.CodeInvalidState, "ad %s is not paid", adID.Hex())
	}

	ad.AdStatus = models.AdLifecycleActive
	if err := s.adRepo.Update(ctx, ad); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to reactivate ad %s", adID.Hex())
	}

	deployment, err := s.deployActivatedAd(ctx, ad)
	if err != nil {
		return nil, err
	}
	slog.Info("Deployment retry succeeded", "adId", adID.Hex(), "deploymentId", deployment.ID.Hex())
	return deployment, nil
}

// deployActivatedAd resolves the ad's material and routes the deployment. On
// failure the ad is parked in PENDING_DEPLOYMENT so the failure is visible
// and retryable rather than swallowed.
func (s *ActivationServiceImpl) deployActivatedAd(ctx context.Context, ad *models.Ad) (*models.Deployment, error) {
	material, err := s.materialRepo.FindByMaterialID(ctx, ad.MaterialID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.parkAd(ctx, ad, apperrors.E(apperrors.CodeNotFound, "material %s not found", ad.MaterialID))
		}
		return nil, s.parkAd(ctx, ad, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load material %s", ad.MaterialID))
	}
	if material.DriverID == "" {
		return nil, s.parkAd(ctx, ad, apperrors.E(apperrors.CodeUpstreamDependencyMissing,
			"material %s has no assigned driver", ad.MaterialID))
	}

	deployment, err := s.deploymentService.Deploy(ctx, ad, material)
	if err != nil {
		return nil, s.parkAd(ctx, ad, err)
	}
	return deployment, nil
}

// parkAd records the deployment failure on the ad and passes the cause through.
func (s *ActivationServiceImpl) parkAd(ctx context.Context, ad *models.Ad, cause error) error {
	ad.AdStatus = models.AdLifecyclePendingDeployment
	if err := s.adRepo.Update(ctx, ad); err != nil {
		slog.Error("Failed to park ad as pending deployment", "adId", ad.ID.Hex(), "error", err)
	}
	return cause
}
