package services

import (
	"context"
	"testing"
	"time"

	"github.com/dglmedia/adops-backend/internal/apperrors"
	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/pkg/paygate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type activationFixture struct {
	*deploymentFixture
	activation  *ActivationServiceImpl
	paymentRepo *fakePaymentRepo
}

func newActivationFixture(t *testing.T) *activationFixture {
	t.Helper()
	base := newDeploymentFixture(t)
	paymentRepo := newFakePaymentRepo()
	activation := NewActivationService(paymentRepo, base.adRepo, base.materialRepo, base.service)
	activation.now = func() time.Time { return testNow }
	return &activationFixture{
		deploymentFixture: base,
		activation:        activation,
		paymentRepo:       paymentRepo,
	}
}

func (f *activationFixture) createPayment(t *testing.T, adID primitive.ObjectID, reference string) *models.Payment {
	t.Helper()
	payment := &models.Payment{
		AdID:      adID,
		UserID:    primitive.NewObjectID(),
		Amount:    15000,
		Reference: reference,
		Status:    models.PaymentStatusPending,
	}
	require.NoError(t, f.paymentRepo.Create(context.Background(), payment))
	return payment
}

func stageStatus(report *CascadeReport, stage string) string {
	for _, s := range report.Stages {
		if s.Stage == stage {
			return s.Status
		}
	}
	return ""
}

func TestHandlePaymentSettledRunsFullCascade(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-LCD-CAR-001", models.MaterialTypeLCD, "driver-1")
	ad := f.createAd(t, "DGL-LCD-CAR-001")
	payment := f.createPayment(t, ad.ID, "REF-001")

	report, err := f.activation.HandlePaymentSettled(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "OK", stageStatus(report, StagePayment))
	assert.Equal(t, "OK", stageStatus(report, StageAdActivation))
	assert.Equal(t, "OK", stageStatus(report, StageDeployment))
	require.NotNil(t, report.Deployment)
	require.Len(t, report.Deployment.LCDSlots, 1)

	paid, err := f.paymentRepo.FindByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	activated, err := f.adRepo.FindByID(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdLifecycleActive, activated.AdStatus)
	assert.Equal(t, models.PaymentStatusPaid, activated.PaymentStatus)
}

func TestHandlePaymentSettledDeploymentFailureParksAd(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-LCD-CAR-001", models.MaterialTypeLCD, "driver-1")

	// Fill all five slots so the cascade's deployment stage must fail.
	for i := 0; i < models.MaxLCDSlots; i++ {
		filler := f.createAd(t, "DGL-LCD-CAR-001")
		_, err := f.service.AllocateSlot(ctx, "DGL-LCD-CAR-001", "driver-1", filler.ID, testNow, testNow.Add(time.Hour))
		require.NoError(t, err)
	}

	ad := f.createAd(t, "DGL-LCD-CAR-001")
	payment := f.createPayment(t, ad.ID, "REF-002")

	report, err := f.activation.HandlePaymentSettled(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "OK", stageStatus(report, StagePayment))
	assert.Equal(t, "OK", stageStatus(report, StageAdActivation))
	assert.Equal(t, "FAILED", stageStatus(report, StageDeployment))
	assert.Nil(t, report.Deployment)

	var deployStage StageResult
	for _, s := range report.Stages {
		if s.Stage == StageDeployment {
			deployStage = s
		}
	}
	assert.Equal(t, apperrors.CodeCapacityExceeded, deployStage.Code)

	// The payment stays PAID; only the deployment is retried later.
	paid, err := f.paymentRepo.FindByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, paid.Status)

	parked, err := f.adRepo.FindByID(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdLifecyclePendingDeployment, parked.AdStatus)
}

func TestHandlePaymentSettledMissingDriverParksAd(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-LCD-CAR-009", models.MaterialTypeLCD, "")
	ad := f.createAd(t, "DGL-LCD-CAR-009")
	payment := f.createPayment(t, ad.ID, "REF-003")

	report, err := f.activation.HandlePaymentSettled(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "FAILED", stageStatus(report, StageDeployment))

	var deployStage StageResult
	for _, s := range report.Stages {
		if s.Stage == StageDeployment {
			deployStage = s
		}
	}
	assert.Equal(t, apperrors.CodeUpstreamDependencyMissing, deployStage.Code)

	parked, err := f.adRepo.FindByID(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdLifecyclePendingDeployment, parked.AdStatus)
}

func TestHandlePaymentSettledIsIdempotentOnPaid(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-BANNER-CAR-007", models.MaterialTypeBanner, "driver-2")
	ad := f.createAd(t, "DGL-BANNER-CAR-007")
	payment := f.createPayment(t, ad.ID, "REF-004")

	first, err := f.activation.HandlePaymentSettled(ctx, payment.ID)
	require.NoError(t, err)
	require.NotNil(t, first.Deployment)

	// A second settlement webhook lands on the same deployment.
	second, err := f.activation.HandlePaymentSettled(ctx, payment.ID)
	require.NoError(t, err)
	require.NotNil(t, second.Deployment)
	assert.Equal(t, first.Deployment.ID, second.Deployment.ID)
}

func TestHandlePaymentSettledIsIdempotentOnSharedMaterial(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-LCD-CAR-001", models.MaterialTypeLCD, "driver-1")
	ad := f.createAd(t, "DGL-LCD-CAR-001")
	payment := f.createPayment(t, ad.ID, "REF-006")

	first, err := f.activation.HandlePaymentSettled(ctx, payment.ID)
	require.NoError(t, err)
	require.NotNil(t, first.Deployment)
	require.Len(t, first.Deployment.LCDSlots, 1)

	// A redelivered webhook must not park the ad or grow the slot list.
	second, err := f.activation.HandlePaymentSettled(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "OK", stageStatus(second, StageDeployment))
	require.NotNil(t, second.Deployment)
	assert.Equal(t, first.Deployment.ID, second.Deployment.ID)
	require.Len(t, second.Deployment.LCDSlots, 1)

	ad2, err := f.adRepo.FindByID(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdLifecycleActive, ad2.AdStatus)
}

func TestHandlePaymentSettledUnknownPayment(t *testing.T) {
	f := newActivationFixture(t)
	_, err := f.activation.HandlePaymentSettled(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestRetryDeploymentAfterCapacityFrees(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-LCD-CAR-001", models.MaterialTypeLCD, "driver-1")

	fillers := make([]*models.Ad, models.MaxLCDSlots)
	for i := range fillers {
		fillers[i] = f.createAd(t, "DGL-LCD-CAR-001")
		_, err := f.service.AllocateSlot(ctx, "DGL-LCD-CAR-001", "driver-1", fillers[i].ID, testNow, testNow.Add(time.Hour))
		require.NoError(t, err)
	}

	ad := f.createAd(t, "DGL-LCD-CAR-001")
	payment := f.createPayment(t, ad.ID, "REF-005")
	report, err := f.activation.HandlePaymentSettled(ctx, payment.ID)
	require.NoError(t, err)
	require.Equal(t, "FAILED", stageStatus(report, StageDeployment))

	// Capacity opens up, the retry succeeds and reactivates the ad.
	_, err = f.service.RemoveAds(ctx, "DGL-LCD-CAR-001", []primitive.ObjectID{fillers[0].ID}, "ops@dglmedia", "")
	require.NoError(t, err)

	deployment, err := f.activation.RetryDeployment(ctx, ad.ID)
	require.NoError(t, err)
	require.NotNil(t, deployment.FindActiveSlotByAd(ad.ID))
	assert.Equal(t, 1, deployment.FindActiveSlotByAd(ad.ID).SlotNumber)

	reactivated, err := f.adRepo.FindByID(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdLifecycleActive, reactivated.AdStatus)
}

func TestRetryDeploymentRequiresPendingDeployment(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-LCD-CAR-001", models.MaterialTypeLCD, "driver-1")
	ad := f.createAd(t, "DGL-LCD-CAR-001")

	_, err := f.activation.RetryDeployment(ctx, ad.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))
}

func TestRetryDeploymentRequiresPaid(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-LCD-CAR-001", models.MaterialTypeLCD, "driver-1")
	ad := f.createAd(t, "DGL-LCD-CAR-001")
	ad.AdStatus = models.AdLifecyclePendingDeployment
	require.NoError(t, f.adRepo.Update(ctx, ad))

	_, err := f.activation.RetryDeployment(ctx, ad.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))
}

type fakeVerifier struct {
	status string
	err    error
}

func (v *fakeVerifier) VerifyPayment(_ context.Context, reference string) (*paygate.VerificationResponse, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &paygate.VerificationResponse{Reference: reference, Status: v.status}, nil
}

func TestSettleByReferenceRunsCascade(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-BANNER-CAR-007", models.MaterialTypeBanner, "driver-2")
	ad := f.createAd(t, "DGL-BANNER-CAR-007")
	f.createPayment(t, ad.ID, "REF-100")

	paymentService := NewPaymentService(f.paymentRepo, f.adRepo, f.activation, &fakeVerifier{status: "SUCCESS"})
	report, err := paymentService.SettleByReference(ctx, "REF-100")
	require.NoError(t, err)
	assert.Equal(t, "OK", stageStatus(report, StageDeployment))
	require.NotNil(t, report.Deployment)
}

func TestSettleByReferenceRejectsUnsettled(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-BANNER-CAR-007", models.MaterialTypeBanner, "driver-2")
	ad := f.createAd(t, "DGL-BANNER-CAR-007")
	f.createPayment(t, ad.ID, "REF-101")

	paymentService := NewPaymentService(f.paymentRepo, f.adRepo, f.activation, &fakeVerifier{status: "FAILED"})
	_, err := paymentService.SettleByReference(ctx, "REF-101")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))
}

func TestSettleByReferenceUnknownReference(t *testing.T) {
	f := newActivationFixture(t)
	paymentService := NewPaymentService(f.paymentRepo, f.adRepo, f.activation, &fakeVerifier{status: "SUCCESS"})
	_, err := paymentService.SettleByReference(context.Background(), "REF-404")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestGetAdsPendingDeploymentListsParkedAds(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-LCD-CAR-009", models.MaterialTypeLCD, "")
	ad := f.createAd(t, "DGL-LCD-CAR-009")
	payment := f.createPayment(t, ad.ID, "REF-300")

	adService := NewAdService(f.adRepo, f.materialRepo)
	pending, err := adService.GetAdsPendingDeployment(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// The missing driver parks the ad, which then shows up on the worklist.
	report, err := f.activation.HandlePaymentSettled(ctx, payment.ID)
	require.NoError(t, err)
	require.Equal(t, "FAILED", stageStatus(report, StageDeployment))

	pending, err = adService.GetAdsPendingDeployment(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ad.ID, pending[0].ID)
}

func TestGetPaymentsByAd(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-BANNER-CAR-007", models.MaterialTypeBanner, "driver-2")
	ad := f.createAd(t, "DGL-BANNER-CAR-007")
	f.createPayment(t, ad.ID, "REF-301")
	f.createPayment(t, ad.ID, "REF-302")
	other := f.createAd(t, "DGL-BANNER-CAR-007")
	f.createPayment(t, other.ID, "REF-303")

	paymentService := NewPaymentService(f.paymentRepo, f.adRepo, f.activation, &fakeVerifier{status: "SUCCESS"})
	payments, err := paymentService.GetPaymentsByAd(ctx, ad.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	for _, p := range payments {
		assert.Equal(t, ad.ID, p.AdID)
	}
}

func TestCreatePaymentRequiresApprovedAd(t *testing.T) {
	f := newActivationFixture(t)
	ctx := context.Background()
	f.createMaterial(t, "DGL-BANNER-CAR-007", models.MaterialTypeBanner, "driver-2")
	ad := f.createAd(t, "DGL-BANNER-CAR-007")
	ad.Status = models.AdApprovalPending
	require.NoError(t, f.adRepo.Update(ctx, ad))

	paymentService := NewPaymentService(f.paymentRepo, f.adRepo, f.activation, &fakeVerifier{status: "SUCCESS"})
	_, err := paymentService.CreatePayment(ctx, &models.Payment{
		AdID:      ad.ID,
		UserID:    ad.UserID,
		Amount:    5000,
		Reference: "REF-200",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))
}
