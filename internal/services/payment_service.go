package services

import (
	"context"
	"errors"

	"github.com/dglmedia/adops-backend/internal/apperrors"
	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/repositories"
	"github.com/dglmedia/adops-backend/pkg/paygate"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// PaymentVerifier abstracts the provider verification call for testing.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, reference string) (*paygate.VerificationResponse, error)
}

// Compile-time check to ensure PaymentServiceImpl implements PaymentService
var _ PaymentService = (*PaymentServiceImpl)(nil)

// PaymentServiceImpl records payments and turns provider webhooks into
// activation cascade runs.
type PaymentServiceImpl struct {
	paymentRepo repositories.PaymentRepository
	adRepo      repositories.AdRepository
	activation  ActivationService
	verifier    PaymentVerifier
}

// NewPaymentService creates a new PaymentServiceImpl
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	adRepo repositories.AdRepository,
	activation ActivationService,
	verifier PaymentVerifier,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		paymentRepo: paymentRepo,
		adRepo:      adRepo,
		activation:  activation,
		verifier:    verifier,
	}
}

// CreatePayment records a pending payment for an approved ad.
func (s *PaymentServiceImpl) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.AdID.IsZero() {
		return nil, apperrors.E(apperrors.CodeValidation, "adId is required")
	}
	if payment.Amount <= 0 {
		return nil, apperrors.E(apperrors.CodeValidation, "amount must be positive")
	}
	if payment.Reference == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "reference is required")
	}

	ad, err := s.adRepo.FindByID(ctx, payment.AdID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "ad %s not found", payment.AdID.Hex())
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load ad %s", payment.AdID.Hex())
	}
	if ad.Status != models.AdApprovalApproved {
		return nil, apperrors.E(apperrors.CodeInvalidState,
			"ad %s is not approved (current: %s)", ad.ID.Hex(), ad.Status)
	}

	payment.Status = models.PaymentStatusPending
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create payment")
	}
	slog.Info("Payment recorded", "paymentId", payment.ID.Hex(), "adId", payment.AdID.Hex(), "reference", payment.Reference)
	return payment, nil
}

// GetPaymentByID retrieves a payment.
func (s *PaymentServiceImpl) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "payment %s not found", id.Hex())
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load payment %s", id.Hex())
	}
	return payment, nil
}

// GetPaymentsByAd retrieves all settlement attempts recorded for an ad.
func (s *PaymentServiceImpl) GetPaymentsByAd(ctx context.Context, adID primitive.ObjectID) ([]*models.Payment, error) {
	payments, err := s.paymentRepo.FindByAdID(ctx, adID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load payments for ad %s", adID.Hex())
	}
	return payments, nil
}

// SettleByReference handles a provider webhook: verify the reference, then
// run the activation cascade for the matching payment.
func (s *PaymentServiceImpl) SettleByReference(ctx context.Context, reference string) (*CascadeReport, error) {
	if reference == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "reference is required")
	}

	payment, err := s.paymentRepo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "no payment with reference %s", reference)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to look up reference %s", reference)
	}

	verification, err := s.verifier.VerifyPayment(ctx, reference)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "provider verification failed for %s", reference)
	}
	if !verification.Settled() {
		return nil, apperrors.E(apperrors.CodeInvalidState,
			"reference %s not settled at provider (status %s)", reference, verification.Status)
	}

	return s.activation.HandlePaymentSettled(ctx, payment.ID)
}
