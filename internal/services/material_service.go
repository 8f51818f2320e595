package services

import (
	"context"
	"errors"

	"github.com/dglmedia/adops-backend/internal/apperrors"
	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure MaterialServiceImpl implements MaterialService
var _ MaterialService = (*MaterialServiceImpl)(nil)

// MaterialServiceImpl manages the physical material registry.
type MaterialServiceImpl struct {
	materialRepo repositories.MaterialRepository
}

// NewMaterialService creates a new MaterialServiceImpl
func NewMaterialService(materialRepo repositories.MaterialRepository) *MaterialServiceImpl {
	return &MaterialServiceImpl{materialRepo: materialRepo}
}

// CreateMaterial registers a new physical surface under its string key.
func (s *MaterialServiceImpl) CreateMaterial(ctx context.Context, material *models.Material) (*models.Material, error) {
	if material.MaterialID == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "materialId is required")
	}
	if _, ok := models.ParseMaterialType(string(material.MaterialType)); !ok {
		return nil, apperrors.E(apperrors.CodeValidation, "unknown materialType %q", material.MaterialType)
	}

	if _, err := s.materialRepo.FindByMaterialID(ctx, material.MaterialID); err == nil {
		return nil, apperrors.E(apperrors.CodeInvalidState, "material %s already exists", material.MaterialID)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to check material %s", material.MaterialID)
	}

	material.Active = true
	if err := s.materialRepo.Create(ctx, material); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create material")
	}
	slog.Info("Material registered", "materialId", material.MaterialID, "materialType", material.MaterialType)
	return material, nil
}

// GetMaterialByID retrieves a material by its string key.
func (s *MaterialServiceImpl) GetMaterialByID(ctx context.Context, materialID string) (*models.Material, error) {
	material, err := s.materialRepo.FindByMaterialID(ctx, materialID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "material %s not found", materialID)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load material %s", materialID)
	}
	return material, nil
}

// GetAllMaterials retrieves the whole registry.
func (s *MaterialServiceImpl) GetAllMaterials(ctx context.Context) ([]*models.Material, error) {
	materials, err := s.materialRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load materials")
	}
	return materials, nil
}

// AssignDriver sets the vehicle operator for a material.
func (s *MaterialServiceImpl) AssignDriver(ctx context.Context, materialID, driverID string) (*models.Material, error) {
	if driverID == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "driverId is required")
	}
	if err := s.materialRepo.AssignDriver(ctx, materialID, driverID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "material %s not found", materialID)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to assign driver to material %s", materialID)
	}
	slog.Info("Driver assigned to material", "materialId", materialID, "driverId", driverID)
	return s.GetMaterialByID(ctx, materialID)
}
