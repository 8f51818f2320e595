package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dglmedia/adops-backend/internal/apperrors"
	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/repositories"
	"github.com/dglmedia/adops-backend/pkg/keylock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DeploymentServiceImpl implements DeploymentService
var _ DeploymentService = (*DeploymentServiceImpl)(nil)

// DeploymentServiceImpl is the scheduling and slot allocation engine. All
// mutations of a deployment document are serialized per (materialId, driverId)
// key; the single document save is the atomic unit of every operation.
type DeploymentServiceImpl struct {
	deploymentRepo repositories.DeploymentRepository
	adRepo         repositories.AdRepository
	materialRepo   repositories.MaterialRepository
	locks          *keylock.KeyedMutex
	now            func() time.Time
}

// NewDeploymentService creates a new DeploymentServiceImpl
func NewDeploymentService(
	deploymentRepo repositories.DeploymentRepository,
	adRepo repositories.AdRepository,
	materialRepo repositories.MaterialRepository,
) *DeploymentServiceImpl {
	return &DeploymentServiceImpl{
		deploymentRepo: deploymentRepo,
		adRepo:         adRepo,
		materialRepo:   materialRepo,
		locks:          keylock.New(),
		now:            time.Now,
	}
}

func lockKey(materialID, driverID string) string {
	return materialID + "|" + driverID
}

// CreateDeployment resolves the ad and material and routes to the slot or
// direct path. An empty driverID falls back to the material's assigned driver.
func (s *DeploymentServiceImpl) CreateDeployment(ctx context.Context, adID primitive.ObjectID, materialID, driverID string, startTime, endTime time.Time) (*models.Deployment, error) {
	if materialID == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "materialId is required")
	}
	if !endTime.After(startTime) {
		return nil, apperrors.E(apperrors.CodeValidation, "endTime must be after startTime")
	}

	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "ad %s not found", adID.Hex())
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load ad %s", adID.Hex())
	}

	material, err := s.materialRepo.FindByMaterialID(ctx, materialID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "material %s not found", materialID)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load material %s", materialID)
	}

	if driverID == "" {
		driverID = material.DriverID
	}
	if driverID == "" {
		return nil, apperrors.E(apperrors.CodeUpstreamDependencyMissing, "material %s has no assigned driver", materialID)
	}

	// The request window overrides the ad's booked window.
	ad.StartTime = startTime
	ad.EndTime = endTime
	mat := *material
	mat.DriverID = driverID
	return s.Deploy(ctx, ad, &mat)
}

// Deploy dispatches on material type: LCD and HEADDRESS share the slot
// allocation path and the 1..5 capacity; every other type gets a direct
// single-ad deployment.
func (s *DeploymentServiceImpl) Deploy(ctx context.Context, ad *models.Ad, material *models.Material) (*models.Deployment, error) {
	if material.DriverID == "" {
		return nil, apperrors.E(apperrors.CodeUpstreamDependencyMissing, "material %s has no assigned driver", material.MaterialID)
	}

	if material.MaterialType.Shared() {
		if _, err := s.AllocateSlot(ctx, material.MaterialID, material.DriverID, ad.ID, ad.StartTime, ad.EndTime); err != nil {
			// The ad already holding a slot means a redelivered activation,
			// not a failure; return the existing deployment as the direct
			// path does.
			if !apperrors.Is(err, apperrors.CodeDuplicateAssignment) {
				return nil, err
			}
			slog.Warn("Ad already holds a slot, returning existing deployment",
				"adId", ad.ID.Hex(), "materialId", material.MaterialID)
		}
		deployment, err := s.deploymentRepo.FindByMaterialAndDriver(ctx, material.MaterialID, material.DriverID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to reload deployment for material %s", material.MaterialID)
		}
		return deployment, nil
	}

	return s.deployDirect(ctx, ad, material)
}

// AllocateSlot implements the allocation algorithm for shared materials.
func (s *DeploymentServiceImpl) AllocateSlot(ctx context.Context, materialID, driverID string, adID primitive.ObjectID, startTime, endTime time.Time) (*models.Slot, error) {
	// Preconditions
	if materialID == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "materialId is required")
	}
	if driverID == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "driverId is required")
	}
	if !endTime.After(startTime) {
		return nil, apperrors.E(apperrors.CodeValidation, "endTime must be after startTime")
	}

	ad, err := s.adRepo.FindByID(ctx, adID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "ad %s not found", adID.Hex())
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load ad %s", adID.Hex())
	}
	if ad.MediaFile == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "ad %s has no media file", adID.Hex())
	}

	// Serialize the read-modify-write cycle per (material, driver) so two
	// concurrent allocations cannot both observe the same free slot.
	key := lockKey(materialID, driverID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	// 1. Look up or lazily create the deployment for the pair.
	deployment, err := s.deploymentRepo.FindByMaterialAndDriver(ctx, materialID, driverID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to look up deployment for material %s", materialID)
		}
		deployment = &models.Deployment{
			MaterialID: materialID,
			DriverID:   driverID,
			LCDSlots:   []models.Slot{},
		}
		if err := s.deploymentRepo.Create(ctx, deployment); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create deployment for material %s", materialID)
		}
		slog.Info("Created deployment", "materialId", materialID, "driverId", driverID, "deploymentId", deployment.ID)
	}

	// 2. An ad may not hold two concurrent slots on the same material.
	if existing := deployment.FindActiveSlotByAd(adID); existing != nil {
		return nil, apperrors.E(apperrors.CodeDuplicateAssignment,
			"ad %s already occupies slot %d on material %s", adID.Hex(), existing.SlotNumber, materialID)
	}

	// 3. First free slot number, scanning 1..5 ascending.
	taken := deployment.ActiveSlotNumbers()
	slotNumber := 0
	for n := 1; n <= models.MaxLCDSlots; n++ {
		if !taken[n] {
			slotNumber = n
			break
		}
	}
	// 4. All five occupied.
	if slotNumber == 0 {
		return nil, apperrors.E(apperrors.CodeCapacityExceeded,
			"material %s has no free slot (capacity %d)", materialID, models.MaxLCDSlots)
	}

	// 5. Insert the slot. MediaFile is snapshotted from the ad as it is now.
	now := s.now()
	slot := models.Slot{
		AdID:       adID,
		SlotNumber: slotNumber,
		StartTime:  startTime,
		EndTime:    endTime,
		Status:     models.DeploymentStatusScheduled,
		MediaFile:  ad.MediaFile,
	}
	if !startTime.After(now) {
		slot.Status = models.DeploymentStatusRunning
		deployedAt := now
		slot.DeployedAt = &deployedAt
	}
	deployment.LCDSlots = append(deployment.LCDSlots, slot)

	// 6. Persist the whole document.
	if err := s.deploymentRepo.Update(ctx, deployment); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to save deployment for material %s", materialID)
	}

	slog.Info("Allocated slot", "materialId", materialID, "driverId", driverID,
		"adId", adID.Hex(), "slotNumber", slotNumber, "status", slot.Status)
	return &deployment.LCDSlots[len(deployment.LCDSlots)-1], nil
}

// deployDirect creates a single-ad deployment for non-shared materials. The
// existence check keeps it idempotent against double activation.
func (s *DeploymentServiceImpl) deployDirect(ctx context.Context, ad *models.Ad, material *models.Material) (*models.Deployment, error) {
	if ad.MediaFile == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "ad %s has no media file", ad.ID.Hex())
	}
	if !ad.EndTime.After(ad.StartTime) {
		return nil, apperrors.E(apperrors.CodeValidation, "endTime must be after startTime")
	}

	key := lockKey(material.MaterialID, material.DriverID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	existing, err := s.deploymentRepo.FindDirect(ctx, ad.ID, material.MaterialID, material.DriverID)
	if err == nil {
		slog.Warn("Direct deployment already exists, returning it",
			"adId", ad.ID.Hex(), "materialId", material.MaterialID)
		return existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to check for existing direct deployment")
	}

	now := s.now()
	deployment := &models.Deployment{
		MaterialID:    material.MaterialID,
		DriverID:      material.DriverID,
		LCDSlots:      []models.Slot{},
		AdID:          ad.ID,
		CurrentStatus: models.DeploymentStatusScheduled,
		StartTime:     ad.StartTime,
		EndTime:       ad.EndTime,
	}
	if !ad.StartTime.After(now) {
		deployment.CurrentStatus = models.DeploymentStatusRunning
		deployedAt := now
		deployment.DeployedAt = &deployedAt
	}
	if err := s.deploymentRepo.Create(ctx, deployment); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create direct deployment")
	}

	slog.Info("Created direct deployment", "materialId", material.MaterialID,
		"driverId", material.DriverID, "adId", ad.ID.Hex(), "status", deployment.CurrentStatus)
	return deployment, nil
}

// UpdateDeploymentStatus transitions a direct deployment's status, enforcing
// the transition table and stamping timestamps.
func (s *DeploymentServiceImpl) UpdateDeploymentStatus(ctx context.Context, id primitive.ObjectID, status models.DeploymentStatus) (*models.Deployment, error) {
	if _, ok := models.ParseDeploymentStatus(string(status)); !ok {
		return nil, apperrors.E(apperrors.CodeInvalidState, "unknown status %q", status)
	}

	deployment, err := s.deploymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "deployment %s not found", id.Hex())
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load deployment %s", id.Hex())
	}
	if !deployment.Direct() {
		return nil, apperrors.E(apperrors.CodeInvalidState,
			"deployment %s is slot-based; update slot status instead", id.Hex())
	}
	if !deployment.CurrentStatus.CanTransitionTo(status) {
		return nil, apperrors.E(apperrors.CodeInvalidState,
			"cannot transition deployment from %s to %s", deployment.CurrentStatus, status)
	}

	now := s.now()
	deployment.CurrentStatus = status
	switch status {
	case models.DeploymentStatusRunning:
		if deployment.DeployedAt == nil {
			deployment.DeployedAt = &now
		}
	case models.DeploymentStatusCompleted:
		deployment.CompletedAt = &now
	case models.DeploymentStatusRemoved:
		deployment.RemovedAt = &now
	}

	if err := s.deploymentRepo.Update(ctx, deployment); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to save deployment %s", id.Hex())
	}
	slog.Info("Updated deployment status", "deploymentId", id.Hex(), "status", status)
	return deployment, nil
}

// UpdateSlotStatus transitions one ad's slot on a shared material.
func (s *DeploymentServiceImpl) UpdateSlotStatus(ctx context.Context, materialID string, adID primitive.ObjectID, status models.DeploymentStatus, actor string) (*models.Deployment, error) {
	if _, ok := models.ParseDeploymentStatus(string(status)); !ok {
		return nil, apperrors.E(apperrors.CodeInvalidState, "unknown status %q", status)
	}

	deployment, err := s.findSharedDeployment(ctx, materialID)
	if err != nil {
		return nil, err
	}

	key := lockKey(deployment.MaterialID, deployment.DriverID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	// Re-read under the lock.
	deployment, err = s.deploymentRepo.FindByID(ctx, deployment.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to reload deployment for material %s", materialID)
	}

	var slot *models.Slot
	for i := range deployment.LCDSlots {
		if deployment.LCDSlots[i].AdID == adID && !deployment.LCDSlots[i].Status.Terminal() {
			slot = &deployment.LCDSlots[i]
			break
		}
	}
	if slot == nil {
		return nil, apperrors.E(apperrors.CodeNotFound,
			"ad %s has no open slot on material %s", adID.Hex(), materialID)
	}
	if !slot.Status.CanTransitionTo(status) {
		return nil, apperrors.E(apperrors.CodeInvalidState,
			"cannot transition slot from %s to %s", slot.Status, status)
	}

	now := s.now()
	slot.Status = status
	switch status {
	case models.DeploymentStatusRunning:
		if slot.DeployedAt == nil {
			slot.DeployedAt = &now
		}
	case models.DeploymentStatusCompleted:
		slot.CompletedAt = &now
	case models.DeploymentStatusRemoved:
		slot.RemovedAt = &now
		slot.RemovedBy = actor
	}

	if err := s.deploymentRepo.Update(ctx, deployment); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to save deployment for material %s", materialID)
	}
	slog.Info("Updated slot status", "materialId", materialID, "adId", adID.Hex(),
		"slotNumber", slot.SlotNumber, "status", status)
	return deployment, nil
}

// RemoveAds marks the listed ads' active slots REMOVED with audit fields and
// reports the freed slot numbers. Slots already terminal are left untouched,
// so repeated calls are idempotent.
func (s *DeploymentServiceImpl) RemoveAds(ctx context.Context, materialID string, adIDs []primitive.ObjectID, removedBy, reason string) (*models.RemovalResult, error) {
	if len(adIDs) == 0 {
		return nil, apperrors.E(apperrors.CodeValidation, "adIds is required")
	}
	if reason == "" {
		reason = "Admin override"
	}

	deployment, err := s.findSharedDeployment(ctx, materialID)
	if err != nil {
		return nil, err
	}

	key := lockKey(deployment.MaterialID, deployment.DriverID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	deployment, err = s.deploymentRepo.FindByID(ctx, deployment.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to reload deployment for material %s", materialID)
	}

	targets := make(map[primitive.ObjectID]bool, len(adIDs))
	for _, id := range adIDs {
		targets[id] = true
	}

	now := s.now()
	removed := []models.Slot{}
	for i := range deployment.LCDSlots {
		slot := &deployment.LCDSlots[i]
		if !targets[slot.AdID] || !slot.Active() {
			continue
		}
		slot.Status = models.DeploymentStatusRemoved
		slot.RemovedAt = &now
		slot.RemovedBy = removedBy
		slot.RemovalReason = reason
		removed = append(removed, *slot)
	}

	if len(removed) > 0 {
		if err := s.deploymentRepo.Update(ctx, deployment); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to save deployment for material %s", materialID)
		}
	}

	slog.Info("Removed ads from material", "materialId", materialID,
		"requested", len(adIDs), "removed", len(removed), "removedBy", removedBy)
	return &models.RemovalResult{
		RemovedSlots:   removed,
		AvailableSlots: deployment.AvailableSlotNumbers(),
	}, nil
}

// ReassignSlots compacts the active slots of a shared material into 1..k,
// ordered by deployedAt ascending. Slots never deployed (no deployedAt) keep
// their relative creation order after the deployed ones. Only slots whose
// number changed are reported.
func (s *DeploymentServiceImpl) ReassignSlots(ctx context.Context, materialID string) ([]models.SlotReassignment, error) {
	deployment, err := s.findSharedDeployment(ctx, materialID)
	if err != nil {
		return nil, err
	}

	key := lockKey(deployment.MaterialID, deployment.DriverID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	deployment, err = s.deploymentRepo.FindByID(ctx, deployment.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to reload deployment for material %s", materialID)
	}

	var active []*models.Slot
	for i := range deployment.LCDSlots {
		if deployment.LCDSlots[i].Active() {
			active = append(active, &deployment.LCDSlots[i])
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i].DeployedAt, active[j].DeployedAt
		switch {
		case a == nil && b == nil:
			return false // keep creation order
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	updates := []models.SlotReassignment{}
	for idx, slot := range active {
		newNumber := idx + 1
		if slot.SlotNumber == newNumber {
			continue
		}
		updates = append(updates, models.SlotReassignment{
			AdID:    slot.AdID,
			OldSlot: slot.SlotNumber,
			NewSlot: newNumber,
		})
		slot.SlotNumber = newNumber
	}

	if len(updates) > 0 {
		if err := s.deploymentRepo.Update(ctx, deployment); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to save deployment for material %s", materialID)
		}
	}

	slog.Info("Reassigned slots", "materialId", materialID, "activeSlots", len(active), "changes", len(updates))
	return updates, nil
}

// DeleteDeployment physically deletes a deployment. Rejected while the
// deployment (or any of its slots) is RUNNING or COMPLETED, preserving audit
// history for anything that ever aired.
func (s *DeploymentServiceImpl) DeleteDeployment(ctx context.Context, id primitive.ObjectID) error {
	deployment, err := s.deploymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.E(apperrors.CodeNotFound, "deployment %s not found", id.Hex())
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to load deployment %s", id.Hex())
	}

	blocked := func(status models.DeploymentStatus) bool {
		return status == models.DeploymentStatusRunning || status == models.DeploymentStatusCompleted
	}
	if blocked(deployment.CurrentStatus) {
		return apperrors.E(apperrors.CodeInvalidState,
			"cannot delete deployment %s in status %s", id.Hex(), deployment.CurrentStatus)
	}
	for i := range deployment.LCDSlots {
		if blocked(deployment.LCDSlots[i].Status) {
			return apperrors.E(apperrors.CodeInvalidState,
				"cannot delete deployment %s: slot %d is %s", id.Hex(),
				deployment.LCDSlots[i].SlotNumber, deployment.LCDSlots[i].Status)
		}
	}

	if err := s.deploymentRepo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to delete deployment %s", id.Hex())
	}
	slog.Info("Deleted deployment", "deploymentId", id.Hex())
	return nil
}

// GetDeploymentByID retrieves a deployment with live statuses derived.
func (s *DeploymentServiceImpl) GetDeploymentByID(ctx context.Context, id primitive.ObjectID) (*models.Deployment, error) {
	deployment, err := s.deploymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.E(apperrors.CodeNotFound, "deployment %s not found", id.Hex())
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load deployment %s", id.Hex())
	}
	return s.withEffectiveStatuses(deployment), nil
}

// GetDeploymentsByDriver retrieves all deployments partitioned to a driver.
func (s *DeploymentServiceImpl) GetDeploymentsByDriver(ctx context.Context, driverID string) ([]*models.Deployment, error) {
	deployments, err := s.deploymentRepo.FindByDriver(ctx, driverID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load deployments for driver %s", driverID)
	}
	return s.withEffectiveStatusesAll(deployments), nil
}

// GetDeploymentsByAd retrieves all deployments referencing an ad.
func (s *DeploymentServiceImpl) GetDeploymentsByAd(ctx context.Context, adID primitive.ObjectID) ([]*models.Deployment, error) {
	deployments, err := s.deploymentRepo.FindByAd(ctx, adID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load deployments for ad %s", adID.Hex())
	}
	return s.withEffectiveStatusesAll(deployments), nil
}

// GetDeploymentByMaterial retrieves the shared deployment for a material with
// the slot list filtered to active slots.
func (s *DeploymentServiceImpl) GetDeploymentByMaterial(ctx context.Context, materialID string) (*models.Deployment, error) {
	deployment, err := s.findSharedDeployment(ctx, materialID)
	if err != nil {
		return nil, err
	}
	view := *deployment
	now := s.now()
	view.LCDSlots = []models.Slot{}
	for _, slot := range deployment.LCDSlots {
		if slot.Active() {
			slot.Status = slot.EffectiveStatus(now)
			view.LCDSlots = append(view.LCDSlots, slot)
		}
	}
	return &view, nil
}

// GetActiveDeployments retrieves deployments with a live assignment whose time
// window covers now.
func (s *DeploymentServiceImpl) GetActiveDeployments(ctx context.Context) ([]*models.Deployment, error) {
	deployments, err := s.deploymentRepo.FindActive(ctx, s.now())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load active deployments")
	}
	return s.withEffectiveStatusesAll(deployments), nil
}

// findSharedDeployment resolves the slot-carrying deployment for a material.
func (s *DeploymentServiceImpl) findSharedDeployment(ctx context.Context, materialID string) (*models.Deployment, error) {
	if materialID == "" {
		return nil, apperrors.E(apperrors.CodeValidation, "materialId is required")
	}
	deployments, err := s.deploymentRepo.FindByMaterial(ctx, materialID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load deployments for material %s", materialID)
	}
	for _, d := range deployments {
		if !d.Direct() {
			return d, nil
		}
	}
	return nil, apperrors.E(apperrors.CodeNotFound, "no deployment found for material %s", materialID)
}

// withEffectiveStatuses returns a copy of the deployment with read-time
// statuses derived from the clock. Stored state is never mutated here.
func (s *DeploymentServiceImpl) withEffectiveStatuses(deployment *models.Deployment) *models.Deployment {
	now := s.now()
	view := *deployment
	view.LCDSlots = make([]models.Slot, len(deployment.LCDSlots))
	for i, slot := range deployment.LCDSlots {
		slot.Status = slot.EffectiveStatus(now)
		view.LCDSlots[i] = slot
	}
	if view.Direct() && view.CurrentStatus.Active() {
		if !view.EndTime.IsZero() && now.After(view.EndTime) {
			view.CurrentStatus = models.DeploymentStatusCompleted
		} else if view.CurrentStatus == models.DeploymentStatusScheduled && !view.StartTime.After(now) {
			view.CurrentStatus = models.DeploymentStatusRunning
		}
	}
	return &view
}

func (s *DeploymentServiceImpl) withEffectiveStatusesAll(deployments []*models.Deployment) []*models.Deployment {
	views := make([]*models.Deployment, len(deployments))
	for i, d := range deployments {
		views[i] = s.withEffectiveStatuses(d)
	}
	return views
}
