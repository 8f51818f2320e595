package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxLCDSlots is the number of concurrent placements a shared material
// (LCD or HEADDRESS) can multiplex.
const MaxLCDSlots = 5

// DeploymentStatus represents the lifecycle status of a deployment or slot
type DeploymentStatus string

const (
	DeploymentStatusScheduled DeploymentStatus = "SCHEDULED"
	DeploymentStatusRunning   DeploymentStatus = "RUNNING"
	DeploymentStatusCompleted DeploymentStatus = "COMPLETED"
	DeploymentStatusPaused    DeploymentStatus = "PAUSED"
	DeploymentStatusCancelled DeploymentStatus = "CANCELLED"
	DeploymentStatusRemoved   DeploymentStatus = "REMOVED"
)

// ParseDeploymentStatus validates a raw status string against the closed
// vocabulary and returns the typed value.
func ParseDeploymentStatus(raw string) (DeploymentStatus, bool) {
	status := DeploymentStatus(raw)
	switch status {
	case DeploymentStatusScheduled, DeploymentStatusRunning, DeploymentStatusCompleted,
		DeploymentStatusPaused, DeploymentStatusCancelled, DeploymentStatusRemoved:
		return status, true
	default:
		return "", false
	}
}

// Active reports whether the status holds a slot number (SCHEDULED or RUNNING).
func (s DeploymentStatus) Active() bool {
	return s == DeploymentStatusScheduled || s == DeploymentStatusRunning
}

// Terminal reports whether the status is final.
func (s DeploymentStatus) Terminal() bool {
	return s == DeploymentStatusCompleted || s == DeploymentStatusCancelled || s == DeploymentStatusRemoved
}

// deploymentTransitions is the validated transition table. Terminal states
// have no outgoing edges.
var deploymentTransitions = map[DeploymentStatus][]DeploymentStatus{
	DeploymentStatusScheduled: {DeploymentStatusRunning, DeploymentStatusPaused, DeploymentStatusCancelled, DeploymentStatusRemoved},
	DeploymentStatusRunning:   {DeploymentStatusCompleted, DeploymentStatusPaused, DeploymentStatusCancelled, DeploymentStatusRemoved},
	DeploymentStatusPaused:    {DeploymentStatusRunning, DeploymentStatusCancelled, DeploymentStatusRemoved},
}

// CanTransitionTo reports whether the status machine allows moving to next.
func (s DeploymentStatus) CanTransitionTo(next DeploymentStatus) bool {
	for _, allowed := range deploymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Slot is one numbered placement window inside a shared-material deployment.
// MediaFile is a snapshot of the ad's media at deploy time and is deliberately
// not refreshed when the ad changes later.
type Slot struct {
	AdID          primitive.ObjectID `bson:"adId" json:"adId"`
	SlotNumber    int                `bson:"slotNumber" json:"slotNumber"`
	StartTime     time.Time          `bson:"startTime" json:"startTime"`
	EndTime       time.Time          `bson:"endTime" json:"endTime"`
	Status        DeploymentStatus   `bson:"status" json:"status"`
	MediaFile     string             `bson:"mediaFile" json:"mediaFile"`
	DeployedAt    *time.Time         `bson:"deployedAt,omitempty" json:"deployedAt,omitempty"`
	CompletedAt   *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	RemovedAt     *time.Time         `bson:"removedAt,omitempty" json:"removedAt,omitempty"`
	RemovedBy     string             `bson:"removedBy,omitempty" json:"removedBy,omitempty"`
	RemovalReason string             `bson:"removalReason,omitempty" json:"removalReason,omitempty"`
}

// Active reports whether the slot currently holds its slot number.
func (s *Slot) Active() bool {
	return s.Status.Active()
}

// EffectiveStatus derives the live status from the slot's time window without
// mutating stored state. A SCHEDULED slot whose window has opened reads as
// RUNNING; an active slot whose window has closed reads as COMPLETED. There is
// no background job advancing stored status.
func (s *Slot) EffectiveStatus(now time.Time) DeploymentStatus {
	if !s.Status.Active() {
		return s.Status
	}
	if !s.EndTime.IsZero() && now.After(s.EndTime) {
		return DeploymentStatusCompleted
	}
	if s.Status == DeploymentStatusScheduled && !s.StartTime.After(now) {
		return DeploymentStatusRunning
	}
	return s.Status
}

// Deployment is the record of which ad(s) are assigned to a (material, driver)
// pair. Shared materials (LCD, HEADDRESS) carry LCDSlots; all other material
// types carry a single direct ad reference with a deployment-level status.
type Deployment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MaterialID    string             `bson:"materialId" json:"materialId"`
	DriverID      string             `bson:"driverId" json:"driverId"`
	LCDSlots      []Slot             `bson:"lcdSlots" json:"lcdSlots"`
	AdID          primitive.ObjectID `bson:"adId,omitempty" json:"adId,omitempty"`
	CurrentStatus DeploymentStatus   `bson:"currentStatus,omitempty" json:"currentStatus,omitempty"`
	StartTime     time.Time          `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime       time.Time          `bson:"endTime,omitempty" json:"endTime,omitempty"`
	DeployedAt    *time.Time         `bson:"deployedAt,omitempty" json:"deployedAt,omitempty"`
	CompletedAt   *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	RemovedAt     *time.Time         `bson:"removedAt,omitempty" json:"removedAt,omitempty"`
	RemovedBy     string             `bson:"removedBy,omitempty" json:"removedBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Direct reports whether this is a single-ad deployment on a non-shared material.
func (d *Deployment) Direct() bool {
	return len(d.LCDSlots) == 0 && !d.AdID.IsZero()
}

// ActiveSlotNumbers returns the set of slot numbers held by SCHEDULED or
// RUNNING slots.
func (d *Deployment) ActiveSlotNumbers() map[int]bool {
	taken := make(map[int]bool)
	for i := range d.LCDSlots {
		if d.LCDSlots[i].Active() {
			taken[d.LCDSlots[i].SlotNumber] = true
		}
	}
	return taken
}

// AvailableSlotNumbers returns the slot numbers 1..MaxLCDSlots not held by an
// active slot, in ascending order.
func (d *Deployment) AvailableSlotNumbers() []int {
	taken := d.ActiveSlotNumbers()
	available := make([]int, 0, MaxLCDSlots)
	for n := 1; n <= MaxLCDSlots; n++ {
		if !taken[n] {
			available = append(available, n)
		}
	}
	return available
}

// FindActiveSlotByAd returns the active slot occupied by the given ad, if any.
func (d *Deployment) FindActiveSlotByAd(adID primitive.ObjectID) *Slot {
	for i := range d.LCDSlots {
		if d.LCDSlots[i].AdID == adID && d.LCDSlots[i].Active() {
			return &d.LCDSlots[i]
		}
	}
	return nil
}

// SlotReassignment reports one slot-number change produced by compaction.
type SlotReassignment struct {
	AdID    primitive.ObjectID `json:"adId"`
	OldSlot int                `json:"oldSlot"`
	NewSlot int                `json:"newSlot"`
}

// RemovalResult is the outcome of removing ads from a shared material.
type RemovalResult struct {
	RemovedSlots   []Slot `json:"removedSlots"`
	AvailableSlots []int  `json:"availableSlots"`
}
