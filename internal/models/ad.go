package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdType distinguishes screen-based ads from printed ones
type AdType string

const (
	AdTypeDigital    AdType = "DIGITAL"
	AdTypeNonDigital AdType = "NON_DIGITAL"
)

// AdApprovalStatus is the review status owned by the ad-management side
type AdApprovalStatus string

const (
	AdApprovalPending  AdApprovalStatus = "PENDING"
	AdApprovalApproved AdApprovalStatus = "APPROVED"
	AdApprovalRejected AdApprovalStatus = "REJECTED"
	AdApprovalRunning  AdApprovalStatus = "RUNNING"
	AdApprovalEnded    AdApprovalStatus = "ENDED"
)

// AdLifecycleStatus is the activation status the scheduling engine writes.
// PENDING_DEPLOYMENT marks an ad whose payment settled but whose deployment
// stage failed; it is retryable.
type AdLifecycleStatus string

const (
	AdLifecycleInactive          AdLifecycleStatus = "INACTIVE"
	AdLifecycleActive            AdLifecycleStatus = "ACTIVE"
	AdLifecyclePendingDeployment AdLifecycleStatus = "PENDING_DEPLOYMENT"
	AdLifecycleFinished          AdLifecycleStatus = "FINISHED"
)

// Ad represents an advertisement booked against a material. The deployment
// engine reads identity, timing and media, and writes only AdStatus and
// PaymentStatus.
type Ad struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	MaterialID    string             `bson:"materialId" json:"materialId"`
	PlanID        string             `bson:"planId,omitempty" json:"planId,omitempty"`
	AdType        AdType             `bson:"adType" json:"adType"`
	MediaFile     string             `bson:"mediaFile" json:"mediaFile"`
	Status        AdApprovalStatus   `bson:"status" json:"status"`
	AdStatus      AdLifecycleStatus  `bson:"adStatus" json:"adStatus"`
	PaymentStatus PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	StartTime     time.Time          `bson:"startTime" json:"startTime"`
	EndTime       time.Time          `bson:"endTime" json:"endTime"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
