package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaterialType represents the kind of physical advertising surface
type MaterialType string

const (
	MaterialTypeLCD       MaterialType = "LCD"
	MaterialTypeHeaddress MaterialType = "HEADDRESS"
	MaterialTypePoster    MaterialType = "POSTER"
	MaterialTypeSticker   MaterialType = "STICKER"
	MaterialTypeBanner    MaterialType = "BANNER"
)

// ParseMaterialType validates a raw material type string.
func ParseMaterialType(raw string) (MaterialType, bool) {
	t := MaterialType(raw)
	switch t {
	case MaterialTypeLCD, MaterialTypeHeaddress, MaterialTypePoster,
		MaterialTypeSticker, MaterialTypeBanner:
		return t, true
	default:
		return "", false
	}
}

// Shared reports whether the material multiplexes several ads onto numbered
// slots. A HEADDRESS slot is broadcast to both tablet units sharing the
// material; the engine treats it identically to an LCD slot.
func (t MaterialType) Shared() bool {
	return t == MaterialTypeLCD || t == MaterialTypeHeaddress
}

// Material represents a physical advertising surface identified by a string
// key such as DGL-LCD-CAR-001. DriverID is the assigned vehicle operator and
// may be empty until the material is mounted.
type Material struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MaterialID   string             `bson:"materialId" json:"materialId"`
	MaterialType MaterialType       `bson:"materialType" json:"materialType"`
	DriverID     string             `bson:"driverId,omitempty" json:"driverId,omitempty"`
	VehicleRef   string             `bson:"vehicleRef,omitempty" json:"vehicleRef,omitempty"`
	Active       bool               `bson:"active" json:"active"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
