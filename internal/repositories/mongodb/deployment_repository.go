package mongodb

import (
	"context"
	"time"

	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeploymentRepository implements the repositories.DeploymentRepository interface
type DeploymentRepository struct {
	collection *mongo.Collection
}

// NewDeploymentRepository creates a new DeploymentRepository
func NewDeploymentRepository(db *mongo.Database) repositories.DeploymentRepository {
	return &DeploymentRepository{
		collection: db.Collection("deployments"),
	}
}

// activeStatuses is the filter value for slots that hold a slot number.
var activeStatuses = []models.DeploymentStatus{
	models.DeploymentStatusScheduled,
	models.DeploymentStatusRunning,
}

// Create creates a new deployment
func (r *DeploymentRepository) Create(ctx context.Context, deployment *models.Deployment) error {
	deployment.CreatedAt = time.Now()
	deployment.UpdatedAt = time.Now()
	if deployment.LCDSlots == nil {
		deployment.LCDSlots = []models.Slot{}
	}
	res, err := r.collection.InsertOne(ctx, deployment)
	if err != nil {
		return err
	}
	deployment.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a deployment by ID
func (r *DeploymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Deployment, error) {
	var deployment models.Deployment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&deployment)
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// FindByMaterialAndDriver finds the deployment for a (material, driver) pair.
// Returns mongo.ErrNoDocuments if the pair has never been deployed to.
func (r *DeploymentRepository) FindByMaterialAndDriver(ctx context.Context, materialID, driverID string) (*models.Deployment, error) {
	var deployment models.Deployment
	filter := bson.M{"materialId": materialID, "driverId": driverID}
	err := r.collection.FindOne(ctx, filter).Decode(&deployment)
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// FindByMaterial finds all deployments for a material
func (r *DeploymentRepository) FindByMaterial(ctx context.Context, materialID string) ([]*models.Deployment, error) {
	return r.findMany(ctx, bson.M{"materialId": materialID})
}

// FindByDriver finds all deployments for a driver
func (r *DeploymentRepository) FindByDriver(ctx context.Context, driverID string) ([]*models.Deployment, error) {
	return r.findMany(ctx, bson.M{"driverId": driverID})
}

// FindByAd finds deployments referencing the ad either directly or through a slot
func (r *DeploymentRepository) FindByAd(ctx context.Context, adID primitive.ObjectID) ([]*models.Deployment, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"adId": adID},
			{"lcdSlots.adId": adID},
		},
	}
	return r.findMany(ctx, filter)
}

// FindDirect finds a direct (non-slot) deployment for the (ad, material, driver) triple
func (r *DeploymentRepository) FindDirect(ctx context.Context, adID primitive.ObjectID, materialID, driverID string) (*models.Deployment, error) {
	var deployment models.Deployment
	filter := bson.M{
		"adId":       adID,
		"materialId": materialID,
		"driverId":   driverID,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&deployment)
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// FindActive finds deployments with any live assignment whose window covers now:
// either a direct deployment in an active status or at least one active slot.
func (r *DeploymentRepository) FindActive(ctx context.Context, now time.Time) ([]*models.Deployment, error) {
	filter := bson.M{
		"$or": []bson.M{
			{
				"currentStatus": bson.M{"$in": activeStatuses},
				"startTime":     bson.M{"$lte": now},
				"endTime":       bson.M{"$gte": now},
			},
			{
				"lcdSlots": bson.M{"$elemMatch": bson.M{
					"status":    bson.M{"$in": activeStatuses},
					"startTime": bson.M{"$lte": now},
					"endTime":   bson.M{"$gte": now},
				}},
			},
		},
	}
	return r.findMany(ctx, filter)
}

// Update replaces a deployment document. The document save is the atomic unit
// of every engine mutation.
func (r *DeploymentRepository) Update(ctx context.Context, deployment *models.Deployment) error {
	deployment.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": deployment.ID}, deployment)
	return err
}

// Delete deletes a deployment by ID
func (r *DeploymentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *DeploymentRepository) findMany(ctx context.Context, filter bson.M) ([]*models.Deployment, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var deployments []*models.Deployment
	if err := cursor.All(ctx, &deployments); err != nil {
		return nil, err
	}
	if deployments == nil {
		deployments = []*models.Deployment{}
	}
	return deployments, nil
}
