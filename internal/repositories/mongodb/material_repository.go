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

// MaterialRepository implements the repositories.MaterialRepository interface
type MaterialRepository struct {
	collection *mongo.Collection
}

// NewMaterialRepository creates a new MaterialRepository
func NewMaterialRepository(db *mongo.Database) repositories.MaterialRepository {
	return &MaterialRepository{
		collection: db.Collection("materials"),
	}
}

// Create creates a new material
func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) error {
	material.CreatedAt = time.Now()
	material.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, material)
	if err != nil {
		return err
	}
	material.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// CreateMany inserts a batch of materials (used by the CSV importer)
func (r *MaterialRepository) CreateMany(ctx context.Context, materials []*models.Material) error {
	if len(materials) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(materials))
	now := time.Now()
	for _, m := range materials {
		m.CreatedAt = now
		m.UpdatedAt = now
		docs = append(docs, m)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByMaterialID finds a material by its string key (e.g. DGL-LCD-CAR-001)
func (r *MaterialRepository) FindByMaterialID(ctx context.Context, materialID string) (*models.Material, error) {
	var material models.Material
	err := r.collection.FindOne(ctx, bson.M{"materialId": materialID}).Decode(&material)
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// FindAll finds all materials
func (r *MaterialRepository) FindAll(ctx context.Context) ([]*models.Material, error) {
	opts := options.Find().SetSort(bson.M{"materialId": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var materials []*models.Material
	if err := cursor.All(ctx, &materials); err != nil {
		return nil, err
	}
	if materials == nil {
		materials = []*models.Material{}
	}
	return materials, nil
}

// Update replaces a material document
func (r *MaterialRepository) Update(ctx context.Context, material *models.Material) error {
	material.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": material.ID}, material)
	return err
}

// AssignDriver sets the driver operating the material's vehicle
func (r *MaterialRepository) AssignDriver(ctx context.Context, materialID, driverID string) error {
	update := bson.M{"$set": bson.M{"driverId": driverID, "updatedAt": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"materialId": materialID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
