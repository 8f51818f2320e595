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

// AdRepository implements the repositories.AdRepository interface
type AdRepository struct {
	collection *mongo.Collection
}

// NewAdRepository creates a new AdRepository
func NewAdRepository(db *mongo.Database) repositories.AdRepository {
	return &AdRepository{
		collection: db.Collection("ads"),
	}
}

// Create creates a new ad
func (r *AdRepository) Create(ctx context.Context, ad *models.Ad) error {
	ad.CreatedAt = time.Now()
	ad.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, ad)
	if err != nil {
		return err
	}
	ad.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds an ad by ID
func (r *AdRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ad, error) {
	var ad models.Ad
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ad)
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// FindByUserID finds all ads owned by a user
func (r *AdRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Ad, error) {
	return r.findMany(ctx, bson.M{"userId": userID})
}

// FindByLifecycleStatus finds ads by activation status (e.g. PENDING_DEPLOYMENT)
func (r *AdRepository) FindByLifecycleStatus(ctx context.Context, status models.AdLifecycleStatus) ([]*models.Ad, error) {
	return r.findMany(ctx, bson.M{"adStatus": status})
}

// Update replaces an ad document
func (r *AdRepository) Update(ctx context.Context, ad *models.Ad) error {
	ad.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": ad.ID}, ad)
	return err
}

func (r *AdRepository) findMany(ctx context.Context, filter bson.M) ([]*models.Ad, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ads []*models.Ad
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	if ads == nil {
		ads = []*models.Ad{}
	}
	return ads, nil
}
