package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

// CartDocument is a dispatch cart as stored in MongoDB.
type CartDocument struct {
	ID          string    `bson:"_id"`
	ProjectCode string    `bson:"project_code"`
	SessionID   string    `bson:"session_id,omitempty"`
	Parcels     []string  `bson:"parcels"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// CartRepository stores dispatch carts.
type CartRepository struct {
	collection *mongo.Collection
}

// NewCartRepository creates a new dispatch cart repository.
func NewCartRepository(db *MongoDB) *CartRepository {
	return &CartRepository{collection: db.DispatchCarts}
}

// Create stores a new cart.
func (r *CartRepository) Create(ctx context.Context, cart *model.DispatchCart) error {
	parcels := cart.Parcels
	if parcels == nil {
		parcels = []string{}
	}
	_, err := r.collection.InsertOne(ctx, CartDocument{
		ID:          cart.ID,
		ProjectCode: cart.ProjectCode,
		SessionID:   cart.SessionID,
		Parcels:     parcels,
		CreatedAt:   cart.CreatedAt,
		UpdatedAt:   cart.UpdatedAt,
	})
	return err
}

// Get returns a cart or ErrNotFound.
func (r *CartRepository) Get(ctx context.Context, id string) (*model.DispatchCart, error) {
	var doc CartDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	parcels := doc.Parcels
	if parcels == nil {
		parcels = []string{}
	}
	return &model.DispatchCart{
		ID:          doc.ID,
		ProjectCode: doc.ProjectCode,
		SessionID:   doc.SessionID,
		Parcels:     parcels,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

// SaveParcels replaces the selection of a cart.
func (r *CartRepository) SaveParcels(ctx context.Context, id string, parcels []string) error {
	if parcels == nil {
		parcels = []string{}
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"parcels": parcels, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
