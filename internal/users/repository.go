package users

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nexnote/internal/auth"
	"nexnote/internal/config"
)

// Repository handles profile and favorites updates on the users collection.
type Repository struct {
	store      *config.MongoDBClient
	collection *mongo.Collection
}

func NewRepository(store *config.MongoDBClient) *Repository {
	return &Repository{store: store, collection: store.Database.Collection("users")}
}

// Ready reports whether the backing store is reachable.
func (r *Repository) Ready(ctx context.Context) error {
	return r.store.Ready(ctx)
}

func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error) {
	var user auth.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateFields applies a partial $set and stamps updated_at.
func (r *Repository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": fields})
	return err
}

func (r *Repository) AddFavorite(ctx context.Context, userID, noteID primitive.ObjectID) error {
	_, err := r.collection.UpdateByID(ctx, userID, bson.M{"$addToSet": bson.M{"favorites": noteID}})
	return err
}

func (r *Repository) RemoveFavorite(ctx context.Context, userID, noteID primitive.ObjectID) error {
	_, err := r.collection.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"favorites": noteID}})
	return err
}
