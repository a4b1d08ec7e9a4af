package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nexnote/internal/config"
)

// UserRepository handles DB operations on the users collection.
type UserRepository struct {
	store      *config.MongoDBClient
	collection *mongo.Collection
}

func NewUserRepository(store *config.MongoDBClient) *UserRepository {
	return &UserRepository{store: store, collection: store.Database.Collection("users")}
}

// Ready reports whether the backing store is reachable.
func (r *UserRepository) Ready(ctx context.Context) error {
	return r.store.Ready(ctx)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *User) error {
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// IncrementPoints adds delta to a user's gamification points.
func (r *UserRepository) IncrementPoints(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"points": delta}})
	return err
}
