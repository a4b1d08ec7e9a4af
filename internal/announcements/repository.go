package announcements

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nexnote/internal/config"
)

// Repository handles DB operations for announcements and the user lookups
// needed to populate creator info.
type Repository struct {
	store           *config.MongoDBClient
	collection      *mongo.Collection
	usersCollection *mongo.Collection
}

func NewRepository(store *config.MongoDBClient) *Repository {
	return &Repository{
		store:           store,
		collection:      store.Database.Collection("announcements"),
		usersCollection: store.Database.Collection("users"),
	}
}

// Ready reports whether the backing store is reachable.
func (r *Repository) Ready(ctx context.Context) error {
	return r.store.Ready(ctx)
}

func (r *Repository) Create(ctx context.Context, a *Announcement) error {
	_, err := r.collection.InsertOne(ctx, a)
	return err
}

func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*Announcement, error) {
	var a Announcement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Find returns matching announcements pinned first, then newest first.
func (r *Repository) Find(ctx context.Context, filter bson.M) ([]*Announcement, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "is_pinned", Value: -1},
		{Key: "created_at", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var announcements []*Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// UpdateFields applies a partial update and stamps updated_at. Fields listed
// in unset are removed from the document.
func (r *Repository) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) error {
	set["updated_at"] = time.Now()
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		u := bson.M{}
		for _, f := range unset {
			u[f] = ""
		}
		update["$unset"] = u
	}
	res, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindUserRefs fetches trimmed user records for populating creator info.
func (r *Repository) FindUserRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*UserRef, error) {
	refs := make(map[primitive.ObjectID]*UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "role": 1})
	cursor, err := r.usersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var users []UserRef
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		refs[users[i].ID] = &users[i]
	}
	return refs, nil
}
