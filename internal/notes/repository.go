package notes

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nexnote/internal/config"
)

// NoteRepository handles DB operations for notes and the user lookups needed
// to populate author info on responses.
type NoteRepository struct {
	store           *config.MongoDBClient
	notesCollection *mongo.Collection
	usersCollection *mongo.Collection
}

func NewNoteRepository(store *config.MongoDBClient) *NoteRepository {
	return &NoteRepository{
		store:           store,
		notesCollection: store.Database.Collection("notes"),
		usersCollection: store.Database.Collection("users"),
	}
}

// Ready reports whether the backing store is reachable.
func (r *NoteRepository) Ready(ctx context.Context) error {
	return r.store.Ready(ctx)
}

func (r *NoteRepository) CreateNote(ctx context.Context, note *Note) error {
	_, err := r.notesCollection.InsertOne(ctx, note)
	return err
}

func (r *NoteRepository) FindNoteByID(ctx context.Context, id primitive.ObjectID) (*Note, error) {
	var note Note
	err := r.notesCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

// FindNotes returns matching notes newest first.
func (r *NoteRepository) FindNotes(ctx context.Context, filter bson.M) ([]*Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.notesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var notes []*Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// FindNotesByIDs resolves a set of note references. Missing ids are simply
// absent from the result, so dangling favorites degrade to gaps.
func (r *NoteRepository) FindNotesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Note, error) {
	if len(ids) == 0 {
		return []*Note{}, nil
	}
	cursor, err := r.notesCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var notes []*Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *NoteRepository) DeleteNote(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.notesCollection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *NoteRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.notesCollection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (r *NoteRepository) IncrementDownloads(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.notesCollection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"downloads": 1}})
	return err
}

func (r *NoteRepository) AddComment(ctx context.Context, noteID primitive.ObjectID, comment Comment) error {
	update := bson.M{"$push": bson.M{"comments": comment}}
	res, err := r.notesCollection.UpdateByID(ctx, noteID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *NoteRepository) RemoveComment(ctx context.Context, noteID, commentID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}}
	res, err := r.notesCollection.UpdateByID(ctx, noteID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateRatings persists the full rating sequence and the derived average.
// Concurrent raters follow read-modify-write semantics, last write wins.
func (r *NoteRepository) UpdateRatings(ctx context.Context, noteID primitive.ObjectID, ratings []Rating, average float64) error {
	update := bson.M{"$set": bson.M{"ratings": ratings, "average_rating": average}}
	res, err := r.notesCollection.UpdateByID(ctx, noteID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *NoteRepository) CountNotes(ctx context.Context) (int64, error) {
	return r.notesCollection.CountDocuments(ctx, bson.M{})
}

// SumCounter totals a numeric counter field across all notes.
func (r *NoteRepository) SumCounter(ctx context.Context, field string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$" + field}}}},
	}
	cursor, err := r.notesCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (r *NoteRepository) TopNotesByDownloads(ctx context.Context, limit int64) ([]*Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "downloads", Value: -1}}).SetLimit(limit)
	cursor, err := r.notesCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var notes []*Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *NoteRepository) CountBySubject(ctx context.Context) ([]SubjectCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$subject", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cursor, err := r.notesCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	counts := []SubjectCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// FindUserRefs fetches trimmed user records for populating author info.
func (r *NoteRepository) FindUserRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*UserRef, error) {
	refs := make(map[primitive.ObjectID]*UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "avatar": 1, "is_verified": 1})
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
