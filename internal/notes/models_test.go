package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nexnote/internal/auth"
)

func TestApplyRating(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	t.Run("first rating sets the average", func(t *testing.T) {
		n := &Note{}
		n.ApplyRating(alice, 4)

		require.Len(t, n.Ratings, 1)
		assert.Equal(t, 4, n.Ratings[0].Rating)
		assert.Equal(t, 4.0, n.AverageRating)
	})

	t.Run("average is the mean across users", func(t *testing.T) {
		n := &Note{}
		n.ApplyRating(alice, 5)
		n.ApplyRating(bob, 2)

		require.Len(t, n.Ratings, 2)
		assert.Equal(t, 3.5, n.AverageRating)
	})

	t.Run("repeat rating by the same user overwrites", func(t *testing.T) {
		n := &Note{}
		n.ApplyRating(alice, 1)
		n.ApplyRating(alice, 5)

		require.Len(t, n.Ratings, 1)
		assert.Equal(t, 5, n.Ratings[0].Rating)
		assert.Equal(t, 5.0, n.AverageRating)
	})
}

func TestRecalculateAverageRating(t *testing.T) {
	t.Run("empty sequence yields zero", func(t *testing.T) {
		n := &Note{AverageRating: 4.2}
		n.RecalculateAverageRating()
		assert.Equal(t, 0.0, n.AverageRating)
	})

	t.Run("mean of existing ratings", func(t *testing.T) {
		n := &Note{Ratings: []Rating{
			{User: primitive.NewObjectID(), Rating: 1},
			{User: primitive.NewObjectID(), Rating: 2},
			{User: primitive.NewObjectID(), Rating: 4},
		}}
		n.RecalculateAverageRating()
		assert.InDelta(t, 2.333, n.AverageRating, 0.001)
	})
}

func TestFindComment(t *testing.T) {
	target := primitive.NewObjectID()
	n := &Note{Comments: []Comment{
		{ID: primitive.NewObjectID(), Text: "first"},
		{ID: target, Text: "second"},
	}}

	found := n.FindComment(target)
	require.NotNil(t, found)
	assert.Equal(t, "second", found.Text)

	assert.Nil(t, n.FindComment(primitive.NewObjectID()))
}

func TestCanDeleteComment(t *testing.T) {
	author := primitive.NewObjectID()
	comment := &Comment{ID: primitive.NewObjectID(), User: author, Text: "hi"}

	tests := []struct {
		name  string
		actor *auth.User
		want  bool
	}{
		{"author may delete", &auth.User{ID: author, Role: auth.RoleStudent}, true},
		{"admin may delete", &auth.User{ID: primitive.NewObjectID(), Role: auth.RoleAdmin}, true},
		{"other student may not", &auth.User{ID: primitive.NewObjectID(), Role: auth.RoleStudent}, false},
		{"other teacher may not", &auth.User{ID: primitive.NewObjectID(), Role: auth.RoleTeacher}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDeleteComment(comment, tt.actor))
		})
	}
}
