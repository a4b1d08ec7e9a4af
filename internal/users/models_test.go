package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleFavorite(t *testing.T) {
	noteA := primitive.NewObjectID()
	noteB := primitive.NewObjectID()

	t.Run("adds a missing note", func(t *testing.T) {
		got, isFavorite := ToggleFavorite([]primitive.ObjectID{noteA}, noteB)

		assert.True(t, isFavorite)
		assert.Equal(t, []primitive.ObjectID{noteA, noteB}, got)
	})

	t.Run("removes a present note", func(t *testing.T) {
		got, isFavorite := ToggleFavorite([]primitive.ObjectID{noteA, noteB}, noteA)

		assert.False(t, isFavorite)
		assert.Equal(t, []primitive.ObjectID{noteB}, got)
	})

	t.Run("adds to an empty set", func(t *testing.T) {
		got, isFavorite := ToggleFavorite(nil, noteA)

		assert.True(t, isFavorite)
		assert.Equal(t, []primitive.ObjectID{noteA}, got)
	})

	t.Run("toggling twice restores the set", func(t *testing.T) {
		original := []primitive.ObjectID{noteA, noteB}

		once, added := ToggleFavorite(original, primitive.NewObjectID())
		require.True(t, added)
		twice, removed := ToggleFavorite(once, once[len(once)-1])
		require.False(t, removed)

		assert.Equal(t, original, twice)
	})

	t.Run("removal does not mutate the input slice", func(t *testing.T) {
		original := []primitive.ObjectID{noteA, noteB}

		_, _ = ToggleFavorite(original, noteA)

		assert.Equal(t, []primitive.ObjectID{noteA, noteB}, original)
	})
}
