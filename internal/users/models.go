package users

import "go.mongodb.org/mongo-driver/bson/primitive"

// UpdateProfileRequest carries partial profile edits. Pointer fields
// distinguish "not provided" from an explicit empty value, so a bio or
// avatar can be cleared.
type UpdateProfileRequest struct {
	Name   string  `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ToggleFavorite flips noteID's membership in the favorites set and returns
// the new set plus whether the note is now a favorite. Applying it twice
// restores the original set.
func ToggleFavorite(favorites []primitive.ObjectID, noteID primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for i, id := range favorites {
		if id == noteID {
			return append(favorites[:i:i], favorites[i+1:]...), false
		}
	}
	return append(favorites, noteID), true
}
