package users

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"nexnote/internal/auth"
	"nexnote/internal/httperr"
	"nexnote/internal/notes"
)

// Service implements profile management and favorites.
type Service struct {
	repo  *Repository
	notes *notes.NoteService
	log   *zap.Logger
}

func NewService(repo *Repository, notes *notes.NoteService, log *zap.Logger) *Service {
	return &Service{repo: repo, notes: notes, log: log}
}

// UpdateProfile applies the provided fields to the actor's own record and
// returns the refreshed profile.
func (s *Service) UpdateProfile(ctx context.Context, actor *auth.User, req UpdateProfileRequest) (*auth.User, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	fields := bson.M{}
	if name := strings.TrimSpace(req.Name); name != "" {
		fields["name"] = name
	}
	if req.Bio != nil {
		if len(*req.Bio) > 500 {
			return nil, httperr.Validation("Bio must be at most 500 characters")
		}
		fields["bio"] = *req.Bio
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, actor.ID, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, actor.ID)
}

// ChangePassword rotates the actor's secret after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, actor *auth.User, req ChangePasswordRequest) error {
	if err := s.repo.Ready(ctx); err != nil {
		return err
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return httperr.Validation("Please provide current and new password")
	}
	if len(req.NewPassword) < 6 {
		return httperr.Validation("Password must be at least 6 characters")
	}
	if !auth.CheckPasswordHash(req.CurrentPassword, actor.PasswordHash) {
		return httperr.Unauthorized("Current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateFields(ctx, actor.ID, bson.M{"password": hash}); err != nil {
		return err
	}

	s.log.Info("Password changed", zap.String("user", actor.Email))
	return nil
}

// ToggleFavorite adds the note to the actor's favorites, or removes it when
// already present. The note's existence is deliberately not checked, so a
// favorite may reference a note that was deleted later.
func (s *Service) ToggleFavorite(ctx context.Context, actor *auth.User, noteID primitive.ObjectID) (bool, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return false, err
	}

	_, nowFavorite := ToggleFavorite(actor.Favorites, noteID)
	if nowFavorite {
		if err := s.repo.AddFavorite(ctx, actor.ID, noteID); err != nil {
			return false, err
		}
	} else {
		if err := s.repo.RemoveFavorite(ctx, actor.ID, noteID); err != nil {
			return false, err
		}
	}
	return nowFavorite, nil
}

// Favorites resolves the actor's favorite notes with uploader info. Dangling
// references are skipped.
func (s *Service) Favorites(ctx context.Context, actor *auth.User) ([]*notes.Note, error) {
	return s.notes.Resolve(ctx, actor.Favorites)
}
