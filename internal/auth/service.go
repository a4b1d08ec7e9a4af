package auth

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"nexnote/internal/httperr"
)

// AuthService handles account registration and authentication.
type AuthService struct {
	repo *UserRepository
	log  *zap.Logger
}

func NewAuthService(repo *UserRepository, log *zap.Logger) *AuthService {
	return &AuthService{repo: repo, log: log}
}

// Signup registers a new account and returns the identity payload with a
// fresh token. The email must not be registered already.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, httperr.Validation("Please provide name, email and password")
	}
	if len(req.Password) < 6 {
		return nil, httperr.Validation("Password must be at least 6 characters")
	}

	role := req.Role
	if role == "" {
		role = RoleStudent
	}
	if !IsValidRole(role) {
		return nil, httperr.Validation("Invalid role")
	}
	if req.Department != "" && !IsValidDepartment(req.Department) {
		return nil, httperr.Validation("Invalid department")
	}
	if req.Semester != 0 && (req.Semester < 1 || req.Semester > 8) {
		return nil, httperr.Validation("Semester must be between 1 and 8")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, httperr.Conflict("Email already registered")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   req.Department,
		Semester:     req.Semester,
		RollNumber:   strings.TrimSpace(req.RollNumber),
		Favorites:    []primitive.ObjectID{},
		Badges:       []string{},
		LastActive:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// The unique email index closes the race between the lookup above and
		// a concurrent signup.
		if mongo.IsDuplicateKeyError(err) {
			return nil, httperr.Conflict("Email already registered")
		}
		return nil, err
	}

	token, err := GenerateJWT(user.ID.Hex(), TokenTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered", zap.String("email", user.Email), zap.String("role", user.Role))
	return &AuthResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		Semester:   user.Semester,
		RollNumber: user.RollNumber,
		IsVerified: user.IsVerified,
		Token:      token,
	}, nil
}

// Login authenticates by email and password. The failure message never
// reveals which of the two was wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	if req.Email == "" || req.Password == "" {
		return nil, httperr.Validation("Please provide email and password")
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, httperr.Unauthorized("Invalid email or password")
	}

	token, err := GenerateJWT(user.ID.Hex(), TokenTTL)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		Semester:   user.Semester,
		RollNumber: user.RollNumber,
		IsVerified: user.IsVerified,
		Bio:        user.Bio,
		Avatar:     user.Avatar,
		Points:     user.Points,
		Badges:     user.Badges,
		Token:      token,
	}, nil
}
