package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles gating authorization.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Departments is the closed set of academic departments.
var Departments = []string{"CSE", "ECE", "Mechanical", "Civil", "IT", "EEE", "Chemical", "Biotechnology", "Other"}

func IsValidDepartment(d string) bool {
	for _, dep := range Departments {
		if dep == d {
			return true
		}
	}
	return false
}

func IsValidRole(r string) bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleAdmin
}

// User represents a registered account. The password hash is write-only and
// never serialized to clients.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"` // Unique, stored lowercased
	PasswordHash string               `bson:"password" json:"-"`  // bcrypt hash
	Role         string               `bson:"role" json:"role"`   // student, teacher or admin
	Department   string               `bson:"department,omitempty" json:"department,omitempty"`
	Semester     int                  `bson:"semester,omitempty" json:"semester,omitempty"` // 1-8
	RollNumber   string               `bson:"roll_number,omitempty" json:"rollNumber,omitempty"`
	IsVerified   bool                 `bson:"is_verified" json:"isVerified"`
	Bio          string               `bson:"bio" json:"bio"` // At most 500 characters
	Avatar       string               `bson:"avatar" json:"avatar"`
	Favorites    []primitive.ObjectID `bson:"favorites" json:"favorites"` // Bookmarked note IDs, may dangle
	Points       int                  `bson:"points" json:"points"`       // Gamification counter
	Badges       []string             `bson:"badges" json:"badges"`
	Streak       int                  `bson:"streak" json:"streak"`
	LastActive   time.Time            `bson:"last_active" json:"lastActive"`
	CreatedAt    time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updatedAt"`
}

type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"` // Defaults to student
	Department string `json:"department"`
	Semester   int    `json:"semester"`
	RollNumber string `json:"rollNumber"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the identity payload returned by signup and login.
type AuthResponse struct {
	ID         primitive.ObjectID `json:"_id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Role       string             `json:"role"`
	Department string             `json:"department,omitempty"`
	Semester   int                `json:"semester,omitempty"`
	RollNumber string             `json:"rollNumber,omitempty"`
	IsVerified bool               `json:"isVerified"`
	Bio        string             `json:"bio,omitempty"`
	Avatar     string             `json:"avatar,omitempty"`
	Points     int                `json:"points"`
	Badges     []string           `json:"badges,omitempty"`
	Token      string             `json:"token"`
}
