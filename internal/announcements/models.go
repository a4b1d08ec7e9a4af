package announcements

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nexnote/internal/auth"
)

// Priorities of a broadcast message.
const (
	PriorityUrgent = "urgent"
	PriorityNormal = "normal"
	PriorityInfo   = "info"
)

func IsValidPriority(p string) bool {
	return p == PriorityUrgent || p == PriorityNormal || p == PriorityInfo
}

// DepartmentScopeValid accepts "All" or any department from the closed set.
func DepartmentScopeValid(d string) bool {
	return d == "All" || auth.IsValidDepartment(d)
}

// UserRef is the trimmed creator info attached to populated responses.
type UserRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Role  string             `bson:"role" json:"role"`
}

// Announcement is a broadcast message scoped by department and semester.
// Semester 0 addresses all semesters, department "All" all departments.
type Announcement struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	Department string             `bson:"department" json:"department"` // "All" or a specific department
	Semester   int                `bson:"semester" json:"semester"`     // 0 = all semesters
	Priority   string             `bson:"priority" json:"priority"`     // urgent, normal or info
	CreatedBy  primitive.ObjectID `bson:"created_by" json:"createdBy"`
	Creator    *UserRef           `bson:"-" json:"creator,omitempty"`                 // Populated on read
	ExpiresAt  *time.Time         `bson:"expires_at,omitempty" json:"expiresAt,omitempty"` // nil = never expires
	IsActive   bool               `bson:"is_active" json:"isActive"`
	IsPinned   bool               `bson:"is_pinned" json:"isPinned"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CanModify allows the announcement's creator and admins.
func (a *Announcement) CanModify(actor *auth.User) bool {
	return a.CreatedBy == actor.ID || actor.Role == auth.RoleAdmin
}

type CreateRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Department string     `json:"department"` // Defaults to "All"
	Semester   int        `json:"semester"`   // Defaults to 0 (all)
	Priority   string     `json:"priority"`   // Defaults to normal
	ExpiresAt  *time.Time `json:"expiresAt"`
	IsPinned   bool       `json:"isPinned"`
}

// UpdateRequest carries partial edits; nil pointer fields stay untouched. A
// zero ExpiresAt clears the expiry.
type UpdateRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Department string     `json:"department"`
	Semester   *int       `json:"semester"`
	Priority   string     `json:"priority"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	IsPinned   *bool      `json:"isPinned"`
	IsActive   *bool      `json:"isActive"`
}
