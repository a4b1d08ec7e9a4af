package announcements

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"nexnote/internal/auth"
	"nexnote/internal/httperr"
)

// Service implements announcement CRUD and the scoped listing.
type Service struct {
	repo *Repository
	log  *zap.Logger
}

func NewService(repo *Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create stores a new announcement. Department defaults to "All", semester to
// 0 (all semesters) and priority to normal.
func (s *Service) Create(ctx context.Context, req CreateRequest, actor *auth.User) (*Announcement, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, httperr.Validation("Title and content are required")
	}

	department := req.Department
	if department == "" {
		department = "All"
	}
	if !DepartmentScopeValid(department) {
		return nil, httperr.Validation("Invalid department")
	}
	if req.Semester < 0 || req.Semester > 8 {
		return nil, httperr.Validation("Semester must be between 0 and 8")
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !IsValidPriority(priority) {
		return nil, httperr.Validation("Invalid priority")
	}

	now := time.Now()
	a := &Announcement{
		ID:         primitive.NewObjectID(),
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Department: department,
		Semester:   req.Semester,
		Priority:   priority,
		CreatedBy:  actor.ID,
		ExpiresAt:  req.ExpiresAt,
		IsActive:   true,
		IsPinned:   req.IsPinned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info("Announcement created",
		zap.String("title", a.Title), zap.String("priority", a.Priority), zap.String("by", actor.Email))

	a.Creator = &UserRef{ID: actor.ID, Name: actor.Name, Email: actor.Email, Role: actor.Role}
	return a, nil
}

// List returns active, unexpired announcements for the given scope, pinned
// first and then newest first.
func (s *Service) List(ctx context.Context, department string, semester int) ([]*Announcement, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	announcements, err := s.repo.Find(ctx, buildListFilter(department, semester, time.Now()))
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (*Announcement, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, httperr.NotFound("Announcement not found")
	}
	if err := s.populate(ctx, []*Announcement{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// Update applies the provided fields. Only the creator or an admin may.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, req UpdateRequest, actor *auth.User) (*Announcement, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, httperr.NotFound("Announcement not found")
	}
	if !a.CanModify(actor) {
		return nil, httperr.Forbidden("Not authorized to update this announcement")
	}

	set := bson.M{}
	var unset []string
	if title := strings.TrimSpace(req.Title); title != "" {
		set["title"] = title
	}
	if req.Content != "" {
		set["content"] = req.Content
	}
	if req.Department != "" {
		if !DepartmentScopeValid(req.Department) {
			return nil, httperr.Validation("Invalid department")
		}
		set["department"] = req.Department
	}
	if req.Semester != nil {
		if *req.Semester < 0 || *req.Semester > 8 {
			return nil, httperr.Validation("Semester must be between 0 and 8")
		}
		set["semester"] = *req.Semester
	}
	if req.Priority != "" {
		if !IsValidPriority(req.Priority) {
			return nil, httperr.Validation("Invalid priority")
		}
		set["priority"] = req.Priority
	}
	if req.ExpiresAt != nil {
		if req.ExpiresAt.IsZero() {
			unset = append(unset, "expires_at")
		} else {
			set["expires_at"] = *req.ExpiresAt
		}
	}
	if req.IsPinned != nil {
		set["is_pinned"] = *req.IsPinned
	}
	if req.IsActive != nil {
		set["is_active"] = *req.IsActive
	}

	if err := s.repo.UpdateFields(ctx, id, set, unset); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes an announcement. Only the creator or an admin may.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID, actor *auth.User) error {
	if err := s.repo.Ready(ctx); err != nil {
		return err
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return httperr.NotFound("Announcement not found")
	}
	if !a.CanModify(actor) {
		return httperr.Forbidden("Not authorized to delete this announcement")
	}

	return s.repo.Delete(ctx, id)
}

// populate attaches creator info in one batched lookup. References to
// deleted users resolve to nil creators.
func (s *Service) populate(ctx context.Context, announcements []*Announcement) error {
	idSet := make(map[primitive.ObjectID]struct{})
	for _, a := range announcements {
		idSet[a.CreatedBy] = struct{}{}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	refs, err := s.repo.FindUserRefs(ctx, ids)
	if err != nil {
		return err
	}
	for _, a := range announcements {
		a.Creator = refs[a.CreatedBy]
	}
	return nil
}

// buildListFilter matches active, unexpired announcements. A department
// filter also matches scope "All", a semester filter also matches 0.
func buildListFilter(department string, semester int, now time.Time) bson.M {
	conds := []bson.M{
		{"is_active": true},
		{"$or": []bson.M{
			{"expires_at": bson.M{"$exists": false}},
			{"expires_at": nil},
			{"expires_at": bson.M{"$gt": now}},
		}},
	}
	if department != "" && department != "All" {
		conds = append(conds, bson.M{"$or": []bson.M{
			{"department": "All"},
			{"department": department},
		}})
	}
	if semester != 0 {
		conds = append(conds, bson.M{"$or": []bson.M{
			{"semester": 0},
			{"semester": semester},
		}})
	}
	return bson.M{"$and": conds}
}
