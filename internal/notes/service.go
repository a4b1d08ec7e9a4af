package notes

import (
	"context"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"nexnote/internal/auth"
	"nexnote/internal/httperr"
	"nexnote/internal/metrics"
)

// Points awarded to the uploader of a note.
const uploadReward = 10

// NoteService implements note CRUD and the engagement operations.
type NoteService struct {
	repo     *NoteRepository
	userRepo *auth.UserRepository
	files    *FileStore
	log      *zap.Logger
}

func NewNoteService(repo *NoteRepository, userRepo *auth.UserRepository, files *FileStore, log *zap.Logger) *NoteService {
	return &NoteService{repo: repo, userRepo: userRepo, files: files, log: log}
}

// UploadRequest carries the multipart form fields of a note upload. List and
// numeric fields arrive as raw form strings.
type UploadRequest struct {
	Title              string
	Subject            string
	Category           string
	Tags               string // Comma-separated
	Department         string
	Semester           string
	IsImportantForExam string
	ExamTags           string // Comma-separated, closed set
	SyllabusTopics     string // Comma-separated
	SyllabusUnit       string
}

// ListFilters are the conjunctive query filters of the note listing.
type ListFilters struct {
	Department string
	Semester   int
	ExamOnly   bool
	Subject    string // Case-insensitive substring
}

// Upload stores the file under a generated name, creates the note record and
// rewards the uploader. Department and semester default from the uploader's
// profile when omitted.
func (s *NoteService) Upload(ctx context.Context, req UploadRequest, file *multipart.FileHeader, actor *auth.User) (*Note, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	if file == nil {
		return nil, httperr.Validation("No file uploaded")
	}
	if req.Title == "" || req.Subject == "" {
		return nil, httperr.Validation("Title and subject required")
	}

	department := req.Department
	if department == "" {
		department = actor.Department
	}
	if department == "" {
		department = "Other"
	}
	if !auth.IsValidDepartment(department) {
		return nil, httperr.Validation("Invalid department")
	}

	semester := 0
	if req.Semester != "" {
		n, err := strconv.Atoi(req.Semester)
		if err != nil {
			return nil, httperr.Validation("Semester must be a number")
		}
		semester = n
	}
	if semester == 0 {
		semester = actor.Semester
	}
	if semester == 0 {
		semester = 1
	}
	if semester < 1 || semester > 8 {
		return nil, httperr.Validation("Semester must be between 1 and 8")
	}

	examTags := splitList(req.ExamTags)
	for _, tag := range examTags {
		if !IsValidExamTag(tag) {
			return nil, httperr.Validation("Invalid exam tag: " + tag)
		}
	}

	syllabusUnit := 0
	if req.SyllabusUnit != "" {
		n, err := strconv.Atoi(req.SyllabusUnit)
		if err != nil || n < 1 || n > 10 {
			return nil, httperr.Validation("Syllabus unit must be between 1 and 10")
		}
		syllabusUnit = n
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "General"
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	storedName, size, err := s.files.Save(src, file.Filename)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := &Note{
		ID:                 primitive.NewObjectID(),
		Title:              strings.TrimSpace(req.Title),
		Subject:            strings.TrimSpace(req.Subject),
		Department:         department,
		Semester:           semester,
		Category:           category,
		Tags:               splitList(req.Tags),
		IsImportantForExam: req.IsImportantForExam == "true",
		ExamTags:           examTags,
		SyllabusTopics:     splitList(req.SyllabusTopics),
		SyllabusUnit:       syllabusUnit,
		FileName:           storedName,
		FileSize:           size,
		UploadedBy:         actor.ID,
		Comments:           []Comment{},
		Ratings:            []Rating{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.CreateNote(ctx, note); err != nil {
		// Stored file must not outlive a failed insert.
		if rmErr := s.files.Remove(storedName); rmErr != nil {
			s.log.Warn("Failed to clean up orphaned upload", zap.String("file", storedName), zap.Error(rmErr))
		}
		return nil, err
	}

	if err := s.userRepo.IncrementPoints(ctx, actor.ID, uploadReward); err != nil {
		s.log.Warn("Failed to award upload points", zap.String("user", actor.ID.Hex()), zap.Error(err))
	}

	metrics.NoteUploads.Inc()
	s.log.Info("Note uploaded",
		zap.String("title", note.Title), zap.String("by", actor.Email), zap.Int64("size", size))

	note.Uploader = &UserRef{ID: actor.ID, Name: actor.Name, Email: actor.Email, Avatar: actor.Avatar, IsVerified: actor.IsVerified}
	return note, nil
}

// List returns notes newest first, filtered conjunctively.
func (s *NoteService) List(ctx context.Context, filters ListFilters) ([]*Note, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	notes, err := s.repo.FindNotes(ctx, buildNoteFilter(filters))
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetByID fetches a single note and counts the fetch as one view.
func (s *NoteService) GetByID(ctx context.Context, id primitive.ObjectID) (*Note, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	note, err := s.repo.FindNoteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, httperr.NotFound("Note not found")
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	note.Views++

	if err := s.populate(ctx, []*Note{note}); err != nil {
		return nil, err
	}
	return note, nil
}

// Download resolves the file path and client-facing name for a note and
// counts one download. The view counter is untouched here: a download is not
// a view.
func (s *NoteService) Download(ctx context.Context, id primitive.ObjectID) (path, name string, err error) {
	if err := s.repo.Ready(ctx); err != nil {
		return "", "", err
	}

	note, err := s.repo.FindNoteByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if note == nil {
		return "", "", httperr.NotFound("Note not found")
	}
	if !s.files.Exists(note.FileName) {
		return "", "", httperr.NotFound("File not found")
	}

	if err := s.repo.IncrementDownloads(ctx, id); err != nil {
		return "", "", err
	}
	metrics.NoteDownloads.Inc()

	return s.files.Path(note.FileName), DownloadName(note.Title, note.FileName), nil
}

// Delete removes the backing file, then the record. A file already missing
// from disk is tolerated. Any teacher or admin may delete any note.
func (s *NoteService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Ready(ctx); err != nil {
		return err
	}

	note, err := s.repo.FindNoteByID(ctx, id)
	if err != nil {
		return err
	}
	if note == nil {
		return httperr.NotFound("Note not found")
	}

	if err := s.files.Remove(note.FileName); err != nil {
		return err
	}
	if err := s.repo.DeleteNote(ctx, id); err != nil {
		return err
	}

	s.log.Info("Note deleted", zap.String("id", id.Hex()), zap.String("title", note.Title))
	return nil
}

// AddComment appends a comment and returns the note with authors populated.
func (s *NoteService) AddComment(ctx context.Context, noteID primitive.ObjectID, text string, actor *auth.User) (*Note, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, httperr.Validation("Comment text is required")
	}

	note, err := s.repo.FindNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, httperr.NotFound("Note not found")
	}

	comment := Comment{
		ID:        primitive.NewObjectID(),
		User:      actor.ID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddComment(ctx, noteID, comment); err != nil {
		return nil, err
	}

	note.Comments = append(note.Comments, comment)
	if err := s.populate(ctx, []*Note{note}); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteComment removes an embedded comment. Only its author or an admin may.
func (s *NoteService) DeleteComment(ctx context.Context, noteID, commentID primitive.ObjectID, actor *auth.User) error {
	if err := s.repo.Ready(ctx); err != nil {
		return err
	}

	note, err := s.repo.FindNoteByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note == nil {
		return httperr.NotFound("Note not found")
	}

	comment := note.FindComment(commentID)
	if comment == nil {
		return httperr.NotFound("Comment not found")
	}
	if !CanDeleteComment(comment, actor) {
		return httperr.Forbidden("Not authorized to delete this comment")
	}

	return s.repo.RemoveComment(ctx, noteID, commentID)
}

// AddRating upserts the actor's rating and returns the new average.
func (s *NoteService) AddRating(ctx context.Context, noteID primitive.ObjectID, value int, actor *auth.User) (float64, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return 0, err
	}

	if value < 1 || value > 5 {
		return 0, httperr.Validation("Rating must be between 1 and 5")
	}

	note, err := s.repo.FindNoteByID(ctx, noteID)
	if err != nil {
		return 0, err
	}
	if note == nil {
		return 0, httperr.NotFound("Note not found")
	}

	note.ApplyRating(actor.ID, value)
	if err := s.repo.UpdateRatings(ctx, noteID, note.Ratings, note.AverageRating); err != nil {
		return 0, err
	}
	return note.AverageRating, nil
}

// Stats aggregates the engagement counters across all notes.
func (s *NoteService) Stats(ctx context.Context) (*Stats, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	total, err := s.repo.CountNotes(ctx)
	if err != nil {
		return nil, err
	}
	downloads, err := s.repo.SumCounter(ctx, "downloads")
	if err != nil {
		return nil, err
	}
	views, err := s.repo.SumCounter(ctx, "views")
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopNotesByDownloads(ctx, 5)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, top); err != nil {
		return nil, err
	}
	bySubject, err := s.repo.CountBySubject(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalNotes:     total,
		TotalDownloads: downloads,
		TotalViews:     views,
		TopNotes:       top,
		NotesBySubject: bySubject,
	}, nil
}

// Resolve fetches notes by id for the favorites listing; dangling references
// are omitted, not errors.
func (s *NoteService) Resolve(ctx context.Context, ids []primitive.ObjectID) ([]*Note, error) {
	if err := s.repo.Ready(ctx); err != nil {
		return nil, err
	}

	notes, err := s.repo.FindNotesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// populate attaches uploader and comment author info in one batched lookup.
// References to deleted users resolve to nil authors.
func (s *NoteService) populate(ctx context.Context, notes []*Note) error {
	idSet := make(map[primitive.ObjectID]struct{})
	for _, n := range notes {
		idSet[n.UploadedBy] = struct{}{}
		for _, c := range n.Comments {
			idSet[c.User] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	refs, err := s.repo.FindUserRefs(ctx, ids)
	if err != nil {
		return err
	}
	for _, n := range notes {
		n.Uploader = refs[n.UploadedBy]
		for i := range n.Comments {
			n.Comments[i].Author = refs[n.Comments[i].User]
		}
	}
	return nil
}

// buildNoteFilter translates listing filters into a conjunctive Mongo query.
func buildNoteFilter(f ListFilters) bson.M {
	filter := bson.M{}
	if f.Department != "" {
		filter["department"] = f.Department
	}
	if f.Semester != 0 {
		filter["semester"] = f.Semester
	}
	if f.ExamOnly {
		filter["is_important_for_exam"] = true
	}
	if f.Subject != "" {
		filter["subject"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Subject), Options: "i"}
	}
	return filter
}

// splitList turns a comma-separated form value into trimmed entries.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
