package notes

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nexnote/internal/auth"
)

// ExamTags is the closed set of exam relevance labels.
var ExamTags = []string{"midterm", "final", "quick-revision", "important"}

func IsValidExamTag(tag string) bool {
	for _, t := range ExamTags {
		if t == tag {
			return true
		}
	}
	return false
}

// UserRef is the trimmed author info attached to populated responses.
type UserRef struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Avatar     string             `bson:"avatar" json:"avatar,omitempty"`
	IsVerified bool               `bson:"is_verified" json:"isVerified"`
}

// Comment is an owned child record inside a note, addressed by its own id.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	Author    *UserRef           `bson:"-" json:"author,omitempty"` // Populated on read, may be nil for deleted users
}

// Rating is a single user's 1-5 vote. A note holds at most one per user.
type Rating struct {
	User   primitive.ObjectID `bson:"user" json:"user"`
	Rating int                `bson:"rating" json:"rating"` // 1-5
}

// Note is an uploaded document with metadata, engagement counters and the
// embedded comment and rating sequences.
type Note struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title              string             `bson:"title" json:"title"`
	Subject            string             `bson:"subject" json:"subject"`
	Department         string             `bson:"department" json:"department"` // Closed enum incl. Other
	Semester           int                `bson:"semester" json:"semester"`     // 1-8
	Category           string             `bson:"category" json:"category"`
	Tags               []string           `bson:"tags" json:"tags"`
	IsImportantForExam bool               `bson:"is_important_for_exam" json:"isImportantForExam"`
	ExamTags           []string           `bson:"exam_tags" json:"examTags"`
	SyllabusTopics     []string           `bson:"syllabus_topics" json:"syllabusTopics"`
	SyllabusUnit       int                `bson:"syllabus_unit,omitempty" json:"syllabusUnit,omitempty"` // 1-10, 0 = unset
	FileName           string             `bson:"file_name" json:"fileName"`                             // Stored name, generated at upload
	FileSize           int64              `bson:"file_size" json:"fileSize"`
	UploadedBy         primitive.ObjectID `bson:"uploaded_by" json:"uploadedBy"`
	Uploader           *UserRef           `bson:"-" json:"uploader,omitempty"` // Populated on read
	Downloads          int64              `bson:"downloads" json:"downloads"`
	Views              int64              `bson:"views" json:"views"`
	Comments           []Comment          `bson:"comments" json:"comments"`
	Ratings            []Rating           `bson:"ratings" json:"ratings"`
	AverageRating      float64            `bson:"average_rating" json:"averageRating"` // Mean of ratings, 0 when empty
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ApplyRating upserts the user's rating and recomputes the average. A repeat
// rating by the same user overwrites the previous value.
func (n *Note) ApplyRating(userID primitive.ObjectID, value int) {
	for i := range n.Ratings {
		if n.Ratings[i].User == userID {
			n.Ratings[i].Rating = value
			n.RecalculateAverageRating()
			return
		}
	}
	n.Ratings = append(n.Ratings, Rating{User: userID, Rating: value})
	n.RecalculateAverageRating()
}

// RecalculateAverageRating derives averageRating from the rating sequence.
func (n *Note) RecalculateAverageRating() {
	if len(n.Ratings) == 0 {
		n.AverageRating = 0
		return
	}
	sum := 0
	for _, r := range n.Ratings {
		sum += r.Rating
	}
	n.AverageRating = float64(sum) / float64(len(n.Ratings))
}

// FindComment returns the embedded comment with the given id, or nil.
func (n *Note) FindComment(commentID primitive.ObjectID) *Comment {
	for i := range n.Comments {
		if n.Comments[i].ID == commentID {
			return &n.Comments[i]
		}
	}
	return nil
}

// CanDeleteComment allows the comment's author and admins.
func CanDeleteComment(c *Comment, actor *auth.User) bool {
	return c.User == actor.ID || actor.Role == auth.RoleAdmin
}

// SubjectCount is one bucket of the notes-per-subject aggregation.
type SubjectCount struct {
	Subject string `bson:"_id" json:"_id"`
	Count   int64  `bson:"count" json:"count"`
}

// Stats is the unauthenticated aggregate view over all notes.
type Stats struct {
	TotalNotes     int64          `json:"totalNotes"`
	TotalDownloads int64          `json:"totalDownloads"`
	TotalViews     int64          `json:"totalViews"`
	TopNotes       []*Note        `json:"topNotes"`       // Top 5 by downloads
	NotesBySubject []SubjectCount `json:"notesBySubject"` // Descending by count
}
