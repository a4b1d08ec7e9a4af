package notes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nexnote/internal/httperr"
	"nexnote/pkg/middleware"
)

// NoteHandler handles HTTP requests for note operations.
type NoteHandler struct {
	service *NoteService
}

func NewNoteHandler(service *NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

type addCommentRequest struct {
	Text string `json:"text"`
}

type addRatingRequest struct {
	Rating int `json:"rating"`
}

// Upload creates a note from a multipart form. Teachers and admins only,
// enforced by the route policy.
func (h *NoteHandler) Upload(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	// A missing file part is reported by the service as a validation error.
	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	req := UploadRequest{
		Title:              c.FormValue("title"),
		Subject:            c.FormValue("subject"),
		Category:           c.FormValue("category"),
		Tags:               c.FormValue("tags"),
		Department:         c.FormValue("department"),
		Semester:           c.FormValue("semester"),
		IsImportantForExam: c.FormValue("isImportantForExam"),
		ExamTags:           c.FormValue("examTags"),
		SyllabusTopics:     c.FormValue("syllabusTopics"),
		SyllabusUnit:       c.FormValue("syllabusUnit"),
	}

	note, err := h.service.Upload(c.Request().Context(), req, file, actor)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, note)
}

// List returns all notes matching the optional query filters.
func (h *NoteHandler) List(c echo.Context) error {
	filters := ListFilters{
		Department: c.QueryParam("department"),
		ExamOnly:   c.QueryParam("isImportantForExam") == "true",
		Subject:    c.QueryParam("subject"),
	}
	if raw := c.QueryParam("semester"); raw != "" {
		semester, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid semester"})
		}
		filters.Semester = semester
	}

	notes, err := h.service.List(c.Request().Context(), filters)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *NoteHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetByID fetches one note and increments its view counter.
func (h *NoteHandler) GetByID(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid note ID"})
	}

	note, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

// Download streams the backing file under a name derived from the title.
func (h *NoteHandler) Download(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid note ID"})
	}

	path, name, err := h.service.Download(c.Request().Context(), id)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.Attachment(path, name)
}

func (h *NoteHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid note ID"})
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Note deleted"})
}

func (h *NoteHandler) AddComment(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid note ID"})
	}

	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	note, err := h.service.AddComment(c.Request().Context(), id, req.Text, actor)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) DeleteComment(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid note ID"})
	}
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid comment ID"})
	}

	if err := h.service.DeleteComment(c.Request().Context(), id, commentID, actor); err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Comment deleted"})
}

func (h *NoteHandler) AddRating(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid note ID"})
	}

	var req addRatingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	average, err := h.service.AddRating(c.Request().Context(), id, req.Rating, actor)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "Rating added",
		"averageRating": average,
	})
}
