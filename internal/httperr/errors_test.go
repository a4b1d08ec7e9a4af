package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("not yours"), http.StatusForbidden},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"conflict", Conflict("duplicate"), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var he *Error
			require.ErrorAs(t, tt.err, &he)
			assert.Equal(t, tt.code, he.Code)
			assert.Equal(t, he.Message, tt.err.Error())
		})
	}
}

func TestJSON(t *testing.T) {
	respond := func(t *testing.T, err error) *httptest.ResponseRecorder {
		t.Helper()
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, JSON(c, err))
		return rec
	}

	t.Run("classified error keeps status and message", func(t *testing.T) {
		rec := respond(t, NotFound("Note not found"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Note not found", body["error"])
	})

	t.Run("unclassified error becomes opaque 500", func(t *testing.T) {
		rec := respond(t, errors.New("mongo: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Server error", body["error"])
	})
}
