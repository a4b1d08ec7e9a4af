package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildNoteFilter(t *testing.T) {
	t.Run("no filters yields empty query", func(t *testing.T) {
		assert.Empty(t, buildNoteFilter(ListFilters{}))
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		filter := buildNoteFilter(ListFilters{
			Department: "CSE",
			Semester:   3,
			ExamOnly:   true,
		})

		assert.Equal(t, "CSE", filter["department"])
		assert.Equal(t, 3, filter["semester"])
		assert.Equal(t, true, filter["is_important_for_exam"])
	})

	t.Run("subject becomes a case-insensitive regex", func(t *testing.T) {
		filter := buildNoteFilter(ListFilters{Subject: "math"})

		re, ok := filter["subject"].(primitive.Regex)
		require.True(t, ok)
		assert.Equal(t, "math", re.Pattern)
		assert.Equal(t, "i", re.Options)
	})

	t.Run("regex metacharacters in subject are escaped", func(t *testing.T) {
		filter := buildNoteFilter(ListFilters{Subject: "c++ (advanced)"})

		re, ok := filter["subject"].(primitive.Regex)
		require.True(t, ok)
		assert.Equal(t, `c\+\+ \(advanced\)`, re.Pattern)
	})
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty input", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"single entry", "algebra", []string{"algebra"}},
		{"trims around commas", " midterm , final ", []string{"midterm", "final"}},
		{"drops empty entries", "a,,b,", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.raw))
		})
	}
}
