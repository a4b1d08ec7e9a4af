package announcements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nexnote/internal/auth"
)

func TestBuildListFilter(t *testing.T) {
	now := time.Now()

	activeAndUnexpired := func(t *testing.T, filter bson.M) []bson.M {
		t.Helper()
		conds, ok := filter["$and"].([]bson.M)
		require.True(t, ok)
		assert.Equal(t, bson.M{"is_active": true}, conds[0])
		expiry, ok := conds[1]["$or"].([]bson.M)
		require.True(t, ok)
		assert.Len(t, expiry, 3)
		return conds
	}

	t.Run("no scope matches only active unexpired", func(t *testing.T) {
		conds := activeAndUnexpired(t, buildListFilter("", 0, now))
		assert.Len(t, conds, 2)
	})

	t.Run("department scope also matches All", func(t *testing.T) {
		conds := activeAndUnexpired(t, buildListFilter("ECE", 0, now))
		require.Len(t, conds, 3)

		or, ok := conds[2]["$or"].([]bson.M)
		require.True(t, ok)
		assert.Contains(t, or, bson.M{"department": "All"})
		assert.Contains(t, or, bson.M{"department": "ECE"})
	})

	t.Run("explicit All department adds no condition", func(t *testing.T) {
		conds := activeAndUnexpired(t, buildListFilter("All", 0, now))
		assert.Len(t, conds, 2)
	})

	t.Run("semester scope also matches zero", func(t *testing.T) {
		conds := activeAndUnexpired(t, buildListFilter("", 4, now))
		require.Len(t, conds, 3)

		or, ok := conds[2]["$or"].([]bson.M)
		require.True(t, ok)
		assert.Contains(t, or, bson.M{"semester": 0})
		assert.Contains(t, or, bson.M{"semester": 4})
	})

	t.Run("both scopes combine", func(t *testing.T) {
		conds := activeAndUnexpired(t, buildListFilter("ECE", 4, now))
		assert.Len(t, conds, 4)
	})
}

func TestCanModify(t *testing.T) {
	creator := primitive.NewObjectID()
	a := &Announcement{CreatedBy: creator}

	tests := []struct {
		name  string
		actor *auth.User
		want  bool
	}{
		{"creator may modify", &auth.User{ID: creator, Role: auth.RoleTeacher}, true},
		{"admin may modify", &auth.User{ID: primitive.NewObjectID(), Role: auth.RoleAdmin}, true},
		{"other teacher may not", &auth.User{ID: primitive.NewObjectID(), Role: auth.RoleTeacher}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.CanModify(tt.actor))
		})
	}
}

func TestDepartmentScopeValid(t *testing.T) {
	assert.True(t, DepartmentScopeValid("All"))
	assert.True(t, DepartmentScopeValid("CSE"))
	assert.False(t, DepartmentScopeValid("Astrology"))
	assert.False(t, DepartmentScopeValid(""))
}

func TestIsValidPriority(t *testing.T) {
	for _, p := range []string{PriorityUrgent, PriorityNormal, PriorityInfo} {
		assert.True(t, IsValidPriority(p), p)
	}
	assert.False(t, IsValidPriority("critical"))
	assert.False(t, IsValidPriority(""))
}
