package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTodo_Status(t *testing.T) {
	assert.Equal(t, TodoStatusPending, Todo{}.Status())
	assert.Equal(t, TodoStatusCompleted, Todo{Completed: true}.Status())
}

func TestTodo_IsLocal(t *testing.T) {
	assert.True(t, Todo{UserID: LocalUserID}.IsLocal())
	assert.False(t, Todo{UserID: "b0c3"}.IsLocal())
}

func TestUser_PublicOmitsHash(t *testing.T) {
	u := User{ID: "1", Name: "Ada", Email: "ada@example.com", PasswordHash: "secret"}
	p := u.Public()
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "ada@example.com", p.Email)
}

func TestTodoUpdateRequest_Empty(t *testing.T) {
	assert.True(t, TodoUpdateRequest{}.Empty())
	done := true
	assert.False(t, TodoUpdateRequest{Completed: &done}.Empty())
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  PaginationParams
	}{
		{"defaults", "", PaginationParams{Page: 1, Limit: 10}},
		{"explicit", "page=3&limit=20", PaginationParams{Page: 3, Limit: 20}},
		{"page floor", "page=-4", PaginationParams{Page: 1, Limit: 10}},
		{"limit ceiling", "limit=1000", PaginationParams{Page: 1, Limit: 100}},
		{"limit floor", "limit=0", PaginationParams{Page: 1, Limit: 1}},
		{"garbage", "page=x&limit=y", PaginationParams{Page: 1, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, GetPaginationParams(q))
		})
	}
	assert.Equal(t, 40, PaginationParams{Page: 3, Limit: 20}.Offset())
}

func TestNewPagination(t *testing.T) {
	p := PaginationParams{Page: 2, Limit: 10}
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3}, NewPagination(p, 25))
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 20, TotalPages: 2}, NewPagination(p, 20))
	assert.Equal(t, 0, NewPagination(p, 0).TotalPages)
	assert.Equal(t, 10, p.Offset())
}
