package models

import "time"

// LocalUserID marks todos that only live in a device's local store.
const LocalUserID = "local"

// TodoTextMaxLength bounds the trimmed length of a todo's text, in characters.
const TodoTextMaxLength = 500

// TodoStatus enumerates the display states of a todo.
type TodoStatus string

const (
	TodoStatusPending   TodoStatus = "pending"
	TodoStatusCompleted TodoStatus = "completed"
	TodoStatusArchived  TodoStatus = "archived" // reserved, nothing archives todos
)

// Todo is a short text task owned by exactly one user (or by the local device).
type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    string    `json:"userId"`
}

// Status derives the display state from the completed flag.
func (t Todo) Status() TodoStatus {
	if t.Completed {
		return TodoStatusCompleted
	}
	return TodoStatusPending
}

// IsLocal reports whether the todo was created without a session.
func (t Todo) IsLocal() bool {
	return t.UserID == LocalUserID
}

// TodoCreateRequest is the body of POST /todos.
type TodoCreateRequest struct {
	Text string `json:"text"`
}

// TodoUpdateRequest is the body of PATCH /todos/{id}. Nil fields are left untouched.
type TodoUpdateRequest struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Empty reports whether the request changes nothing.
func (r TodoUpdateRequest) Empty() bool {
	return r.Text == nil && r.Completed == nil
}
