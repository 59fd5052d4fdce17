package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/validation"
)

// TodoServiceProvider defines the interface for todo services. Every
// operation is scoped to the owning user's id.
type TodoServiceProvider interface {
	ListTodos(ctx context.Context, ownerID string) ([]models.Todo, error)
	ListTodosPage(ctx context.Context, ownerID string, page models.PaginationParams) ([]models.Todo, int, error)
	FindTodo(ctx context.Context, id, ownerID string) (models.Todo, error)
	CreateTodo(ctx context.Context, ownerID, text string) (models.Todo, error)
	UpdateTodo(ctx context.Context, id, ownerID string, req models.TodoUpdateRequest) (models.Todo, error)
	DeleteTodo(ctx context.Context, id, ownerID string) error
}

// TodoService provides business logic for todo management.
type TodoService struct {
	db  *sql.DB
	now func() time.Time
}

// NewTodoService creates a new TodoService.
func NewTodoService(db *sql.DB) *TodoService {
	return &TodoService{db: db, now: time.Now}
}

const todoColumns = "id, text, completed, created_at, updated_at, user_id"

// ListTodos returns every todo owned by ownerID, newest first.
func (s *TodoService) ListTodos(ctx context.Context, ownerID string) ([]models.Todo, error) {
	return s.queryTodos(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE user_id = ? ORDER BY created_at DESC, rowid DESC", ownerID)
}

// ListTodosPage returns one page of ownerID's todos, newest first, along with
// the total number of todos they own.
func (s *TodoService) ListTodosPage(ctx context.Context, ownerID string, page models.PaginationParams) ([]models.Todo, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM todos WHERE user_id = ?", ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}
	todos, err := s.queryTodos(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?",
		ownerID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return todos, total, nil
}

func (s *TodoService) queryTodos(ctx context.Context, query string, args ...any) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// FindTodo returns the todo with the given id if ownerID owns it. A missing
// todo and one owned by somebody else are indistinguishable.
func (s *TodoService) FindTodo(ctx context.Context, id, ownerID string) (models.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id = ? AND user_id = ?", id, ownerID)
	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Todo{}, common.NotFound(MsgTodoNotFound)
		}
		return models.Todo{}, err
	}
	return todo, nil
}

// CreateTodo stores a new, uncompleted todo for ownerID.
func (s *TodoService) CreateTodo(ctx context.Context, ownerID, text string) (models.Todo, error) {
	text, err := validation.TodoText(text)
	if err != nil {
		return models.Todo{}, err
	}

	now := s.now().UTC()
	todo := models.Todo{
		ID:        uuid.New().String(),
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    ownerID,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO todos ("+todoColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		todo.ID, todo.Text, todo.Completed, todo.CreatedAt, todo.UpdatedAt, todo.UserID)
	if err != nil {
		return models.Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}
	return todo, nil
}

// UpdateTodo applies the fields present in req and refreshes updatedAt.
func (s *TodoService) UpdateTodo(ctx context.Context, id, ownerID string, req models.TodoUpdateRequest) (models.Todo, error) {
	todo, err := s.FindTodo(ctx, id, ownerID)
	if err != nil {
		return models.Todo{}, err
	}

	if req.Text != nil {
		text, err := validation.TodoText(*req.Text)
		if err != nil {
			return models.Todo{}, err
		}
		todo.Text = text
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}

	now := s.now().UTC()
	if !now.After(todo.UpdatedAt) {
		now = todo.UpdatedAt.Add(time.Microsecond)
	}
	todo.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		"UPDATE todos SET text = ?, completed = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		todo.Text, todo.Completed, todo.UpdatedAt, id, ownerID)
	if err != nil {
		return models.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Deleted between the lookup and the write.
		return models.Todo{}, common.NotFound(MsgTodoNotFound)
	}
	return todo, nil
}

// DeleteTodo permanently removes a todo owned by ownerID.
func (s *TodoService) DeleteTodo(ctx context.Context, id, ownerID string) error {
	if _, err := s.FindTodo(ctx, id, ownerID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NotFound(MsgTodoNotFound)
	}
	return nil
}

// scanTodo is a helper function to scan a single row into a Todo struct.
func scanTodo(scanner interface{ Scan(...any) error }) (models.Todo, error) {
	var todo models.Todo
	err := scanner.Scan(
		&todo.ID,
		&todo.Text,
		&todo.Completed,
		&todo.CreatedAt,
		&todo.UpdatedAt,
		&todo.UserID,
	)
	return todo, err
}
