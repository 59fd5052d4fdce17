package client

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/validation"
)

//go:embed migrations/*.sql
var migrations embed.FS

// LocalTodosKey is the kv key holding the serialized on-device collection.
const LocalTodosKey = "todos"

const msgTodoNotFound = "Todo non trouvé"

// LocalStore keeps todos in a single JSON array inside a local SQLite file.
type LocalStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenLocal opens (and if needed creates) the local store at path.
func OpenLocal(ctx context.Context, path string) (*LocalStore, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := database.MigrateFS(ctx, db, migrations, "migrations"); err != nil {
		db.Close()
		return nil, err
	}
	return &LocalStore{db: db, now: time.Now}, nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Load returns the stored collection. A missing or unreadable value yields an
// empty list.
func (s *LocalStore) Load(ctx context.Context) ([]models.Todo, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", LocalTodosKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Todo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local todos: %w", err)
	}

	var todos []models.Todo
	if err := json.Unmarshal([]byte(raw), &todos); err != nil || todos == nil {
		return []models.Todo{}, nil
	}
	return todos, nil
}

// Save replaces the whole stored collection in one write.
func (s *LocalStore) Save(ctx context.Context, todos []models.Todo) error {
	if todos == nil {
		todos = []models.Todo{}
	}
	raw, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("failed to encode local todos: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		LocalTodosKey, string(raw))
	if err != nil {
		return fmt.Errorf("failed to write local todos: %w", err)
	}
	return nil
}

func (s *LocalStore) List(ctx context.Context) ([]models.Todo, error) {
	return s.Load(ctx)
}

// Create prepends a new todo owned by the local user.
func (s *LocalStore) Create(ctx context.Context, text string) (models.Todo, error) {
	text, err := validation.TodoText(text)
	if err != nil {
		return models.Todo{}, err
	}
	todos, err := s.Load(ctx)
	if err != nil {
		return models.Todo{}, err
	}

	now := s.now().UTC()
	todo := models.Todo{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    models.LocalUserID,
	}
	if err := s.Save(ctx, append([]models.Todo{todo}, todos...)); err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

// Update applies req to the todo with id.
func (s *LocalStore) Update(ctx context.Context, id string, req models.TodoUpdateRequest) (models.Todo, error) {
	todos, err := s.Load(ctx)
	if err != nil {
		return models.Todo{}, err
	}
	i := indexOf(todos, id)
	if i < 0 {
		return models.Todo{}, common.NotFound(msgTodoNotFound)
	}

	todo := todos[i]
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

	todos[i] = todo
	if err := s.Save(ctx, todos); err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

func (s *LocalStore) Delete(ctx context.Context, id string) error {
	todos, err := s.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(todos, id)
	if i < 0 {
		return common.NotFound(msgTodoNotFound)
	}
	return s.Save(ctx, append(todos[:i], todos[i+1:]...))
}

func indexOf(todos []models.Todo, id string) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
