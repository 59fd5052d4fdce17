package client

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/models"
)

// ErrBusy is returned by Add while another add is still in flight.
var ErrBusy = errors.New("an add is already in progress")

// Messages surfaced when a failure carries nothing more specific.
const (
	MsgLoadFailed   = "Erreur lors du chargement des todos"
	MsgAddFailed    = "Erreur lors de l'ajout du todo"
	MsgUpdateFailed = "Erreur lors de la mise à jour du todo"
	MsgDeleteFailed = "Erreur lors de la suppression du todo"
)

// backend is one concrete collection a Source resolves to.
type backend interface {
	List(ctx context.Context) ([]models.Todo, error)
	Create(ctx context.Context, text string) (models.Todo, error)
	Update(ctx context.Context, id string, req models.TodoUpdateRequest) (models.Todo, error)
	Delete(ctx context.Context, id string) error
}

type remoteBackend struct {
	api   *APIClient
	token string
}

func (b remoteBackend) List(ctx context.Context) ([]models.Todo, error) {
	return b.api.ListTodos(ctx, b.token)
}

func (b remoteBackend) Create(ctx context.Context, text string) (models.Todo, error) {
	return b.api.CreateTodo(ctx, b.token, text)
}

func (b remoteBackend) Update(ctx context.Context, id string, req models.TodoUpdateRequest) (models.Todo, error) {
	return b.api.UpdateTodo(ctx, b.token, id, req)
}

func (b remoteBackend) Delete(ctx context.Context, id string) error {
	return b.api.DeleteTodo(ctx, b.token, id)
}

// Store mirrors the todo list of its current Source. The in-memory list only
// changes after the backing collection accepted the operation.
type Store struct {
	api   *APIClient
	local *LocalStore

	mu      sync.Mutex
	source  Source
	todos   []models.Todo
	err     string
	loading bool
}

// NewStore creates a Store in Local mode with an empty list. Call SetSource
// or Refresh to load it.
func NewStore(api *APIClient, local *LocalStore) *Store {
	return &Store{api: api, local: local, source: Local{}, todos: []models.Todo{}}
}

func (s *Store) backendFor(src Source) (backend, error) {
	switch src := src.(type) {
	case Remote:
		if s.api == nil {
			return nil, errors.New("no server configured")
		}
		return remoteBackend{api: s.api, token: src.Token}, nil
	case Local:
		if s.local == nil {
			return nil, errors.New("no local store configured")
		}
		return s.local, nil
	}
	return nil, errors.New("unknown source")
}

// reload fetches the full list from src.
func (s *Store) reload(ctx context.Context, src Source) ([]models.Todo, error) {
	b, err := s.backendFor(src)
	if err != nil {
		return nil, err
	}
	return b.List(ctx)
}

// SetSource switches the store to src and replaces the list with src's
// contents. The previous list is discarded, never merged.
func (s *Store) SetSource(ctx context.Context, src Source) error {
	s.mu.Lock()
	s.source = src
	s.todos = []models.Todo{}
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh reloads the list from the current source. On failure the list is
// emptied.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	src := s.source
	s.mu.Unlock()

	todos, err := s.reload(ctx, src)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source != src {
		return nil
	}
	if err != nil {
		s.todos = []models.Todo{}
		s.err = failureMessage(err, MsgLoadFailed)
		return err
	}
	s.todos = todos
	s.err = ""
	return nil
}

// Add creates a todo. Blank text is ignored and a second Add while one is in
// flight is rejected with ErrBusy.
func (s *Store) Add(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loading = true
	src := s.source
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	b, err := s.backendFor(src)
	var todo models.Todo
	if err == nil {
		todo, err = b.Create(ctx, text)
	}
	return s.apply(src, err, MsgAddFailed, func() {
		s.todos = append([]models.Todo{todo}, s.todos...)
	})
}

// Update applies req to the todo with id.
func (s *Store) Update(ctx context.Context, id string, req models.TodoUpdateRequest) error {
	s.mu.Lock()
	src := s.source
	s.mu.Unlock()

	b, err := s.backendFor(src)
	var todo models.Todo
	if err == nil {
		todo, err = b.Update(ctx, id, req)
	}
	return s.apply(src, err, MsgUpdateFailed, func() {
		if i := indexOf(s.todos, id); i >= 0 {
			s.todos[i] = todo
		}
	})
}

// Toggle sets the completed flag of the todo with id.
func (s *Store) Toggle(ctx context.Context, id string, completed bool) error {
	return s.Update(ctx, id, models.TodoUpdateRequest{Completed: &completed})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	src := s.source
	s.mu.Unlock()

	b, err := s.backendFor(src)
	if err == nil {
		err = b.Delete(ctx, id)
	}
	return s.apply(src, err, MsgDeleteFailed, func() {
		s.todos = slices.DeleteFunc(s.todos, func(t models.Todo) bool { return t.ID == id })
	})
}

// apply records the outcome of an operation issued against src. mutate runs
// only on success and only if the source has not changed meanwhile.
func (s *Store) apply(src Source, err error, fallback string, mutate func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = failureMessage(err, fallback)
		return err
	}
	s.err = ""
	if s.source == src {
		mutate()
	}
	return nil
}

// Todos returns a copy of the current list, newest first.
func (s *Store) Todos() []models.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.todos)
}

// Err returns the message of the last failed operation, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Loading reports whether an Add is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source.Mode()
}

// failureMessage picks the human-readable text for err.
func failureMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
