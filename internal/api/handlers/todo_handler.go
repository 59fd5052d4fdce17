package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/services"
	"github.com/rs/zerolog/log"
)

// TodoHandler handles HTTP requests for the authenticated user's todos.
type TodoHandler struct {
	service services.TodoServiceProvider
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(service services.TodoServiceProvider) *TodoHandler {
	return &TodoHandler{service: service}
}

// GetAll lists the current user's todos, newest first. With a page or limit
// query parameter the result is paginated.
func (h *TodoHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	if q.Has("page") || q.Has("limit") {
		params := models.GetPaginationParams(q)
		todos, total, err := h.service.ListTodosPage(r.Context(), user.ID, params)
		if err != nil {
			h.fail(w, err, user.ID, "", "Failed to list todos")
			return
		}
		common.RespondWithJSON(w, http.StatusOK, models.PaginatedResponse[models.Todo]{
			Data:       todos,
			Pagination: models.NewPagination(params, total),
		})
		return
	}

	todos, err := h.service.ListTodos(r.Context(), user.ID)
	if err != nil {
		h.fail(w, err, user.ID, "", "Failed to list todos")
		return
	}
	common.RespondWithData(w, http.StatusOK, todos, "")
}

// Create adds a todo for the current user.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload models.TodoCreateRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.MsgInvalidJSON)
		return
	}

	todo, err := h.service.CreateTodo(r.Context(), user.ID, payload.Text)
	if err != nil {
		h.fail(w, err, user.ID, "", "Failed to create todo")
		return
	}
	common.RespondWithData(w, http.StatusCreated, todo, "Todo créé avec succès")
}

// Get returns a single todo owned by the current user.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	todo, err := h.service.FindTodo(r.Context(), id, user.ID)
	if err != nil {
		h.fail(w, err, user.ID, id, "Failed to get todo")
		return
	}
	common.RespondWithData(w, http.StatusOK, todo, "")
}

// Update applies a partial update to a todo owned by the current user.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var payload models.TodoUpdateRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.MsgInvalidJSON)
		return
	}
	if payload.Empty() {
		log.Debug().Str("user_id", user.ID).Str("todo_id", id).Msg("Empty todo update, only touching updatedAt")
	}

	todo, err := h.service.UpdateTodo(r.Context(), id, user.ID, payload)
	if err != nil {
		h.fail(w, err, user.ID, id, "Failed to update todo")
		return
	}
	common.RespondWithData(w, http.StatusOK, todo, "Todo mis à jour avec succès")
}

// Delete removes a todo owned by the current user.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteTodo(r.Context(), id, user.ID); err != nil {
		h.fail(w, err, user.ID, id, "Failed to delete todo")
		return
	}
	common.RespondWithData(w, http.StatusOK, nil, "Todo supprimé avec succès")
}

func (h *TodoHandler) fail(w http.ResponseWriter, err error, userID, todoID, msg string) {
	event := log.Warn()
	if common.HTTPStatusFromError(err) >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("user_id", userID).Str("todo_id", todoID).Msg(msg)
	common.RespondWithAppError(w, err)
}

func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Err(errors.New("no user in context")).Str("path", r.URL.Path).Msg("Route is missing the auth middleware")
		common.RespondWithError(w, http.StatusUnauthorized, common.MsgUnauthorized)
		return models.User{}, false
	}
	return user, true
}
