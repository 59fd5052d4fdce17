package client

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/isdelr/todo-be/internal/api"
	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Passw0rd!"

func newLocal(t *testing.T) *LocalStore {
	t.Helper()
	local, err := OpenLocal(context.Background(), filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })
	return local
}

func newServer(t *testing.T) *APIClient {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	router := api.NewRouter(api.Deps{
		Users:          services.NewUserService(db, bcrypt.MinCost),
		Todos:          services.NewTodoService(db),
		Sessions:       auth.NewSessions([]byte("test-secret"), time.Hour, DefaultCookieName, false),
		AllowedOrigins: []string{"*"},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL+"/api/", srv.Client())
}

func signIn(t *testing.T, c *APIClient, email string) string {
	t.Helper()
	ctx := context.Background()
	_, err := c.Register(ctx, models.RegisterRequest{Name: "Test User", Email: email, Password: testPassword})
	require.NoError(t, err)
	_, token, err := c.Login(ctx, email, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return token
}

func TestSourceFor(t *testing.T) {
	assert.Equal(t, Local{}, SourceFor(""))
	assert.Equal(t, Remote{Token: "abc"}, SourceFor("abc"))
	assert.Equal(t, ModeLocal, SourceFor("").Mode())
	assert.Equal(t, ModeRemote, SourceFor("abc").Mode())
}

func TestLocal_AddStoresOneRecordUnderFixedKey(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	store := NewStore(nil, local)

	require.NoError(t, store.SetSource(ctx, Local{}))
	require.NoError(t, store.Add(ctx, "buy milk"))

	var rows int
	require.NoError(t, local.db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&rows))
	assert.Equal(t, 1, rows)

	var raw string
	require.NoError(t, local.db.QueryRow("SELECT value FROM kv WHERE key = ?", LocalTodosKey).Scan(&raw))
	var stored []models.Todo
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "buy milk", stored[0].Text)
	assert.Equal(t, models.LocalUserID, stored[0].UserID)

	fresh := NewStore(nil, local)
	require.NoError(t, fresh.Refresh(ctx))
	todos := fresh.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, stored[0].ID, todos[0].ID)
	assert.Empty(t, fresh.Err())
}

func TestLocal_Mutations(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, newLocal(t))
	require.NoError(t, store.Refresh(ctx))

	require.NoError(t, store.Add(ctx, "first"))
	require.NoError(t, store.Add(ctx, "  second  "))
	todos := store.Todos()
	require.Len(t, todos, 2)
	assert.Equal(t, "second", todos[0].Text)
	assert.Equal(t, "first", todos[1].Text)

	id := todos[1].ID
	before := todos[1].UpdatedAt
	require.NoError(t, store.Toggle(ctx, id, true))
	require.NoError(t, store.Toggle(ctx, id, false))
	toggled := store.Todos()[1]
	assert.False(t, toggled.Completed)
	assert.True(t, toggled.UpdatedAt.After(before))

	text := "renamed"
	require.NoError(t, store.Update(ctx, id, models.TodoUpdateRequest{Text: &text}))
	assert.Equal(t, "renamed", store.Todos()[1].Text)

	require.NoError(t, store.Delete(ctx, todos[0].ID))
	require.NoError(t, store.Refresh(ctx))
	remaining := store.Todos()
	require.Len(t, remaining, 1)
	assert.Equal(t, "renamed", remaining[0].Text)
}

func TestLocal_FailureLeavesListUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, newLocal(t))
	require.NoError(t, store.Add(ctx, "keep me"))

	err := store.Delete(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Todo non trouvé", store.Err())
	assert.Len(t, store.Todos(), 1)

	empty := "   "
	err = store.Update(ctx, store.Todos()[0].ID, models.TodoUpdateRequest{Text: &empty})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "keep me", store.Todos()[0].Text)

	require.NoError(t, store.Refresh(ctx))
	assert.Empty(t, store.Err())
}

func TestAdd_IgnoresBlankAndRejectsWhileLoading(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, newLocal(t))

	require.NoError(t, store.Add(ctx, "   "))
	assert.Empty(t, store.Todos())

	store.loading = true
	assert.ErrorIs(t, store.Add(ctx, "dup"), ErrBusy)
	store.loading = false
	assert.Empty(t, store.Todos())
	assert.False(t, store.Loading())
}

func TestRemote_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)
	token := signIn(t, c, "ada@example.com")

	store := NewStore(c, newLocal(t))
	require.NoError(t, store.SetSource(ctx, SourceFor(token)))
	assert.Equal(t, ModeRemote, store.Mode())
	assert.Empty(t, store.Todos())

	require.NoError(t, store.Add(ctx, "  buy milk "))
	todos := store.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "buy milk", todos[0].Text)
	assert.NotEqual(t, models.LocalUserID, todos[0].UserID)

	require.NoError(t, store.Toggle(ctx, todos[0].ID, true))
	assert.True(t, store.Todos()[0].Completed)

	server, err := c.ListTodos(ctx, token)
	require.NoError(t, err)
	require.Len(t, server, 1)
	assert.True(t, server[0].Completed)

	require.NoError(t, store.Delete(ctx, todos[0].ID))
	assert.Empty(t, store.Todos())
	server, err = c.ListTodos(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, server)
}

func TestRemote_FailedMutationKeepsState(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)
	token := signIn(t, c, "ada@example.com")

	store := NewStore(c, nil)
	require.NoError(t, store.SetSource(ctx, Remote{Token: token}))
	require.NoError(t, store.Add(ctx, "keep me"))

	err := store.Toggle(ctx, "missing", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "Todo non trouvé", store.Err())

	require.NoError(t, store.Add(ctx, "second"))
	assert.Empty(t, store.Err())
	assert.Len(t, store.Todos(), 2)
}

func TestRemote_InvalidSession(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)

	store := NewStore(c, nil)
	err := store.SetSource(ctx, Remote{Token: "garbage"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, common.MsgUnauthorized, store.Err())
	assert.Empty(t, store.Todos())
}

func TestSetSource_NeverMerges(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)
	token := signIn(t, c, "ada@example.com")

	store := NewStore(c, newLocal(t))
	require.NoError(t, store.Add(ctx, "local only"))

	require.NoError(t, store.SetSource(ctx, Remote{Token: token}))
	assert.Empty(t, store.Todos())
	require.NoError(t, store.Add(ctx, "remote only"))

	require.NoError(t, store.SetSource(ctx, Local{}))
	todos := store.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "local only", todos[0].Text)
}

func TestAPIClient_AuthErrors(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)
	signIn(t, c, "ada@example.com")

	_, err := c.Register(ctx, models.RegisterRequest{Name: "Test User", Email: "ada@example.com", Password: testPassword})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
	assert.ErrorIs(t, err, common.ErrConflict)

	_, _, err = c.Login(ctx, "ada@example.com", "Wr0ngpass!")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_PASSWORD", apiErr.ErrorType)
	assert.Equal(t, "Mot de passe incorrect", apiErr.Message)

	assert.NoError(t, c.CheckCredentials(ctx, "ada@example.com", testPassword))
	err = c.CheckCredentials(ctx, "bob@example.com", testPassword)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "USER_NOT_FOUND", apiErr.ErrorType)
}

func TestAPIClient_Session(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)
	token := signIn(t, c, "ada@example.com")

	user, err := c.Session(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	require.NoError(t, c.Logout(ctx, token))

	_, err = c.Session(ctx, "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
