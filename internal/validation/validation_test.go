package validation

import (
	"strings"
	"testing"

	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantMsg string
	}{
		{"plain", "buy milk", "buy milk", ""},
		{"trimmed", "  text  ", "text", ""},
		{"empty", "", "", MsgTodoTextEmpty},
		{"blank", "   \t\n", "", MsgTodoTextEmpty},
		{"at limit", strings.Repeat("é", models.TodoTextMaxLength), strings.Repeat("é", models.TodoTextMaxLength), ""},
		{"too long", strings.Repeat("a", models.TodoTextMaxLength+1), "", MsgTodoTextTooLong},
		{"long before trim", "  " + strings.Repeat("a", models.TodoTextMaxLength) + "  ", strings.Repeat("a", models.TodoTextMaxLength), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TodoText(tt.in)
			if tt.wantMsg != "" {
				require.ErrorIs(t, err, common.ErrValidation)
				assert.Equal(t, tt.wantMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStruct_Register(t *testing.T) {
	valid := models.RegisterRequest{Name: "Zoé D'Arc", Email: "zoe@example.com", Password: "Passw0rd!"}
	require.NoError(t, Struct(valid))

	tests := []struct {
		name    string
		mutate  func(r *models.RegisterRequest)
		wantMsg string
	}{
		{"missing name", func(r *models.RegisterRequest) { r.Name = "" }, "Le nom est requis"},
		{"short name", func(r *models.RegisterRequest) { r.Name = "Z" }, "Nom trop court"},
		{"long name", func(r *models.RegisterRequest) { r.Name = strings.Repeat("a", 51) }, "Nom trop long"},
		{"digits in name", func(r *models.RegisterRequest) { r.Name = "R2D2" }, "Le nom contient des caractères invalides"},
		{"missing email", func(r *models.RegisterRequest) { r.Email = "" }, "L'email est requis"},
		{"bad email", func(r *models.RegisterRequest) { r.Email = "not-an-email" }, "Format d'email invalide"},
		{"short password", func(r *models.RegisterRequest) { r.Password = "Pa0!" }, "Mot de passe trop court"},
		{"weak password", func(r *models.RegisterRequest) { r.Password = "password123" }, messages["password.password_strength"]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := Struct(req)
			require.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestStruct_Credentials(t *testing.T) {
	require.NoError(t, Struct(models.CredentialsRequest{Email: "a@b.co", Password: "whatever1"}))

	err := Struct(models.CredentialsRequest{Email: "a@b.co", Password: "short"})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, StrongPassword("Abcdef1!"))
	assert.True(t, StrongPassword("xY9_zzzz"))
	assert.False(t, StrongPassword("ABCDEF1!"))
	assert.False(t, StrongPassword("abcdef1!"))
	assert.False(t, StrongPassword("Abcdefg!"))
	assert.False(t, StrongPassword("Abcdefg1"))
}
