package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("gone")), http.StatusNotFound},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromError(tt.err))
		})
	}
}

func TestPublicMessage_HidesInternalDetails(t *testing.T) {
	assert.Equal(t, "Texte trop long", PublicMessage(Validation("Texte trop long")))
	assert.Equal(t, MsgInternal, PublicMessage(errors.New("sql: database is locked")))
	assert.Equal(t, MsgInternal, PublicMessage(&Error{Kind: ErrInternal, Message: "stack trace"}))
	assert.Equal(t, MsgUnauthorized, PublicMessage(ErrUnauthorized))
}

func TestRespondWithAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithAppError(rec, NotFound("Todo non trouvé"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Todo non trouvé"}`, rec.Body.String())
}

func TestRespondWithData_KeepsNullData(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithData(rec, http.StatusOK, nil, "Todo supprimé avec succès")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":null,"message":"Todo supprimé avec succès"}`, rec.Body.String())
}
