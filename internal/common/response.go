package common

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard response body: {data?, message?, error?}.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// dataEnvelope keeps "data" present even when it is null, as DELETE returns {data: null}.
type dataEnvelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"` + MsgInternal + `"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithData writes a success envelope.
func RespondWithData(w http.ResponseWriter, code int, data any, message string) {
	RespondWithJSON(w, code, dataEnvelope{Data: data, Message: message})
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Envelope{Error: message})
}

// RespondWithAppError maps err onto the taxonomy and writes the error envelope.
func RespondWithAppError(w http.ResponseWriter, err error) {
	RespondWithError(w, HTTPStatusFromError(err), PublicMessage(err))
}
