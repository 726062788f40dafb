package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/rewear/internal/apperr"
)

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response for a malformed request.
func jsonError(w http.ResponseWriter, status int, message string) {
	code := apperr.CodeInvalidInput
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = apperr.CodeUnauthorized
	case http.StatusNotFound:
		code = apperr.CodeNotFound
	case http.StatusConflict:
		code = apperr.CodeConflict
	}
	jsonResponse(w, status, errorBody{Error: message, Code: string(code)})
}

var statusByCode = map[apperr.Code]int{
	apperr.CodeInvalidProposal:   http.StatusBadRequest,
	apperr.CodeItemUnavailable:   http.StatusConflict,
	apperr.CodeUnauthorized:      http.StatusForbidden,
	apperr.CodeInvalidTransition: http.StatusConflict,
	apperr.CodeEmptyMessage:      http.StatusBadRequest,
	apperr.CodeNotFound:          http.StatusNotFound,
	apperr.CodeInvalidInput:      http.StatusBadRequest,
	apperr.CodeConflict:          http.StatusConflict,
}

// writeError maps err to a response. Domain errors keep their code and are not
// retryable; anything else is logged and reported as a retryable 500 with
// the given message.
func writeError(w http.ResponseWriter, err error, message string) {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		jsonResponse(w, status, errorBody{Error: domainErr.Message, Code: string(domainErr.Code)})
		return
	}

	slog.Error(message, "error", err)
	jsonResponse(w, http.StatusInternalServerError, errorBody{Error: message, Code: "INTERNAL", Retryable: true})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
