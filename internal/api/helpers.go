package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nlcsoft/invoicing/internal/entity"
)

type ErrorResponse struct {
	Message     string            `json:"message"`
	Description string            `json:"description,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func SendJSONErr(ctx context.Context, w http.ResponseWriter, code int, originErr error, msgToSend string) {
	description := ""
	if originErr != nil {
		description = originErr.Error()
		slog.ErrorContext(ctx, "api error", "error", description)
	}

	SendJSON(ctx, w, code, ErrorResponse{Message: msgToSend, Description: description})
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		code = http.StatusInternalServerError
		http.Error(w, http.StatusText(code), code)

		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}

// sendServiceErr maps domain sentinels to status codes. Validation failures
// carry their per-field messages through to the client.
func sendServiceErr(ctx context.Context, w http.ResponseWriter, err error, msgToSend string) {
	var verr *entity.ValidationError

	switch {
	case errors.As(err, &verr):
		slog.ErrorContext(ctx, "api error", "error", err.Error())
		SendJSON(ctx, w, http.StatusUnprocessableEntity, ErrorResponse{
			Message: "validation failed",
			Fields:  verr.Fields,
		})
	case errors.Is(err, entity.ErrInvalidArgument):
		SendJSONErr(ctx, w, http.StatusUnprocessableEntity, err, msgToSend)
	case errors.Is(err, entity.ErrNotFound):
		SendJSONErr(ctx, w, http.StatusNotFound, err, msgToSend)
	case errors.Is(err, entity.ErrConflict):
		SendJSONErr(ctx, w, http.StatusConflict, err, msgToSend)
	default:
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, msgToSend)
	}
}
