package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/artemzaharov/goshop/models"
)

// ErrorResponse is the unified error body: {"error": "..."}.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// WriteDomainError maps repository errors onto HTTP statuses. Anything
// outside the domain taxonomy is a 500 with a generic body; the cause goes to
// the log, not the client.
func WriteDomainError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrUnsupportedKind):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCartNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrCustomerNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &verr):
		WriteError(w, http.StatusUnprocessableEntity, verr.Error())
	default:
		zap.L().Error("request failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
