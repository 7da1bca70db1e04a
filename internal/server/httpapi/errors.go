package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opsdeck/opsdeck/internal/common"
)

// detailOut matches the error envelope the client expects: a "detail" field
// carrying either a message string or a field->message map.
type detailOut struct {
	Detail any `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, detailOut{Detail: detail})
}

// writeFieldErrors reports per-field validation failures as 422.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeDetail(w, http.StatusUnprocessableEntity, fields)
}

// writeServiceError maps service-layer sentinel errors to HTTP statuses.
// Unknown errors become an opaque 500 so internals never leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInactiveUser),
		errors.Is(err, common.ErrSamePassword),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeDetail(w, http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		writeDetail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeDetail(w, http.StatusUnauthorized, err.Error())
	default:
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}
