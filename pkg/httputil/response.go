package httputil

import (
	"encoding/json"
	"net/http"

	apperrors "slotbook/pkg/errors"
)

type ErrorResponse struct {
	Error string `json:"error"`
	// SlotTaken marks booking conflicts so clients can refresh
	// availability instead of treating the failure as fatal.
	SlotTaken bool           `json:"slotTaken,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	resp := ErrorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
	}
	if appErr.Code == apperrors.CodeConflict {
		resp.SlotTaken = true
	}

	status := appErr.StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return WriteJSON(w, status, resp)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, data)
}
