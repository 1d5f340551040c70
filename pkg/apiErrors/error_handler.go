package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned by the ops API.
const (
	// Authentication errors
	ErrInvalidCredentials    = "AUTH_001"
	ErrInvalidToken          = "AUTH_002"
	ErrExpiredToken          = "AUTH_003"
	ErrInsufficientPrivilege = "AUTH_004"

	// Validation errors
	ErrInvalidRequest      = "VAL_001"
	ErrMissingRequiredData = "VAL_002"
	ErrInvalidFormat       = "VAL_003"

	// Pipeline errors
	ErrSyncAlreadyRunning = "SYNC_001"
	ErrSyncUnavailable    = "SYNC_002"

	// Server errors
	ErrInternalServer    = "SRV_001"
	ErrDatabaseOperation = "SRV_002"
	ErrTooManyRequests   = "SRV_003"
)

var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrSyncAlreadyRunning:    http.StatusConflict,
	ErrSyncUnavailable:       http.StatusServiceUnavailable,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrTooManyRequests:       http.StatusTooManyRequests,
}

// APIError is the standard error envelope of the ops API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standardized error envelope to the response.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}
