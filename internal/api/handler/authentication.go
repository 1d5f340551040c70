package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/marketing-analytics-api/pkg/apiErrors"
)

type tokenRequest struct {
	Secret string `json:"secret"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken exchanges the shared operator secret for a bearer token.
func IssueToken(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request body", nil)
			return
		}

		if req.Secret == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Secret is required", nil)
			return
		}

		token, err := service.Login(req.Secret)
		if err != nil {
			if errors.Is(err, authenticating.ErrInvalidCredentials) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidCredentials, "Invalid credentials", nil)
				return
			}
			logrus.WithError(err).Error("Failed to issue token")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to issue token", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tokenResponse{Token: token})
	}
}
