// Package handlers contains the HTTP handlers for the canvas API.
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	pkgerrors "canvas-backend/pkg/errors"
)

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]interface{}{
		"error": message,
	})
}

// respondDomainError maps domain error types onto HTTP status codes
func respondDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case pkgerrors.IsValidation(err):
		respondError(w, logger, http.StatusBadRequest, err.Error())
	case pkgerrors.IsNotFound(err):
		respondError(w, logger, http.StatusNotFound, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		respondError(w, logger, http.StatusInternalServerError, "internal server error")
	}
}
