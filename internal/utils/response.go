package utils

import (
	"encoding/json"
	"net/http"

	"github.com/skillforge-app/skillforge-backend/internal/logger"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Success répond 200 avec l'enveloppe standard
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

// Error répond avec l'enveloppe d'erreur. La cause détaillée (optionnelle)
// part dans les logs, jamais dans la réponse.
func Error(w http.ResponseWriter, status int, msg string, causes ...error) {
	for _, cause := range causes {
		if cause != nil {
			logger.Error("[%d] %s: %v", status, msg, cause)
		}
	}
	JSON(w, status, APIResponse{Success: false, Error: msg})
}

func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Message: msg})
}
