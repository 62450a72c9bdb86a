package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// respondWithError logs err against the request logger and writes userMsg
func respondWithError(w http.ResponseWriter, r *http.Request, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		event := zerolog.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = zerolog.Ctx(r.Context()).Error()
		}
		event.Err(err).Int("status", status).Msg(logMsg)
	}

	http.Error(w, userMsg, status)
}

func respondWithJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
