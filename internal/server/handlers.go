package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/seplayers/internal/vars"
)

const (
	msgPlayersNotFound = "Players data not found in response"
	msgFetchFailed     = "Failed to fetch server data: "
)

// handlePlayers performs a live A2S_PLAYER query against the configured target
// and returns the player records unmodified.
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	state, err := s.querier.Players(r.Context(), s.target)
	if err != nil {
		s.fetchFailed(w, r, err)
		return
	}

	if !state.HasPlayers() {
		writeError(w, r, http.StatusInternalServerError, msgPlayersNotFound)
		return
	}

	writeJSON(w, r, http.StatusOK, state.Players)
}

// handleStatus returns the server summary together with its player list.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.querier.Status(r.Context(), s.target)
	if err != nil {
		s.fetchFailed(w, r, err)
		return
	}

	if status == nil || status.Players == nil {
		writeError(w, r, http.StatusInternalServerError, msgPlayersNotFound)
		return
	}

	writeJSON(w, r, http.StatusOK, status)
}

// handleHealth reports liveness without touching the game server.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion returns build metadata.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, vars.Info())
}

// fetchFailed writes the upstream failure envelope. A client that went away
// is logged at debug level only.
func (s *Server) fetchFailed(w http.ResponseWriter, r *http.Request, err error) {
	event := log.Error()
	if errors.Is(err, context.Canceled) {
		event = log.Debug()
	}

	event.
		Err(err).
		Str("protocol", s.target.Protocol.String()).
		Str("target", s.target.Addr()).
		Str("path", r.URL.Path).
		Msg("Error fetching server data")

	writeError(w, r, http.StatusInternalServerError, msgFetchFailed+err.Error())
}
