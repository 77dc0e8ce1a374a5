package handlers

import (
	"net/http"

	"github.com/wonny/oiwatch/internal/board"
	"github.com/wonny/oiwatch/internal/profile"
	"github.com/wonny/oiwatch/internal/ranking"
	"github.com/wonny/oiwatch/pkg/logger"
)

// BoardHandler serves board views and profiles as JSON
type BoardHandler struct {
	board  *board.Service
	logger *logger.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(svc *board.Service, log *logger.Logger) *BoardHandler {
	return &BoardHandler{
		board:  svc,
		logger: log.WithComponent("board_api"),
	}
}

// GetBoard returns one page of a profile's ranking. It keeps no session state.
// GET /api/board?profile=&page=
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("profile")
	if _, ok := h.board.Profiles().Lookup(name); !ok {
		respondError(w, http.StatusNotFound, "unknown profile: "+name)
		return
	}

	page, given, ok := parsePage(r.URL.Query().Get("page"))
	if !ok {
		respondError(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	if !given {
		page = 1
	}

	view, _ := h.board.Build(r.Context(), name, ranking.ViewState{Page: page})
	respondJSON(w, http.StatusOK, view)
}

// ProfilesResponse lists the configured profiles
type ProfilesResponse struct {
	Default  string            `json:"default"`
	Profiles []profile.Profile `json:"profiles"`
	Hash     string            `json:"hash"`
}

// GetProfiles returns the profiles and their config hash
// GET /api/profiles
func (h *BoardHandler) GetProfiles(w http.ResponseWriter, r *http.Request) {
	f := h.board.Profiles()

	hash, err := profile.Hash(f)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash profiles")
		respondError(w, http.StatusInternalServerError, "Failed to hash profiles")
		return
	}

	respondJSON(w, http.StatusOK, ProfilesResponse{
		Default:  f.Default,
		Profiles: f.Profiles,
		Hash:     hash,
	})
}
