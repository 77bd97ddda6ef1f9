package handler

import (
	"net/http"

	"github.com/mcoot/kickoff/internal/api/request"
	"github.com/mcoot/kickoff/internal/api/response"
	"github.com/mcoot/kickoff/internal/services/fixture"
)

// MatchHandler handles the match endpoints
type MatchHandler struct {
	fixture *fixture.Service
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(fixture *fixture.Service) *MatchHandler {
	return &MatchHandler{fixture: fixture}
}

// Get handles GET /api/match
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	match, err := h.fixture.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.MatchFromModel(match))
}

// Upsert handles POST /api/match
func (h *MatchHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req request.UpsertMatchRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}

	var raw string
	if req.Time != nil {
		raw = *req.Time
	}
	kickoff, err := fixture.ParseTime(raw)
	if err != nil {
		WriteError(w, err)
		return
	}

	match, err := h.fixture.Upsert(r.Context(), req.Location, kickoff)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.UpsertMatchResponse{Success: true, Match: response.MatchFromModel(match)})
}
