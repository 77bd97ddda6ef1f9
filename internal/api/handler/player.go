package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/kickoff/internal/api/apierr"
	"github.com/mcoot/kickoff/internal/api/request"
	"github.com/mcoot/kickoff/internal/api/response"
	"github.com/mcoot/kickoff/internal/model"
	"github.com/mcoot/kickoff/internal/services/admin"
	"github.com/mcoot/kickoff/internal/services/roster"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	roster *roster.Service
	gate   *admin.Gate
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(roster *roster.Service, gate *admin.Gate) *PlayerHandler {
	return &PlayerHandler{
		roster: roster,
		gate:   gate,
	}
}

// List handles GET /api/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.roster.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.PlayersFromModel(players))
}

// Register handles POST /api/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPlayerRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}

	player, err := h.roster.Register(r.Context(), req.Name, req.ClientID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.PlayerFromModel(player))
}

// CheckStatus handles GET /api/players/check-status
func (h *PlayerHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	voted, err := h.roster.CheckStatus(r.Context(), r.URL.Query().Get("clientId"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.StatusResponse{HasVoted: voted})
}

// Unregister handles POST /api/players/unvote
func (h *PlayerHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	var req request.UnregisterRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}

	if _, err := h.roster.Unregister(r.Context(), req.ClientID); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.MessageResponse{Success: true, Message: "Registration cancelled"})
}

// TogglePaid handles PUT /api/players/{id}/pay
func (h *PlayerHandler) TogglePaid(w http.ResponseWriter, r *http.Request) {
	var req request.AdminRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}

	if err := h.gate.Verify(admin.ActionTogglePaid, req.AdminPass); err != nil {
		WriteError(w, apierr.NewAdminPasswordError(http.StatusForbidden))
		return
	}

	player, err := h.roster.TogglePaid(r.Context(), model.PlayerID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.PlayerFromModel(player))
}

// Delete handles DELETE /api/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req request.AdminRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}

	if err := h.gate.Verify(admin.ActionDelete, req.AdminPass); err != nil {
		WriteError(w, apierr.NewAdminPasswordError(http.StatusForbidden))
		return
	}

	if err := h.roster.Delete(r.Context(), model.PlayerID(mux.Vars(r)["id"])); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.MessageResponse{Success: true, Message: "Player deleted"})
}

// SplitTeams handles PUT /api/players/split
func (h *PlayerHandler) SplitTeams(w http.ResponseWriter, r *http.Request) {
	var req request.SplitTeamsRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, invalidBody())
		return
	}

	if err := h.gate.Verify(admin.ActionSplit, req.AdminPass); err != nil {
		WriteError(w, apierr.NewAdminPasswordError(http.StatusUnauthorized))
		return
	}

	if err := h.roster.SplitTeams(r.Context(), toPlayerIDs(req.TeamA), toPlayerIDs(req.TeamB)); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.SplitTeamsResponse{Success: true})
}

func toPlayerIDs(ids []string) []model.PlayerID {
	out := make([]model.PlayerID, len(ids))
	for i, id := range ids {
		out[i] = model.PlayerID(id)
	}
	return out
}
