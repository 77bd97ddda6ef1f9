package response

import (
	"time"

	"github.com/mcoot/kickoff/internal/api/apierr"
	"github.com/mcoot/kickoff/internal/model"
)

// PlayerResponse represents a player in API responses
type PlayerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HasPaid   bool      `json:"hasPaid"`
	Team      *string   `json:"team"`
	ClientID  string    `json:"clientId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlayerFromModel converts a model.Player to PlayerResponse
func PlayerFromModel(p *model.Player) PlayerResponse {
	resp := PlayerResponse{
		ID:        string(p.ID),
		Name:      p.Name,
		HasPaid:   p.HasPaid,
		ClientID:  p.ClientID,
		CreatedAt: p.CreatedAt,
	}
	if p.Team != model.TeamNone {
		team := string(p.Team)
		resp.Team = &team
	}
	return resp
}

// PlayersFromModel converts a list of players, never returning nil
func PlayersFromModel(players []*model.Player) []PlayerResponse {
	resp := make([]PlayerResponse, len(players))
	for i, p := range players {
		resp[i] = PlayerFromModel(p)
	}
	return resp
}

// StatusResponse reports whether a device has a registration
type StatusResponse struct {
	HasVoted bool `json:"hasVoted"`
}

// MessageResponse is a generic acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SplitTeamsResponse acknowledges a team split
type SplitTeamsResponse struct {
	Success bool `json:"success"`
}

// LoginResponse reports an admin login attempt. Failed attempts also carry
// the usual error envelope.
type LoginResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Error   *apierr.APIError `json:"error,omitempty"`
}

// MatchResponse represents the match in API responses
type MatchResponse struct {
	Location string     `json:"location"`
	Time     *time.Time `json:"time"`
}

// MatchFromModel converts a model.Match to MatchResponse
func MatchFromModel(m *model.Match) MatchResponse {
	return MatchResponse{
		Location: m.Location,
		Time:     m.Time,
	}
}

// UpsertMatchResponse acknowledges a match update
type UpsertMatchResponse struct {
	Success bool          `json:"success"`
	Match   MatchResponse `json:"match"`
}

// HealthResponse reports service health
type HealthResponse struct {
	Status string `json:"status"`
}
