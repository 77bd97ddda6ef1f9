package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies; every payload here is tiny
const maxBodyBytes = 64 << 10

// Decode reads a JSON body into v. An empty body leaves v at its zero
// value, so missing fields fail validation rather than parsing.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// RegisterPlayerRequest is the request body for registering a player
type RegisterPlayerRequest struct {
	Name     string `json:"name"`
	ClientID string `json:"clientId"`
}

// UnregisterRequest is the request body for self-service unregistration
type UnregisterRequest struct {
	ClientID string `json:"clientId"`
}

// AdminRequest carries the admin password for privileged routes
type AdminRequest struct {
	AdminPass string `json:"adminPass"`
}

// SplitTeamsRequest is the request body for splitting players into teams
type SplitTeamsRequest struct {
	AdminPass string   `json:"adminPass"`
	TeamA     []string `json:"teamA_Ids"`
	TeamB     []string `json:"teamB_Ids"`
}

// UpsertMatchRequest is the request body for saving the match.
// A null, missing or empty time clears it.
type UpsertMatchRequest struct {
	Location string  `json:"location"`
	Time     *string `json:"time"`
}
