package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case []Player:
		o.printPlayers(v)
	case StatusResult:
		o.printStatus(v)
	case MessageResult:
		_, _ = fmt.Fprintln(o.w, v.Message)
	case LoginResult:
		_, _ = fmt.Fprintln(o.w, v.Message)
	case Match:
		o.printMatch(v)
	case HealthResult:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HasPaid   bool      `json:"hasPaid"`
	Team      *string   `json:"team"`
	ClientID  string    `json:"clientId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatusResult reports whether this device is signed up
type StatusResult struct {
	HasVoted bool `json:"hasVoted"`
}

// MessageResult is a generic acknowledgement
type MessageResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResult is the admin login response
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SplitResult acknowledges a team split
type SplitResult struct {
	Success bool `json:"success"`
}

// Match response type
type Match struct {
	Location string     `json:"location"`
	Time     *time.Time `json:"time"`
}

// UpsertMatchResult wraps the match returned by an update
type UpsertMatchResult struct {
	Success bool  `json:"success"`
	Match   Match `json:"match"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func teamLabel(team *string) string {
	if team == nil {
		return "-"
	}
	return *team
}

func paidLabel(paid bool) string {
	if paid {
		return "yes"
	}
	return "no"
}

func (o *Output) printPlayer(p Player) {
	_, _ = fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Name, p.ID)
	_, _ = fmt.Fprintf(o.w, "Paid: %s\n", paidLabel(p.HasPaid))
	_, _ = fmt.Fprintf(o.w, "Team: %s\n", teamLabel(p.Team))
	_, _ = fmt.Fprintf(o.w, "Registered: %s\n", p.CreatedAt.Local().Format(time.DateTime))
}

func (o *Output) printPlayers(players []Player) {
	if len(players) == 0 {
		_, _ = fmt.Fprintln(o.w, "No players registered")
		return
	}

	paid := 0
	for _, p := range players {
		if p.HasPaid {
			paid++
		}
	}
	_, _ = fmt.Fprintf(o.w, "Players (%d, %d paid):\n", len(players), paid)
	for _, p := range players {
		_, _ = fmt.Fprintf(o.w, "  %-25s  team %-1s  paid %-3s  %s\n", p.Name, teamLabel(p.Team), paidLabel(p.HasPaid), p.ID)
	}
}

func (o *Output) printStatus(s StatusResult) {
	if s.HasVoted {
		_, _ = fmt.Fprintln(o.w, "This device is signed up")
		return
	}
	_, _ = fmt.Fprintln(o.w, "This device is not signed up")
}

func (o *Output) printMatch(m Match) {
	location := m.Location
	if location == "" {
		location = "(not set)"
	}
	_, _ = fmt.Fprintf(o.w, "Location: %s\n", location)
	if m.Time == nil {
		_, _ = fmt.Fprintln(o.w, "Time: (not set)")
		return
	}
	_, _ = fmt.Fprintf(o.w, "Time: %s\n", m.Time.Local().Format("Mon 02 Jan 2006 15:04"))
}
