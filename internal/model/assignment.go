package model

// TeamAssignment maps player IDs to the team they should end up on.
// Players absent from the map are left without a team.
type TeamAssignment map[PlayerID]Team

// NewTeamAssignment builds the final assignment for a split. Team B is
// applied after team A, so an ID present in both lists ends up on B.
func NewTeamAssignment(teamA, teamB []PlayerID) TeamAssignment {
	assignment := make(TeamAssignment, len(teamA)+len(teamB))
	for _, id := range teamA {
		assignment[id] = TeamA
	}
	for _, id := range teamB {
		assignment[id] = TeamB
	}
	return assignment
}

// TeamFor returns the team the given player should be on
func (a TeamAssignment) TeamFor(id PlayerID) Team {
	return a[id]
}
