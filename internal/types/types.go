package types

import "github.com/DoyleJ11/ff-draft-tracker/internal/engine"

type ClientMessage struct {
	Type     string         `json:"type"`
	PlayerID string         `json:"player_id,omitempty"`
	TeamID   int            `json:"team_id,omitempty"`
	Filters  *FilterPayload `json:"filters,omitempty"`
	Loading  bool           `json:"loading,omitempty"`
}

// FilterPayload mirrors engine.FilterUpdate on the wire: absent fields
// leave the current filter untouched.
type FilterPayload struct {
	Position      *string `json:"position,omitempty"`
	SearchTerm    *string `json:"search_term,omitempty"`
	OnlyAvailable *bool   `json:"only_available,omitempty"`
	ShowDrafted   *bool   `json:"show_drafted,omitempty"`
	NFLTeam       *string `json:"nfl_team,omitempty"`
}

type ServerMessage struct {
	Type    string        `json:"type"` // "StateSnapshot" | "Error"
	Version int           `json:"version,omitempty"`
	State   *engine.State `json:"state,omitempty"`
	Error   string        `json:"error,omitempty"`
}
