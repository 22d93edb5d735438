package engine

import "time"

type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
	PositionAll Position = "ALL" // filter-only value, never stored on a player
)

// Positions lists the six real player positions in display order.
var Positions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST}

type DraftType string

const (
	DraftSnake  DraftType = "snake"
	DraftLinear DraftType = "linear"
)

// Session size limits. Fixed at creation, never resized.
const (
	MinTeams = 8
	MaxTeams = 20
)

type Player struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Position     Position `json:"position"`
	NFLTeam      string   `json:"nfl_team"`
	OverallRank  int      `json:"overall_rank"`
	PositionRank string   `json:"position_rank"`
	IsDrafted    bool     `json:"is_drafted"`
	// Set iff IsDrafted; zero otherwise.
	DraftedByTeam int `json:"drafted_by_team,omitempty"`
	DraftPosition int `json:"draft_position,omitempty"`
}

// Team carries no roster; rosters are derived from Player.DraftedByTeam.
type Team struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	DraftOrder int    `json:"draft_order"`
}

// DraftPick is immutable once appended to the log; only UndoPick removes
// it, and only from the tail.
type DraftPick struct {
	ID        string    `json:"id"`
	Player    Player    `json:"player"` // snapshot at time of pick
	Team      Team      `json:"team"`
	Round     int       `json:"round"`
	Pick      int       `json:"pick"`
	Timestamp time.Time `json:"timestamp"`
}

type Session struct {
	ID           string      `json:"id"`
	LeagueName   string      `json:"league_name"`
	NumTeams     int         `json:"num_teams"`
	DraftType    DraftType   `json:"draft_type"`
	CurrentPick  int         `json:"current_pick"`
	CurrentRound int         `json:"current_round"`
	Teams        []Team      `json:"teams"`
	Players      []Player    `json:"players"`
	DraftLog     []DraftPick `json:"draft_log"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type FilterOptions struct {
	Position      Position `json:"position"`
	SearchTerm    string   `json:"search_term"`
	OnlyAvailable bool     `json:"only_available"`
	ShowDrafted   bool     `json:"show_drafted"`
	NFLTeam       string   `json:"nfl_team,omitempty"`
}

// FilterUpdate is a partial FilterOptions; nil fields are left untouched
// by SetFilters. OnlyAvailable and ShowDrafted are not reconciled here —
// a caller that sets both true gets the (empty) intersection it asked for.
type FilterUpdate struct {
	Position      *Position `json:"position,omitempty"`
	SearchTerm    *string   `json:"search_term,omitempty"`
	OnlyAvailable *bool     `json:"only_available,omitempty"`
	ShowDrafted   *bool     `json:"show_drafted,omitempty"`
	NFLTeam       *string   `json:"nfl_team,omitempty"`
}

// State is everything the tracker holds for one browser tab: the current
// session (nil until CreateSession), the active filters, and the import
// loading flag.
type State struct {
	Session *Session      `json:"session"`
	Filters FilterOptions `json:"filters"`
	Loading bool          `json:"loading"`
}
