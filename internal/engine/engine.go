package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrEmptyLeagueName = errors.New("empty league name")
var ErrInvalidTeamCount = errors.New("team count out of range")
var ErrInvalidDraftType = errors.New("invalid draft type")
var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandType string

const (
	CmdCreateSession CommandType = "CreateSession"
	CmdImportPlayers CommandType = "ImportPlayers"
	CmdDraftPlayer   CommandType = "DraftPlayer"
	CmdUndoPick      CommandType = "UndoPick"
	CmdSetFilters    CommandType = "SetFilters"
	CmdSetLoading    CommandType = "SetLoading"
)

type Command struct {
	Type CommandType

	// CreateSession
	LeagueName string
	NumTeams   int
	DraftType  DraftType

	// ImportPlayers
	Players []Player

	// DraftPlayer. TeamID is an explicit override: any team may be
	// drafted for, not just the one on the clock.
	PlayerID string
	TeamID   int

	// SetFilters
	Filters FilterUpdate

	// SetLoading
	Loading bool
}

type EventType string

const (
	EvtSessionCreated  EventType = "SessionCreated"
	EvtPlayersImported EventType = "PlayersImported"
	EvtPlayerDrafted   EventType = "PlayerDrafted"
	EvtPickUndone      EventType = "PickUndone"
	EvtFiltersChanged  EventType = "FiltersChanged"
	EvtLoadingChanged  EventType = "LoadingChanged"
)

type Event struct {
	Type     EventType
	PlayerID string
	TeamID   int
	Pick     int
	Round    int
	Count    int
}

// Apply runs one command against the state and returns the emitted events
// and the next state. It never mutates its input: every transition builds
// fresh slices, so an old State stays a consistent snapshot.
//
// No-op conditions (no session, unknown team, already-drafted player,
// empty log) return the input state with zero events and a nil error.
// Contract violations on CreateSession return a sentinel error.
func Apply(s State, cmd Command, now time.Time) ([]Event, State, error) {
	switch cmd.Type {
	case CmdCreateSession:
		if strings.TrimSpace(cmd.LeagueName) == "" {
			return nil, s, ErrEmptyLeagueName
		}
		if cmd.NumTeams < MinTeams || cmd.NumTeams > MaxTeams {
			return nil, s, ErrInvalidTeamCount
		}
		if cmd.DraftType != DraftSnake && cmd.DraftType != DraftLinear {
			return nil, s, ErrInvalidDraftType
		}

		teams := make([]Team, cmd.NumTeams)
		for i := range teams {
			teams[i] = Team{ID: i + 1, Name: fmt.Sprintf("Team %d", i+1), DraftOrder: i + 1}
		}

		// Replaces any existing session unconditionally.
		newState := s
		newState.Session = &Session{
			ID:           fmt.Sprintf("session-%d", now.UnixMilli()),
			LeagueName:   cmd.LeagueName,
			NumTeams:     cmd.NumTeams,
			DraftType:    cmd.DraftType,
			CurrentPick:  1,
			CurrentRound: 1,
			Teams:        teams,
			Players:      []Player{},
			DraftLog:     []DraftPick{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return []Event{{Type: EvtSessionCreated}}, newState, nil

	case CmdImportPlayers:
		if s.Session == nil {
			return nil, s, nil
		}

		// Wholesale replace. An existing draft log is left alone even if
		// the new pool no longer contains the players it references.
		sess := *s.Session
		sess.Players = slices.Clone(cmd.Players)
		sess.UpdatedAt = now

		newState := s
		newState.Session = &sess
		return []Event{{Type: EvtPlayersImported, Count: len(cmd.Players)}}, newState, nil

	case CmdDraftPlayer:
		if s.Session == nil {
			return nil, s, nil
		}
		idx := slices.IndexFunc(s.Session.Players, func(p Player) bool {
			return p.ID == cmd.PlayerID
		})
		if idx < 0 || s.Session.Players[idx].IsDrafted {
			return nil, s, nil
		}
		team, ok := findTeam(s.Session.Teams, cmd.TeamID)
		if !ok {
			return nil, s, nil
		}

		sess := *s.Session

		drafted := sess.Players[idx]
		drafted.IsDrafted = true
		drafted.DraftedByTeam = team.ID
		drafted.DraftPosition = sess.CurrentPick

		players := slices.Clone(sess.Players)
		players[idx] = drafted
		sess.Players = players

		pick := DraftPick{
			ID:        fmt.Sprintf("pick-%d", sess.CurrentPick),
			Player:    drafted,
			Team:      team,
			Round:     sess.CurrentRound,
			Pick:      sess.CurrentPick,
			Timestamp: now,
		}
		sess.DraftLog = append(slices.Clone(sess.DraftLog), pick)

		sess.CurrentPick++
		sess.CurrentRound = Round(sess.CurrentPick, sess.NumTeams)
		sess.UpdatedAt = now

		newState := s
		newState.Session = &sess
		events := []Event{{
			Type:     EvtPlayerDrafted,
			PlayerID: drafted.ID,
			TeamID:   team.ID,
			Pick:     pick.Pick,
			Round:    pick.Round,
		}}
		return events, newState, nil

	case CmdUndoPick:
		if s.Session == nil || len(s.Session.DraftLog) == 0 {
			return nil, s, nil
		}

		sess := *s.Session
		last := sess.DraftLog[len(sess.DraftLog)-1]

		players := slices.Clone(sess.Players)
		for i, p := range players {
			if p.ID == last.Player.ID {
				p.IsDrafted = false
				p.DraftedByTeam = 0
				p.DraftPosition = 0
				players[i] = p
				break
			}
		}
		sess.Players = players
		sess.DraftLog = slices.Clone(sess.DraftLog[:len(sess.DraftLog)-1])

		// Restore the exact pre-draft turn.
		sess.CurrentPick = last.Pick
		sess.CurrentRound = last.Round
		sess.UpdatedAt = now

		newState := s
		newState.Session = &sess
		events := []Event{{
			Type:     EvtPickUndone,
			PlayerID: last.Player.ID,
			TeamID:   last.Team.ID,
			Pick:     last.Pick,
			Round:    last.Round,
		}}
		return events, newState, nil

	case CmdSetFilters:
		newState := s
		newState.Filters = mergeFilters(s.Filters, cmd.Filters)
		return []Event{{Type: EvtFiltersChanged}}, newState, nil

	case CmdSetLoading:
		newState := s
		newState.Loading = cmd.Loading
		return []Event{{Type: EvtLoadingChanged}}, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func findTeam(teams []Team, id int) (Team, bool) {
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

func mergeFilters(f FilterOptions, u FilterUpdate) FilterOptions {
	if u.Position != nil {
		f.Position = *u.Position
	}
	if u.SearchTerm != nil {
		f.SearchTerm = *u.SearchTerm
	}
	if u.OnlyAvailable != nil {
		f.OnlyAvailable = *u.OnlyAvailable
	}
	if u.ShowDrafted != nil {
		f.ShowDrafted = *u.ShowDrafted
	}
	if u.NFLTeam != nil {
		f.NFLTeam = *u.NFLTeam
	}
	return f
}
