package engine

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

var (
	t0 = time.Date(2025, 8, 20, 18, 0, 0, 0, time.UTC)
	t1 = t0.Add(30 * time.Second)
	t2 = t0.Add(75 * time.Second)
)

func newSessionState(t *testing.T, numTeams int, draftType DraftType, players []Player) State {
	t.Helper()
	events, s, err := Apply(NewState(), Command{
		Type:       CmdCreateSession,
		LeagueName: "Test League",
		NumTeams:   numTeams,
		DraftType:  draftType,
	}, t0)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if !ContainsEvent(events, EvtSessionCreated) {
		t.Fatalf("expected EvtSessionCreated")
	}
	if players != nil {
		_, s, err = Apply(s, Command{Type: CmdImportPlayers, Players: players}, t0)
		if err != nil {
			t.Fatalf("import players: %v", err)
		}
	}
	return s
}

func testPool(n int) []Player {
	pool := make([]Player, n)
	positions := []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST}
	for i := range pool {
		pool[i] = Player{
			ID:           fmt.Sprintf("p%d", i+1),
			Name:         fmt.Sprintf("Player %d", i+1),
			Position:     positions[i%len(positions)],
			NFLTeam:      "KC",
			OverallRank:  i + 1,
			PositionRank: fmt.Sprintf("%s%02d", positions[i%len(positions)], i/len(positions)+1),
		}
	}
	return pool
}

// checkInvariants asserts the session invariants that must hold after
// every operation: round arithmetic, log length, and draft-status/log
// consistency.
func checkInvariants(t *testing.T, s State) {
	t.Helper()
	sess := s.Session
	if sess == nil {
		return
	}
	if want := Round(sess.CurrentPick, sess.NumTeams); sess.CurrentRound != want {
		t.Fatalf("currentRound=%d, want %d for pick %d", sess.CurrentRound, want, sess.CurrentPick)
	}
	if len(sess.DraftLog) != sess.CurrentPick-1 {
		t.Fatalf("draftLog length %d, want %d", len(sess.DraftLog), sess.CurrentPick-1)
	}
	logged := map[string]bool{}
	for _, pick := range sess.DraftLog {
		logged[pick.Player.ID] = true
	}
	for _, p := range sess.Players {
		if p.IsDrafted != logged[p.ID] {
			t.Fatalf("player %s: isDrafted=%v but in log=%v", p.ID, p.IsDrafted, logged[p.ID])
		}
		if p.IsDrafted && (p.DraftedByTeam == 0 || p.DraftPosition == 0) {
			t.Fatalf("player %s drafted but missing team/position", p.ID)
		}
		if !p.IsDrafted && (p.DraftedByTeam != 0 || p.DraftPosition != 0) {
			t.Fatalf("player %s undrafted but carries draft fields", p.ID)
		}
	}
}

func TestCreateSession_Validation(t *testing.T) {
	cases := []struct {
		name    string
		cmd     Command
		wantErr error
	}{
		{
			name:    "empty league name",
			cmd:     Command{Type: CmdCreateSession, LeagueName: "", NumTeams: 10, DraftType: DraftSnake},
			wantErr: ErrEmptyLeagueName,
		},
		{
			name:    "whitespace league name",
			cmd:     Command{Type: CmdCreateSession, LeagueName: "   ", NumTeams: 10, DraftType: DraftSnake},
			wantErr: ErrEmptyLeagueName,
		},
		{
			name:    "too few teams",
			cmd:     Command{Type: CmdCreateSession, LeagueName: "L", NumTeams: 7, DraftType: DraftSnake},
			wantErr: ErrInvalidTeamCount,
		},
		{
			name:    "too many teams",
			cmd:     Command{Type: CmdCreateSession, LeagueName: "L", NumTeams: 21, DraftType: DraftLinear},
			wantErr: ErrInvalidTeamCount,
		},
		{
			name:    "bad draft type",
			cmd:     Command{Type: CmdCreateSession, LeagueName: "L", NumTeams: 10, DraftType: "auction"},
			wantErr: ErrInvalidDraftType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := NewState()
			events, after, err := Apply(before, tc.cmd, t0)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if len(events) != 0 {
				t.Fatalf("expected no events on rejection, got %v", events)
			}
			if !reflect.DeepEqual(before, after) {
				t.Fatalf("state changed on rejected command")
			}
		})
	}
}

func TestCreateSession_BuildsTeams(t *testing.T) {
	s := newSessionState(t, 12, DraftSnake, nil)
	sess := s.Session

	if sess.NumTeams != 12 || len(sess.Teams) != 12 {
		t.Fatalf("want 12 teams, got NumTeams=%d len=%d", sess.NumTeams, len(sess.Teams))
	}
	for i, team := range sess.Teams {
		if team.ID != i+1 || team.DraftOrder != i+1 {
			t.Fatalf("team %d: got id=%d order=%d", i, team.ID, team.DraftOrder)
		}
		if team.Name != fmt.Sprintf("Team %d", i+1) {
			t.Fatalf("team %d: got name %q", i, team.Name)
		}
	}
	if sess.CurrentPick != 1 || sess.CurrentRound != 1 {
		t.Fatalf("fresh session: pick=%d round=%d", sess.CurrentPick, sess.CurrentRound)
	}
	if len(sess.Players) != 0 || len(sess.DraftLog) != 0 {
		t.Fatalf("fresh session should have empty pool and log")
	}
	checkInvariants(t, s)
}

func TestCreateSession_ReplacesExistingSession(t *testing.T) {
	s := newSessionState(t, 10, DraftSnake, testPool(5))
	_, s, _ = Apply(s, Command{Type: CmdDraftPlayer, PlayerID: "p1", TeamID: 1}, t1)

	_, s, err := Apply(s, Command{
		Type:       CmdCreateSession,
		LeagueName: "Second League",
		NumTeams:   8,
		DraftType:  DraftLinear,
	}, t2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Session.LeagueName != "Second League" || s.Session.NumTeams != 8 {
		t.Fatalf("session not replaced: %+v", s.Session)
	}
	if len(s.Session.Players) != 0 || len(s.Session.DraftLog) != 0 {
		t.Fatalf("replacement session must start empty")
	}
}

func TestImportPlayers(t *testing.T) {
	t.Run("no session is a no-op", func(t *testing.T) {
		before := NewState()
		events, after, err := Apply(before, Command{Type: CmdImportPlayers, Players: testPool(3)}, t0)
		if err != nil || len(events) != 0 {
			t.Fatalf("want silent no-op, got events=%v err=%v", events, err)
		}
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("state changed without a session")
		}
	})

	t.Run("replaces pool wholesale", func(t *testing.T) {
		s := newSessionState(t, 10, DraftSnake, testPool(3))
		events, s, err := Apply(s, Command{Type: CmdImportPlayers, Players: testPool(8)}, t1)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if !ContainsEvent(events, EvtPlayersImported) {
			t.Fatalf("expected EvtPlayersImported")
		}
		if len(s.Session.Players) != 8 {
			t.Fatalf("want 8 players, got %d", len(s.Session.Players))
		}
		if !s.Session.UpdatedAt.Equal(t1) {
			t.Fatalf("updatedAt not touched")
		}
	})

	t.Run("does not touch pick or log", func(t *testing.T) {
		s := newSessionState(t, 10, DraftSnake, testPool(3))
		_, s, _ = Apply(s, Command{Type: CmdDraftPlayer, PlayerID: "p1", TeamID: 1}, t1)

		// The old log now references players absent from the new pool.
		// That staleness is accepted, not repaired.
		_, s, _ = Apply(s, Command{Type: CmdImportPlayers, Players: []Player{{ID: "x1", Name: "New Guy", Position: PositionRB, OverallRank: 1}}}, t2)
		if s.Session.CurrentPick != 2 || len(s.Session.DraftLog) != 1 {
			t.Fatalf("import must not touch pick/log: pick=%d log=%d", s.Session.CurrentPick, len(s.Session.DraftLog))
		}
	})
}

func TestDraftPlayer(t *testing.T) {
	s := newSessionState(t, 10, DraftSnake, testPool(12))

	events, s, err := Apply(s, Command{Type: CmdDraftPlayer, PlayerID: "p3", TeamID: 5}, t1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ContainsEvent(events, EvtPlayerDrafted) {
		t.Fatalf("expected EvtPlayerDrafted")
	}

	sess := s.Session
	if sess.CurrentPick != 2 || sess.CurrentRound != 1 {
		t.Fatalf("after pick 1: pick=%d round=%d", sess.CurrentPick, sess.CurrentRound)
	}
	if len(sess.DraftLog) != 1 {
		t.Fatalf("want 1 log entry, got %d", len(sess.DraftLog))
	}

	entry := sess.DraftLog[0]
	if entry.ID != "pick-1" || entry.Pick != 1 || entry.Round != 1 {
		t.Fatalf("bad log entry: %+v", entry)
	}
	if entry.Team.ID != 5 || entry.Player.ID != "p3" {
		t.Fatalf("bad log entry refs: %+v", entry)
	}
	if !entry.Player.IsDrafted || entry.Player.DraftedByTeam != 5 || entry.Player.DraftPosition != 1 {
		t.Fatalf("log snapshot missing draft fields: %+v", entry.Player)
	}
	if !entry.Timestamp.Equal(t1) {
		t.Fatalf("timestamp: got %v, want %v", entry.Timestamp, t1)
	}
	checkInvariants(t, s)
}

// The team parameter is an explicit override: drafting for a team that is
// not on the clock must succeed.
func TestDraftPlayer_AnyTeamAllowed(t *testing.T) {
	s := newSessionState(t, 10, DraftSnake, testPool(12))

	onClock := CurrentPickTeam(s.Session)
	override := onClock%10 + 1 // any other team
	events, s, err := Apply(s, Command{Type: CmdDraftPlayer, PlayerID: "p1", TeamID: override}, t1)
	if err != nil || len(events) == 0 {
		t.Fatalf("override pick rejected: events=%v err=%v", events, err)
	}
	if s.Session.DraftLog[0].Team.ID != override {
		t.Fatalf("pick went to team %d, want %d", s.Session.DraftLog[0].Team.ID, override)
	}
}

func TestDraftPlayer_NoOps(t *testing.T) {
	base := newSessionState(t, 10, DraftSnake, testPool(5))
	_, drafted, _ := Apply(base, Command{Type: CmdDraftPlayer, PlayerID: "p1", TeamID: 1}, t1)

	cases := []struct {
		name  string
		state State
		cmd   Command
	}{
		{
			name:  "no session",
			state: NewState(),
			cmd:   Command{Type: CmdDraftPlayer, PlayerID: "p1", TeamID: 1},
		},
		{
			name:  "unknown player",
			state: base,
			cmd:   Command{Type: CmdDraftPlayer, PlayerID: "nope", TeamID: 1},
		},
		{
			name:  "unknown team",
			state: base,
			cmd:   Command{Type: CmdDraftPlayer, PlayerID: "p1", TeamID: 99},
		},
		{
			name:  "already drafted",
			state: drafted,
			cmd:   Command{Type: CmdDraftPlayer, PlayerID: "p1", TeamID: 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, after, err := Apply(tc.state, tc.cmd, t2)
			if err != nil {
				t.Fatalf("no-op must not error: %v", err)
			}
			if len(events) != 0 {
				t.Fatalf("no-op must emit no events, got %v", events)
			}
			if !reflect.DeepEqual(tc.state, after) {
				t.Fatalf("no-op changed state")
			}
			checkInvariants(t, after)
		})
	}
}

func TestDraftPlayer_RoundAdvancesAtBoundary(t *testing.T) {
	s := newSessionState(t, 10, DraftSnake, testPool(12))

	for i := 1; i <= 10; i++ {
		var err error
		_, s, err = Apply(s, Command{Type: CmdDraftPlayer, PlayerID: fmt.Sprintf("p%d", i), TeamID: CurrentPickTeam(s.Session)}, t1)
		if err != nil {
			t.Fatalf("pick %d: %v", i, err)
		}
		checkInvariants(t, s)
	}

	if s.Session.CurrentPick != 11 || s.Session.CurrentRound != 2 {
		t.Fatalf("after full round: pick=%d round=%d", s.Session.CurrentPick, s.Session.CurrentRound)
	}
	// Snake: round 2 starts with the team that closed round 1.
	if got := CurrentPickTeam(s.Session); got != 10 {
		t.Fatalf("team on clock for pick 11: got %d, want 10", got)
	}
}

func TestUndoPick_RoundTrip(t *testing.T) {
	before := newSessionState(t, 10, DraftSnake, testPool(5))

	_, drafted, err := Apply(before, Command{Type: CmdDraftPlayer, PlayerID: "p2", TeamID: 1}, t1)
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	events, after, err := Apply(drafted, Command{Type: CmdUndoPick}, t2)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !ContainsEvent(events, EvtPickUndone) {
		t.Fatalf("expected EvtPickUndone")
	}

	// Exact restore except updatedAt.
	norm := *after.Session
	norm.UpdatedAt = before.Session.UpdatedAt
	normState := after
	normState.Session = &norm
	if !reflect.DeepEqual(before, normState) {
		t.Fatalf("undo did not restore prior state:\nbefore: %+v\nafter:  %+v", before.Session, after.Session)
	}
	checkInvariants(t, after)
}

func TestUndoPick_StrictLIFO(t *testing.T) {
	s := newSessionState(t, 10, DraftSnake, testPool(5))
	_, s, _ = Apply(s, Command{Type: CmdDraftPlayer, PlayerID: "p1", TeamID: 1}, t1)
	_, s, _ = Apply(s, Command{Type: CmdDraftPlayer, PlayerID: "p2", TeamID: 2}, t1)
	_, s, _ = Apply(s, Command{Type: CmdDraftPlayer, PlayerID: "p3", TeamID: 3}, t1)

	_, s, _ = Apply(s, Command{Type: CmdUndoPick}, t2)
	if s.Session.CurrentPick != 3 || len(s.Session.DraftLog) != 2 {
		t.Fatalf("after first undo: pick=%d log=%d", s.Session.CurrentPick, len(s.Session.DraftLog))
	}
	if s.Session.DraftLog[len(s.Session.DraftLog)-1].Player.ID != "p2" {
		t.Fatalf("wrong pick undone")
	}
	checkInvariants(t, s)

	_, s, _ = Apply(s, Command{Type: CmdUndoPick}, t2)
	_, s, _ = Apply(s, Command{Type: CmdUndoPick}, t2)
	if s.Session.CurrentPick != 1 || len(s.Session.DraftLog) != 0 {
		t.Fatalf("after unwinding all: pick=%d log=%d", s.Session.CurrentPick, len(s.Session.DraftLog))
	}
	checkInvariants(t, s)
}

func TestUndoPick_EmptyLogIsNoOp(t *testing.T) {
	cases := []struct {
		name  string
		state State
	}{
		{name: "no session", state: NewState()},
		{name: "empty log", state: newSessionState(t, 10, DraftSnake, testPool(3))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, after, err := Apply(tc.state, Command{Type: CmdUndoPick}, t2)
			if err != nil || len(events) != 0 {
				t.Fatalf("want silent no-op, got events=%v err=%v", events, err)
			}
			if !reflect.DeepEqual(tc.state, after) {
				t.Fatalf("no-op changed state")
			}
		})
	}
}

func TestSetFilters_PartialMerge(t *testing.T) {
	s := NewState()

	pos := PositionWR
	_, s, err := Apply(s, Command{Type: CmdSetFilters, Filters: FilterUpdate{Position: &pos}}, t0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Filters.Position != PositionWR {
		t.Fatalf("position not merged: %+v", s.Filters)
	}
	// Untouched fields keep their defaults.
	if !s.Filters.OnlyAvailable || s.Filters.ShowDrafted || s.Filters.SearchTerm != "" {
		t.Fatalf("merge clobbered other fields: %+v", s.Filters)
	}

	term := "maho"
	avail := false
	show := true
	_, s, _ = Apply(s, Command{Type: CmdSetFilters, Filters: FilterUpdate{SearchTerm: &term, OnlyAvailable: &avail, ShowDrafted: &show}}, t0)
	if s.Filters.SearchTerm != "maho" || s.Filters.OnlyAvailable || !s.Filters.ShowDrafted {
		t.Fatalf("second merge wrong: %+v", s.Filters)
	}
	if s.Filters.Position != PositionWR {
		t.Fatalf("position lost across merges: %+v", s.Filters)
	}
}

func TestSetLoading(t *testing.T) {
	s := NewState()
	events, s, err := Apply(s, Command{Type: CmdSetLoading, Loading: true}, t0)
	if err != nil || !ContainsEvent(events, EvtLoadingChanged) {
		t.Fatalf("events=%v err=%v", events, err)
	}
	if !s.Loading {
		t.Fatalf("loading flag not set")
	}
}

func TestApply_UnsupportedCommand(t *testing.T) {
	_, _, err := Apply(NewState(), Command{Type: "Bogus"}, t0)
	if !errors.Is(err, ErrUnsupportedCommand) {
		t.Fatalf("want ErrUnsupportedCommand, got %v", err)
	}
}

// Apply must never write through the input state's slices: an old
// snapshot has to stay intact after later commands.
func TestApply_DoesNotMutateInput(t *testing.T) {
	s := newSessionState(t, 10, DraftSnake, testPool(5))

	_, next, err := Apply(s, Command{Type: CmdDraftPlayer, PlayerID: "p1", TeamID: 1}, t1)
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if s.Session.Players[0].IsDrafted {
		t.Fatalf("input snapshot mutated by draft")
	}
	if len(s.Session.DraftLog) != 0 {
		t.Fatalf("input log mutated by draft")
	}

	_, _, err = Apply(next, Command{Type: CmdUndoPick}, t2)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !next.Session.Players[0].IsDrafted {
		t.Fatalf("intermediate snapshot mutated by undo")
	}
}
