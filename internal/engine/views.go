package engine

import (
	"sort"
	"strings"
)

// Derived views: pure read-only functions over session state + filters.
// Presentation layers call these instead of poking at the pool directly.

// FilterPlayers applies every filter clause as a conjunction. An empty
// search term matches all; the search is a case-insensitive substring
// match on name or NFL team. OnlyAvailable and ShowDrafted together
// yield an empty result by construction.
func FilterPlayers(players []Player, filters FilterOptions) []Player {
	search := strings.ToLower(filters.SearchTerm)

	out := make([]Player, 0, len(players))
	for _, p := range players {
		if filters.Position != PositionAll && p.Position != filters.Position {
			continue
		}
		if search != "" {
			name := strings.ToLower(p.Name)
			team := strings.ToLower(p.NFLTeam)
			if !strings.Contains(name, search) && !strings.Contains(team, search) {
				continue
			}
		}
		if filters.OnlyAvailable && p.IsDrafted {
			continue
		}
		if filters.ShowDrafted && !p.IsDrafted {
			continue
		}
		if filters.NFLTeam != "" && p.NFLTeam != filters.NFLTeam {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortPlayers returns a sorted copy. When ShowDrafted is active the list
// is ordered by draft position (draft-board order); otherwise by overall
// rank. The sort is stable: ties keep their input order.
func SortPlayers(players []Player, filters FilterOptions) []Player {
	out := make([]Player, len(players))
	copy(out, players)

	if filters.ShowDrafted {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DraftPosition < out[j].DraftPosition
		})
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallRank < out[j].OverallRank
	})
	return out
}

type PositionCount struct {
	Total   int `json:"total"`
	Drafted int `json:"drafted"`
}

// PositionCounts tallies the pool per position, including positions with
// no players, so the caller always gets all six keys.
func PositionCounts(players []Player) map[Position]PositionCount {
	counts := make(map[Position]PositionCount, len(Positions))
	for _, pos := range Positions {
		counts[pos] = PositionCount{}
	}
	for _, p := range players {
		c := counts[p.Position]
		c.Total++
		if p.IsDrafted {
			c.Drafted++
		}
		counts[p.Position] = c
	}
	return counts
}

// CurrentPickTeam returns the id of the team on the clock, or 0 when no
// session exists.
func CurrentPickTeam(sess *Session) int {
	if sess == nil {
		return 0
	}
	return TeamOnClock(sess.CurrentPick, sess.NumTeams, sess.DraftType)
}

// TeamRoster derives a team's roster from the pool, in draft order.
func TeamRoster(sess *Session, teamID int) []Player {
	if sess == nil {
		return nil
	}
	roster := []Player{}
	for _, p := range sess.Players {
		if p.IsDrafted && p.DraftedByTeam == teamID {
			roster = append(roster, p)
		}
	}
	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].DraftPosition < roster[j].DraftPosition
	})
	return roster
}
