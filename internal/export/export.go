// Package export serializes tracker state for download. The store hands
// it a state snapshot; turning that into a file is this package's job.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/DoyleJ11/ff-draft-tracker/internal/engine"
)

// WriteDraftLog writes the full draft log as CSV, one row per pick in
// pick order.
func WriteDraftLog(w io.Writer, sess *engine.Session) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"Round", "Pick", "Team", "Player", "Position", "NFL Team", "Overall Rank"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if sess == nil {
		return writer.Error()
	}

	for _, pick := range sess.DraftLog {
		record := []string{
			strconv.Itoa(pick.Round),
			strconv.Itoa(pick.Pick),
			pick.Team.Name,
			pick.Player.Name,
			string(pick.Player.Position),
			pick.Player.NFLTeam,
			strconv.Itoa(pick.Player.OverallRank),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write pick %d: %w", pick.Pick, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteAvailablePlayers writes the undrafted pool as CSV in overall-rank
// order.
func WriteAvailablePlayers(w io.Writer, sess *engine.Session) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"Name", "Position", "NFL Team", "Overall Rank", "Position Rank"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if sess == nil {
		return writer.Error()
	}

	available := engine.FilterPlayers(sess.Players, engine.FilterOptions{
		Position:      engine.PositionAll,
		OnlyAvailable: true,
	})
	for _, p := range engine.SortPlayers(available, engine.FilterOptions{}) {
		record := []string{
			p.Name,
			string(p.Position),
			p.NFLTeam,
			strconv.Itoa(p.OverallRank),
			p.PositionRank,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write player %s: %w", p.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
