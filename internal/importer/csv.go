// Package importer turns tabular ranking exports into the player pool the
// tracker drafts from. It owns the whole import boundary: header checks,
// position normalization, and rank fallbacks all happen here, so the store
// only ever sees valid players.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/DoyleJ11/ff-draft-tracker/internal/engine"
)

var ErrMissingColumns = errors.New("missing required columns")
var ErrUnknownPosition = errors.New("unknown position")

// RequiredColumns are the header fields an import file must carry.
var RequiredColumns = []string{"Name", "Pos", "Team", "ETR_Rank", "Pos_Rank"}

// ParsePlayers reads a CSV ranking export and returns the player pool.
// Rows missing a name or a position are dropped; a position string that
// doesn't normalize is a hard failure and rejects the whole file. When
// the rank column is missing or non-numeric the 1-based row number is
// used instead. now seeds the generated player ids.
func ParsePlayers(r io.Reader, now time.Time) ([]engine.Player, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := columnIndices(header)
	if err != nil {
		return nil, err
	}

	players := []engine.Player{}
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", row+1, err)
		}

		name := strings.TrimSpace(field(record, cols["Name"]))
		rawPos := strings.TrimSpace(field(record, cols["Pos"]))
		if name == "" || rawPos == "" {
			row++
			continue
		}

		pos, ok := NormalizePosition(rawPos)
		if !ok {
			return nil, fmt.Errorf("%w: %q (row %d)", ErrUnknownPosition, rawPos, row+1)
		}

		rank, err := strconv.Atoi(strings.TrimSpace(field(record, cols["ETR_Rank"])))
		if err != nil || rank <= 0 {
			rank = row + 1
		}

		players = append(players, engine.Player{
			ID:           fmt.Sprintf("player-%d-%d", row, now.UnixMilli()),
			Name:         name,
			Position:     pos,
			NFLTeam:      strings.TrimSpace(field(record, cols["Team"])),
			OverallRank:  rank,
			PositionRank: strings.TrimSpace(field(record, cols["Pos_Rank"])),
		})
		row++
	}

	return players, nil
}

// NormalizePosition maps a raw position string to the position enum,
// case-insensitively. DST, D/ST and DEF all mean DST.
func NormalizePosition(raw string) (engine.Position, bool) {
	switch strings.ToUpper(raw) {
	case "QB":
		return engine.PositionQB, true
	case "RB":
		return engine.PositionRB, true
	case "WR":
		return engine.PositionWR, true
	case "TE":
		return engine.PositionTE, true
	case "K":
		return engine.PositionK, true
	case "DST", "D/ST", "DEF":
		return engine.PositionDST, true
	default:
		return "", false
	}
}

func columnIndices(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	missing := []string{}
	for _, want := range RequiredColumns {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
