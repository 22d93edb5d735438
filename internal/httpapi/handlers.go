package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/DoyleJ11/ff-draft-tracker/internal/engine"
	"github.com/DoyleJ11/ff-draft-tracker/internal/export"
	"github.com/DoyleJ11/ff-draft-tracker/internal/importer"
	"github.com/DoyleJ11/ff-draft-tracker/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

type viewResponse struct {
	Version int                  `json:"version"`
	Session *engine.Session      `json:"session"`
	Filters engine.FilterOptions `json:"filters"`
	Loading bool                 `json:"loading"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func dispatch(st *store.Store, cmd engine.Command) store.Result {
	reply := make(chan store.Result, 1)
	st.Inbox() <- store.Dispatch{Cmd: cmd, Reply: reply}
	return <-reply
}

func getView(st *store.Store) store.View {
	reply := make(chan store.View, 1)
	st.Inbox() <- store.GetState{Reply: reply}
	return <-reply
}

func toViewResponse(v store.View) viewResponse {
	return viewResponse{
		Version: v.Version,
		Session: v.State.Session,
		Filters: v.State.Filters,
		Loading: v.State.Loading,
	}
}

func CreateSession(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LeagueName string `json:"league_name"`
			NumTeams   int    `json:"num_teams"`
			DraftType  string `json:"draft_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		draftType, ok := engine.ParseDraftType(req.DraftType)
		if !ok {
			writeError(w, http.StatusBadRequest, "draft_type must be snake or linear")
			return
		}

		res := dispatch(st, engine.Command{
			Type:       engine.CmdCreateSession,
			LeagueName: req.LeagueName,
			NumTeams:   req.NumTeams,
			DraftType:  draftType,
		})
		if res.Err != nil {
			writeError(w, http.StatusBadRequest, res.Err.Error())
			return
		}

		log.Info().
			Str("league", req.LeagueName).
			Int("teams", req.NumTeams).
			Str("draft_type", req.DraftType).
			Msg("session created")
		writeJSON(w, http.StatusCreated, toViewResponse(res.View))
	}
}

func GetSession(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toViewResponse(getView(st)))
	}
}

// ImportPlayers reads a CSV body, parses it at the boundary, and replaces
// the pool wholesale. Invalid files never reach the store.
func ImportPlayers(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := getView(st)
		if view.State.Session == nil {
			writeError(w, http.StatusConflict, "no active session")
			return
		}

		players, err := importer.ParsePlayers(r.Body, time.Now())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res := dispatch(st, engine.Command{Type: engine.CmdImportPlayers, Players: players})
		if len(res.Events) == 0 {
			writeError(w, http.StatusConflict, "no active session")
			return
		}

		log.Info().Int("players", len(players)).Msg("player pool imported")
		writeJSON(w, http.StatusOK, struct {
			Imported int `json:"imported"`
		}{Imported: len(players)})
	}
}

// ListPlayers serves the pool with the active filters and sort applied.
func ListPlayers(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := getView(st)
		if view.State.Session == nil {
			writeError(w, http.StatusNotFound, "no active session")
			return
		}
		filters := view.State.Filters
		players := engine.FilterPlayers(view.State.Session.Players, filters)
		writeJSON(w, http.StatusOK, engine.SortPlayers(players, filters))
	}
}

func GetPositionCounts(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := getView(st)
		if view.State.Session == nil {
			writeError(w, http.StatusNotFound, "no active session")
			return
		}
		writeJSON(w, http.StatusOK, engine.PositionCounts(view.State.Session.Players))
	}
}

// GetOnClock reports whose turn it is for the current pick.
func GetOnClock(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := getView(st)
		sess := view.State.Session
		if sess == nil {
			writeError(w, http.StatusNotFound, "no active session")
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Pick   int `json:"pick"`
			Round  int `json:"round"`
			TeamID int `json:"team_id"`
		}{
			Pick:   sess.CurrentPick,
			Round:  sess.CurrentRound,
			TeamID: engine.CurrentPickTeam(sess),
		})
	}
}

func GetTeamRoster(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID, err := strconv.Atoi(chi.URLParam(r, "teamID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad team id")
			return
		}
		view := getView(st)
		if view.State.Session == nil {
			writeError(w, http.StatusNotFound, "no active session")
			return
		}
		writeJSON(w, http.StatusOK, engine.TeamRoster(view.State.Session, teamID))
	}
}

// DraftPlayer records a pick for any team, not just the one on the clock.
// A no-op (unknown player/team, already drafted) comes back as 409.
func DraftPlayer(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
			TeamID   int    `json:"team_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}

		res := dispatch(st, engine.Command{
			Type:     engine.CmdDraftPlayer,
			PlayerID: req.PlayerID,
			TeamID:   req.TeamID,
		})
		if len(res.Events) == 0 {
			writeError(w, http.StatusConflict, "pick not applied")
			return
		}

		log.Info().
			Str("player_id", req.PlayerID).
			Int("team_id", req.TeamID).
			Int("pick", res.Events[0].Pick).
			Msg("player drafted")
		writeJSON(w, http.StatusOK, toViewResponse(res.View))
	}
}

func UndoPick(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := dispatch(st, engine.Command{Type: engine.CmdUndoPick})
		if len(res.Events) == 0 {
			writeError(w, http.StatusConflict, "nothing to undo")
			return
		}
		log.Info().Int("pick", res.Events[0].Pick).Msg("pick undone")
		writeJSON(w, http.StatusOK, toViewResponse(res.View))
	}
}

func UpdateFilters(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Position      *string `json:"position,omitempty"`
			SearchTerm    *string `json:"search_term,omitempty"`
			OnlyAvailable *bool   `json:"only_available,omitempty"`
			ShowDrafted   *bool   `json:"show_drafted,omitempty"`
			NFLTeam       *string `json:"nfl_team,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}

		update := engine.FilterUpdate{
			SearchTerm:    payload.SearchTerm,
			OnlyAvailable: payload.OnlyAvailable,
			ShowDrafted:   payload.ShowDrafted,
			NFLTeam:       payload.NFLTeam,
		}
		if payload.Position != nil {
			pos, ok := engine.ParsePosition(*payload.Position)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown position")
				return
			}
			update.Position = &pos
		}

		res := dispatch(st, engine.Command{Type: engine.CmdSetFilters, Filters: update})
		writeJSON(w, http.StatusOK, toViewResponse(res.View))
	}
}

func ExportDraftLog(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := getView(st)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="draft-log.csv"`)
		if err := export.WriteDraftLog(w, view.State.Session); err != nil {
			log.Error().Err(err).Msg("draft log export failed")
		}
	}
}

func ExportAvailablePlayers(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := getView(st)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="available-players.csv"`)
		if err := export.WriteAvailablePlayers(w, view.State.Session); err != nil {
			log.Error().Err(err).Msg("available players export failed")
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
