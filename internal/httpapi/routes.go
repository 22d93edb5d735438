package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/ff-draft-tracker/internal/store"
	"github.com/DoyleJ11/ff-draft-tracker/internal/ws"
)

func SetupRoutes(st *store.Store, wsOriginPatterns []string) http.Handler {
	r := chi.NewRouter()

	r.Post("/session", CreateSession(st))
	r.Get("/session", GetSession(st))
	r.Post("/session/players", ImportPlayers(st))
	r.Get("/session/players", ListPlayers(st))
	r.Get("/session/positions", GetPositionCounts(st))
	r.Get("/session/on-clock", GetOnClock(st))
	r.Get("/session/teams/{teamID}/roster", GetTeamRoster(st))
	r.Post("/session/picks", DraftPlayer(st))
	r.Delete("/session/picks/last", UndoPick(st))
	r.Put("/session/filters", UpdateFilters(st))
	r.Get("/export/draft-log.csv", ExportDraftLog(st))
	r.Get("/export/available-players.csv", ExportAvailablePlayers(st))
	r.Get("/ws", ws.Handler(st, wsOriginPatterns))
	r.Get("/healthz", Healthz)
	return r
}
