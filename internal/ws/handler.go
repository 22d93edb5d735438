package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/DoyleJ11/ff-draft-tracker/internal/engine"
	"github.com/DoyleJ11/ff-draft-tracker/internal/store"
	"github.com/DoyleJ11/ff-draft-tracker/internal/types"
)

// Handler upgrades the connection, subscribes it to store snapshots, and
// feeds client command messages into the store. Commands are
// fire-and-forget: the client learns the outcome from the next snapshot,
// and a no-op simply produces no snapshot.
func Handler(st *store.Store, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan store.Snapshot, 8)
		clientID := uuid.NewString()

		st.Inbox() <- store.Join{ClientID: clientID, Outbox: out}
		defer func() { st.Inbox() <- store.Leave{ClientID: clientID} }()

		log.Debug().Str("client_id", clientID).Msg("client connected")

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (store.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			cmd, ok := ToCommand(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText, []byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}

			st.Inbox() <- store.Dispatch{Cmd: cmd}
		}
	}
}

// ToCommand maps a wire message to an engine command. Session creation
// and player import stay HTTP-only; the socket carries the in-draft
// actions.
func ToCommand(m types.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case "DraftPlayer":
		if m.PlayerID == "" || m.TeamID == 0 {
			return engine.Command{}, false
		}
		return engine.Command{Type: engine.CmdDraftPlayer, PlayerID: m.PlayerID, TeamID: m.TeamID}, true
	case "UndoPick":
		return engine.Command{Type: engine.CmdUndoPick}, true
	case "SetFilters":
		if m.Filters == nil {
			return engine.Command{}, false
		}
		update, ok := ToFilterUpdate(*m.Filters)
		if !ok {
			return engine.Command{}, false
		}
		return engine.Command{Type: engine.CmdSetFilters, Filters: update}, true
	case "SetLoading":
		return engine.Command{Type: engine.CmdSetLoading, Loading: m.Loading}, true
	default:
		return engine.Command{}, false
	}
}

// ToFilterUpdate validates the position value; everything else is typed
// by JSON decoding already.
func ToFilterUpdate(p types.FilterPayload) (engine.FilterUpdate, bool) {
	update := engine.FilterUpdate{
		SearchTerm:    p.SearchTerm,
		OnlyAvailable: p.OnlyAvailable,
		ShowDrafted:   p.ShowDrafted,
		NFLTeam:       p.NFLTeam,
	}
	if p.Position != nil {
		pos, ok := engine.ParsePosition(*p.Position)
		if !ok {
			return engine.FilterUpdate{}, false
		}
		update.Position = &pos
	}
	return update, true
}
