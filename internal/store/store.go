package store

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/DoyleJ11/ff-draft-tracker/internal/engine"
)

type Msg interface{ isStoreMsg() }

// Dispatch applies one engine command. Reply is optional: HTTP handlers
// set it to get the outcome synchronously, the WS layer leaves it nil and
// relies on the next snapshot.
type Dispatch struct {
	Cmd   engine.Command
	Reply chan Result
}

func (Dispatch) isStoreMsg() {}

type Result struct {
	Events []engine.Event
	Err    error
	View   View
}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isStoreMsg() {}

type Leave struct{ ClientID string }

func (Leave) isStoreMsg() {}

type Shutdown struct{}

func (Shutdown) isStoreMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isStoreMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
}

type View struct {
	Version    int
	NumClients int
	State      engine.State
}

// Store owns the one tracker state for the process. All mutation runs on
// a single goroutine; observers receive versioned snapshots. The version
// only moves when a command actually changed something, so a no-op draft
// or undo broadcasts nothing.
type Store struct {
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan Snapshot
	clock   clockwork.Clock
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, initial engine.State, clock clockwork.Clock) *Store {
	ctx, cancel := context.WithCancel(parent)

	s := &Store{
		inbox:   make(chan Msg, 64), // Small buffer
		state:   initial,
		version: 0,
		clients: make(map[string]chan Snapshot),
		clock:   clock,
		ctx:     ctx,
		cancel:  cancel,
	}

	go s.loop()
	return s
}

func (s *Store) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: s.version, State: s.state}

			case Leave:
				delete(s.clients, msg.ClientID)

			case Dispatch:
				events, newState, err := engine.Apply(s.state, msg.Cmd, s.clock.Now())
				if err != nil {
					log.Warn().Err(err).Str("command", string(msg.Cmd.Type)).Msg("command rejected")
				}
				if err == nil && len(events) > 0 {
					s.state = newState
					s.version++
					s.broadcast(Snapshot{Version: s.version, State: s.state})
				}
				if msg.Reply != nil {
					msg.Reply <- Result{
						Events: events,
						Err:    err,
						View:   s.view(),
					}
				}

			case GetState:
				msg.Reply <- s.view()

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Store) view() View {
	return View{
		Version:    s.version,
		NumClients: len(s.clients),
		State:      s.state,
	}
}

func (s *Store) shutdown() {
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Store) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			log.Debug().Str("client_id", id).Msg("dropping slow client")
			close(ch)
			delete(s.clients, id)
		}
	}
}

// Expose the inbox so tests or the HTTP/WS layers can send messages.
func (s *Store) Inbox() chan<- Msg { return s.inbox }
