package types

// Client -> Server (WebSocket)
// DraftPlayer:
//   player_id: string
//   team_id: number   // explicit override; any team, not just on the clock
//
// UndoPick: {}
//
// SetFilters:
//   filters:
//     position: "QB" | "RB" | "WR" | "TE" | "K" | "DST" | "ALL"
//     search_term: string
//     only_available: boolean
//     show_drafted: boolean
//     nfl_team: string
//   // absent fields leave the current filter untouched
//
// SetLoading:
//   loading: boolean

// Server -> Client
// StateSnapshot:
//   version: number
//   state: { session, filters, loading }
//
// Error:
//   error: string
