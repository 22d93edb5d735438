package types

// StateSnapshot:
//   version: number        // bumps only when a command changed something
//   state:
//     session:             // null until POST /session
//       id: string
//       league_name: string
//       num_teams: number  // 8..20, fixed at creation
//       draft_type: "snake" | "linear"
//       current_pick: number
//       current_round: number  // always ceil(current_pick / num_teams)
//       teams: Team[]
//       players: Player[]
//       draft_log: DraftPick[]  // length == current_pick - 1
//     filters: { position, search_term, only_available, show_drafted, nfl_team }
//     loading: boolean
