package engine

// Round maps a global pick number to its round: a round is a block of
// numTeams consecutive picks.
func Round(pick, numTeams int) int {
	return ((pick - 1) / numTeams) + 1
}

// TeamOnClock returns the id (1..numTeams) of the team drafting at the
// given pick. Linear drafts repeat 1..N every round; snake drafts reverse
// direction in even rounds (1..N, N..1, 1..N, ...). Total for all pick >= 1.
func TeamOnClock(pick, numTeams int, draftType DraftType) int {
	offset := (pick - 1) % numTeams
	if draftType == DraftSnake && Round(pick, numTeams)%2 == 0 {
		return numTeams - offset
	}
	return offset + 1
}
