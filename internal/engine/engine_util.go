package engine

// NewState returns the initial tracker state: no session, default filters.
func NewState() State {
	return State{
		Filters: FilterOptions{
			Position:      PositionAll,
			SearchTerm:    "",
			OnlyAvailable: true,
			ShowDrafted:   false,
		},
	}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// ParsePosition maps a filter value from the wire to a Position,
// accepting the six player positions plus ALL.
func ParsePosition(s string) (Position, bool) {
	p := Position(s)
	if p == PositionAll {
		return p, true
	}
	for _, known := range Positions {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// ParseDraftType maps a wire string to a DraftType.
func ParseDraftType(s string) (DraftType, bool) {
	switch DraftType(s) {
	case DraftSnake:
		return DraftSnake, true
	case DraftLinear:
		return DraftLinear, true
	default:
		return "", false
	}
}
