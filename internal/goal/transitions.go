package goal

// Transition describes one edge of the goal status machine. Automatic
// transitions are the only ones the system itself performs; everything
// else requires an explicit owner action through the update API.
type Transition struct {
	From      GoalStatus
	To        GoalStatus
	Automatic bool
	Trigger   string
}

// transitions is the full status machine. ACTIVE -> LOCKED is the only
// automatic edge; LOCKED -> ACTIVE does not happen when lockedUntil
// elapses, the owner (or an admin tool) has to flip it back.
var transitions = []Transition{
	{From: StatusActive, To: StatusLocked, Automatic: true, Trigger: "score below lock threshold"},
	{From: StatusActive, To: StatusArchived, Automatic: false, Trigger: "owner archives goal"},
	{From: StatusLocked, To: StatusActive, Automatic: false, Trigger: "manual unlock"},
	{From: StatusLocked, To: StatusArchived, Automatic: false, Trigger: "owner archives goal"},
	{From: StatusArchived, To: StatusActive, Automatic: false, Trigger: "owner restores goal"},
}

func CanTransition(from, to GoalStatus) bool {
	if from == to {
		return true
	}
	for _, t := range transitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// CanAutoTransition reports whether the system may move a goal between
// the two states without owner intervention.
func CanAutoTransition(from, to GoalStatus) bool {
	for _, t := range transitions {
		if t.From == from && t.To == to && t.Automatic {
			return true
		}
	}
	return false
}
