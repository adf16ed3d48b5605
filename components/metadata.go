package components

// String returns the display name for a GoalKind.
func (g GoalKind) String() string {
	names := GoalKindNames()
	if int(g) < len(names) {
		return names[g]
	}
	return "Unknown"
}

// GoalKindNames returns the display names for all goal kinds.
// The order matches the GoalKind constants.
func GoalKindNames() []string {
	return []string{"Wander", "Pickup", "Store", "Deliver", "Work", "Demolish", "Eat"}
}

// GoalKindCount returns the number of goal kinds.
func GoalKindCount() int {
	return len(GoalKindNames())
}

// String returns the display name for an ActionKind.
func (a ActionKind) String() string {
	names := []string{"Idle", "Move", "PickUp", "DropOff", "Eat", "Work", "Demolish", "Abandon"}
	if int(a) < len(names) {
		return names[a]
	}
	return "Unknown"
}

// String returns the display name for a SignalClass.
func (c SignalClass) String() string {
	names := []string{"Push", "Pull", "Work", "Demolish", "Contains", "Stores", "Unit"}
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// String returns the display name for a CraftPhase.
func (p CraftPhase) String() string {
	names := []string{"NeedsInput", "InProgress", "Finished"}
	if int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}
