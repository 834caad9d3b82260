package domain

type InspectionStatus string

const (
	StatusPending    InspectionStatus = "pending"
	StatusInProgress InspectionStatus = "in_progress"
	StatusCompleted  InspectionStatus = "completed"
)

// IsEditable reports whether rooms and items may still be recorded.
func (s InspectionStatus) IsEditable() bool {
	return s == StatusPending || s == StatusInProgress
}

// CanTransitionTo reports whether the lifecycle allows moving to target.
// Only an inspection in progress can be completed, and completed is terminal.
func (s InspectionStatus) CanTransitionTo(target InspectionStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusInProgress
	case StatusInProgress:
		return target == StatusCompleted
	default:
		return false
	}
}
