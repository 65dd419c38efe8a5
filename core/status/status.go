// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

// Status represents the workload status of the operator's unit as reported
// back to the controlling platform.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// StatusInfo holds a Status and associated information.
type StatusInfo struct {
	Status  Status
	Message string
}

// Setter represents a type whose status can be set.
type Setter interface {
	SetStatus(StatusInfo) error
}

const (
	// Error means the entity requires human intervention
	// in order to operate correctly.
	Error Status = "error"

	// Maintenance is set when:
	// The unit is not yet providing services, but is actively doing stuff
	// in preparation for providing those services.
	// This is a "spinning" state, not an error state.
	Maintenance Status = "maintenance"

	// Waiting is set when:
	// The unit is unable to progress to an active state because an
	// application to which it is related is not running.
	Waiting Status = "waiting"

	// Blocked is set when:
	// The unit needs manual intervention to get back to the Running state.
	Blocked Status = "blocked"

	// Active is set when:
	// The unit believes it is correctly offering all the services it has
	// been asked to offer.
	Active Status = "active"

	// Unknown is set when:
	// The unit has not reported any status yet.
	Unknown Status = "unknown"
)

// ValidWorkloadStatus returns true if status has a valid value (that is to
// say, a value that it's OK to set) for units.
func ValidWorkloadStatus(status Status) bool {
	switch status {
	case
		Blocked,
		Maintenance,
		Waiting,
		Active,
		Unknown:
		return true
	default:
		return false
	}
}

// Matches returns true if the candidate matches status.
func (s Status) Matches(candidate Status) bool {
	return s == candidate
}
