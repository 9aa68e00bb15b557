package domain

import "time"

// ActivityStatus is the outcome recorded for an audited action.
type ActivityStatus string

const (
	ActivitySuccess ActivityStatus = "Success"
	ActivityFailed  ActivityStatus = "Failed"
	ActivityWarning ActivityStatus = "Warning"
)

// ActivityModuleAuth tags entries produced by the identity subsystem.
const ActivityModuleAuth = "Auth"

// ActivityEntry is one audit record handed to the activity collaborator.
type ActivityEntry struct {
	UserID    string
	Action    string
	Details   string
	Module    string
	Status    ActivityStatus
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
