package calendar

import (
	"strings"
	"time"

	"github.com/TarekGohar/cleano-software-sub002/models"
)

// Role is the closed set of portal roles. Keeping it an enum means
// adding a role is a single-point change instead of string comparisons
// scattered across handlers.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCleaner Role = "cleaner"
)

// ParseRole maps a stored role string onto the enum. Unknown strings
// come back as an unprivileged zero Role.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	case RoleCleaner:
		return RoleCleaner
	default:
		return ""
	}
}

// IsPrivileged reports whether the role sees every job regardless of
// assignment.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleManager
}

// Identity is the authenticated actor a calendar query runs for.
type Identity struct {
	UserID     uint
	EmployeeID *uint // set for cleaner accounts
	Role       Role
}

// IsZero reports whether no identity is present.
func (id Identity) IsZero() bool {
	return id.UserID == 0 && id.Role == ""
}

// CalendarEvent is the DTO handed to calendar consumers. Business
// fields the calendar does not interpret ride along in Metadata.
type CalendarEvent struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Label       string         `json:"label,omitempty"`
	Start       time.Time      `json:"start"`
	End         *time.Time     `json:"end,omitempty"`
	Confirmed   bool           `json:"confirmed"`
	Importance  int            `json:"importance"`
	Metadata    map[string]any `json:"metadata"`
}

// Importance levels by job status. In-progress work dominates the
// view, confirmed upcoming work sits in the middle, everything else is
// background.
const (
	importanceLow    = 1
	importanceMedium = 3
	importanceHigh   = 5
)

func importanceFor(status string) int {
	switch status {
	case models.JobStatusInProgress:
		return importanceHigh
	case models.JobStatusScheduled:
		return importanceMedium
	default:
		return importanceLow
	}
}

func confirmedFor(status string) bool {
	return status != models.JobStatusCreated && status != models.JobStatusCancelled
}

// eventFromJob normalizes a job row into the calendar DTO.
func eventFromJob(j models.Job) CalendarEvent {
	title := strings.TrimSpace(j.Title)
	if title == "" {
		title = "Job"
	}

	var names []string
	for _, p := range j.Participants {
		names = append(names, p.FullName())
	}
	label := strings.Join(names, ", ")
	if label == "" && j.Employee != nil {
		label = j.Employee.FullName()
	}

	var assignees []string
	if j.Employee != nil {
		assignees = append(assignees, j.Employee.FullName())
	}
	for _, p := range j.Participants {
		assignees = append(assignees, p.FullName())
	}

	return CalendarEvent{
		ID:          j.ID,
		Title:       title,
		Description: j.Description,
		Label:       label,
		Start:       j.StartTime,
		End:         j.EndTime,
		Confirmed:   confirmedFor(j.Status),
		Importance:  importanceFor(j.Status),
		Metadata: map[string]any{
			"code":      j.Code,
			"status":    j.Status,
			"price":     j.Price,
			"pay":       j.Pay,
			"tips":      j.Tips,
			"notes":     j.Notes,
			"client":    j.ClientName,
			"address":   j.Address,
			"assignees": assignees,
		},
	}
}
