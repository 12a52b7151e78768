package models

import "time"

// Job statuses. CREATED is the state a job lands in straight from the
// booking form, before a manager confirms it onto the schedule.
const (
	JobStatusCreated    = "CREATED"
	JobStatusScheduled  = "SCHEDULED"
	JobStatusInProgress = "IN_PROGRESS"
	JobStatusCompleted  = "COMPLETED"
	JobStatusInvoiced   = "INVOICED"
	JobStatusCancelled  = "CANCELLED"
)

// Job is a single cleaning appointment. Date is the day the job occurs
// on (local day); StartTime/EndTime carry the actual clock times.
type Job struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Code        string `json:"code" gorm:"size:36;uniqueIndex"` // uuid, shown on invoices
	Title       string `json:"title" gorm:"size:120"`
	Description string `json:"description" gorm:"size:500"`
	ClientName  string `json:"client_name" gorm:"size:120"`
	Address     string `json:"address" gorm:"size:200"`

	Date      time.Time  `json:"date" gorm:"index;not null"` // occurrence day, truncated to midnight
	StartTime time.Time  `json:"start_time" gorm:"index;not null"`
	EndTime   *time.Time `json:"end_time"` // open-ended until clock-out

	Status string `json:"status" gorm:"size:20;not null;default:CREATED;index"`

	Price float64 `json:"price"`
	Pay   float64 `json:"pay"`
	Tips  float64 `json:"tips"`
	Notes string  `json:"notes" gorm:"size:500"`

	EmployeeID   *uint      `json:"employee_id" gorm:"index"` // primary assignee
	Employee     *Employee  `json:"employee" gorm:"foreignKey:EmployeeID"`
	Participants []Employee `json:"participants" gorm:"many2many:job_participants"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
