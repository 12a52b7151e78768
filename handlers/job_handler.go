package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TarekGohar/cleano-software-sub002/calendar"
	"github.com/TarekGohar/cleano-software-sub002/database"
	"github.com/TarekGohar/cleano-software-sub002/middlewares"
	"github.com/TarekGohar/cleano-software-sub002/models"
)

// JobHandler owns job CRUD and the lifecycle transitions (clock-in,
// clock-out, invoice). Every mutation that touches schedule-relevant
// fields invalidates the affected calendar day(s) before replying, so
// cached ranges never serve the pre-mutation schedule.
type JobHandler struct {
	cal *calendar.Service
}

func NewJobHandler(cal *calendar.Service) *JobHandler {
	return &JobHandler{cal: cal}
}

var validJobStatus = map[string]bool{
	models.JobStatusCreated:    true,
	models.JobStatusScheduled:  true,
	models.JobStatusInProgress: true,
	models.JobStatusCompleted:  true,
	models.JobStatusInvoiced:   true,
	models.JobStatusCancelled:  true,
}

type jobPayload struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ClientName     string   `json:"client_name"`
	Address        string   `json:"address"`
	Date           string   `json:"date"`       // YYYY-MM-DD
	StartTime      string   `json:"start_time"` // RFC3339
	EndTime        string   `json:"end_time"`   // RFC3339, optional
	Status         string   `json:"status"`
	Price          *float64 `json:"price"`
	Pay            *float64 `json:"pay"`
	Tips           *float64 `json:"tips"`
	Notes          *string  `json:"notes"`
	EmployeeID     *uint    `json:"employee_id"`
	ParticipantIDs []uint   `json:"participant_ids"`
}

func mustID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// ─── LIST / GET ────────────────────────────────────────────────────────────────

// GET /jobs?status=&employee_id=&limit=&offset=
func (h *JobHandler) List(c echo.Context) error {
	q := database.DB.Preload("Employee").Preload("Participants")

	if st := strings.TrimSpace(c.QueryParam("status")); st != "" {
		q = q.Where("status = ?", st)
	}
	if emp := atoiOr(c.QueryParam("employee_id"), 0); emp > 0 {
		q = q.Where("employee_id = ?", emp)
	}

	// Cleaners only ever list their own jobs.
	ident := middlewares.CallerIdentity(c)
	if !ident.Role.IsPrivileged() {
		if ident.EmployeeID == nil {
			return c.JSON(http.StatusOK, []models.Job{})
		}
		q = q.Where("employee_id = ?", *ident.EmployeeID)
	}

	limit := atoiOr(c.QueryParam("limit"), 50)
	offset := atoiOr(c.QueryParam("offset"), 0)

	var jobs []models.Job
	if err := q.Order("date ASC, start_time ASC").Limit(limit).Offset(offset).Find(&jobs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, jobs)
}

// GET /jobs/:id
func (h *JobHandler) GetByID(c echo.Context) error {
	id, err := mustID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	var job models.Job
	if err := database.DB.Preload("Employee").Preload("Participants").First(&job, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, job)
}

// ─── CREATE ────────────────────────────────────────────────────────────────────

// POST /jobs
func (h *JobHandler) Create(c echo.Context) error {
	var p jobPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}

	fields := map[string]string{}
	if strings.TrimSpace(p.ClientName) == "" {
		fields["client_name"] = "client name is required"
	}
	day, dayErr := calendar.ParseDay(p.Date)
	if dayErr != nil {
		fields["date"] = "must be YYYY-MM-DD"
	}
	start, startErr := time.Parse(time.RFC3339, p.StartTime)
	if startErr != nil {
		fields["start_time"] = "must be RFC3339"
	}
	var end *time.Time
	if p.EndTime != "" {
		t, err := time.Parse(time.RFC3339, p.EndTime)
		if err != nil || (startErr == nil && t.Before(start)) {
			fields["end_time"] = "must be RFC3339 and not before start_time"
		} else {
			end = &t
		}
	}
	status := strings.TrimSpace(p.Status)
	if status == "" {
		status = models.JobStatusCreated
	}
	if !validJobStatus[status] {
		fields["status"] = "unknown status"
	}
	if len(fields) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
	}

	loc := h.cal.Location()
	dayStart, _ := day.Bounds(loc)

	job := models.Job{
		Code:        uuid.NewString(),
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		ClientName:  strings.TrimSpace(p.ClientName),
		Address:     strings.TrimSpace(p.Address),
		Date:        dayStart,
		StartTime:   start,
		EndTime:     end,
		Status:      status,
		EmployeeID:  p.EmployeeID,
	}
	if p.Price != nil {
		job.Price = *p.Price
	}
	if p.Pay != nil {
		job.Pay = *p.Pay
	}
	if p.Tips != nil {
		job.Tips = *p.Tips
	}
	if p.Notes != nil {
		job.Notes = *p.Notes
	}

	if err := database.DB.Create(&job).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if len(p.ParticipantIDs) > 0 {
		if err := h.setParticipants(&job, p.ParticipantIDs); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_PARTICIPANTS"})
		}
	}

	h.cal.InvalidateDay(day)
	return c.JSON(http.StatusCreated, map[string]any{"id": job.ID, "code": job.Code})
}

// ─── UPDATE ────────────────────────────────────────────────────────────────────

// PUT /jobs/:id
func (h *JobHandler) Update(c echo.Context) error {
	id, err := mustID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_ID"})
	}
	var job models.Job
	if err := database.DB.Preload("Participants").First(&job, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	var p jobPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}

	loc := h.cal.Location()
	oldDay := calendar.DayOf(job.Date, loc)

	if p.Title != "" {
		job.Title = strings.TrimSpace(p.Title)
	}
	if p.Description != "" {
		job.Description = p.Description
	}
	if p.ClientName != "" {
		job.ClientName = strings.TrimSpace(p.ClientName)
	}
	if p.Address != "" {
		job.Address = strings.TrimSpace(p.Address)
	}
	if p.Date != "" {
		day, err := calendar.ParseDay(p.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "date invalid"})
		}
		dayStart, _ := day.Bounds(loc)
		job.Date = dayStart
	}
	if p.StartTime != "" {
		t, err := time.Parse(time.RFC3339, p.StartTime)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "start_time invalid"})
		}
		job.StartTime = t
	}
	if p.EndTime != "" {
		t, err := time.Parse(time.RFC3339, p.EndTime)
		if err != nil || t.Before(job.StartTime) {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "end_time invalid"})
		}
		job.EndTime = &t
	}
	if p.Status != "" {
		if !validJobStatus[p.Status] {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "status invalid"})
		}
		job.Status = p.Status
	}
	if p.Price != nil {
		job.Price = *p.Price
	}
	if p.Pay != nil {
		job.Pay = *p.Pay
	}
	if p.Tips != nil {
		job.Tips = *p.Tips
	}
	// nil means the field was omitted; an explicit "" clears the notes.
	if p.Notes != nil {
		job.Notes = *p.Notes
	}
	if p.EmployeeID != nil {
		job.EmployeeID = p.EmployeeID
	}

	if err := database.DB.Save(&job).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if p.ParticipantIDs != nil {
		if err := h.setParticipants(&job, p.ParticipantIDs); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_PARTICIPANTS"})
		}
	}

	// Both the original and the new day may have cached ranges.
	h.cal.InvalidateDay(oldDay)
	h.cal.InvalidateDay(calendar.DayOf(job.Date, loc))
	return c.JSON(http.StatusOK, job)
}

// ─── DELETE ────────────────────────────────────────────────────────────────────

// DELETE /jobs/:id
func (h *JobHandler) Delete(c echo.Context) error {
	id, err := mustID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_ID"})
	}
	var job models.Job
	if err := database.DB.First(&job, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	tx := database.DB.Select("Participants").Delete(&job)
	if tx.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{"error": "DB_DELETE_FAILED"})
	}

	h.cal.InvalidateTime(job.Date)
	return c.NoContent(http.StatusNoContent)
}

// ─── LIFECYCLE ─────────────────────────────────────────────────────────────────

// POST /jobs/:id/clock-in
func (h *JobHandler) ClockIn(c echo.Context) error {
	return h.transition(c, func(job *models.Job, ident calendar.Identity) *echo.HTTPError {
		if !ident.Role.IsPrivileged() && !assignedTo(job, ident) {
			return echo.NewHTTPError(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
		}
		if job.Status != models.JobStatusScheduled && job.Status != models.JobStatusCreated {
			return echo.NewHTTPError(http.StatusConflict, map[string]string{"error": "NOT_CLOCKABLE"})
		}
		job.Status = models.JobStatusInProgress
		return nil
	})
}

// POST /jobs/:id/clock-out
func (h *JobHandler) ClockOut(c echo.Context) error {
	return h.transition(c, func(job *models.Job, ident calendar.Identity) *echo.HTTPError {
		if !ident.Role.IsPrivileged() && !assignedTo(job, ident) {
			return echo.NewHTTPError(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
		}
		if job.Status != models.JobStatusInProgress {
			return echo.NewHTTPError(http.StatusConflict, map[string]string{"error": "NOT_IN_PROGRESS"})
		}
		now := time.Now()
		job.Status = models.JobStatusCompleted
		job.EndTime = &now
		return nil
	})
}

// POST /jobs/:id/invoice
func (h *JobHandler) Invoice(c echo.Context) error {
	return h.transition(c, func(job *models.Job, ident calendar.Identity) *echo.HTTPError {
		if !ident.Role.IsPrivileged() {
			return echo.NewHTTPError(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
		}
		if job.Status != models.JobStatusCompleted {
			return echo.NewHTTPError(http.StatusConflict, map[string]string{"error": "NOT_COMPLETED"})
		}
		job.Status = models.JobStatusInvoiced
		return nil
	})
}

// transition loads the job, applies the mutation, saves, and
// invalidates the job's calendar day.
func (h *JobHandler) transition(c echo.Context, apply func(*models.Job, calendar.Identity) *echo.HTTPError) error {
	id, err := mustID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_ID"})
	}
	var job models.Job
	if err := database.DB.Preload("Participants").First(&job, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}

	if httpErr := apply(&job, middlewares.CallerIdentity(c)); httpErr != nil {
		return httpErr
	}

	if err := database.DB.Save(&job).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{"error": "DB_UPDATE_FAILED"})
	}

	h.cal.InvalidateTime(job.Date)
	return c.JSON(http.StatusOK, job)
}

func assignedTo(job *models.Job, ident calendar.Identity) bool {
	if ident.EmployeeID == nil {
		return false
	}
	if job.EmployeeID != nil && *job.EmployeeID == *ident.EmployeeID {
		return true
	}
	for _, p := range job.Participants {
		if p.ID == *ident.EmployeeID {
			return true
		}
	}
	return false
}

func (h *JobHandler) setParticipants(job *models.Job, ids []uint) error {
	var emps []models.Employee
	if len(ids) > 0 {
		if err := database.DB.Find(&emps, ids).Error; err != nil {
			return err
		}
		if len(emps) != len(ids) {
			return gorm.ErrRecordNotFound
		}
	}
	return database.DB.Model(job).Association("Participants").Replace(emps)
}
