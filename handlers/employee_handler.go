package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/TarekGohar/cleano-software-sub002/database"
	"github.com/TarekGohar/cleano-software-sub002/models"
)

type EmployeeHandler struct{}

func NewEmployeeHandler() *EmployeeHandler { return &EmployeeHandler{} }

// ===== Validation rules =====
var (
	empReName  = regexp.MustCompile(`^[A-Za-z\s'\-]{1,50}$`)
	empRePhone = regexp.MustCompile(`^[0-9\- +]{1,15}$`)
	empReEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type employeePayload struct {
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
	HourlyRate *float64 `json:"hourly_rate"`
	Active     *bool    `json:"active"`
}

func (p *employeePayload) normalize() {
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
}

func validateEmployee(p *employeePayload) map[string]string {
	errs := map[string]string{}
	if p.FirstName == "" || !empReName.MatchString(p.FirstName) {
		errs["first_name"] = "first name must be letters"
	}
	if p.LastName == "" || !empReName.MatchString(p.LastName) {
		errs["last_name"] = "last name must be letters"
	}
	if p.Phone != "" && !empRePhone.MatchString(p.Phone) {
		errs["phone"] = "phone number invalid"
	}
	if p.Email != "" && !empReEmail.MatchString(p.Email) {
		errs["email"] = "email invalid"
	}
	if p.HourlyRate != nil && *p.HourlyRate < 0 {
		errs["hourly_rate"] = "hourly rate must not be negative"
	}
	return errs
}

// GET /employees
func (h *EmployeeHandler) List(c echo.Context) error {
	var emps []models.Employee
	if err := database.DB.Order("last_name ASC, first_name ASC").Find(&emps).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, emps)
}

// POST /employees
func (h *EmployeeHandler) Create(c echo.Context) error {
	var p employeePayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateEmployee(&p); len(errs) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	emp := models.Employee{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Active:    true,
	}
	if p.HourlyRate != nil {
		emp.HourlyRate = *p.HourlyRate
	}
	if err := database.DB.Create(&emp).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": emp.ID})
}

// PUT /employees/:id
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := mustID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_ID"})
	}
	var emp models.Employee
	if err := database.DB.First(&emp, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	var p employeePayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()

	if p.FirstName != "" {
		if !empReName.MatchString(p.FirstName) {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "first_name invalid"})
		}
		emp.FirstName = p.FirstName
	}
	if p.LastName != "" {
		if !empReName.MatchString(p.LastName) {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "last_name invalid"})
		}
		emp.LastName = p.LastName
	}
	if p.Phone != "" {
		if !empRePhone.MatchString(p.Phone) {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "phone invalid"})
		}
		emp.Phone = p.Phone
	}
	if p.Email != "" {
		if !empReEmail.MatchString(p.Email) {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "email invalid"})
		}
		emp.Email = p.Email
	}
	if p.HourlyRate != nil {
		if *p.HourlyRate < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "hourly_rate invalid"})
		}
		emp.HourlyRate = *p.HourlyRate
	}
	if p.Active != nil {
		emp.Active = *p.Active
	}

	if err := database.DB.Save(&emp).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, emp)
}

// DELETE /employees/:id
func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := mustID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"error": "INVALID_ID"})
	}
	tx := database.DB.Delete(&models.Employee{}, id)
	if tx.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{"error": "DB_DELETE_FAILED"})
	}
	if tx.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
