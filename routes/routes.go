package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/TarekGohar/cleano-software-sub002/calendar"
	"github.com/TarekGohar/cleano-software-sub002/config"
	"github.com/TarekGohar/cleano-software-sub002/handlers"
	"github.com/TarekGohar/cleano-software-sub002/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config, cal *calendar.Service) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	calh := handlers.NewCalendarHandler(cal)
	job := handlers.NewJobHandler(cal)
	emp := handlers.NewEmployeeHandler()
	prod := handlers.NewProductHandler()

	// ===== Public =====
	e.GET("/healthz", handlers.Health)
	e.POST("/auth/login", auth.Login)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	staffMW := middlewares.RequireRole("admin", "manager")

	// ===== Authenticated (any role) =====
	api := e.Group("", authMW)

	api.PUT("/profile/password", auth.ChangePassword)

	// Calendar reads: the day query hits the resolver directly, the
	// range query goes through the caller's cached stable view.
	api.GET("/calendar/day", calh.Day)
	api.GET("/calendar/range", calh.Range)

	// Jobs: everyone can read (cleaners see only their own) and work
	// their own jobs; scheduling mutations are staff-only.
	api.GET("/jobs", job.List)
	api.GET("/jobs/:id", job.GetByID)
	api.POST("/jobs/:id/clock-in", job.ClockIn)
	api.POST("/jobs/:id/clock-out", job.ClockOut)

	// ===== Staff (admin | manager) =====
	staff := e.Group("", authMW, staffMW)

	staff.POST("/calendar/invalidate", calh.InvalidateDay)

	staff.POST("/jobs", job.Create)
	staff.PUT("/jobs/:id", job.Update)
	staff.DELETE("/jobs/:id", job.Delete)
	staff.POST("/jobs/:id/invoice", job.Invoice)

	staff.GET("/employees", emp.List)
	staff.POST("/employees", emp.Create)
	staff.PUT("/employees/:id", emp.Update)
	staff.DELETE("/employees/:id", emp.Delete)

	staff.GET("/products", prod.List)
	staff.POST("/products", prod.Create)
	staff.PUT("/products/:id", prod.Update)
	staff.DELETE("/products/:id", prod.Delete)
}
