package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/TarekGohar/cleano-software-sub002/calendar"
	"github.com/TarekGohar/cleano-software-sub002/config"
	"github.com/TarekGohar/cleano-software-sub002/database"
	"github.com/TarekGohar/cleano-software-sub002/routes"
)

func main() {
	cfg := config.Load()

	// Early fail if the DB is not up.
	database.Connect(cfg)

	cal := calendar.NewService(calendar.ServiceConfig{
		Source: database.NewJobStore(database.DB),
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg, cal)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
