package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TarekGohar/cleano-software-sub002/config"
	"github.com/TarekGohar/cleano-software-sub002/models"
)

var DB *gorm.DB

// Connect opens the database and migrates the schema. If the DB is not
// up yet the program exits immediately (early fail, same as dev setup).
func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.Job{},
		&models.Product{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}

	// Legacy cleanup: early builds stored plain passwords in users.password.
	if DB.Migrator().HasColumn(&models.User{}, "password") {
		if err := DB.Migrator().DropColumn(&models.User{}, "password"); err != nil {
			log.Printf("[migrate] warn: drop users.password failed: %v", err)
		} else {
			log.Printf("[migrate] dropped legacy column users.password")
		}
	}
}
