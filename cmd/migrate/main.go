package main

import (
	"log"

	"github.com/fatih/color"

	"partnerlab-agent-be/internal/config"
	"partnerlab-agent-be/internal/model"
	"partnerlab-agent-be/pkg/database"
)

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Running AutoMigrate on %s...", cfg.Database.Driver)

	models := []interface{}{
		&model.LabRequest{},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			color.Red("Failed to migrate %T: %v", m, err)
			log.Fatal(err)
		}
		color.Green("  ok  %T", m)
	}

	color.Green("Migration completed successfully.")
}
