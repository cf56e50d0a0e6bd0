package main

import (
	"time"

	"github.com/jihuadaka/checkin-server/config"
	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/routes"
	"github.com/jihuadaka/checkin-server/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// Day boundaries are taken in a fixed, configured timezone so every
	// deployment agrees on what "today" means.
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		utils.Sugar.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Task{},
		&models.Checkin{},
		&models.LedgerEntry{},
		&models.Reward{},
		&models.Redemption{},
	)

	r := routes.SetupRouter(db, loc)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
