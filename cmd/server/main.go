package main

import (
	"log"

	"lexfirm-backend/internal/config"
	"lexfirm-backend/internal/database"
	"lexfirm-backend/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := server.New(cfg)

	log.Println("server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
