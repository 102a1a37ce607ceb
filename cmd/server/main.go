package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/feedmill/feedmill-backend/internal/app"
)

func main() {
	// .env is optional; production supplies real environment variables.
	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Stop()

	if err := a.Start(); err != nil {
		a.Log.Fatal("failed to start background jobs", "error", err)
	}
	if err := a.Run(a.Cfg.Addr); err != nil {
		a.Log.Fatal("http server exited", "error", err)
	}
}
