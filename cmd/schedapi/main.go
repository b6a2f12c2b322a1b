package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/psiazon/clinical-triage/internal/config"
	"github.com/psiazon/clinical-triage/internal/schedapi"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "schedapi: load config: %v\n", err)
		os.Exit(1)
	}

	app := schedapi.New()

	addr := fmt.Sprintf(":%d", cfg.Scheduling.Port)
	log.Printf("MockSchedulingApi listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("schedapi: %v", err)
	}
}
