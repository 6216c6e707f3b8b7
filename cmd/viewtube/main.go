package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/viewtube/backend/internal/app"
)

func main() {
	// Missing .env is fine; production configures through the environment.
	_ = godotenv.Load()

	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
