package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sweeezy/backend/internal/app"
)

func main() {
	// .env is a local development convenience; absence is not an error
	_ = godotenv.Load()

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		slog.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
