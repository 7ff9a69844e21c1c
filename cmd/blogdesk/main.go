package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/blogdesk/blogdesk-go/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	if err := app.Run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		slog.Error("blogdesk failed", "error", err)
		os.Exit(1)
	}
}
