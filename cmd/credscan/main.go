package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"CredibilityScanner/internal/cli"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
