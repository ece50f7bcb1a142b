package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/abhi-wadhwa/bp-flow/internal/cli"
)

func main() {
	// Load .env if present; environment variables already set take priority
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
