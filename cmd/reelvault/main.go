package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for worker identity and config path overrides.
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reelvault: %v\n", err)
		os.Exit(1)
	}
}
