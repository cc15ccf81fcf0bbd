package main

import (
	"os"

	"outlay/internal/cli"
)

func main() {
	// .env is optional, for local development
	cli.LoadEnvFile()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
