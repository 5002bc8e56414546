// Command remontee is the client for the feedback service: public form,
// status viewer and admin triage.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/remontee-backend/internal/cli"
)

func main() {
	// .env is optional here; it only supplies REMONTEE_* defaults
	_ = godotenv.Load()
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
