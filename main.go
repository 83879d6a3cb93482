package main

import (
	"github.com/joho/godotenv"

	"github.com/jwiersema/streakd/cmd"
)

func main() {
	// An optional .env next to the working directory may carry
	// STREAKD_SMTP_PASSWORD; a missing file is fine.
	_ = godotenv.Load()

	cmd.Execute()
}
