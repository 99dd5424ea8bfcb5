package main

import (
	"os"

	"actorratings-backend/cmd/actorratings-cli/cmd"
)

func main() {
	baseUrl, ok := os.LookupEnv("ACTORRATINGS_BASE_URL")
	if !ok {
		baseUrl = "http://localhost:8000"
	}
	cmd.BaseUrl = baseUrl

	cmd.Execute()
}
