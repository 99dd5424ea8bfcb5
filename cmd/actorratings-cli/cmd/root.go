package cmd

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var BaseUrl string

var client *resty.Client

var rootCmd = &cobra.Command{
	Use:   "actorratings-cli",
	Short: "actorratings-cli is a CLI interface for the actor ratings service.",
}

func Execute() {
	client = resty.New().SetBaseURL(BaseUrl)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// the service reports failures as {"error": "..."} with a non-2xx
// status, everything else is a transport problem
func fail(res *resty.Response, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	body, ok := res.Error().(*errorResponse)
	if ok && body.Error != "" {
		fmt.Fprintln(os.Stderr, body.Error)
	} else {
		fmt.Fprintln(os.Stderr, res.Status())
	}
	os.Exit(1)
}
