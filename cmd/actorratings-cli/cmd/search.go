package cmd

import (
	"os"

	"actorratings-backend/services/actor/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Searches for actors matching a name.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var identities []model.Identity
		res, err := client.R().
			SetContext(cmd.Context()).
			SetQueryParam("query", args[0]).
			SetResult(&identities).
			SetError(&errorResponse{}).
			Get("/api/actor/search")
		if err != nil || res.IsError() {
			fail(res, err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Name", "Known For"})

		for _, identity := range identities {
			t.AppendRow(table.Row{identity.ID, identity.Name, identity.KnownFor})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
