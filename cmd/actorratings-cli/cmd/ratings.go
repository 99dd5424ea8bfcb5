package cmd

import (
	"fmt"
	"os"

	"actorratings-backend/services/actor/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ratingsCmd)
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings <id>",
	Short: "Prints the rated filmography of an actor, oldest first.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var filmography model.Filmography
		res, err := client.R().
			SetContext(cmd.Context()).
			SetQueryParam("id", args[0]).
			SetResult(&filmography).
			SetError(&errorResponse{}).
			Get("/api/actor/ratings")
		if err != nil || res.IsError() {
			fail(res, err)
		}

		fmt.Println(filmography.Name)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Year", "Title", "Rating"})

		for _, movie := range filmography.Movies {
			rating := "-"
			if movie.Rating > 0 {
				rating = fmt.Sprintf("%.1f", movie.Rating)
			}
			t.AppendRow(table.Row{movie.Year, movie.Title, rating})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
