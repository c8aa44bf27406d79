package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/akira0907/gift-diagnosis/internal/wordpress"
)

func newTermsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "List WordPress categories and tags with their IDs",
		Long: `List the categories and tags of the WordPress site.

Use the IDs with "giftctl post --category ID --tag ID".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.config.RequireWordPress(); err != nil {
				return err
			}
			client := wordpress.NewClient(a.config.WordPress)

			categories, err := client.Categories(cmd.Context())
			if err != nil {
				return err
			}
			tags, err := client.Tags(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, group := range []struct {
				title string
				terms []wordpress.Term
			}{
				{"Categories", categories},
				{"Tags", tags},
			} {
				fmt.Fprintf(out, "\n%s (%d)\n", group.title, len(group.terms))
				t := newTable(out)
				t.AppendHeader(table.Row{"ID", "Name", "Slug", "Posts"})
				for _, term := range group.terms {
					t.AppendRow(table.Row{term.ID, term.Name, term.Slug, term.Count})
				}
				t.Render()
			}
			return nil
		},
	}
}
