package main

import (
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/projectdash/internal/projects/client"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show a project, or your current one when no id is given",
		Long: `Get prints a project as JSON.

Example:
  projectctl get
  projectctl get 6f1c2a9e-3b4d-4e5f-8a7b-9c0d1e2f3a4b`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := client.Current()
			if len(args) == 1 {
				q = client.ByID(args[0])
			}

			p, err := a.cache.Fetch(cmd.Context(), q)
			if err != nil {
				return explain(err)
			}
			return a.printJSON(p)
		},
	}
}
