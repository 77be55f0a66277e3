package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/projectdash/internal/projects/client"
)

func newUpdateCmd(a *app) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a project's name or description",
		Long: `Update sends only the fields you pass.

Example:
  projectctl update 6f1c2a9e-3b4d-4e5f-8a7b-9c0d1e2f3a4b --name "Payments v2"
  projectctl update 6f1c2a9e-3b4d-4e5f-8a7b-9c0d1e2f3a4b --description ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields client.UpdateFields
			if cmd.Flags().Changed("name") {
				fields.Name = &name
			}
			if cmd.Flags().Changed("description") {
				fields.Description = &description
			}
			if fields.Name == nil && fields.Description == nil {
				return errors.New("nothing to update: pass --name or --description")
			}

			p, err := a.cache.Update(cmd.Context(), args[0], fields)
			if err != nil {
				return explain(err)
			}
			return a.printJSON(p)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new project name")
	cmd.Flags().StringVar(&description, "description", "", "new project description")
	return cmd
}
