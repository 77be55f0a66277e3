package main

import (
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/projectdash/internal/projects/client"
)

func newCreateCmd(a *app) *cobra.Command {
	var fields client.CreateFields

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Long: `Create makes a new project owned by you. It becomes your current project.

Example:
  projectctl create --name "Payments" --description "Q3 rollout"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.cache.Create(cmd.Context(), fields)
			if err != nil {
				return explain(err)
			}
			return a.printJSON(p)
		},
	}

	cmd.Flags().StringVar(&fields.Name, "name", "", "project name")
	cmd.Flags().StringVar(&fields.Description, "description", "", "project description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
