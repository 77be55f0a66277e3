package main

import (
	"github.com/spf13/cobra"
)

type deleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cache.Delete(cmd.Context(), args[0]); err != nil {
				return explain(err)
			}
			return a.printJSON(deleteOutput{ID: args[0], Deleted: true})
		},
	}
}
