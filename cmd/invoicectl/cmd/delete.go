package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a stored invoice document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.app.Invoices.DeleteInvoice(cmd.Context(), args[0])
			if err := writeJSONLine(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return errors.New(res.Error)
			}
			c.printVerbose(cmd, "Deleted %s\n", args[0])
			return nil
		},
	}
}
