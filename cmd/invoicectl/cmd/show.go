package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoiceflow/internal/stream"
)

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [block-id]",
		Short: "Display the aggregated invoice block",
		Long: `Stream the aggregate of every valid stored invoice. When a block id is
given the block is refreshed in place.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var blockID string
			if len(args) == 1 {
				blockID = args[0]
			}
			out := cmd.OutOrStdout()
			res, err := c.app.Invoices.DisplayExisting(cmd.Context(), blockID, stream.NewWriterSink(out))
			if err != nil {
				return err
			}
			return writeJSONLine(out, map[string]interface{}{"result": res})
		},
	}
}

func (c *cli) regenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate <document-id> <description>",
		Short: "Apply a described change to a stored invoice",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			res, err := c.app.Invoices.Regenerate(cmd.Context(), args[0], args[1], stream.NewWriterSink(out))
			if err != nil {
				return err
			}
			c.printVerbose(cmd, "Tokens used: %d in, %d out, $%.6f\n",
				res.Usage.Input, res.Usage.Output, res.Usage.EstimatedCost)
			if err := writeJSONLine(out, map[string]interface{}{"result": res}); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
			return nil
		},
	}
}
