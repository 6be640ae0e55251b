package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"invoiceflow/internal/domain"
)

func (c *cli) exportCmd() *cobra.Command {
	var format, outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every valid invoice as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := domain.ExportFormat(strings.ToLower(format))
			if !domain.ValidExportFormats[f] {
				return fmt.Errorf("%w: %s", domain.ErrUnsupportedExportFormat, format)
			}

			out := cmd.OutOrStdout()
			if outputFile != "" {
				file, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				out = file
			}

			if err := c.app.Invoices.Export(cmd.Context(), f, out); err != nil {
				return err
			}
			if outputFile != "" {
				c.printVerbose(cmd, "Wrote %s\n", outputFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(domain.ExportFormatCSV), "Export format (csv, xlsx)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
