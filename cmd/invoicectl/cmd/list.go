package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"invoiceflow/internal/invoicedoc"
)

func (c *cli) listCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every valid stored invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			invoices, err := c.app.Invoices.ListInvoices(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSONLine(out, invoices)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DOCUMENT\tVENDOR\tNUMBER\tDATE\tAMOUNT\tITEMS")
			for _, inv := range invoices {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					inv.DocumentID, inv.VendorName, inv.InvoiceNumber, inv.InvoiceDate, inv.Amount, len(inv.LineItems))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print invoices as JSON")
	return cmd
}

func (c *cli) lookupCmd() *cobra.Command {
	var vendor, number, amount string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Find a stored invoice by vendor, number and amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := invoicedoc.NewKey(vendor, number, amount)
			if !key.Complete() {
				return fmt.Errorf("--vendor, --number and --amount are required")
			}
			found, err := c.app.Duplicates.GetExistingByDetails(cmd.Context(), key)
			if err != nil {
				return err
			}
			return writeJSONLine(cmd.OutOrStdout(), found)
		},
	}

	cmd.Flags().StringVar(&vendor, "vendor", "", "Vendor name")
	cmd.Flags().StringVar(&number, "number", "", "Invoice number")
	cmd.Flags().StringVar(&amount, "amount", "", "Total amount")
	return cmd
}
