package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"invoiceflow/internal/bootstrap"
	"invoiceflow/internal/config"
	"invoiceflow/internal/logger"
)

var version = "dev"

// AppFactory builds the services a command runs against. store overrides
// the configured document store driver when non-empty.
type AppFactory func(store string) (*bootstrap.App, error)

type cli struct {
	newApp  AppFactory
	app     *bootstrap.App
	verbose bool
	store   string
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd(nil).Execute()
}

// NewRootCmd builds the command tree. A nil factory loads configuration
// from the environment.
func NewRootCmd(newApp AppFactory) *cobra.Command {
	if newApp == nil {
		newApp = loadApp
	}
	c := &cli{newApp: newApp}

	root := &cobra.Command{
		Use:   "invoicectl",
		Short: "Process and manage extracted invoices",
		Long: `invoicectl runs documents through the invoice pipeline and manages the
stored invoice block from the command line.

Stream events are written to stdout as newline-delimited JSON.

Examples:
  invoicectl process invoice.txt
  invoicectl process invoices/*.txt --block-id 6f1c...
  invoicectl list
  invoicectl show
  invoicectl export --format xlsx -o invoices.xlsx`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.newApp(c.store)
			if err != nil {
				return err
			}
			c.app = app
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output")
	root.PersistentFlags().StringVar(&c.store, "store", "", "Document store driver (postgres, memory)")

	root.AddCommand(
		c.processCmd(),
		c.regenerateCmd(),
		c.showCmd(),
		c.listCmd(),
		c.lookupCmd(),
		c.deleteCmd(),
		c.exportCmd(),
	)
	return wrapClose(root, c)
}

// wrapClose releases the app after any subcommand, including failed ones.
func wrapClose(root *cobra.Command, c *cli) *cobra.Command {
	for _, sub := range root.Commands() {
		run := sub.RunE
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			defer c.close()
			return run(cmd, args)
		}
	}
	return root
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

func (c *cli) printVerbose(cmd *cobra.Command, format string, args ...interface{}) {
	if c.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
	}
}

func loadApp(store string) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if store != "" {
		cfg.Store.Driver = store
	}
	zl, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return bootstrap.New(cfg, zl)
}
