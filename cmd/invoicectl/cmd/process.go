package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"invoiceflow/internal/service"
	"invoiceflow/internal/stream"
)

// fileResult is the final line written for each processed file.
type fileResult struct {
	File   string                 `json:"file"`
	Result *service.ProcessResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

func (c *cli) processCmd() *cobra.Command {
	var blockID string

	cmd := &cobra.Command{
		Use:   "process [files...]",
		Short: "Extract invoices from text files",
		Long: `Run one or more text documents through extraction, duplicate detection
and aggregation. A single file streams its events as they happen; several
files are processed concurrently and reported one after another.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files to process")
			}
			c.printVerbose(cmd, "Processing %d file(s)\n", len(files))

			if len(files) == 1 {
				return c.processOne(cmd, files[0], blockID)
			}
			return c.processBatch(cmd, files, blockID)
		},
	}

	cmd.Flags().StringVar(&blockID, "block-id", "", "Existing invoice block id to reuse")
	return cmd
}

func (c *cli) processOne(cmd *cobra.Command, file, blockID string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if timeout := c.app.Config.Invoice.ProcessTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := c.app.Pipeline.Process(ctx, &service.ProcessInput{
		InvoiceContent:  string(data),
		ExistingBlockID: blockID,
	}, stream.NewWriterSink(out))
	if err != nil {
		_ = writeJSONLine(out, fileResult{File: file, Error: err.Error()})
		return err
	}
	c.printVerbose(cmd, "  %s: %s\n", file, res.State)
	return writeJSONLine(out, fileResult{File: file, Result: res})
}

func (c *cli) processBatch(cmd *cobra.Command, files []string, blockID string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	items := make([]service.BatchItem, 0, len(files))
	recorders := make([]*stream.Recorder, 0, len(files))
	var failed int
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			failed++
			_ = writeJSONLine(out, fileResult{File: file, Error: fmt.Sprintf("failed to read file: %v", err)})
			continue
		}
		rec := stream.NewRecorder()
		recorders = append(recorders, rec)
		items = append(items, service.BatchItem{
			Name: file,
			Input: service.ProcessInput{
				InvoiceContent:  string(data),
				ExistingBlockID: blockID,
			},
			Sink: rec,
		})
	}

	outcomes := c.app.BatchWorker().Run(ctx, items)

	for i, outcome := range outcomes {
		sink := stream.NewWriterSink(out)
		for _, event := range recorders[i].Events() {
			if err := sink.Write(context.Background(), event); err != nil {
				return err
			}
		}
		line := fileResult{File: outcome.Name, Result: outcome.Result}
		if outcome.Err != nil {
			failed++
			line.Error = outcome.Err.Error()
			c.printVerbose(cmd, "  %s: error: %v\n", outcome.Name, outcome.Err)
		} else {
			c.printVerbose(cmd, "  %s: %s\n", outcome.Name, outcome.Result.State)
		}
		if err := writeJSONLine(out, line); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(files))
	}
	return nil
}

// collectFiles expands glob patterns and directories into a list of files.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", match)
			}
			if !info.IsDir() {
				files = append(files, match)
				continue
			}
			err = filepath.Walk(match, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return files, nil
}

func writeJSONLine(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}
