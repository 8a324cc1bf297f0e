// Package batch handles batch transformation of message files
package batch

import (
	"fmt"

	"fjacquet/reframe-client/cmd/root"
	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/report"

	"github.com/spf13/cobra"
)

var (
	inputDir    string
	outputDir   string
	reportFile  string
	concurrency int
	rps         float64
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch transform message files from a directory",
	Long: `Batch transform message files from an input directory into another directory.

Every *.txt, *.mt and *.fin file of the input directory is submitted on its own. The
documents of each success are written to <file>.xml (pay.txt gives pay.txt.xml); failures
are logged and listed in the optional CSV report. Requests run concurrently and are
rate limited to spare the service.

Example:
  reframe-client batch -i inbox/ -o outbox/ --report outbox/report.csv --concurrency 8`,
	Args: cobra.NoArgs,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Input directory containing MT message files (required)")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for XML files (required)")
	Cmd.Flags().StringVarP(&reportFile, "report", "r", "", "Write a CSV report of every file to this path")
	Cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of concurrent requests (default from configuration)")
	Cmd.Flags().Float64Var(&rps, "rps", 0, "Maximum requests per second (default from configuration)")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("output")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	opts := c.BatchOptions()
	if cmd.Flags().Changed("concurrency") {
		if concurrency < 1 || concurrency > 64 {
			return fmt.Errorf("--concurrency must be between 1 and 64, got: %d", concurrency)
		}
		opts.Concurrency = concurrency
	}
	if cmd.Flags().Changed("rps") {
		if rps <= 0 {
			return fmt.Errorf("--rps must be positive, got: %g", rps)
		}
		opts.RequestsPerSecond = rps
	}

	rows, runErr := c.NewBatchProcessor(opts).Run(cmd.Context(), inputDir, outputDir)

	if reportFile != "" && rows != nil {
		if err := report.WriteBatchReport(reportFile, rows, root.Log); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	succeeded := 0
	for _, row := range rows {
		if row.Status == report.StatusSuccess {
			succeeded++
		}
	}
	if len(rows) == 0 {
		root.Log.Warn("No message files found in input directory", logging.F("input_dir", inputDir))
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Transformed %d of %d files.\n", succeeded, len(rows))
	return err
}
