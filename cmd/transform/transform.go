// Package transform handles single-message transformation
package transform

import (
	"fmt"

	"fjacquet/reframe-client/cmd/common"
	"fjacquet/reframe-client/cmd/root"
	"fjacquet/reframe-client/internal/logging"
	"fjacquet/reframe-client/internal/report"

	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
	sampleKey  string
	format     string
)

// Cmd represents the transform command
var Cmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform a SWIFT MT message into ISO 20022 XML",
	Long: `Transform a SWIFT MT message into ISO 20022 XML.

The message is read from --input, from a built-in sample with --sample, or from
standard input. The returned documents are indented and written to --output or
standard output. The command exits with status 1 when the service rejects the
message or cannot be reached.

Example:
  reframe-client transform -i mt103.txt
  reframe-client transform --sample MT103 --format json
  cat mt202.txt | reframe-client transform -o pacs009.xml`,
	Args: cobra.NoArgs,
	RunE: transformFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file with the MT message (default standard input)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default standard output)")
	Cmd.Flags().StringVarP(&sampleKey, "sample", "s", "", "Submit the built-in sample of a message type, e.g. MT103")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json or xml (default from configuration)")
	Cmd.MarkFlagsMutuallyExclusive("input", "sample")
}

func transformFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	name := format
	if name == "" {
		name = c.GetConfig().Output.Format
	}
	outFormat, err := report.ParseFormat(name)
	if err != nil {
		return err
	}

	var message string
	if sampleKey != "" {
		entry, err := c.GetCatalog().Get(sampleKey)
		if err != nil {
			return err
		}
		message = entry.Sample
		root.Log.Debug("Using built-in sample", logging.F("sample", entry.Key))
	} else {
		message, err = common.ReadMessage(cmd.InOrStdin(), inputFile)
		if err != nil {
			return err
		}
	}

	outcome, err := c.NewSession().Submit(cmd.Context(), message)
	if err != nil {
		return fmt.Errorf("transformation failed: %w", err)
	}

	if !outcome.IsSuccess() {
		if outFormat == report.FormatJSON {
			if err := c.GetGenerator().Render(cmd.OutOrStdout(), outcome, outFormat); err != nil {
				return err
			}
		}
		return outcome.Err()
	}

	w, closeOutput, err := common.CreateOutput(cmd.OutOrStdout(), outputFile)
	if err != nil {
		return err
	}
	renderErr := c.GetGenerator().Render(w, outcome, outFormat)
	if err := closeOutput(); err != nil && renderErr == nil {
		renderErr = fmt.Errorf("error closing output file: %w", err)
	}
	if renderErr != nil {
		return renderErr
	}

	if outputFile != "" {
		root.Log.Info("Transformation completed",
			logging.F(logging.FieldOutputFile, outputFile),
			logging.F(logging.FieldDocuments, len(outcome.Documents())))
	}
	return nil
}
