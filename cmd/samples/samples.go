// Package samples lists and prints the built-in sample messages
package samples

import (
	"fmt"
	"strings"

	"fjacquet/reframe-client/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the samples command
var Cmd = &cobra.Command{
	Use:   "samples [MESSAGE_TYPE]",
	Short: "List sample SWIFT MT messages or print one",
	Long: `List the sample SWIFT MT messages known to the client, or print the sample of one
message type. Samples come built in and can be extended with a samples.yaml file.

Example:
  reframe-client samples
  reframe-client samples MT103 > mt103.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: samplesFunc,
}

func samplesFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		entry, err := c.GetCatalog().Get(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, strings.TrimRight(entry.Sample, "\n"))
		return err
	}

	for _, entry := range c.GetCatalog().Entries() {
		target := entry.Target
		if target == "" {
			target = "-"
		}
		if _, err := fmt.Fprintf(out, "%-8s %-10s %s\n", entry.Key, target, entry.Label); err != nil {
			return err
		}
	}
	return nil
}
