// Package health checks that the transformation service is reachable
package health

import (
	"fmt"

	"fjacquet/reframe-client/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the health command
var Cmd = &cobra.Command{
	Use:   "health",
	Short: "Check the transformation service health endpoint",
	Long: `Query the health endpoint of the transformation service and report its status.
The command exits with status 1 when the service is unreachable or unhealthy.

Example:
  reframe-client health --endpoint https://reframe.example.com/reframe`,
	Args: cobra.NoArgs,
	RunE: healthFunc,
}

func healthFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	client := c.GetClient()

	status, err := client.Health(cmd.Context())
	if err != nil {
		return err
	}

	service := status.Service
	if service == "" {
		service = client.HealthURL()
	}
	if status.Version != "" {
		service += " " + status.Version
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", service, status.Status); err != nil {
		return err
	}

	if !status.Healthy() {
		return fmt.Errorf("service reported status %q", status.Status)
	}
	return nil
}
