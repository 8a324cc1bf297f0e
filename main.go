package main

import (
	"os"

	"fjacquet/reframe-client/cmd/batch"
	"fjacquet/reframe-client/cmd/health"
	"fjacquet/reframe-client/cmd/root"
	"fjacquet/reframe-client/cmd/samples"
	"fjacquet/reframe-client/cmd/transform"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(transform.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(samples.Cmd)
	root.Cmd.AddCommand(health.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
