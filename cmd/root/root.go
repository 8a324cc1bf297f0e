// Package root contains the root command for the application
package root

import (
	"errors"
	"fmt"
	"sync"

	"fjacquet/reframe-client/internal/config"
	"fjacquet/reframe-client/internal/container"
	"fjacquet/reframe-client/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	ConfigFile string
	Endpoint   string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built before any subcommand runs
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "reframe-client",
		Short: "A CLI client that transforms SWIFT MT messages into ISO 20022 XML.",
		Long: `reframe-client sends SWIFT MT messages to a Reframe transformation service and
renders the ISO 20022 documents it returns as indented XML.

It understands every response format the service has used: bare XML, the legacy
{"result": ...} envelope and the versioned {"status", "results", ...} envelope.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
	}

	// SharedFlags holds the values of the persistent flags
	SharedFlags = CommonFlags{}

	initOnce sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches $HOME/.reframe-client, .reframe-client and .)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.Endpoint, "endpoint", "", "Transformation service endpoint URL")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
	})
}

// setup loads .env and the configuration, then wires the container
func setup(cmd *cobra.Command, args []string) error {
	envFile, envErr := config.LoadEnv()

	flags := cmd.Flags()
	cfg, err := config.InitializeConfig(
		config.WithConfigFile(SharedFlags.ConfigFile),
		config.WithFlag("api.endpoint", flags.Lookup("endpoint")),
		config.WithFlag("log.level", flags.Lookup("log-level")),
		config.WithFlag("log.format", flags.Lookup("log-format")),
	)
	if err != nil {
		return err
	}

	Log = logging.NewLogrusAdapterWithOutput(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if envErr != nil {
		Log.WithError(envErr).Warn("Error loading .env file", logging.F("file", envFile))
	} else if envFile != "" {
		Log.Debug("Loaded environment variables", logging.F("file", envFile))
	}

	c, err := container.NewContainer(cfg, container.WithLogger(Log))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	AppContainer = c
	return nil
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, errors.New("container not initialized")
	}
	return AppContainer, nil
}
