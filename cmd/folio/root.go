package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

const configEnvKey = "FOLIO_CONFIG"

// cliState is shared by all subcommands. It is filled in by the root
// command's PersistentPreRunE.
type cliState struct {
	configPath string
	logLevel   string

	cfg    folio.SiteConfig
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	cmd := &cobra.Command{
		Use:           "folio",
		Short:         "Folio is a personal website with a minimal blog CMS",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load(cmd)
		},
	}
	cmd.Version = version

	cmd.PersistentFlags().StringVarP(&st.configPath, "config", "c", os.Getenv(configEnvKey), "path to a TOML or YAML config file")
	cmd.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(st),
		newMigrateCmd(st),
		newHashPasswordCmd(),
		newVersionCmd(),
	)
	return cmd
}

func (st *cliState) load(cmd *cobra.Command) error {
	cfg, err := folio.LoadConfig(st.configPath)
	if err != nil {
		return err
	}
	st.cfg = cfg

	logger, warning, err := configureLogger(st.logLevel, os.Getenv(logLevelEnvKey), cfg.LogLevel)
	if err != nil {
		return err
	}
	st.logger = logger
	if warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), warning)
	}
	return nil
}
