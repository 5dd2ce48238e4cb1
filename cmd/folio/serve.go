package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/views"
)

func newServeCmd(st *cliState) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := []folio.Option{folio.WithLogger(st.logger)}
			if migrate {
				opts = append(opts, folio.WithAutoMigrate())
			}
			app := folio.New(st.cfg, views.Funcs(), opts...)
			defer app.Close()

			return app.Start(ctx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending schema migrations before serving")
	return cmd
}
