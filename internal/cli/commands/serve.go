package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/metaobjects-dev/metaobjects/internal/cli/config"
	"github.com/metaobjects-dev/metaobjects/internal/cli/ui"
	"github.com/metaobjects-dev/metaobjects/web"
)

// NewServeCommand creates the serve command: load metadata and serve
// the read-only introspection API.
func NewServeCommand() *cobra.Command {
	var (
		verbose bool
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve [files...]",
		Short: "Serve the metadata introspection API",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)
			defer log.Sync() //nolint:errcheck

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if host == "" {
				host = cfg.Server.Host
			}
			if port == 0 {
				port = cfg.Server.Port
			}

			l, types, _, err := bootstrap(log, args)
			if err != nil {
				return err
			}

			addr := fmt.Sprintf("%s:%d", host, port)
			ui.Info(cmd.OutOrStdout(), "serving metadata introspection API on http://%s/api/meta", addr)
			server := web.NewServer(l, types, log)
			return http.ListenAndServe(addr, server.Router())
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVar(&host, "host", "", "bind host (default from metaobjects.yml)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "bind port (default from metaobjects.yml)")
	return cmd
}
