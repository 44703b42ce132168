package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aletho/quaero/internal/config"
	"github.com/aletho/quaero/internal/httpapi"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogLevel()

		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagAddr != "" {
			cfg.Addr = flagAddr
		}

		srv := &httpapi.Server{
			Agent:       buildAgent(cfg),
			DemoLocked:  cfg.DemoLocked(),
			DemoAnswer:  cfg.DemoAnswer,
			DemoSources: cfg.DemoSources,
			StaticDir:   cfg.StaticDir,
		}

		log.Info().Str("addr", cfg.Addr).Bool("demo_locked", cfg.DemoLocked()).Msg("listening")
		return srv.Router().Run(cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (defaults to QUAERO_ADDR or :8080)")
}
