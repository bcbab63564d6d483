package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"arcview/internal/app"
	"arcview/internal/server"
	"arcview/internal/telemetry"
)

func newServeCmd(f *flags) *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve puzzles over HTTP for remote viewers",
		Long: `serve exposes the configured puzzle source as
  GET <list-path>         {"puzzles":[...]}
  GET /data/<id>.json     one validated puzzle document
  GET /healthz, /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if noCache {
				cfg.Server.CacheList = false
			}
			return runServer(cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "list the data directory on every request")
	return cmd
}

func runServer(cmd *cobra.Command, cfg app.Config) error {
	logger := telemetry.NewTextLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if cfg.LogPath != "" {
		var err error
		if logger, err = telemetry.NewJSONLogger(cfg.LogPath, cfg.LogLevel); err != nil {
			return err
		}
	}
	defer logger.Close()

	gin.SetMode(gin.ReleaseMode)
	local := cfg.RemoteURL == ""
	srv := server.New(server.Options{
		Store:           app.NewStore(cfg),
		Logger:          logger.Logger,
		ListPath:        cfg.ListPath,
		CacheList:       cfg.Server.CacheList && local,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	ctx := cmd.Context()
	if cfg.Server.CacheList && local {
		stop, err := srv.Watch(ctx, cfg.DataDir)
		if err != nil {
			logger.Warn("watch.disabled", "dir", cfg.DataDir, "err", err)
		} else {
			defer stop()
		}
	}
	logger.Info("server.start", "source", cfg.Source(), "addr", cfg.Server.Addr)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
