// Package commands implements clustermapctl's CLI command handlers.
package commands

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cluster "github.com/markerforest/clustermap"
	"github.com/markerforest/clustermap/internal/config"
	"github.com/markerforest/clustermap/internal/httpapi"
)

// NewServeCommand builds the "serve" subcommand: load config, construct a
// SyncEngine, and host it behind the HTTP API.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API over a fresh engine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host, _ = cmd.Flags().GetString("host")
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port, _ = cmd.Flags().GetInt("port")
			}

			logger := newLogger(cfg.Logging)
			slog.SetDefault(logger)

			engine := cluster.NewEngine(
				cluster.NewMercatorProjector(func() float64 { return 1 }),
				cluster.WithDiagnostics(cluster.NewSlogDiagnostics(logger)),
				cluster.WithDepth(cfg.Clustering.TreeDepth),
				cluster.WithClusterDistance(cfg.Clustering.DistancePx),
			)
			engine.SetClustering(cfg.Clustering.Enabled)

			sync := cluster.NewSyncEngine(engine)
			server := httpapi.NewServer(sync, httpapi.Options{
				MarkerImage: cfg.Clustering.MarkerImage,
			})

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			logger.Info("listening",
				slog.String("addr", addr),
				slog.Bool("clustering", cfg.Clustering.Enabled),
				slog.Int("tree_depth", cfg.Clustering.TreeDepth),
				slog.Float64("cluster_distance_px", cfg.Clustering.DistancePx),
			)

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return httpServer.ListenAndServe()
		},
	}
	cmd.Flags().String("host", "", "override server.host")
	cmd.Flags().Int("port", 0, "override server.port")
	return cmd
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
