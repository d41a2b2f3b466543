package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sentimentd/internal/classifier"
	"sentimentd/internal/config"
	"sentimentd/internal/engine"
	"sentimentd/internal/httpapi"
)

// Build metadata, set via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sentimentd",
		Short:         "Single-model text-sentiment inference daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	// Flags with environment variable defaults
	f := root.PersistentFlags()
	f.String("addr", envOr("SENTIMENTD_ADDR", ""), "HTTP listen address (default :8080)")
	f.String("model", envOr("SENTIMENTD_MODEL", ""), "Path to a JSON sentiment weights file (default: embedded lexicon)")
	f.String("config", envOr("SENTIMENTD_CONFIG", ""), "Path to a config file (.yaml/.yml/.json/.toml)")
	f.String("log-level", envOr("SENTIMENTD_LOG_LEVEL", ""), "Log level: debug|info|warn|error|off")
	f.Int("max-text-chars", 0, "Maximum input text length in characters (default 512)")
	f.Int64("max-body-bytes", 0, "Maximum request body size in bytes (default 1 MiB)")
	f.String("cors-origins", envOr("SENTIMENTD_CORS_ORIGINS", ""), "Comma-separated allowed CORS origins (enables CORS)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sentimentd %s (%s)\n", version, commit)
		},
	}

	checkModel := &cobra.Command{
		Use:   "check-model [path]",
		Short: "Validate a sentiment weights file without serving",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Root().PersistentFlags().GetString("model")
			if len(args) == 1 {
				path = args[0]
			}
			var (
				m   *classifier.LexiconModel
				err error
			)
			if path == "" {
				m, err = classifier.Default()
			} else {
				m, err = classifier.LoadFile(path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "model %s ok (labels: %s)\n", m.ModelID(), strings.Join(m.Labels(), ", "))
			return nil
		},
	}

	root.AddCommand(serve, versionCmd, checkModel)
	return root
}

// resolveConfig layers defaults under the config file under flags.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	fl := cmd.Root().PersistentFlags()
	var cfg config.Config
	if path, _ := fl.GetString("config"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if v, _ := fl.GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v, _ := fl.GetString("model"); v != "" {
		cfg.ModelPath = v
	}
	if v, _ := fl.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := fl.GetInt("max-text-chars"); v != 0 {
		cfg.MaxTextChars = v
	}
	if v, _ := fl.GetInt64("max-body-bytes"); v != 0 {
		cfg.MaxBodyBytes = v
	}
	if v, _ := fl.GetString("cors-origins"); v != "" {
		cfg.CORS.Enabled = true
		cfg.CORS.AllowedOrigins = splitCSV(v)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	// One-shot model construction. A load failure is recorded, not fatal:
	// the server still comes up and answers 503 on /predict.
	eng := engine.New(engine.Config{ModelPath: cfg.ModelPath}, logger)

	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetMaxTextChars(cfg.MaxTextChars)
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders)

	baseCtx, baseCancel := context.WithCancel(context.Background())
	defer baseCancel()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(eng)}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Bool("model_ready", eng.Ready()).Msg("sentimentd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	baseCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitCSV splits a comma-separated flag value, trimming whitespace and
// dropping empty items.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
