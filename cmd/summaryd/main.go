package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"summaryd/internal/common/fsutil"
	"summaryd/internal/config"
	"summaryd/internal/generate"
	"summaryd/internal/httpapi"
	"summaryd/internal/pipeline"
	"summaryd/internal/translate"
)

// version is stamped by the build (-ldflags "-X main.version=...").
var version = "dev"

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitCSV splits a comma-separated flag value, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "summaryd",
		Short:         "Streaming translate-and-summarize daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var (
		cfgPath       string
		addr          string
		logLevel      string
		translatorURL string
		generatorURL  string
		generatorKey  string
		generatorMod  string
		modelPath     string
		modelCtx      int
		modelThreads  int
		sourceLang    string
		targetLang    string
		stopMarker    string
		bullets       int
		maxBodyBytes  int64
		reqTimeout    int
		connTimeout   int
		streamTimeout int
		corsOrigins   string
	)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{}
			if cfgPath != "" {
				p, err := fsutil.ExpandHome(cfgPath)
				if err != nil {
					return err
				}
				cfg, err = config.Load(p)
				if err != nil {
					return fmt.Errorf("load config %s: %w", cfgPath, err)
				}
			}
			// Flags win over the config file; config file wins over defaults.
			override := func(dst *string, flag string, val string) {
				if cmd.Flags().Changed(flag) || *dst == "" {
					*dst = val
				}
			}
			override(&cfg.Addr, "addr", addr)
			override(&cfg.LogLevel, "log-level", logLevel)
			override(&cfg.TranslatorURL, "translator-url", translatorURL)
			override(&cfg.GeneratorURL, "generator-url", generatorURL)
			override(&cfg.GeneratorAPIKey, "generator-api-key", generatorKey)
			override(&cfg.GeneratorModel, "generator-model", generatorMod)
			override(&cfg.ModelPath, "model-path", modelPath)
			override(&cfg.SourceLang, "source-lang", sourceLang)
			override(&cfg.TargetLang, "target-lang", targetLang)
			override(&cfg.StopMarker, "stop-marker", stopMarker)
			if cmd.Flags().Changed("bullets") || cfg.BulletCount == 0 {
				cfg.BulletCount = bullets
			}
			if cmd.Flags().Changed("model-ctx") || cfg.ModelCtx == 0 {
				cfg.ModelCtx = modelCtx
			}
			if cmd.Flags().Changed("model-threads") || cfg.ModelThreads == 0 {
				cfg.ModelThreads = modelThreads
			}
			if cmd.Flags().Changed("max-body-bytes") || cfg.MaxBodyBytes == 0 {
				cfg.MaxBodyBytes = maxBodyBytes
			}
			if cmd.Flags().Changed("request-timeout-sec") || cfg.RequestTimeoutSec == 0 {
				cfg.RequestTimeoutSec = reqTimeout
			}
			if cmd.Flags().Changed("connect-timeout-sec") || cfg.ConnectTimeoutSec == 0 {
				cfg.ConnectTimeoutSec = connTimeout
			}
			if cmd.Flags().Changed("stream-timeout-sec") || cfg.StreamTimeoutSec == 0 {
				cfg.StreamTimeoutSec = streamTimeout
			}
			if cmd.Flags().Changed("cors-origins") && corsOrigins != "" {
				cfg.CORSEnabled = true
				cfg.CORSAllowedOrigins = splitCSV(corsOrigins)
			}
			return run(cfg)
		},
	}
	f := serve.Flags()
	f.StringVar(&cfgPath, "config", envOr("SUMMARYD_CONFIG", ""), "Path to config file (.yaml/.json/.toml)")
	f.StringVar(&addr, "addr", envOr("SUMMARYD_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	f.StringVar(&logLevel, "log-level", envOr("SUMMARYD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	f.StringVar(&translatorURL, "translator-url", envOr("SUMMARYD_TRANSLATOR_URL", "http://127.0.0.1:5000"), "Base URL of the translation server")
	f.StringVar(&generatorURL, "generator-url", envOr("SUMMARYD_GENERATOR_URL", "http://127.0.0.1:8081"), "Base URL of the llama-server completion endpoint")
	f.StringVar(&generatorKey, "generator-api-key", envOr("SUMMARYD_GENERATOR_API_KEY", ""), "Bearer token for the generator endpoint")
	f.StringVar(&generatorMod, "generator-model", envOr("SUMMARYD_GENERATOR_MODEL", ""), "Model name forwarded to the generator endpoint")
	f.StringVar(&modelPath, "model-path", envOr("SUMMARYD_MODEL_PATH", ""), "Path to a local GGUF model (uses in-process llama instead of generator-url)")
	f.IntVar(&modelCtx, "model-ctx", 4096, "Context size for the local model")
	f.IntVar(&modelThreads, "model-threads", 4, "CPU threads for the local model")
	f.StringVar(&sourceLang, "source-lang", envOr("SUMMARYD_SOURCE_LANG", "heb_Hebr"), "NLLB tag of the input language")
	f.StringVar(&targetLang, "target-lang", envOr("SUMMARYD_TARGET_LANG", "eng_Latn"), "NLLB tag of the generation language")
	f.StringVar(&stopMarker, "stop-marker", envOr("SUMMARYD_STOP_MARKER", "END SUMMARY"), "Phrase that ends generation")
	f.IntVar(&bullets, "bullets", 5, "Number of summary bullets requested in the prompt")
	f.Int64Var(&maxBodyBytes, "max-body-bytes", 1<<20, "Maximum request body size in bytes")
	f.IntVar(&reqTimeout, "request-timeout-sec", 300, "Per-call timeout for translator requests")
	f.IntVar(&connTimeout, "connect-timeout-sec", 10, "Dial timeout for backend connections")
	f.IntVar(&streamTimeout, "stream-timeout-sec", 0, "Whole-stream timeout for one summarize session (0 disables)")
	f.StringVar(&corsOrigins, "cors-origins", envOr("SUMMARYD_CORS_ORIGINS", ""), "Comma-separated allowed CORS origins (empty disables CORS)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("summaryd", version)
		},
	}

	root.AddCommand(serve, versionCmd)
	return root
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	var out io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("svc", "summaryd").Logger()
}

func run(cfg config.Config) error {
	logger := newLogger(cfg.LogLevel)

	tr := translate.NewClient(cfg.TranslatorURL, time.Duration(cfg.RequestTimeoutSec)*time.Second)

	var gen generate.Source
	if cfg.ModelPath != "" {
		mp, err := fsutil.ExpandHome(cfg.ModelPath)
		if err != nil {
			return err
		}
		if !fsutil.PathExists(mp) {
			return fmt.Errorf("model file not found: %s", mp)
		}
		gen = generate.NewLocalSource(mp, cfg.ModelCtx, cfg.ModelThreads)
	} else {
		gen = generate.NewServerSource(cfg.GeneratorURL, cfg.GeneratorAPIKey, cfg.GeneratorModel,
			time.Duration(cfg.RequestTimeoutSec)*time.Second, time.Duration(cfg.ConnectTimeoutSec)*time.Second)
	}

	p, err := pipeline.New(tr, gen, pipeline.Config{
		SourceLang: cfg.SourceLang,
		TargetLang: cfg.TargetLang,
		StopMarker: cfg.StopMarker,
		Bullets:    cfg.BulletCount,
	}, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	svc := pipeline.NewService(p, cfg.TranslatorURL)

	// Base context canceled on shutdown so in-flight streams end too.
	baseCtx, baseCancel := context.WithCancel(context.Background())
	defer baseCancel()

	httpapi.SetLogger(logger)
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetStreamTimeoutSeconds(int64(cfg.StreamTimeoutSec))
	if cfg.CORSEnabled {
		methods := cfg.CORSAllowedMethods
		if len(methods) == 0 {
			methods = []string{"GET", "POST", "OPTIONS"}
		}
		headers := cfg.CORSAllowedHeaders
		if len(headers) == 0 {
			headers = []string{"Content-Type", "X-Log-Level"}
		}
		httpapi.SetCORSOptions(true, cfg.CORSAllowedOrigins, methods, headers)
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(svc)}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("generator", gen.Name()).Str("translator", cfg.TranslatorURL).Msg("listening")
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
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}
	baseCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
	return nil
}

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "summaryd:", err)
		os.Exit(1)
	}
}
