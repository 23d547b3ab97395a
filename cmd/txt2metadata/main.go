package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/txt2metadata/internal/mockserver"
	"github.com/ajitpratap0/txt2metadata/pkg/config"
	"github.com/ajitpratap0/txt2metadata/pkg/logger"
	"github.com/ajitpratap0/txt2metadata/pkg/observability"
	"github.com/ajitpratap0/txt2metadata/pkg/txt2metadata"
)

var version = "0.1.0"

// globalFlags are shared by every command
type globalFlags struct {
	configFile  string
	url         string
	matches     int
	timingLevel string
	logLevel    string
	output      string
	timeout     time.Duration
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "txt2metadata",
		Short: "Query the txt2metadata service for metadata suggestions",
		Long: `txt2metadata suggests metadata (DK5 codes, subjects) for articles and free text.

The service URL is taken from --url, the configuration file or TXT2METADATA_URL.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "Path to YAML configuration file")
	root.PersistentFlags().StringVar(&flags.url, "url", "", "Base URL of the txt2metadata service")
	root.PersistentFlags().IntVarP(&flags.matches, "matches", "m", 0, "Number of suggestions to request (default from configuration)")
	root.PersistentFlags().StringVar(&flags.timingLevel, "timing-level", "", "Level request timings are logged at (TRACE, DEBUG, INFO, WARN, ERROR)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", outputJSON, "Output format (json, table)")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 5*time.Minute, "Overall timeout of a lookup, retries included")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("txt2metadata v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "article <article-id>",
		Short: "Suggest metadata for an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lookup(cmd, flags, func(ctx context.Context, c *txt2metadata.Connector, matches int) ([]txt2metadata.Metadata, error) {
				return c.GetMetadataForArticleWithMatches(ctx, args[0], matches)
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "articles <article-id>...",
		Short: "Suggest metadata for a set of articles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lookup(cmd, flags, func(ctx context.Context, c *txt2metadata.Connector, matches int) ([]txt2metadata.Metadata, error) {
				return c.GetMetadataForArticlesWithMatches(ctx, args, matches)
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "text [text]",
		Short: "Suggest metadata for text given as argument or on stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return lookup(cmd, flags, func(ctx context.Context, c *txt2metadata.Connector, matches int) ([]txt2metadata.Metadata, error) {
				return c.GetMetadataForTextWithMatches(ctx, text, matches)
			})
		},
	})

	var addr string
	mockCmd := &cobra.Command{
		Use:   "mock",
		Short: "Run a mock txt2metadata service with built-in fixtures",
		Long: `Run a mock txt2metadata service for local development.

Example:
  txt2metadata mock --addr :8080
  txt2metadata article e70a69a1 --url http://localhost:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMock(flags, addr)
		},
	}
	mockCmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	root.AddCommand(mockCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration from defaults, the optional file,
// the environment and finally the command line flags.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg := config.Default()
	cfg.Logging.OutputPaths = []string{"stderr"}

	if flags.configFile != "" {
		if err := config.LoadInto(flags.configFile, cfg); err != nil {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if flags.url != "" {
		cfg.Connector.BaseURL = flags.url
	}
	if flags.matches > 0 {
		cfg.Connector.DefaultMatches = flags.matches
	}
	if flags.timingLevel != "" {
		cfg.Connector.TimingLogLevel = flags.timingLevel
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	return cfg, nil
}

type lookupFunc func(ctx context.Context, c *txt2metadata.Connector, matches int) ([]txt2metadata.Metadata, error)

// lookup creates a connector from the configuration, runs fn and prints its result
func lookup(cmd *cobra.Command, flags *globalFlags, fn lookupFunc) error {
	if err := validateOutput(flags.output); err != nil {
		return err
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg.Tracing.ServiceName = txt2metadata.ServiceName
	cfg.Tracing.ServiceVersion = version
	if err := observability.Init(cfg.Tracing); err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.Shutdown(ctx); err != nil {
			log.Warn("failed to shutdown tracing", zap.Error(err))
		}
	}()

	connector, err := txt2metadata.NewFromConfig(cfg, txt2metadata.WithLogger(log))
	if err != nil {
		return err
	}
	defer connector.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, flags.timeout)
	defer cancel()

	suggestions, err := fn(ctx, connector, cfg.Connector.DefaultMatches)
	if err != nil {
		return err
	}
	return printSuggestions(cmd.OutOrStdout(), flags.output, suggestions)
}

func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read text from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// runMock serves the mock service and the Prometheus metrics until interrupted
func runMock(flags *globalFlags, addr string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(gin.ReleaseMode)
	service := mockserver.New(log)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", service.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("mock txt2metadata service listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down mock service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
