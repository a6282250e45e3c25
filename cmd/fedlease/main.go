// Command fedlease collects the financial lease notices published on
// fedresurs.ru for a list of tax identifiers and writes them to a
// timestamped spreadsheet.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"fedlease/internal/collector"
	"fedlease/internal/config"
	apperrors "fedlease/internal/errors"
	"fedlease/internal/exporter"
	"fedlease/internal/fedresurs"
	"fedlease/internal/infrastructure"
	"fedlease/internal/input"
	"fedlease/internal/ratelimit"
	"fedlease/pkg/contracts"
	"fedlease/pkg/contracts/domain"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	shutdownTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}

// options are the command-line overrides
type options struct {
	configFile  string
	innFile     string
	from        string
	to          string
	outDir      string
	format      string
	metricsAddr string
	version     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "path to a YAML config file (defaults to config.yaml or configs/config.yaml if present)")
	fs.StringVar(&opts.innFile, "inn-file", "", "file with one ИНН per line (defaults to \""+config.DefaultInputFile+"\")")
	fs.StringVar(&opts.from, "from", "", "first day of the period (YYYY-MM-DD); prompted when empty")
	fs.StringVar(&opts.to, "to", "", "last day of the period (YYYY-MM-DD); prompted when empty")
	fs.StringVar(&opts.outDir, "out", "", "directory to save the result (defaults to the working directory)")
	fs.StringVar(&opts.format, "format", "xlsx", "output format: xlsx | csv")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on host:port while collecting")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if (opts.from == "") != (opts.to == "") {
		return nil, errors.New("-from and -to must be given together")
	}
	return opts, nil
}

// loadConfig applies the flag overrides on top of file and environment
func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.innFile != "" {
		cfg.Paths.InputFile = opts.innFile
	}
	if opts.outDir != "" {
		cfg.Paths.OutputDir = opts.outDir
	}
	if opts.metricsAddr != "" {
		cfg.Telemetry.MetricsAddr = opts.metricsAddr
		if cfg.Telemetry.MetricExporter == "none" {
			cfg.Telemetry.MetricExporter = "prometheus"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) int {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stdout, err)
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	format, err := exporter.ParseFormat(opts.format)
	if err != nil {
		fmt.Fprintln(stdout, err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return exitError
	}

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		return exitError
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		return exitError
	}

	if cfg.Logging.Output != "console" {
		cfg.Logging.FilePath = paths.GetLogPath(cfg.Logging.FilePath)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution(logger)

	ctx = infrastructure.EnsureTraceID(ctx)

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		return exitError
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(sctx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewScanMetrics(providers.Meter)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create metrics", slog.String("error", err.Error()))
		return exitError
	}

	logger.InfoContext(ctx, "Starting lease notice collection",
		slog.String("version", contracts.Version),
		slog.String("registry", cfg.Registry.BaseURL),
		slog.String("input_file", paths.InputFile),
		slog.String("output_dir", paths.OutputDir),
		slog.String("format", string(format)))

	inns, err := input.ReadINNs(paths.InputFile)
	if err != nil {
		logger.WarnContext(ctx, config.MsgInputFileMissing,
			slog.String("path", paths.InputFile),
			slog.String("error", err.Error()))
		return exitError
	}

	window, err := readWindow(opts, stdin, stdout, logger)
	if err != nil {
		logger.ErrorContext(ctx, "No valid date range", slog.String("error", err.Error()))
		return exitError
	}

	gate, err := ratelimit.New(cfg.Rate)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create rate gate", slog.String("error", err.Error()))
		return exitError
	}

	client := fedresurs.NewClient(cfg.Registry, cfg.Collect, gate,
		fedresurs.WithLogger(logger),
		fedresurs.WithTracer(providers.Tracer),
		fedresurs.WithMetrics(metrics))
	coll := collector.New(client, gate, logger, metrics)

	table, summary, err := collect(ctx, coll, inns, window, cfg.Telemetry.MetricsAddr, providers.PrometheusHTTP, logger)
	if err != nil {
		reportFatal(ctx, logger, err)
		return exitError
	}

	out, err := exporter.Export(paths, format, table, time.Now())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to write results", slog.String("error", err.Error()))
		return exitError
	}

	logger.InfoContext(ctx, "Results written",
		slog.String("path", out),
		slog.Any("summary", summary))
	logger.InfoContext(ctx, config.MsgDone)
	return exitOK
}

// readWindow takes the period from the flags, or asks for it
func readWindow(opts *options, stdin io.Reader, stdout io.Writer, logger *slog.Logger) (domain.DateWindow, error) {
	if opts.from != "" {
		return input.ParseWindow(opts.from, opts.to)
	}
	return input.PromptWindow(stdin, stdout, logger)
}

// collect runs the collector, with the metrics listener beside it when addr
// is set. The listener stops when the collection ends.
func collect(ctx context.Context, coll *collector.Collector, inns []string, window domain.DateWindow,
	addr string, metrics http.Handler, logger *slog.Logger) (*exporter.Table, collector.Summary, error) {
	g, gctx := errgroup.WithContext(ctx)

	var srv *http.Server
	if addr != "" {
		srv = infrastructure.NewMetricsServer(addr, metrics)
		g.Go(func() error {
			logger.InfoContext(gctx, "Serving metrics", slog.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	var (
		table   *exporter.Table
		summary collector.Summary
	)
	g.Go(func() error {
		if srv != nil {
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = srv.Shutdown(sctx)
			}()
		}
		var err error
		table, summary, err = coll.Run(gctx, inns, window)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, summary, err
	}
	return table, summary, nil
}

// reportFatal logs the operator-facing line for an aborted run
func reportFatal(ctx context.Context, logger *slog.Logger, err error) {
	attrs := []any{
		slog.String("error_type", string(apperrors.TypeOf(err))),
		slog.String("error", err.Error()),
	}
	switch {
	case errors.Is(err, context.Canceled):
		logger.WarnContext(ctx, "Collection interrupted, nothing written", attrs...)
	case apperrors.IsType(err, apperrors.ErrTypeTimeout):
		logger.WarnContext(ctx, config.MsgTimeout, attrs...)
	case apperrors.IsType(err, apperrors.ErrTypeNetwork):
		logger.WarnContext(ctx, config.MsgConnectionFailed, attrs...)
	default:
		logger.ErrorContext(ctx, "Collection failed", attrs...)
	}
}
