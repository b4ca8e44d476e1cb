package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitledger/internal/command"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/flatfile"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

const prompt = "> "

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("Exiting", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) error {
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "backend", cfg.Backend, "path", cfg.DataPath)

	collector := metrics.NewCollector("splitledger")
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	if err := collector.Register(reg); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	l := ledger.New(
		ledger.WithMaxAmount(cfg.MaxAmount),
		ledger.WithDelimiter(cfg.Delimiter),
	)
	svc := service.NewLedgerService(l, store,
		service.WithMetrics(collector),
		service.WithLogger(logger),
	)
	result, err := svc.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	for _, lineErr := range result.Errors {
		fmt.Fprintf(out, "Skipped corrupt record: %v\n", lineErr)
	}
	fmt.Fprintf(out, "Loaded %d expense(s). Type help for commands.\n", len(result.Activities))

	dispatcher := command.NewDispatcher(svc, middleware.Logging(logger))
	return repl(ctx, dispatcher, in, out)
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return sqlite.New(cfg.DataPath)
	default:
		return flatfile.New(cfg.DataPath, cfg.Delimiter)
	}
}

// repl reads commands until exit, end of input or cancellation.
func repl(ctx context.Context, d *command.Dispatcher, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, prompt)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		output, exit, err := d.Execute(ctx, scanner.Text())
		if output != "" {
			fmt.Fprintln(out, output)
		}
		if err != nil {
			fmt.Fprintf(out, "Error (%s): %v\n", models.Kind(err), err)
		}
		if exit {
			return nil
		}
		fmt.Fprint(out, prompt)
	}
	return scanner.Err()
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.HTTPLogging(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Metrics server starting", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}
