package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/factcheck/internal/metrics"
	"github.com/ppiankov/factcheck/internal/pipeline"
	"github.com/ppiankov/factcheck/internal/server"
)

var (
	serveAddr   string
	metricsAddr string
	noMetrics   bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web form and JSON API",
	Long: `Serve runs an HTTP server with:
- A web form that checks pasted text and shows one row per claim
- A JSON API at POST /api/check for text or URL input
- A health endpoint at /health
- Prometheus metrics at /metrics (or on a separate --metrics-addr)

Example:
  factcheck serve
  factcheck serve --addr :9000 --corrector --llm-provider ollama
  factcheck serve --metrics-addr :9100`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve metrics on a separate address")
	serveCmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable Prometheus metrics")

	addPipelineFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	logger := setupLogger(cfg.Log, verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipelineOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	var serverOpts []server.Option
	serverOpts = append(serverOpts, server.WithLogger(logger))

	var metricsHandler http.Handler
	if !noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)
		pipelineOpts = append(pipelineOpts, pipeline.WithMetrics(m))
		metricsHandler = m.Handler()
		if metricsAddr == "" {
			serverOpts = append(serverOpts, server.WithMetricsHandler(metricsHandler))
		}
	}

	p, err := pipeline.NewPipeline(cfg, pipelineOpts...)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	srv, err := server.New(p, cfg.Server, serverOpts...)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if metricsHandler != nil && metricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, metricsAddr, metricsHandler, cfg.Server.ShutdownTimeout)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// serveMetrics exposes handler at /metrics on addr until ctx is cancelled
func serveMetrics(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics listener: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
