package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/billsplitter/internal/auth"
	"github.com/mmynk/billsplitter/internal/config"
	"github.com/mmynk/billsplitter/internal/metrics"
	"github.com/mmynk/billsplitter/internal/middleware"
	"github.com/mmynk/billsplitter/internal/notify"
	"github.com/mmynk/billsplitter/internal/scan"
	"github.com/mmynk/billsplitter/internal/service"
	"github.com/mmynk/billsplitter/internal/storage/sqlite"
	"github.com/mmynk/billsplitter/internal/vision"
	"github.com/mmynk/billsplitter/pkg/api/apiconnect"
	"github.com/mmynk/billsplitter/pkg/logging"
)

// Bill requests carry only JSON bill state.
const maxBillBytes = 1 << 20

func main() {
	hashCode := flag.String("hash-access-code", "", "print the bcrypt hash of an access code for SCAN_ACCESS_CODE_HASH and exit")
	flag.Parse()

	if *hashCode != "" {
		hash, err := auth.HashAccessCode(*hashCode)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Initialize the scan journal
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	// Scan flow
	classifier := vision.NewAnthropicClassifier(vision.Config{
		APIKey:    cfg.AnthropicAPIKey,
		Model:     cfg.VisionModel,
		MaxTokens: cfg.VisionMaxTokens,
		Timeout:   cfg.VisionTimeout,
	})
	if cfg.AnthropicAPIKey == "" {
		logger.Warn("ANTHROPIC_API_KEY is not set; bill scanning will fail")
	}
	notifier := notify.New(notify.Config{
		TelegramToken:  cfg.TelegramBotToken,
		TelegramChatID: cfg.TelegramChatID,
		Currency:       cfg.DefaultCurrency,
		Location:       cfg.NotifyLocation,
	}, m, logger)
	scanner := scan.NewService(classifier, notifier, store, m, logger, scan.Config{
		MaxImageBytes: cfg.MaxImageBytes,
	})

	// Access
	gate, err := auth.NewAccessGate(cfg.ScanAccessCode, cfg.ScanAccessCodeHash)
	if err != nil {
		return fmt.Errorf("configure access gate: %w", err)
	}
	if !gate.Configured() {
		logger.Warn("No scan access code configured; scanning is disabled")
	}
	if cfg.SessionSecret == "" {
		logger.Warn("SESSION_SECRET is not set; sessions will not survive a restart")
	}
	jwtManager := auth.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL)

	limiter, err := middleware.NewLimiter(cfg.ScanRateLimit)
	if err != nil {
		return fmt.Errorf("SCAN_RATE_LIMIT: %w", err)
	}

	mux := http.NewServeMux()

	// Register Connect services
	billPath, billHandler := apiconnect.NewBillServiceHandler(
		service.NewBillService(cfg.DefaultCurrency, m),
		connect.WithInterceptors(middleware.LoggingInterceptor()),
		connect.WithReadMaxBytes(maxBillBytes),
	)
	mux.Handle(billPath, billHandler)

	scanPath, scanHandler := apiconnect.NewScanServiceHandler(
		service.NewScanService(gate, jwtManager, scanner, store, m, logger),
		connect.WithInterceptors(
			middleware.RateLimit(limiter, cfg.TrustProxy,
				apiconnect.ScanServiceVerifyAccessProcedure,
				apiconnect.ScanServiceScanBillProcedure,
			),
			middleware.RequireScanAccess(jwtManager, apiconnect.ScanServiceVerifyAccessProcedure),
			middleware.LoggingInterceptor(),
		),
		// Images arrive base64-encoded inside JSON.
		connect.WithReadMaxBytes(cfg.MaxImageBytes*4/3+64<<10),
	)
	mux.Handle(scanPath, scanHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	// Serve static files
	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		return fmt.Errorf("resolve static path: %w", err)
	}
	logger.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))

	handler := middleware.Metrics(m)(middleware.Logging(middleware.CORS(cfg.CORSAllowedOrigins)(mux)))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", server.Addr, "url", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown incomplete", "error", err)
	}
	if err := scanner.Wait(shutdownCtx); err != nil {
		logger.Warn("Pending scan notifications dropped", "error", err)
	}
	logger.Info("Server stopped")
	return nil
}

// staticHandler serves the frontend. Unknown paths fall back to index.html.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unknown RPCs must not be answered with the frontend
		if strings.HasPrefix(r.URL.Path, "/billsplit.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	})
}
