package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/notify"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "token":
			if err := printToken(cfg, os.Args[2:]); err != nil {
				slog.Error("Failed to issue token", "error", err)
				os.Exit(1)
			}
			return
		default:
			fmt.Fprintf(os.Stderr, "usage: %s [token <member>]\n", os.Args[0])
			os.Exit(2)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// printToken writes a bearer token for the given member to stdout.
func printToken(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: token <member>")
	}
	if !cfg.AuthEnabled() {
		return errors.New("JWT_SECRET is not set")
	}
	member, err := models.NewMember(args[0])
	if err != nil {
		return err
	}
	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(member)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func newNotifier(cfg *config.Config) (notify.Notifier, error) {
	if cfg.AMQPURL == "" {
		slog.Info("No AMQP URL configured, settlement notifications go to the log")
		return notify.NewLogNotifier(nil), nil
	}
	n, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	if err != nil {
		return nil, fmt.Errorf("connect to AMQP: %w", err)
	}
	slog.Info("AMQP notifier ready", "exchange", cfg.AMQPExchange, "routing_key", cfg.AMQPRoutingKey)
	return n, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	notifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	defer notifier.Close()

	m := metrics.New()
	svc := service.NewLedgerService(store, service.Options{
		Notifier:       notifier,
		Metrics:        m,
		SummaryWorkers: cfg.SummaryWorkers,
	})

	// Interceptors run outermost first: metrics time everything, auth puts
	// the member in the context before the call is logged.
	interceptors := []connect.Interceptor{m.Interceptor()}
	if cfg.AuthEnabled() {
		interceptors = append(interceptors, middleware.RequireAuth(auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)))
		slog.Info("Authentication enabled", "token_ttl", cfg.TokenTTL)
	} else {
		slog.Warn("Authentication disabled, set JWT_SECRET to require bearer tokens")
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor())

	mux := http.NewServeMux()
	path, handler := api.NewLedgerServiceHandler(svc, connect.WithInterceptors(interceptors...))
	mux.Handle(path, handler)
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok\n"))
	})

	h := middleware.RequestLogger(middleware.CORS(cfg.CORSOrigin)(mux))

	// Wrap with h2c for HTTP/2 without TLS
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(h, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost:%s", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
