package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DSACMS/survey-session-client/api"
	"github.com/DSACMS/survey-session-client/internal/terminal"
	"github.com/DSACMS/survey-session-client/pkg/circuitbreaker"
	"github.com/DSACMS/survey-session-client/pkg/core"
	"github.com/DSACMS/survey-session-client/pkg/directory"
	"github.com/DSACMS/survey-session-client/pkg/flow"
	"github.com/DSACMS/survey-session-client/pkg/identity"
	redisLocal "github.com/DSACMS/survey-session-client/pkg/redis"
	"github.com/DSACMS/survey-session-client/pkg/remote"
	"github.com/DSACMS/survey-session-client/pkg/sessionstore"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	serveStub := flag.Bool("serve-stub", false, "run the backend contract stub instead of the client")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, *serveStub, os.Stdin, os.Stdout, os.Stderr)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run wires the stack from the environment. Logs go to stderr; stdout is
// the client's screen.
func run(ctx context.Context, serveStub bool, stdin io.Reader, stdout, stderr io.Writer) error {
	if err := core.LoadEnv(); err != nil {
		return err
	}

	cfg, err := core.NewConfigFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := core.NewLogger(cfg, stderr)

	var otelService core.OtelService
	if !cfg.Otel.Disable {
		otelService, err = core.NewOtelService(ctx, &cfg)
		if err != nil {
			return fmt.Errorf("start otel: %w", err)
		}
		defer otelService.Shutdown(context.Background(), logger)

		logger = core.NewLoggerWithOtel(cfg, stderr, otelService)
	}
	slog.SetDefault(logger)

	if serveStub {
		return runStub(ctx, cfg, logger, otelService)
	}
	return runClient(ctx, cfg, logger, otelService, stdin, stdout)
}

func runClient(ctx context.Context, cfg core.Config, logger *slog.Logger, otelService core.OtelService, stdin io.Reader, stdout io.Writer) error {
	var rdb *redis.Client
	if cfg.Session.Backend == core.SessionBackendRedis || cfg.Breaker.Enable {
		var err error
		rdb, err = redisLocal.Connect(ctx, redisLocal.ConfigFromCore(cfg), logger)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	var storage sessionstore.Storage = sessionstore.NewMemory()
	if cfg.Session.Backend == core.SessionBackendRedis {
		sessionID := cfg.Session.ID
		if sessionID == "" {
			sessionID = sessionstore.NewSessionID()
		}
		logger.Info("using redis session", slog.String("session_id", sessionID))

		storage = sessionstore.NewRedis(rdb, sessionID, sessionstore.RedisOptions{
			Prefix: cfg.Session.KeyPrefix,
			TTL:    cfg.Session.TTL,
		})
	}

	var breaker circuitbreaker.Breaker
	if cfg.Breaker.Enable {
		breaker = circuitbreaker.NewRedisBreaker(rdb, "backend", circuitbreaker.OptionsFromCore(cfg.Breaker), logger)
	}

	remoteOpts := remote.Options{
		Logger:  logger,
		Timeout: cfg.Backend.Timeout,
		Breaker: breaker,
	}
	if otelService != nil {
		remoteOpts.TracerProvider = otelService.TracerProvider()
		remoteOpts.MeterProvider = otelService.MeterProvider()
	}

	store := identity.NewStore(storage, logger)
	client := remote.New(cfg.Backend, remoteOpts)

	shell := terminal.New(store, client, stdin, stdout, terminal.Options{
		Logger:        logger,
		RedirectDelay: cfg.Flow.RedirectDelay,
	})

	start := flow.Login
	if store.IsAuthenticated(ctx) {
		start = flow.Profile
	}

	return shell.Run(ctx, start)
}

func runStub(ctx context.Context, cfg core.Config, logger *slog.Logger, otelService core.OtelService) error {
	var rdb *redis.Client
	if cfg.Stub.Redis {
		var err error
		rdb, err = redisLocal.Connect(ctx, redisLocal.ConfigFromCore(cfg), logger)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	app, err := buildStubApp(cfg, logger, otelService, rdb)
	if err != nil {
		return fmt.Errorf("build stub app: %w", err)
	}

	logger.Info("backend stub listening", slog.String("addr", cfg.Stub.Addr))
	return runServer(ctx, app, cfg.Stub.Addr)
}

func buildStubApp(cfg core.Config, logger *slog.Logger, otelService core.OtelService, rdb *redis.Client) (*fiber.App, error) {
	users := directory.Demo()
	if cfg.Stub.UsersFile != "" {
		var err error
		users, err = directory.Load(cfg.Stub.UsersFile)
		if err != nil {
			return nil, err
		}
		logger.Info("users loaded", slog.Int("count", users.Len()))
	}

	return api.New(&api.Config{
		Otel:   otelService,
		Logger: logger,
		Users:  users,
		Redis:  rdb,
		Config: cfg,
	})
}

func runServer(ctx context.Context, app *fiber.App, addr string) error {
	srvErr := make(chan error, 1)

	go func() {
		srvErr <- app.Listen(addr)
	}()

	select {
	case err := <-srvErr:
		return err
	case <-ctx.Done():
	}

	// inline if since this err is only needed in the scope of this if statement.
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
