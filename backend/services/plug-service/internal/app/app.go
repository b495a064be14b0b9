package app

import (
	"context"
	"net"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plugsim/backend/libs/password"
	"plugsim/backend/libs/random"
	"plugsim/backend/libs/shelly"
	"plugsim/backend/libs/token"
	"plugsim/backend/services/plug-service/internal/config"
	httpserver "plugsim/backend/services/plug-service/internal/http"
	"plugsim/backend/services/plug-service/internal/http/handlers"
	"plugsim/backend/services/plug-service/internal/http/middleware"
	"plugsim/backend/services/plug-service/internal/ws"
)

// App wires plug-service dependencies.
type App struct {
	addr   string
	server *httpserver.Server
	stream *ws.Server
	logger *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	device := shelly.NewDevice(random.New(cfg.Random.Seed), logger.Named("device"))

	stream := ws.NewServer(ws.NewManager(), device, cfg.StatusInterval(), logger.Named("ws"))

	var tokens middleware.TokenValidator
	if cfg.Auth.JWTSecret != "" {
		tokens = token.NewService(cfg.Auth.JWTSecret, 0)
	}
	creds := password.Credentials{Username: cfg.Auth.Username, Hash: cfg.Auth.PasswordHash}

	router := httpserver.NewRouter(httpserver.Routes{
		Device:       handlers.NewDeviceHandlers(device, logger),
		StatusStream: stream.HandleStatus,
		Health:       handlers.NewHealthHandler(),
	}, middleware.AuthMiddleware(creds, tokens, logger))

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)

	logger.Info("plug configured",
		zap.Bool("basic_auth", creds.Enabled()),
		zap.Bool("bearer_auth", tokens != nil),
		zap.Bool("seeded", cfg.Random.Seed != 0),
	)

	return &App{addr: cfg.HTTPAddress(), server: server, stream: stream, logger: logger}, nil
}

// Run serves HTTP on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.stream.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return a.server.Serve(ctx, ln)
	})
	return g.Wait()
}

// Close releases resources (none yet).
func (a *App) Close() {}
