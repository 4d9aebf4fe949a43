// Package httpapi exposes the services over a fiber REST API.
package httpapi

import (
	"context"
	"time"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/services"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/validator"
	"github.com/gofiber/fiber/v2"
)

const (
	shutdownTimeout = 10 * time.Second
	// bodyLimit leaves room for invoice uploads.
	bodyLimit = 10 << 20
)

// Services are the handlers' dependencies.
type Services struct {
	Auth   *services.AuthService
	Client *services.ClientService
	Admin  *services.AdminService
	Career *services.CareerService
	Quotes *services.QuoteService
}

type Options struct {
	Address     string
	Env         string
	CORSOrigins string
	// RateLimit is the number of requests per minute allowed per client IP.
	// Zero disables limiting.
	RateLimit int
	JWTSecret []byte
}

type HTTPServer struct {
	address   string
	app       *fiber.App
	svc       Services
	validator *validator.Validator
	logger    logging.Logger
	jwtSecret []byte
}

func NewHTTPServer(opts Options, svc Services, l logging.Logger) *HTTPServer {
	logger := l.With("module", "http_server")
	s := &HTTPServer{
		address:   opts.Address,
		svc:       svc,
		validator: validator.New(),
		logger:    logger,
		jwtSecret: opts.JWTSecret,
	}
	s.app = NewFiberApp(opts.Env, logger)
	applyMiddleware(s.app, opts, logger)
	s.registerRoutes()
	return s
}

// NewFiberApp creates the fiber application with JSON error responses.
func NewFiberApp(env string, logger logging.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: env == "production",
		ErrorHandler:          CustomErrorHandler(logger),
	})
}

// App returns the underlying fiber application.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(context.Background(), "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
	return s.app.Listen(s.address)
}
