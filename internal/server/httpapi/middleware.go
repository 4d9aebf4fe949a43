package httpapi

import (
	"strings"
	"time"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

func applyMiddleware(app *fiber.App, opts Options, logger logging.Logger) {
	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(
		recover.New(),
		StructuredLogger(logger),
		Security(),
		cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept,Authorization",
			MaxAge:       86400,
		}),
	)

	if opts.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimit,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"success": false,
					"message": "Too many requests. Please try again later.",
				})
			},
		}))
	}
}

// StructuredLogger tags each request with an id and logs its outcome.
// Handler errors are rendered here so the logged status is the final one.
func StructuredLogger(logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()

		c.Locals(common.LocalsRequestID, requestID)
		c.Set("X-Request-ID", requestID)

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		attrs := []any{
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"ip", c.IP(),
		}
		if id, ok := c.Locals(common.LocalsAccountID).(string); ok && id != "" {
			attrs = append(attrs, "account_id", id)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error(c.UserContext(), "server error", attrs...)
		case status >= fiber.StatusBadRequest:
			logger.Warn(c.UserContext(), "client error", attrs...)
		default:
			logger.Info(c.UserContext(), "request completed", attrs...)
		}
		return nil
	}
}

func Security() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		return c.Next()
	}
}

// requireAuth accepts "Authorization: Bearer <token>" and stores the
// account id in the request locals.
func (s *HTTPServer) requireAuth(c *fiber.Ctx) error {
	header := c.Get(common.AuthorizationHeader)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return common.ErrorUnauthorized
	}

	id, err := auth.GetUserIDFromToken(strings.TrimPrefix(header, common.BearerPrefix), s.jwtSecret)
	if err != nil {
		return err
	}

	c.Locals(common.LocalsAccountID, id)
	return c.Next()
}

// requireAdmin must run after requireAuth.
func (s *HTTPServer) requireAdmin(c *fiber.Ctx) error {
	if err := s.svc.Auth.RequireAdmin(c.UserContext(), accountID(c)); err != nil {
		return err
	}
	c.Locals(common.LocalsRole, common.RoleAdmin)
	return c.Next()
}

func accountID(c *fiber.Ctx) string {
	id, _ := c.Locals(common.LocalsAccountID).(string)
	return id
}
