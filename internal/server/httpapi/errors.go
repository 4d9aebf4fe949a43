package httpapi

import (
	"context"
	"errors"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/services"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/verification"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/validator"
	"github.com/gofiber/fiber/v2"
)

const serverErrorMessage = "Server error"

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{common.ErrorValidation, fiber.StatusBadRequest, "Invalid request"},
	{docstore.ErrInvalidUpdate, fiber.StatusBadRequest, "Invalid update"},
	{common.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid email or password"},
	{common.ErrWrongPassword, fiber.StatusUnauthorized, "Current password is incorrect"},
	{common.ErrTokenExpired, fiber.StatusUnauthorized, "Token expired"},
	{common.ErrInvalidToken, fiber.StatusUnauthorized, "Invalid token"},
	{common.ErrorUnauthorized, fiber.StatusUnauthorized, "Access denied. No token provided."},
	{common.ErrAccountBlocked, fiber.StatusForbidden, "Your account has been blocked. Please contact support."},
	{common.ErrorForbidden, fiber.StatusForbidden, "Forbidden"},
	{verification.ErrUnknownIdentity, fiber.StatusNotFound, "No account found with this email address"},
	{verification.ErrNoActiveRequest, fiber.StatusBadRequest, "OTP expired or not found. Please request a new OTP."},
	{verification.ErrExpired, fiber.StatusBadRequest, "OTP has expired. Please request a new OTP."},
	{verification.ErrMismatch, fiber.StatusBadRequest, "Invalid OTP. Please try again."},
	{verification.ErrNotVerified, fiber.StatusBadRequest, "Please verify OTP first before resetting password."},
	{docstore.ErrNotFound, fiber.StatusNotFound, "Not found"},
	{common.ErrorAlreadyExists, fiber.StatusConflict, "Already exists"},
	{docstore.ErrAlreadyExists, fiber.StatusConflict, "Already exists"},
	{docstore.ErrConflict, fiber.StatusConflict, "The record was changed by another request. Please retry."},
	{docstore.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "Service temporarily unavailable"},
	{docstore.ErrTimeout, fiber.StatusServiceUnavailable, "Service temporarily unavailable"},
	{context.DeadlineExceeded, fiber.StatusServiceUnavailable, "Service temporarily unavailable"},
	{services.ErrStorageDisabled, fiber.StatusServiceUnavailable, "File storage is not configured"},
}

// errorBody picks the status and JSON body for err. A message attached
// with common.WithMessage replaces the default one.
func errorBody(err error) (int, fiber.Map) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fiber.Map{"success": false, "message": fe.Message}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fiber.StatusBadRequest, fiber.Map{"success": false, "message": verrs[0].Message, "errors": verrs}
	}

	status, message := fiber.StatusInternalServerError, serverErrorMessage
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			status, message = m.status, m.message
			break
		}
	}
	if msg, ok := common.MessageOf(err); ok {
		message = msg
	}

	body := fiber.Map{"success": false, "message": message}
	if errors.Is(err, common.ErrAccountBlocked) {
		body["blocked"] = true
	}
	return status, body
}

// CustomErrorHandler renders every error returned by a handler as JSON.
func CustomErrorHandler(logger logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := errorBody(err)

		if status >= fiber.StatusInternalServerError {
			requestID, _ := c.Locals(common.LocalsRequestID).(string)
			logger.Error(c.UserContext(), "request failed",
				"request_id", requestID,
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		}

		return c.Status(status).JSON(body)
	}
}
