package httpapi

import (
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type deletionRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

func (s *HTTPServer) register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	res, err := s.svc.Auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{"message": "Registration successful", "data": res})
}

func (s *HTTPServer) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	res, err := s.svc.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Login successful", "data": res})
}

func (s *HTTPServer) profile(c *fiber.Ctx) error {
	p, err := s.svc.Auth.Profile(c.UserContext(), accountID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"data": fiber.Map{"user": p}})
}

func (s *HTTPServer) updateProfile(c *fiber.Ctx) error {
	var patch models.ProfilePatch
	if err := s.parse(c, &patch, true); err != nil {
		return err
	}
	p, err := s.svc.Auth.UpdateProfile(c.UserContext(), accountID(c), patch)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Profile updated successfully", "data": fiber.Map{"user": p}})
}

func (s *HTTPServer) changePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	if err := s.svc.Auth.ChangePassword(c.UserContext(), accountID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Password changed successfully"})
}

func (s *HTTPServer) authInvoices(c *fiber.Ctx) error {
	invoices, err := s.svc.Auth.Invoices(c.UserContext(), accountID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"count": len(invoices), "invoices": invoices})
}

func (s *HTTPServer) sendOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	if err := s.svc.Auth.SendOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "OTP has been sent to your email address"})
}

func (s *HTTPServer) verifyOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	if err := s.svc.Auth.VerifyOTP(c.UserContext(), req.Email, req.OTP); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "OTP verified successfully. You can now reset your password."})
}

func (s *HTTPServer) resetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	if err := s.svc.Auth.ResetPassword(c.UserContext(), req.Email, req.NewPassword); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Password reset successfully. You can now login with your new password."})
}

func (s *HTTPServer) requestDeletion(c *fiber.Ctx) error {
	var req deletionRequest
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	if err := s.svc.Auth.RequestDeletion(c.UserContext(), req.Name, req.Email, req.Reason); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Account deletion request submitted successfully"})
}
