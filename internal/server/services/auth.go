// Package services holds the business logic behind the REST API. Each
// service works through the repository manager and returns errors the HTTP
// layer maps with errors.Is; client-facing messages travel as
// common.MessageError.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/cryptox"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/auth"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/config"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/mailer"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/accounts"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/repomanager"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/verification"
)

const minPasswordLength = 6

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  models.Profile `json:"user"`
	Token string         `json:"token"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// AuthService covers accounts as seen by their owners: registration,
// login, profile, passwords and the emailed reset code.
type AuthService struct {
	repomanager     repomanager.RepositoryManager
	workflow        *verification.Workflow
	mail            mailer.Sender
	jwtSecret       []byte
	tokenTTL        time.Duration
	verificationTTL time.Duration
	adminEmail      string
	log             logging.Logger
	now             func() time.Time
}

func NewAuthService(m repomanager.RepositoryManager, wf *verification.Workflow, mail mailer.Sender, cfg *config.Config, log logging.Logger) *AuthService {
	return &AuthService{
		repomanager:     m,
		workflow:        wf,
		mail:            mail,
		jwtSecret:       []byte(cfg.SecretKey),
		tokenTTL:        cfg.TokenTTL,
		verificationTTL: cfg.VerificationTTL,
		adminEmail:      cfg.AdminEmail,
		log:             log.With("module", "auth"),
		now:             time.Now,
	}
}

func (s *AuthService) issue(a *models.Account) (*AuthResult, error) {
	token, err := auth.GenerateToken(a.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{User: a.Profile(), Token: token}, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, common.BadRequest("Please provide name, email and password")
	}
	if len(in.Password) < minPasswordLength {
		return nil, common.BadRequest("Password must be at least 6 characters")
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return nil, common.WithMessage(common.ErrorValidation, "Password is too long")
	}

	a, err := s.repomanager.Accounts().Create(ctx, &models.Account{
		Name:     name,
		Email:    in.Email,
		Password: hash,
		Phone:    strings.TrimSpace(in.Phone),
		Role:     common.RoleUser,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, common.WithMessage(err, "User with this email already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info(ctx, "account registered", "account_id", a.ID)
	return s.issue(a)
}

// Login checks credentials. Unknown emails and wrong passwords are
// indistinguishable, in timing too.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, common.BadRequest("Please provide email and password")
	}

	a, err := s.repomanager.Accounts().FindByEmail(ctx, email)
	if errors.Is(err, docstore.ErrNotFound) {
		cryptox.CheckPassword("", password)
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if !cryptox.CheckPassword(a.Password, password) {
		return nil, common.ErrInvalidCredentials
	}
	if a.Blocked {
		return nil, common.ErrAccountBlocked
	}
	return s.issue(a)
}

// Account loads the caller's account.
func (s *AuthService) Account(ctx context.Context, id string) (*models.Account, error) {
	a, err := s.repomanager.Accounts().Get(ctx, id)
	return a, notFound(err, "User not found")
}

// RequireAdmin fails with common.ErrorForbidden unless id is an administrator.
func (s *AuthService) RequireAdmin(ctx context.Context, id string) error {
	a, err := s.repomanager.Accounts().Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return common.WithMessage(common.ErrorForbidden, "Admin access required")
	}
	if err != nil {
		return err
	}
	if a.Role != common.RoleAdmin || a.Blocked {
		return common.WithMessage(common.ErrorForbidden, "Admin access required")
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, id string) (*models.Profile, error) {
	a, err := s.Account(ctx, id)
	if err != nil {
		return nil, err
	}
	p := a.Profile()
	return &p, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.Profile, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	a, err := s.repomanager.Accounts().UpdateProfile(ctx, id, patch)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	p := a.Profile()
	return &p, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, id, current, next string) error {
	if current == "" || next == "" {
		return common.BadRequest("Please provide current and new password")
	}
	if len(next) < minPasswordLength {
		return common.BadRequest("New password must be at least 6 characters")
	}

	a, err := s.Account(ctx, id)
	if err != nil {
		return err
	}
	if !cryptox.CheckPassword(a.Password, current) {
		return common.ErrWrongPassword
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return common.WithMessage(common.ErrorValidation, "Password is too long")
	}
	return s.repomanager.Accounts().SetPassword(ctx, id, hash)
}

// Invoices lists the invoices uploaded for the caller.
func (s *AuthService) Invoices(ctx context.Context, id string) ([]map[string]any, error) {
	if _, err := s.Account(ctx, id); err != nil {
		return nil, err
	}
	return clientInvoices(ctx, s.repomanager.Progress(), id)
}

// SendOTP issues a reset code for email and mails it.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return common.BadRequest("Please provide your email address")
	}

	a, err := s.repomanager.Accounts().FindByEmail(ctx, email)
	if errors.Is(err, docstore.ErrNotFound) {
		return common.WithMessage(verification.ErrUnknownIdentity, "No account found with this email address")
	}
	if err != nil {
		return err
	}

	code, err := s.workflow.Issue(ctx, a.Email)
	if errors.Is(err, verification.ErrUnknownIdentity) {
		return common.WithMessage(err, "No account found with this email address")
	}
	if err != nil {
		return err
	}

	msg, err := mailer.OTPEmail(a.Email, a.Name, code, s.verificationTTL, s.now())
	if err != nil {
		return err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return common.WithMessage(err, "Failed to send OTP. Please try again later.")
	}
	s.log.Info(ctx, "reset code sent", "account_id", a.ID)
	return nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
		return common.BadRequest("Please provide email and OTP")
	}

	err := s.workflow.Verify(ctx, email, code)
	switch {
	case errors.Is(err, verification.ErrNoActiveRequest):
		return common.WithMessage(err, "OTP expired or not found. Please request a new OTP.")
	case errors.Is(err, verification.ErrExpired):
		return common.WithMessage(err, "OTP has expired. Please request a new OTP.")
	case errors.Is(err, verification.ErrMismatch):
		return common.WithMessage(err, "Invalid OTP. Please try again.")
	}
	return err
}

func (s *AuthService) ResetPassword(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return common.BadRequest("Please provide email and new password")
	}
	if len(password) < minPasswordLength {
		return common.BadRequest("Password must be at least 6 characters")
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return common.WithMessage(common.ErrorValidation, "Password is too long")
	}

	err = s.workflow.Consume(ctx, email, hash)
	if errors.Is(err, verification.ErrNotVerified) {
		return common.WithMessage(err, "Please verify OTP first before resetting password.")
	}
	if err != nil {
		return err
	}
	s.log.Info(ctx, "password reset", "email", accounts.NormalizeEmail(email))
	return nil
}

// RequestDeletion notifies the administrator that name/email wants their
// data removed and confirms receipt to the requester.
func (s *AuthService) RequestDeletion(ctx context.Context, name, email, reason string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return common.BadRequest("Please provide your name and email address")
	}
	now := s.now()

	adminMsg, err := mailer.DeletionRequestEmail(s.adminEmail, name, email, reason, now)
	if err != nil {
		return err
	}
	if err := s.mail.Send(ctx, adminMsg); err != nil {
		return common.WithMessage(err, "Failed to submit request. Please try again.")
	}

	userMsg, err := mailer.DeletionConfirmationEmail(email, name, s.adminEmail, now)
	if err != nil {
		return err
	}
	if err := s.mail.Send(ctx, userMsg); err != nil {
		return common.WithMessage(err, "Failed to submit request. Please try again.")
	}

	s.log.Info(ctx, "deletion requested", "email", accounts.NormalizeEmail(email))
	return nil
}
