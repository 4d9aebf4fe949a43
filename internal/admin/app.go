// Package admin implements the operator commands run against the
// configured store: seeding the pricing table and creating admin accounts.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/cryptox"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/repomanager"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/services"
)

const usage = `Usage: admin <command> [flags]

Commands:
  seed-pricing   store the default pricing table
  create-admin   create an account with the admin role
  help           show this message`

var ErrUnknownCommand = errors.New("unknown command")

type App struct {
	repomanager repomanager.RepositoryManager
	quotes      *services.QuoteService
	logger      logging.Logger
	in          *bufio.Reader
	out         io.Writer
}

func NewApp(m repomanager.RepositoryManager, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		repomanager: m,
		quotes:      services.NewQuoteService(m, logger),
		logger:      logger,
		in:          bufio.NewReader(in),
		out:         out,
	}
}

func (a *App) Run(ctx context.Context, cmd string) error {
	switch cmd {
	case "seed-pricing":
		return a.SeedPricing(ctx)
	case "create-admin":
		return a.CreateAdmin(ctx)
	case "", "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		fmt.Fprintln(a.out, usage)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

// SeedPricing overwrites the stored pricing with the defaults.
func (a *App) SeedPricing(ctx context.Context) error {
	p, err := a.quotes.SavePricing(ctx, models.DefaultPricing())
	if err != nil {
		return fmt.Errorf("seed pricing: %w", err)
	}
	a.logger.Info(ctx, "pricing seeded", "project_types", len(p.BasePrices))
	fmt.Fprintln(a.out, "Pricing table seeded.")
	return nil
}

func (a *App) CreateAdmin(ctx context.Context) error {
	name, err := GetSimpleText(a.in, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.in, "Email", a.out)
	if err != nil {
		return err
	}
	if name == "" || email == "" {
		return errors.New("name and email are required")
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := GetPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	acc, err := a.repomanager.Accounts().Create(ctx, &models.Account{
		Name:     name,
		Email:    strings.TrimSpace(email),
		Password: hash,
		Role:     common.RoleAdmin,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return fmt.Errorf("an account with email %s already exists", email)
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	a.logger.Info(ctx, "admin created", "account_id", acc.ID)
	fmt.Fprintf(a.out, "Admin %s created.\n", acc.Email)
	return nil
}
