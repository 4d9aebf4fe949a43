package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/repomanager"
)

// CalculateQuote prices selections against p. Options missing from the
// table cost nothing; zero-priced add-ons are left out of the breakdown.
func CalculateQuote(p models.Pricing, sel models.QuoteSelections) models.QuoteResult {
	res := models.QuoteResult{Breakdown: []models.BreakdownItem{}, Currency: models.Currency}

	add := func(table map[string]float64, key, label string, listZero bool) {
		if key == "" {
			return
		}
		price := table[key]
		if price == 0 {
			return
		}
		res.TotalPrice += price
		if listZero || price > 0 {
			res.Breakdown = append(res.Breakdown, models.BreakdownItem{Item: label, Price: price})
		}
	}

	add(p.BasePrices, sel.ProjectType, fmt.Sprintf("Base Price (%s)", sel.ProjectType), true)
	add(p.Platform, sel.Platform, "Platform: "+sel.Platform, false)
	add(p.PaymentGateway, sel.PaymentGateway, "Payment Gateway Integration", false)
	add(p.WebType, sel.WebType, sel.WebType+" Website", false)
	add(p.SEO, sel.SEO, "SEO Optimization", false)
	add(p.BusinessType, sel.BusinessType, sel.BusinessType, true)

	return res
}

// QuoteService prices and records quote requests and owns the pricing table.
type QuoteService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewQuoteService(m repomanager.RepositoryManager, log logging.Logger) *QuoteService {
	return &QuoteService{repomanager: m, log: log.With("module", "quotes")}
}

// Pricing returns the stored pricing, seeding the defaults on first use.
// A store failure falls back to the defaults so quoting keeps working.
func (s *QuoteService) Pricing(ctx context.Context) models.Pricing {
	repo := s.repomanager.Pricing()

	p, ok, err := repo.Get(ctx)
	if err == nil && ok {
		return p
	}
	if err == nil {
		p, err = repo.SeedDefault(ctx)
		if err == nil {
			return p
		}
	}
	s.log.Warn(ctx, "using default pricing", "error", err)
	return models.DefaultPricing()
}

func (s *QuoteService) SavePricing(ctx context.Context, p models.Pricing) (models.Pricing, error) {
	if p.BasePrices == nil {
		return models.Pricing{}, common.BadRequest("Pricing must include basePrices")
	}
	return s.repomanager.Pricing().Save(ctx, p)
}

// Calculate prices sel with the current pricing.
func (s *QuoteService) Calculate(ctx context.Context, sel models.QuoteSelections) models.QuoteResult {
	return CalculateQuote(s.Pricing(ctx), sel)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Submit prices sel for account, stores the quote request and mirrors it
// into the legacy quotes table.
func (s *QuoteService) Submit(ctx context.Context, account *models.Account, sel models.QuoteSelections) (*models.QuoteRequest, error) {
	if sel.ProjectType == "" {
		return nil, common.BadRequest("Please select a project type")
	}
	result := s.Calculate(ctx, sel)

	phone := account.Phone
	if phone == "" {
		phone = sel.Phone
	}
	req, err := s.repomanager.QuoteRequests().Create(ctx, &models.QuoteRequest{
		ClientID:        account.ID,
		ClientName:      account.Name,
		ClientEmail:     account.Email,
		ClientPhone:     phone,
		ProjectType:     sel.ProjectType,
		Platform:        optional(sel.Platform),
		PaymentGateway:  optional(sel.PaymentGateway),
		WebType:         optional(sel.WebType),
		SEO:             optional(sel.SEO),
		BusinessType:    optional(sel.BusinessType),
		Description:     sel.Description,
		CalculatedQuote: &result,
		Status:          models.QuotePending,
	})
	if err != nil {
		return nil, fmt.Errorf("create quote request: %w", err)
	}

	if _, err := s.SubmitLegacy(ctx, account.ID, account.Email, account.Name, sel); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "quote request submitted", "request_id", req.ID, "client_id", account.ID, "total", result.TotalPrice)
	return req, nil
}

// SubmitLegacy records a quick quote. An empty userID is stored as "anonymous".
func (s *QuoteService) SubmitLegacy(ctx context.Context, userID, email, name string, sel models.QuoteSelections) (*models.Quote, error) {
	if userID == "" {
		userID = "anonymous"
	}
	q, err := s.repomanager.Quotes().Create(ctx, &models.Quote{
		UserID:          userID,
		UserEmail:       email,
		UserName:        name,
		QuoteSelections: sel,
		Status:          models.QuotePending,
	})
	if err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}
	return q, nil
}

func (s *QuoteService) LegacyQuotes(ctx context.Context) ([]models.Quote, error) {
	return s.repomanager.Quotes().List(ctx)
}

func (s *QuoteService) Requests(ctx context.Context) ([]models.QuoteRequest, error) {
	return s.repomanager.QuoteRequests().List(ctx)
}

func (s *QuoteService) RequestsByClient(ctx context.Context, clientID string) ([]models.QuoteRequest, error) {
	return s.repomanager.QuoteRequests().ListByClient(ctx, clientID)
}

func (s *QuoteService) Request(ctx context.Context, id string) (*models.QuoteRequest, error) {
	req, err := s.repomanager.QuoteRequests().Get(ctx, id)
	return req, notFound(err, "Quote request not found")
}

// UpdateRequest applies an admin status or notes change.
func (s *QuoteService) UpdateRequest(ctx context.Context, id string, patch models.QuoteRequestPatch) (*models.QuoteRequest, error) {
	req, err := s.repomanager.QuoteRequests().Update(ctx, id, patch)
	return req, notFound(err, "Quote request not found")
}

func (s *QuoteService) DeleteRequest(ctx context.Context, id string) error {
	return s.repomanager.QuoteRequests().Delete(ctx, id)
}

// notFound attaches msg to a docstore.ErrNotFound and passes other errors through.
func notFound(err error, msg string) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return common.WithMessage(err, msg)
	}
	return err
}
