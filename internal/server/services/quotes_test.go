package services

import (
	"context"
	"testing"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateQuote(t *testing.T) {
	p := models.DefaultPricing()

	tests := []struct {
		name string
		sel  models.QuoteSelections
		want models.QuoteResult
	}{
		{
			name: "base only",
			sel:  models.QuoteSelections{ProjectType: "Web Development"},
			want: models.QuoteResult{
				TotalPrice: 30000,
				Breakdown:  []models.BreakdownItem{{Item: "Base Price (Web Development)", Price: 30000}},
				Currency:   "INR",
			},
		},
		{
			name: "zero priced add-ons are skipped",
			sel: models.QuoteSelections{
				ProjectType:    "Mobile App",
				Platform:       "Android",
				PaymentGateway: "No",
				SEO:            "No",
			},
			want: models.QuoteResult{
				TotalPrice: 50000,
				Breakdown:  []models.BreakdownItem{{Item: "Base Price (Mobile App)", Price: 50000}},
				Currency:   "INR",
			},
		},
		{
			name: "every option",
			sel: models.QuoteSelections{
				ProjectType:    "Mobile App",
				Platform:       "Android + iOS",
				PaymentGateway: "Yes",
				WebType:        "Dynamic",
				SEO:            "Yes",
				BusinessType:   "Ecommerce App",
			},
			want: models.QuoteResult{
				TotalPrice: 50000 + 25000 + 15000 + 20000 + 10000 + 35000,
				Breakdown: []models.BreakdownItem{
					{Item: "Base Price (Mobile App)", Price: 50000},
					{Item: "Platform: Android + iOS", Price: 25000},
					{Item: "Payment Gateway Integration", Price: 15000},
					{Item: "Dynamic Website", Price: 20000},
					{Item: "SEO Optimization", Price: 10000},
					{Item: "Ecommerce App", Price: 35000},
				},
				Currency: "INR",
			},
		},
		{
			name: "unknown options cost nothing",
			sel:  models.QuoteSelections{ProjectType: "Spaceship", BusinessType: "Moon Base"},
			want: models.QuoteResult{Breakdown: []models.BreakdownItem{}, Currency: "INR"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateQuote(p, tt.sel)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CalculateQuote mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalculateQuote_NegativeBaseStillListed(t *testing.T) {
	p := models.Pricing{
		BasePrices:   map[string]float64{"Promo": -500},
		BusinessType: map[string]float64{"Discount": -100},
		SEO:          map[string]float64{"Yes": -50},
	}
	got := CalculateQuote(p, models.QuoteSelections{ProjectType: "Promo", BusinessType: "Discount", SEO: "Yes"})
	assert.Equal(t, float64(-650), got.TotalPrice)
	assert.Equal(t, []models.BreakdownItem{
		{Item: "Base Price (Promo)", Price: -500},
		{Item: "Discount", Price: -100},
	}, got.Breakdown)
}

func TestQuoteService_PricingSeedsDefaults(t *testing.T) {
	m := newManager()
	s := NewQuoteService(m, logging.NewNop())
	ctx := context.Background()

	p := s.Pricing(ctx)
	assert.Equal(t, models.DefaultPricing(), p)

	_, ok, err := m.Pricing().Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	custom := models.DefaultPricing()
	custom.BasePrices["Web Development"] = 45000
	_, err = s.SavePricing(ctx, custom)
	require.NoError(t, err)

	res := s.Calculate(ctx, models.QuoteSelections{ProjectType: "Web Development"})
	assert.Equal(t, float64(45000), res.TotalPrice)

	_, err = s.SavePricing(ctx, models.Pricing{})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestQuoteService_Submit(t *testing.T) {
	m := newManager()
	s := NewQuoteService(m, logging.NewNop())
	ctx := context.Background()
	a := seedAccount(t, m, "Asha", "a@example.com", common.RoleUser)

	_, err := s.Submit(ctx, a, models.QuoteSelections{})
	assert.Equal(t, "Please select a project type", messageOf(t, err))

	req, err := s.Submit(ctx, a, models.QuoteSelections{ProjectType: "Mobile App", SEO: "Yes", Description: "shop"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, req.ClientID)
	assert.Equal(t, "9000000000", req.ClientPhone)
	assert.Equal(t, models.QuotePending, req.Status)
	require.NotNil(t, req.CalculatedQuote)
	assert.Equal(t, float64(60000), req.CalculatedQuote.TotalPrice)
	require.NotNil(t, req.SEO)
	assert.Nil(t, req.Platform)

	mine, err := s.RequestsByClient(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	legacy, err := s.LegacyQuotes(ctx)
	require.NoError(t, err)
	require.Len(t, legacy, 1)
	assert.Equal(t, a.ID, legacy[0].UserID)
	assert.Equal(t, "Mobile App", legacy[0].ProjectType)
}

func TestQuoteService_SubmitLegacyAnonymous(t *testing.T) {
	s := NewQuoteService(newManager(), logging.NewNop())
	q, err := s.SubmitLegacy(context.Background(), "", "", "", models.QuoteSelections{ProjectType: "Web Development"})
	require.NoError(t, err)
	assert.Equal(t, "anonymous", q.UserID)
}

func TestQuoteService_UpdateRequest(t *testing.T) {
	m := newManager()
	s := NewQuoteService(m, logging.NewNop())
	ctx := context.Background()
	a := seedAccount(t, m, "Asha", "a@example.com", common.RoleUser)

	req, err := s.Submit(ctx, a, models.QuoteSelections{ProjectType: "Web Development"})
	require.NoError(t, err)

	status, notes := "Reviewed", "call back Monday"
	got, err := s.UpdateRequest(ctx, req.ID, models.QuoteRequestPatch{Status: &status, AdminNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "Reviewed", got.Status)
	assert.NotNil(t, got.CalculatedQuote)

	_, err = s.UpdateRequest(ctx, "ghost", models.QuoteRequestPatch{Status: &status})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.Equal(t, "Quote request not found", messageOf(t, err))

	require.NoError(t, s.DeleteRequest(ctx, req.ID))
	_, err = s.Request(ctx, req.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}
