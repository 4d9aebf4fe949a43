package models

// Quote request statuses.
const (
	QuotePending = "Pending"
	Currency     = "INR"
)

// PricingID is the id of the single pricing document.
const PricingID = "global-pricing"

// Pricing maps every selectable option to its price in rupees.
type Pricing struct {
	BasePrices     map[string]float64 `json:"basePrices"`
	Platform       map[string]float64 `json:"platform"`
	PaymentGateway map[string]float64 `json:"paymentGateway"`
	WebType        map[string]float64 `json:"webType"`
	SEO            map[string]float64 `json:"seo"`
	BusinessType   map[string]float64 `json:"businessType"`
}

// PricingDocument is the stored form of the pricing table.
type PricingDocument struct {
	ID        string  `json:"id"`
	Pricing   Pricing `json:"pricing"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// DefaultPricing returns the pricing seeded on first use.
func DefaultPricing() Pricing {
	return Pricing{
		BasePrices: map[string]float64{
			"Mobile App":      50000,
			"Web Development": 30000,
			"AI Based App":    80000,
			"Business Apps":   40000,
		},
		Platform: map[string]float64{
			"Android":       0,
			"Android + iOS": 25000,
		},
		PaymentGateway: map[string]float64{"Yes": 15000, "No": 0},
		WebType:        map[string]float64{"Static": 0, "Dynamic": 20000},
		SEO:            map[string]float64{"Yes": 10000, "No": 0},
		BusinessType: map[string]float64{
			"Ecommerce Website":           25000,
			"Ecommerce App":               35000,
			"CRM Website":                 20000,
			"Invoice Generator Website":   15000,
			"Invoice Generator App":       20000,
			"Appointment Booking Website": 15000,
			"Appointment Booking App":     20000,
		},
	}
}

// QuoteSelections are the options a client picks in the quote form.
type QuoteSelections struct {
	ProjectType    string `json:"projectType"`
	Platform       string `json:"platform,omitempty"`
	PaymentGateway string `json:"paymentGateway,omitempty"`
	WebType        string `json:"webType,omitempty"`
	SEO            string `json:"seo,omitempty"`
	BusinessType   string `json:"businessType,omitempty"`
	Description    string `json:"description,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// BreakdownItem is one priced line of a quote.
type BreakdownItem struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
}

// QuoteResult is a computed quote.
type QuoteResult struct {
	TotalPrice float64         `json:"totalPrice"`
	Breakdown  []BreakdownItem `json:"breakdown"`
	Currency   string          `json:"currency"`
}

// QuoteRequest is a client's stored quote with the price computed at
// submission time.
type QuoteRequest struct {
	ID              string       `json:"id"`
	ClientID        string       `json:"clientId"`
	ClientName      string       `json:"clientName"`
	ClientEmail     string       `json:"clientEmail"`
	ClientPhone     string       `json:"clientPhone"`
	ProjectType     string       `json:"projectType"`
	Platform        *string      `json:"platform"`
	PaymentGateway  *string      `json:"paymentGateway"`
	WebType         *string      `json:"webType"`
	SEO             *string      `json:"seo"`
	BusinessType    *string      `json:"businessType"`
	Description     string       `json:"description"`
	CalculatedQuote *QuoteResult `json:"calculatedQuote"`
	Status          string       `json:"status"`
	AdminNotes      string       `json:"adminNotes"`
	CreatedAt       string       `json:"createdAt,omitempty"`
	UpdatedAt       string       `json:"updatedAt,omitempty"`
}

// QuoteRequestPatch is the admin update of a quote request.
type QuoteRequestPatch struct {
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=Pending Reviewed Accepted Rejected"`
	AdminNotes *string `json:"adminNotes,omitempty"`
}

// Quote is the legacy quick-quote record kept alongside quote requests.
type Quote struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail,omitempty"`
	UserName  string `json:"userName,omitempty"`
	QuoteSelections
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
