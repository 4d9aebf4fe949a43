package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/blobstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/progress"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/repomanager"
)

// InvoiceStorage keeps invoice files. blobstore.Uploader implements it.
type InvoiceStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

var _ InvoiceStorage = (*blobstore.Uploader)(nil)

// clientInvoices returns the invoices on the client's progress document, or
// an empty list when the client has none yet.
func clientInvoices(ctx context.Context, repo progress.Repository, clientID string) ([]map[string]any, error) {
	doc, err := repo.Get(ctx, clientID)
	if errors.Is(err, docstore.ErrNotFound) {
		return []map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Invoices == nil {
		return []map[string]any{}, nil
	}
	return doc.Invoices, nil
}

// ClientService serves the signed-in client's own data.
type ClientService struct {
	repomanager repomanager.RepositoryManager
	quotes      *QuoteService
	files       InvoiceStorage
	log         logging.Logger
}

// NewClientService builds the service. files may be nil, in which case
// invoices are returned without download links.
func NewClientService(m repomanager.RepositoryManager, quotes *QuoteService, files InvoiceStorage, log logging.Logger) *ClientService {
	return &ClientService{repomanager: m, quotes: quotes, files: files, log: log.With("module", "client")}
}

func (s *ClientService) account(ctx context.Context, id string) (*models.Account, error) {
	a, err := s.repomanager.Accounts().Get(ctx, id)
	return a, notFound(err, "User not found")
}

func (s *ClientService) Projects(ctx context.Context, clientID string) ([]models.Project, error) {
	return s.repomanager.Projects().ListByClient(ctx, clientID)
}

// Project returns one project, refusing projects owned by another client.
func (s *ClientService) Project(ctx context.Context, clientID, projectID string) (*models.Project, error) {
	p, err := s.repomanager.Projects().Get(ctx, projectID)
	if err != nil {
		return nil, notFound(err, "Project not found")
	}
	if p.ClientID != clientID {
		return nil, common.WithMessage(common.ErrorForbidden, "Unauthorized")
	}
	return p, nil
}

// Invoices lists the client's invoices. Invoices with a stored object key
// get a short-lived downloadUrl when file storage is configured.
func (s *ClientService) Invoices(ctx context.Context, clientID string) ([]map[string]any, error) {
	invoices, err := clientInvoices(ctx, s.repomanager.Progress(), clientID)
	if err != nil || s.files == nil {
		return invoices, err
	}

	out := make([]map[string]any, 0, len(invoices))
	for _, inv := range invoices {
		key, _ := inv["s3Key"].(string)
		if key == "" {
			out = append(out, inv)
			continue
		}
		url, err := s.files.PresignGet(ctx, key, blobstore.DefaultPresignTTL)
		if err != nil {
			s.log.Warn(ctx, "presign invoice", "key", key, "error", err)
			out = append(out, inv)
			continue
		}
		enriched := docstore.Clone(inv)
		enriched["downloadUrl"] = url
		out = append(out, enriched)
	}
	return out, nil
}

func (s *ClientService) SubmitQuote(ctx context.Context, clientID string, sel models.QuoteSelections) (*models.QuoteRequest, error) {
	a, err := s.account(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.quotes.Submit(ctx, a, sel)
}

func (s *ClientService) QuoteRequests(ctx context.Context, clientID string) ([]models.QuoteRequest, error) {
	return s.quotes.RequestsByClient(ctx, clientID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (s *ClientService) BookAppointment(ctx context.Context, clientID string, in models.NewAppointment) (*models.Appointment, error) {
	if strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.Time) == "" {
		return nil, common.BadRequest("Please provide date and time")
	}
	a, err := s.account(ctx, clientID)
	if err != nil {
		return nil, err
	}

	appt, err := s.repomanager.Appointments().Create(ctx, &models.Appointment{
		ClientID: a.ID,
		Name:     a.Name,
		Email:    a.Email,
		Phone:    firstNonEmpty(in.Phone, a.Phone),
		Date:     in.Date,
		Time:     in.Time,
		Purpose:  in.Purpose,
		Status:   models.AppointmentPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	s.log.Info(ctx, "appointment booked", "appointment_id", appt.ID, "client_id", a.ID)
	return appt, nil
}

func (s *ClientService) Appointments(ctx context.Context, clientID string) ([]models.Appointment, error) {
	return s.repomanager.Appointments().ListByClient(ctx, clientID)
}

func (s *ClientService) SubmitTicket(ctx context.Context, clientID string, in models.NewTicket) (*models.Ticket, error) {
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, common.BadRequest("Please provide subject and description")
	}
	a, err := s.account(ctx, clientID)
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = models.TicketMedium
	}
	t, err := s.repomanager.Tickets().Create(ctx, &models.Ticket{
		ClientID:    a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Phone:       firstNonEmpty(in.Phone, a.Phone),
		Subject:     in.Subject,
		Description: in.Description,
		Priority:    priority,
		Status:      models.TicketActive,
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	s.log.Info(ctx, "support ticket submitted", "ticket_id", t.ID, "client_id", a.ID)
	return t, nil
}

func (s *ClientService) Tickets(ctx context.Context, clientID string) ([]models.Ticket, error) {
	return s.repomanager.Tickets().ListByClient(ctx, clientID)
}
