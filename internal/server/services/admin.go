package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/blobstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/repomanager"
)

const searchLimit = 10

// ErrStorageDisabled is returned by UploadInvoice when no bucket is configured.
var ErrStorageDisabled = errors.New("file storage is not configured")

// AdminService backs the administrator console.
type AdminService struct {
	repomanager repomanager.RepositoryManager
	quotes      *QuoteService
	files       InvoiceStorage
	log         logging.Logger
}

func NewAdminService(m repomanager.RepositoryManager, quotes *QuoteService, files InvoiceStorage, log logging.Logger) *AdminService {
	return &AdminService{repomanager: m, quotes: quotes, files: files, log: log.With("module", "admin")}
}

func summaries(list []models.Account) []models.AccountSummary {
	out := make([]models.AccountSummary, 0, len(list))
	for i := range list {
		out = append(out, list[i].Summary())
	}
	return out
}

func (s *AdminService) Users(ctx context.Context) ([]models.AccountSummary, error) {
	list, err := s.repomanager.Accounts().List(ctx)
	if err != nil {
		return nil, err
	}
	return summaries(list), nil
}

// Search matches names and phone numbers. Queries shorter than two
// characters return nothing.
func (s *AdminService) Search(ctx context.Context, q string) ([]models.AccountSummary, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 2 {
		return []models.AccountSummary{}, nil
	}
	list, err := s.repomanager.Accounts().Search(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}
	return summaries(list), nil
}

func (s *AdminService) SetBlocked(ctx context.Context, id string, blocked bool) (*models.AccountSummary, error) {
	a, err := s.repomanager.Accounts().SetBlocked(ctx, id, blocked)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	s.log.Info(ctx, "account block changed", "account_id", id, "blocked", blocked)
	sum := a.Summary()
	return &sum, nil
}

func (s *AdminService) CreateProject(ctx context.Context, in models.NewProject) (*models.Project, error) {
	if strings.TrimSpace(in.ClientID) == "" || strings.TrimSpace(in.ProjectName) == "" {
		return nil, common.BadRequest("Please provide clientId and projectName")
	}

	modules := make([]models.Module, 0, len(in.Modules))
	for _, m := range in.Modules {
		if m.ID == "" {
			m.ID = docstore.NewID()
		}
		modules = append(modules, m)
	}
	status := in.Status
	if status == "" {
		status = models.ProjectPlanning
	}

	p, err := s.repomanager.Projects().Create(ctx, &models.Project{
		ClientID:           in.ClientID,
		ClientName:         in.ClientName,
		Email:              in.Email,
		Phone:              in.Phone,
		ProjectName:        in.ProjectName,
		ProjectValue:       in.ProjectValue,
		AmountPaid:         in.AmountPaid,
		InitialPaymentDate: in.InitialPaymentDate,
		SecondDueDate:      in.SecondDueDate,
		Thumbnail:          in.Thumbnail,
		Location:           in.Location,
		Description:        in.Description,
		Status:             status,
		Modules:            modules,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.log.Info(ctx, "project created", "project_id", p.ID, "client_id", p.ClientID)
	return p, nil
}

func (s *AdminService) Projects(ctx context.Context) ([]models.Project, error) {
	return s.repomanager.Projects().List(ctx)
}

func (s *AdminService) Project(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.repomanager.Projects().Get(ctx, id)
	return p, notFound(err, "Project not found")
}

func (s *AdminService) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if patch.Modules != nil {
		mods := make([]models.Module, 0, len(*patch.Modules))
		for _, m := range *patch.Modules {
			if m.ID == "" {
				m.ID = docstore.NewID()
			}
			mods = append(mods, m)
		}
		patch.Modules = &mods
	}
	p, err := s.repomanager.Projects().Update(ctx, id, patch)
	return p, notFound(err, "Project not found")
}

// UpdateModule patches one module and recomputes the project's progress.
func (s *AdminService) UpdateModule(ctx context.Context, projectID, moduleID string, patch models.ModulePatch) (*models.Project, error) {
	p, err := s.repomanager.Projects().UpdateModule(ctx, projectID, moduleID, patch)
	return p, notFound(err, "Project or module not found")
}

func (s *AdminService) DeleteProject(ctx context.Context, id string) error {
	if err := s.repomanager.Projects().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "project deleted", "project_id", id)
	return nil
}

// LegacyProject upserts a project summary on the client's progress document.
func (s *AdminService) LegacyProject(ctx context.Context, userID string, project map[string]any) (*models.ClientProgress, error) {
	if strings.TrimSpace(userID) == "" || len(project) == 0 {
		return nil, common.BadRequest("Missing data")
	}
	repo := s.repomanager.Progress()
	if _, err := repo.Init(ctx, userID); err != nil {
		return nil, fmt.Errorf("init progress: %w", err)
	}
	return repo.UpsertProject(ctx, userID, project)
}

// InvoiceUpload is an invoice file with the admin's metadata.
type InvoiceUpload struct {
	UserID      string
	FileName    string
	ContentType string
	Body        io.Reader
	Data        map[string]any
}

// UploadInvoice stores the file and appends the invoice to the client's
// progress document.
func (s *AdminService) UploadInvoice(ctx context.Context, in InvoiceUpload) (*models.ClientProgress, error) {
	if strings.TrimSpace(in.UserID) == "" || in.Body == nil || in.Data == nil {
		return nil, common.BadRequest("Missing data")
	}
	if s.files == nil {
		return nil, ErrStorageDisabled
	}

	key := blobstore.InvoiceKey(in.UserID, in.FileName)
	url, err := s.files.Upload(ctx, key, in.ContentType, in.Body)
	if err != nil {
		return nil, err
	}

	invoice := docstore.Clone(in.Data)
	invoice["s3Key"] = key
	invoice["fileName"] = in.FileName
	invoice["url"] = url
	invoice["uploadedAt"] = docstore.Timestamp()

	repo := s.repomanager.Progress()
	if _, err := repo.Init(ctx, in.UserID); err != nil {
		return nil, fmt.Errorf("init progress: %w", err)
	}
	doc, err := repo.AddInvoice(ctx, in.UserID, invoice)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "invoice uploaded", "client_id", in.UserID, "key", key)
	return doc, nil
}

func (s *AdminService) Quotes(ctx context.Context) ([]models.Quote, error) {
	return s.quotes.LegacyQuotes(ctx)
}

func (s *AdminService) Appointments(ctx context.Context) ([]models.Appointment, error) {
	return s.repomanager.Appointments().List(ctx)
}

func (s *AdminService) UpdateAppointment(ctx context.Context, id string, patch models.StatusPatch) (*models.Appointment, error) {
	a, err := s.repomanager.Appointments().Update(ctx, id, patch)
	return a, notFound(err, "Appointment not found")
}

func (s *AdminService) Tickets(ctx context.Context) ([]models.Ticket, error) {
	return s.repomanager.Tickets().List(ctx)
}

func (s *AdminService) UpdateTicket(ctx context.Context, id string, patch models.StatusPatch) (*models.Ticket, error) {
	t, err := s.repomanager.Tickets().Update(ctx, id, patch)
	return t, notFound(err, "Ticket not found")
}
