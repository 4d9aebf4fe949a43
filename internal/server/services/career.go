package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/repomanager"
)

// CareerService runs the public careers page and its admin side.
type CareerService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewCareerService(m repomanager.RepositoryManager, log logging.Logger) *CareerService {
	return &CareerService{repomanager: m, log: log.With("module", "career")}
}

func (s *CareerService) ActiveJobs(ctx context.Context) ([]models.Job, error) {
	return s.repomanager.Jobs().ListByStatus(ctx, models.JobActive)
}

func (s *CareerService) Job(ctx context.Context, id string) (*models.Job, error) {
	j, err := s.repomanager.Jobs().Get(ctx, id)
	return j, notFound(err, "Job not found")
}

// Apply records an application and bumps the job's application counter.
// The counter is best effort once the application is stored.
func (s *CareerService) Apply(ctx context.Context, in models.NewApplication) (*models.Application, error) {
	if strings.TrimSpace(in.JobID) == "" || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, common.BadRequest("Please provide required fields")
	}
	if _, err := s.Job(ctx, in.JobID); err != nil {
		return nil, err
	}

	app, err := s.repomanager.Applications().Create(ctx, &models.Application{
		JobID:      in.JobID,
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Phone:      in.Phone,
		Experience: in.Experience,
		ResumeURL:  in.ResumeURL,
		CoverNote:  in.CoverNote,
		Status:     models.ApplicationNew,
		AppliedAt:  docstore.Timestamp(),
	})
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	if _, err := s.repomanager.Jobs().IncrementApplications(ctx, in.JobID); err != nil {
		s.log.Warn(ctx, "increment applications", "job_id", in.JobID, "error", err)
	}
	s.log.Info(ctx, "application received", "application_id", app.ID, "job_id", in.JobID)
	return app, nil
}

func (s *CareerService) Jobs(ctx context.Context) ([]models.Job, error) {
	return s.repomanager.Jobs().List(ctx)
}

func (s *CareerService) CreateJob(ctx context.Context, in models.NewJob) (*models.Job, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, common.BadRequest("Please provide a job title")
	}
	status := in.Status
	if status == "" {
		status = models.JobActive
	}
	j, err := s.repomanager.Jobs().Create(ctx, &models.Job{
		Title:            in.Title,
		Department:       in.Department,
		Location:         in.Location,
		Type:             in.Type,
		Experience:       in.Experience,
		Salary:           in.Salary,
		Description:      in.Description,
		Requirements:     in.Requirements,
		Responsibilities: in.Responsibilities,
		Status:           status,
		PostedAt:         docstore.Timestamp(),
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.log.Info(ctx, "job posted", "job_id", j.ID)
	return j, nil
}

func (s *CareerService) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error) {
	j, err := s.repomanager.Jobs().Update(ctx, id, patch)
	return j, notFound(err, "Job not found")
}

func (s *CareerService) DeleteJob(ctx context.Context, id string) error {
	return s.repomanager.Jobs().Delete(ctx, id)
}

// Applications lists every application with its job title.
func (s *CareerService) Applications(ctx context.Context) ([]models.ApplicationView, error) {
	apps, err := s.repomanager.Applications().List(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := s.repomanager.Jobs().List(ctx)
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(jobs))
	for _, j := range jobs {
		titles[j.ID] = j.Title
	}

	out := make([]models.ApplicationView, 0, len(apps))
	for _, a := range apps {
		position, ok := titles[a.JobID]
		if !ok {
			position = models.UnknownJobPosition
		}
		out = append(out, models.ApplicationView{Application: a, Position: position})
	}
	return out, nil
}

func (s *CareerService) UpdateApplicationStatus(ctx context.Context, id, status string) (*models.Application, error) {
	if strings.TrimSpace(status) == "" {
		return nil, common.BadRequest("Please provide a status")
	}
	a, err := s.repomanager.Applications().UpdateStatus(ctx, id, status)
	return a, notFound(err, "Application not found")
}
