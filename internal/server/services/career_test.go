package services

import (
	"context"
	"testing"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCareerJobs(t *testing.T) {
	m := newManager()
	s := NewCareerService(m, logging.NewNop())
	ctx := context.Background()

	_, err := s.CreateJob(ctx, models.NewJob{})
	assert.ErrorIs(t, err, common.ErrorValidation)

	open, err := s.CreateJob(ctx, models.NewJob{Title: "Go Developer", Requirements: []string{"Go"}})
	require.NoError(t, err)
	assert.Equal(t, models.JobActive, open.Status)
	assert.Equal(t, 0, open.ApplicationsCount)
	assert.NotEmpty(t, open.PostedAt)

	_, err = s.CreateJob(ctx, models.NewJob{Title: "Intern", Status: "Draft"})
	require.NoError(t, err)

	active, err := s.ActiveJobs(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	all, err := s.Jobs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := s.UpdateJob(ctx, open.ID, models.JobPatch{Salary: ptr("12 LPA")})
	require.NoError(t, err)
	assert.Equal(t, "12 LPA", updated.Salary)
	assert.Equal(t, []string{"Go"}, updated.Requirements)

	_, err = s.UpdateJob(ctx, "ghost", models.JobPatch{Salary: ptr("x")})
	assert.Equal(t, "Job not found", messageOf(t, err))

	require.NoError(t, s.DeleteJob(ctx, open.ID))
	_, err = s.Job(ctx, open.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.Equal(t, "Job not found", messageOf(t, err))
}

func TestCareerApply(t *testing.T) {
	m := newManager()
	s := NewCareerService(m, logging.NewNop())
	ctx := context.Background()

	job, err := s.CreateJob(ctx, models.NewJob{Title: "Go Developer"})
	require.NoError(t, err)

	_, err = s.Apply(ctx, models.NewApplication{JobID: job.ID, Name: "Ravi"})
	assert.Equal(t, "Please provide required fields", messageOf(t, err))

	_, err = s.Apply(ctx, models.NewApplication{JobID: "ghost", Name: "Ravi", Email: "r@example.com"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	for _, name := range []string{"Ravi", "Meena"} {
		app, err := s.Apply(ctx, models.NewApplication{JobID: job.ID, Name: name, Email: name + "@example.com"})
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationNew, app.Status)
		assert.NotEmpty(t, app.AppliedAt)
	}

	got, err := s.Job(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ApplicationsCount)
}

func TestCareerApplicationsView(t *testing.T) {
	m := newManager()
	s := NewCareerService(m, logging.NewNop())
	ctx := context.Background()

	job, err := s.CreateJob(ctx, models.NewJob{Title: "Go Developer"})
	require.NoError(t, err)
	app, err := s.Apply(ctx, models.NewApplication{JobID: job.ID, Name: "Ravi", Email: "r@example.com"})
	require.NoError(t, err)
	_, err = m.Applications().Create(ctx, &models.Application{JobID: "removed", Name: "Old", Email: "o@example.com", Status: models.ApplicationNew})
	require.NoError(t, err)

	views, err := s.Applications(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	positions := map[string]string{}
	for _, v := range views {
		positions[v.Name] = v.Position
	}
	assert.Equal(t, "Go Developer", positions["Ravi"])
	assert.Equal(t, models.UnknownJobPosition, positions["Old"])

	updated, err := s.UpdateApplicationStatus(ctx, app.ID, "Shortlisted")
	require.NoError(t, err)
	assert.Equal(t, "Shortlisted", updated.Status)

	_, err = s.UpdateApplicationStatus(ctx, app.ID, "")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.UpdateApplicationStatus(ctx, "ghost", "Rejected")
	assert.Equal(t, "Application not found", messageOf(t, err))
}
