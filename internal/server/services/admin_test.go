package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminService(m repomanager.RepositoryManager, files InvoiceStorage) *AdminService {
	return NewAdminService(m, NewQuoteService(m, logging.NewNop()), files, logging.NewNop())
}

func ptr[T any](v T) *T { return &v }

func TestAdminUsersAndSearch(t *testing.T) {
	m := newManager()
	s := newAdminService(m, nil)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		seedAccount(t, m, fmt.Sprintf("Ravi %d", i), fmt.Sprintf("ravi%d@example.com", i), common.RoleUser)
	}
	seedAccount(t, m, "Meena", "meena@example.com", common.RoleUser)

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 13)

	found, err := s.Search(ctx, "ravi")
	require.NoError(t, err)
	assert.Len(t, found, 10)

	found, err = s.Search(ctx, "r")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = s.Search(ctx, "meen")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Meena", found[0].Name)
}

func TestAdminSetBlocked(t *testing.T) {
	m := newManager()
	s := newAdminService(m, nil)
	ctx := context.Background()
	a := seedAccount(t, m, "A", "a@example.com", common.RoleUser)

	sum, err := s.SetBlocked(ctx, a.ID, true)
	require.NoError(t, err)
	assert.True(t, sum.Blocked)

	_, err = s.SetBlocked(ctx, "ghost", true)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.Equal(t, "User not found", messageOf(t, err))
}

func TestAdminProjectLifecycle(t *testing.T) {
	m := newManager()
	s := newAdminService(m, nil)
	ctx := context.Background()

	_, err := s.CreateProject(ctx, models.NewProject{ClientID: "c1"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	p, err := s.CreateProject(ctx, models.NewProject{
		ClientID:    "c1",
		ProjectName: "Shop",
		Modules:     []models.Module{{Name: "Design"}, {Name: "Build"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectPlanning, p.Status)
	require.Len(t, p.Modules, 2)
	assert.NotEmpty(t, p.Modules[0].ID)
	assert.NotEqual(t, p.Modules[0].ID, p.Modules[1].ID)

	p, err = s.UpdateModule(ctx, p.ID, p.Modules[0].ID, models.ModulePatch{Progress: ptr(100.0)})
	require.NoError(t, err)
	assert.Equal(t, float64(50), p.Progress)

	_, err = s.UpdateModule(ctx, p.ID, "ghost", models.ModulePatch{Progress: ptr(10.0)})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.Equal(t, "Project or module not found", messageOf(t, err))

	p, err = s.UpdateProject(ctx, p.ID, models.ProjectPatch{Status: ptr(models.ProjectInProgress)})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectInProgress, p.Status)
	assert.Equal(t, "Shop", p.ProjectName)

	_, err = s.UpdateProject(ctx, "ghost", models.ProjectPatch{Status: ptr("x")})
	assert.Equal(t, "Project not found", messageOf(t, err))

	all, err := s.Projects(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.DeleteProject(ctx, p.ID))
	_, err = s.Project(ctx, p.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestAdminLegacyProject(t *testing.T) {
	m := newManager()
	s := newAdminService(m, nil)
	ctx := context.Background()

	_, err := s.LegacyProject(ctx, "", map[string]any{"id": "p1"})
	assert.Equal(t, "Missing data", messageOf(t, err))

	_, err = s.LegacyProject(ctx, "c1", map[string]any{"id": "p1", "name": "Shop"})
	require.NoError(t, err)
	doc, err := s.LegacyProject(ctx, "c1", map[string]any{"id": "p1", "name": "Shop v2"})
	require.NoError(t, err)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "Shop v2", doc.Projects[0]["name"])
}

func TestAdminUploadInvoice(t *testing.T) {
	m := newManager()
	files := newFakeFiles()
	s := newAdminService(m, files)
	ctx := context.Background()

	_, err := s.UploadInvoice(ctx, InvoiceUpload{UserID: "c1", Body: strings.NewReader("x")})
	assert.Equal(t, "Missing data", messageOf(t, err))

	doc, err := s.UploadInvoice(ctx, InvoiceUpload{
		UserID:      "c1",
		FileName:    "march.pdf",
		ContentType: "application/pdf",
		Body:        strings.NewReader("%PDF-1.4"),
		Data:        map[string]any{"amount": 5000, "month": "March"},
	})
	require.NoError(t, err)
	require.Len(t, doc.Invoices, 1)

	inv := doc.Invoices[0]
	key, _ := inv["s3Key"].(string)
	assert.True(t, strings.HasPrefix(key, "invoices/c1/"))
	assert.True(t, strings.HasSuffix(key, "-march.pdf"))
	assert.Equal(t, "march.pdf", inv["fileName"])
	assert.Equal(t, "https://files.test/"+key, inv["url"])
	assert.Equal(t, "March", inv["month"])
	assert.Equal(t, []byte("%PDF-1.4"), files.objects[key])

	files.uploadErr = errBoom
	_, err = s.UploadInvoice(ctx, InvoiceUpload{UserID: "c1", FileName: "a.pdf", Body: strings.NewReader("x"), Data: map[string]any{}})
	assert.ErrorIs(t, err, errBoom)

	_, err = newAdminService(m, nil).UploadInvoice(ctx, InvoiceUpload{UserID: "c1", Body: strings.NewReader("x"), Data: map[string]any{}})
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestAdminAppointmentsAndTickets(t *testing.T) {
	m := newManager()
	s := newAdminService(m, nil)
	ctx := context.Background()

	appt, err := m.Appointments().Create(ctx, &models.Appointment{ClientID: "c1", Date: "2024-06-01", Time: "10:00", Status: models.AppointmentPending})
	require.NoError(t, err)
	ticket, err := m.Tickets().Create(ctx, &models.Ticket{ClientID: "c1", Subject: "s", Status: models.TicketActive, Priority: models.TicketMedium})
	require.NoError(t, err)

	got, err := s.UpdateAppointment(ctx, appt.ID, models.StatusPatch{Status: ptr("Confirmed"), Notes: ptr("bring specs")})
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", got.Status)
	assert.Equal(t, "bring specs", got.AdminNotes)

	gotT, err := s.UpdateTicket(ctx, ticket.ID, models.StatusPatch{Status: ptr("Resolved")})
	require.NoError(t, err)
	assert.Equal(t, "Resolved", gotT.Status)

	_, err = s.UpdateTicket(ctx, "ghost", models.StatusPatch{Status: ptr("Resolved")})
	assert.Equal(t, "Ticket not found", messageOf(t, err))

	appts, err := s.Appointments(ctx)
	require.NoError(t, err)
	assert.Len(t, appts, 1)
	tickets, err := s.Tickets(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}
