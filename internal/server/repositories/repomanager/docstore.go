package repomanager

import (
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/accounts"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/applications"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/appointments"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/jobs"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/pricing"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/progress"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/projects"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/quoterequests"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/quotes"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/tickets"
)

// DocStoreRepositoryManager builds every repository on the same store.
// Repositories are stateless, so each call returns a fresh one.
type DocStoreRepositoryManager struct {
	store  docstore.Store
	prefix string
}

// NewDocStoreRepositoryManager binds the manager to store. prefix is
// prepended to every logical table name, e.g. "exceptionz-" + "jobs".
func NewDocStoreRepositoryManager(store docstore.Store, prefix string) *DocStoreRepositoryManager {
	return &DocStoreRepositoryManager{store: store, prefix: prefix}
}

func (m *DocStoreRepositoryManager) TableName(logical string) string {
	return m.prefix + logical
}

func (m *DocStoreRepositoryManager) Accounts() accounts.Repository {
	return accounts.NewDocStoreRepository(m.store, m.TableName(accounts.Table))
}

func (m *DocStoreRepositoryManager) Progress() progress.Repository {
	return progress.NewDocStoreRepository(m.store, m.TableName(progress.Table))
}

func (m *DocStoreRepositoryManager) Projects() projects.Repository {
	return projects.NewDocStoreRepository(m.store, m.TableName(projects.Table))
}

func (m *DocStoreRepositoryManager) Appointments() appointments.Repository {
	return appointments.NewDocStoreRepository(m.store, m.TableName(appointments.Table))
}

func (m *DocStoreRepositoryManager) Tickets() tickets.Repository {
	return tickets.NewDocStoreRepository(m.store, m.TableName(tickets.Table))
}

func (m *DocStoreRepositoryManager) Jobs() jobs.Repository {
	return jobs.NewDocStoreRepository(m.store, m.TableName(jobs.Table))
}

func (m *DocStoreRepositoryManager) Applications() applications.Repository {
	return applications.NewDocStoreRepository(m.store, m.TableName(applications.Table))
}

func (m *DocStoreRepositoryManager) Quotes() quotes.Repository {
	return quotes.NewDocStoreRepository(m.store, m.TableName(quotes.Table))
}

func (m *DocStoreRepositoryManager) QuoteRequests() quoterequests.Repository {
	return quoterequests.NewDocStoreRepository(m.store, m.TableName(quoterequests.Table))
}

func (m *DocStoreRepositoryManager) Pricing() pricing.Repository {
	return pricing.NewDocStoreRepository(m.store, m.TableName(pricing.Table))
}
