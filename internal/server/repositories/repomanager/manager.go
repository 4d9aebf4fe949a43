// Package repomanager vends the entity repositories over one document store,
// mapping every logical table onto its physical, prefixed name.
package repomanager

import (
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

type RepositoryManager interface {
	Accounts() accounts.Repository
	Progress() progress.Repository
	Projects() projects.Repository
	Appointments() appointments.Repository
	Tickets() tickets.Repository
	Jobs() jobs.Repository
	Applications() applications.Repository
	Quotes() quotes.Repository
	QuoteRequests() quoterequests.Repository
	Pricing() pricing.Repository
	// TableName returns the physical name of a logical table.
	TableName(logical string) string
}
