package httpapi

import "github.com/gofiber/fiber/v2"

const apiVersion = "1.0.0"

func (s *HTTPServer) registerRoutes() {
	app := s.app

	app.Get("/", s.health)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", s.register)
	authGroup.Post("/login", s.login)
	authGroup.Get("/profile", s.requireAuth, s.profile)
	authGroup.Put("/profile", s.requireAuth, s.updateProfile)
	authGroup.Post("/change-password", s.requireAuth, s.changePassword)
	authGroup.Get("/invoices", s.requireAuth, s.authInvoices)
	authGroup.Post("/send-otp", s.sendOTP)
	authGroup.Post("/verify-otp", s.verifyOTP)
	authGroup.Post("/reset-password", s.resetPassword)
	authGroup.Post("/request-deletion", s.requestDeletion)

	client := app.Group("/api/client", s.requireAuth)
	client.Get("/projects", s.clientProjects)
	client.Get("/projects/:id", s.clientProject)
	client.Get("/invoices", s.clientInvoices)
	client.Post("/quote", s.clientQuote)
	client.Get("/quote-requests", s.clientQuoteRequests)
	client.Post("/appointments", s.bookAppointment)
	client.Get("/appointments", s.clientAppointments)
	client.Post("/tickets", s.submitTicket)
	client.Get("/tickets", s.clientTickets)

	// The quick-quote form posts without signing in.
	app.Post("/api/admin/quotes/submit", s.submitLegacyQuote)

	admin := app.Group("/api/admin", s.requireAuth, s.requireAdmin)
	admin.Get("/users", s.adminUsers)
	admin.Get("/users/search", s.adminSearchUsers)
	admin.Put("/users/:id/block", s.adminBlockUser)
	admin.Post("/projects", s.adminCreateProject)
	admin.Get("/projects", s.adminProjects)
	admin.Get("/projects/:id", s.adminProject)
	admin.Put("/projects/:id", s.adminUpdateProject)
	admin.Put("/projects/:projectId/modules/:moduleId", s.adminUpdateModule)
	admin.Delete("/projects/:id", s.adminDeleteProject)
	admin.Post("/project", s.adminLegacyProject)
	admin.Post("/invoice", s.adminUploadInvoice)
	admin.Get("/quotes", s.adminQuotes)
	admin.Get("/quote-requests", s.adminQuoteRequests)
	admin.Get("/quote-requests/:id", s.adminQuoteRequest)
	admin.Put("/quote-requests/:id", s.adminUpdateQuoteRequest)
	admin.Delete("/quote-requests/:id", s.adminDeleteQuoteRequest)
	admin.Get("/pricing", s.adminPricing)
	admin.Put("/pricing", s.adminSavePricing)
	admin.Get("/appointments", s.adminAppointments)
	admin.Put("/appointments/:id", s.adminUpdateAppointment)
	admin.Get("/tickets", s.adminTickets)
	admin.Put("/tickets/:id", s.adminUpdateTicket)

	career := app.Group("/api/career")
	career.Get("/jobs", s.activeJobs)
	career.Get("/jobs/:id", s.job)
	career.Post("/apply", s.apply)

	careerAdmin := career.Group("/admin", s.requireAuth, s.requireAdmin)
	careerAdmin.Get("/jobs", s.adminJobs)
	careerAdmin.Post("/jobs", s.adminCreateJob)
	careerAdmin.Put("/jobs/:id", s.adminUpdateJob)
	careerAdmin.Delete("/jobs/:id", s.adminDeleteJob)
	careerAdmin.Get("/applications", s.adminApplications)
	careerAdmin.Put("/applications/:id", s.adminUpdateApplication)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})
}

func (s *HTTPServer) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Exceptionz API is running!",
		"version": apiVersion,
	})
}
