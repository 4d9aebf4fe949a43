package httpapi

import (
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

func (s *HTTPServer) clientProjects(c *fiber.Ctx) error {
	projects, err := s.svc.Client.Projects(c.UserContext(), accountID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"projects": emptyIfNil(projects)})
}

func (s *HTTPServer) clientProject(c *fiber.Ctx) error {
	p, err := s.svc.Client.Project(c.UserContext(), accountID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"project": p})
}

func (s *HTTPServer) clientInvoices(c *fiber.Ctx) error {
	invoices, err := s.svc.Client.Invoices(c.UserContext(), accountID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"invoices": invoices})
}

func (s *HTTPServer) clientQuote(c *fiber.Ctx) error {
	var sel models.QuoteSelections
	if err := s.parse(c, &sel, true); err != nil {
		return err
	}
	req, err := s.svc.Client.SubmitQuote(c.UserContext(), accountID(c), sel)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{
		"message":   "Quote submitted successfully",
		"quote":     req.CalculatedQuote,
		"requestId": req.ID,
	})
}

func (s *HTTPServer) clientQuoteRequests(c *fiber.Ctx) error {
	requests, err := s.svc.Client.QuoteRequests(c.UserContext(), accountID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"requests": emptyIfNil(requests)})
}

func (s *HTTPServer) bookAppointment(c *fiber.Ctx) error {
	var in models.NewAppointment
	if err := s.parse(c, &in, true); err != nil {
		return err
	}
	appt, err := s.svc.Client.BookAppointment(c.UserContext(), accountID(c), in)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"appointment": appt, "message": "Appointment booked successfully"})
}

func (s *HTTPServer) clientAppointments(c *fiber.Ctx) error {
	list, err := s.svc.Client.Appointments(c.UserContext(), accountID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"appointments": emptyIfNil(list)})
}

func (s *HTTPServer) submitTicket(c *fiber.Ctx) error {
	var in models.NewTicket
	if err := s.parse(c, &in, true); err != nil {
		return err
	}
	t, err := s.svc.Client.SubmitTicket(c.UserContext(), accountID(c), in)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"ticket": t, "message": "Support ticket submitted successfully"})
}

func (s *HTTPServer) clientTickets(c *fiber.Ctx) error {
	list, err := s.svc.Client.Tickets(c.UserContext(), accountID(c))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"tickets": emptyIfNil(list)})
}
