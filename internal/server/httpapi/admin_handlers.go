package httpapi

import (
	"encoding/json"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type blockRequest struct {
	Blocked bool `json:"blocked"`
}

type legacyProjectRequest struct {
	UserID  string         `json:"userId"`
	Project map[string]any `json:"project"`
}

type legacyQuoteRequest struct {
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	models.QuoteSelections
}

func (s *HTTPServer) adminUsers(c *fiber.Ctx) error {
	users, err := s.svc.Admin.Users(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"count": len(users), "users": users})
}

func (s *HTTPServer) adminSearchUsers(c *fiber.Ctx) error {
	users, err := s.svc.Admin.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"users": users})
}

func (s *HTTPServer) adminBlockUser(c *fiber.Ctx) error {
	var req blockRequest
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	user, err := s.svc.Admin.SetBlocked(c.UserContext(), c.Params("id"), req.Blocked)
	if err != nil {
		return err
	}
	msg := "User unblocked"
	if req.Blocked {
		msg = "User blocked"
	}
	return success(c, fiber.Map{"user": user, "message": msg})
}

func (s *HTTPServer) adminCreateProject(c *fiber.Ctx) error {
	var in models.NewProject
	if err := s.parse(c, &in, true); err != nil {
		return err
	}
	p, err := s.svc.Admin.CreateProject(c.UserContext(), in)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"project": p})
}

func (s *HTTPServer) adminProjects(c *fiber.Ctx) error {
	projects, err := s.svc.Admin.Projects(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"projects": emptyIfNil(projects)})
}

func (s *HTTPServer) adminProject(c *fiber.Ctx) error {
	p, err := s.svc.Admin.Project(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"project": p})
}

func (s *HTTPServer) adminUpdateProject(c *fiber.Ctx) error {
	var patch models.ProjectPatch
	if err := s.parse(c, &patch, true); err != nil {
		return err
	}
	p, err := s.svc.Admin.UpdateProject(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"project": p})
}

func (s *HTTPServer) adminUpdateModule(c *fiber.Ctx) error {
	var patch models.ModulePatch
	if err := s.parse(c, &patch, true); err != nil {
		return err
	}
	p, err := s.svc.Admin.UpdateModule(c.UserContext(), c.Params("projectId"), c.Params("moduleId"), patch)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"project": p})
}

func (s *HTTPServer) adminDeleteProject(c *fiber.Ctx) error {
	if err := s.svc.Admin.DeleteProject(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Project deleted"})
}

func (s *HTTPServer) adminLegacyProject(c *fiber.Ctx) error {
	var req legacyProjectRequest
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	doc, err := s.svc.Admin.LegacyProject(c.UserContext(), req.UserID, req.Project)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"data": doc})
}

// adminUploadInvoice takes multipart fields file, userId and invoiceData
// (a JSON object).
func (s *HTTPServer) adminUploadInvoice(c *fiber.Ctx) error {
	userID := c.FormValue("userId")
	raw := c.FormValue("invoiceData")
	fh, err := c.FormFile("file")
	if err != nil || userID == "" || raw == "" {
		return common.BadRequest("Missing data")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil || data == nil {
		return common.BadRequest("invoiceData must be a JSON object")
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := s.svc.Admin.UploadInvoice(c.UserContext(), services.InvoiceUpload{
		UserID:      userID,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Body:        f,
		Data:        data,
	})
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"data": doc})
}

func (s *HTTPServer) adminQuotes(c *fiber.Ctx) error {
	quotes, err := s.svc.Admin.Quotes(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"quotes": emptyIfNil(quotes)})
}

func (s *HTTPServer) submitLegacyQuote(c *fiber.Ctx) error {
	var req legacyQuoteRequest
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	if _, err := s.svc.Quotes.SubmitLegacy(c.UserContext(), req.UserID, req.UserEmail, req.UserName, req.QuoteSelections); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Quote submitted"})
}

func (s *HTTPServer) adminQuoteRequests(c *fiber.Ctx) error {
	requests, err := s.svc.Quotes.Requests(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"requests": emptyIfNil(requests)})
}

func (s *HTTPServer) adminQuoteRequest(c *fiber.Ctx) error {
	req, err := s.svc.Quotes.Request(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"request": req})
}

func (s *HTTPServer) adminUpdateQuoteRequest(c *fiber.Ctx) error {
	var patch models.QuoteRequestPatch
	if err := s.parse(c, &patch, true); err != nil {
		return err
	}
	req, err := s.svc.Quotes.UpdateRequest(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"request": req})
}

func (s *HTTPServer) adminDeleteQuoteRequest(c *fiber.Ctx) error {
	if err := s.svc.Quotes.DeleteRequest(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Quote request deleted"})
}

func (s *HTTPServer) adminPricing(c *fiber.Ctx) error {
	return success(c, fiber.Map{"pricing": s.svc.Quotes.Pricing(c.UserContext())})
}

func (s *HTTPServer) adminSavePricing(c *fiber.Ctx) error {
	var p models.Pricing
	if err := s.parse(c, &p, false); err != nil {
		return err
	}
	saved, err := s.svc.Quotes.SavePricing(c.UserContext(), p)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"pricing": saved, "message": "Pricing updated"})
}

func (s *HTTPServer) adminAppointments(c *fiber.Ctx) error {
	list, err := s.svc.Admin.Appointments(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"appointments": emptyIfNil(list)})
}

func (s *HTTPServer) adminUpdateAppointment(c *fiber.Ctx) error {
	var patch models.StatusPatch
	if err := s.parse(c, &patch, true); err != nil {
		return err
	}
	appt, err := s.svc.Admin.UpdateAppointment(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"appointment": appt})
}

func (s *HTTPServer) adminTickets(c *fiber.Ctx) error {
	list, err := s.svc.Admin.Tickets(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"tickets": emptyIfNil(list)})
}

func (s *HTTPServer) adminUpdateTicket(c *fiber.Ctx) error {
	var patch models.StatusPatch
	if err := s.parse(c, &patch, true); err != nil {
		return err
	}
	t, err := s.svc.Admin.UpdateTicket(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"ticket": t})
}
