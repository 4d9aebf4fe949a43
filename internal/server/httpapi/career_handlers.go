package httpapi

import (
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

type applicationStatusRequest struct {
	Status string `json:"status"`
}

func (s *HTTPServer) activeJobs(c *fiber.Ctx) error {
	jobs, err := s.svc.Career.ActiveJobs(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"jobs": emptyIfNil(jobs)})
}

func (s *HTTPServer) job(c *fiber.Ctx) error {
	j, err := s.svc.Career.Job(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"job": j})
}

func (s *HTTPServer) apply(c *fiber.Ctx) error {
	var in models.NewApplication
	if err := s.parse(c, &in, true); err != nil {
		return err
	}
	app, err := s.svc.Career.Apply(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{"application": app})
}

func (s *HTTPServer) adminJobs(c *fiber.Ctx) error {
	jobs, err := s.svc.Career.Jobs(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"jobs": emptyIfNil(jobs)})
}

func (s *HTTPServer) adminCreateJob(c *fiber.Ctx) error {
	var in models.NewJob
	if err := s.parse(c, &in, true); err != nil {
		return err
	}
	j, err := s.svc.Career.CreateJob(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{"job": j})
}

func (s *HTTPServer) adminUpdateJob(c *fiber.Ctx) error {
	var patch models.JobPatch
	if err := s.parse(c, &patch, true); err != nil {
		return err
	}
	j, err := s.svc.Career.UpdateJob(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"job": j})
}

func (s *HTTPServer) adminDeleteJob(c *fiber.Ctx) error {
	if err := s.svc.Career.DeleteJob(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Job deleted"})
}

func (s *HTTPServer) adminApplications(c *fiber.Ctx) error {
	apps, err := s.svc.Career.Applications(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"applications": apps})
}

func (s *HTTPServer) adminUpdateApplication(c *fiber.Ctx) error {
	var req applicationStatusRequest
	if err := s.parse(c, &req, false); err != nil {
		return err
	}
	app, err := s.svc.Career.UpdateApplicationStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"application": app})
}
