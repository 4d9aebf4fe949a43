package models

// Job and application statuses.
const (
	JobActive          = "Active"
	ApplicationNew     = "New"
	UnknownJobPosition = "Unknown Position"
)

// Job is an open position on the careers page.
type Job struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Department        string   `json:"department,omitempty"`
	Location          string   `json:"location,omitempty"`
	Type              string   `json:"type,omitempty"`
	Experience        string   `json:"experience,omitempty"`
	Salary            string   `json:"salary,omitempty"`
	Description       string   `json:"description,omitempty"`
	Requirements      []string `json:"requirements,omitempty"`
	Responsibilities  []string `json:"responsibilities,omitempty"`
	Status            string   `json:"status"`
	ApplicationsCount int      `json:"applicationsCount"`
	PostedAt          string   `json:"postedAt,omitempty"`
	CreatedAt         string   `json:"createdAt,omitempty"`
	UpdatedAt         string   `json:"updatedAt,omitempty"`
}

// NewJob is the admin payload for posting a job.
type NewJob struct {
	Title            string   `json:"title"`
	Department       string   `json:"department"`
	Location         string   `json:"location"`
	Type             string   `json:"type"`
	Experience       string   `json:"experience"`
	Salary           string   `json:"salary"`
	Description      string   `json:"description"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
	Status           string   `json:"status" validate:"omitempty,oneof=Active Draft Closed"`
}

// JobPatch is a partial job update.
type JobPatch struct {
	Title            *string   `json:"title,omitempty" validate:"omitempty,min=1"`
	Department       *string   `json:"department,omitempty"`
	Location         *string   `json:"location,omitempty"`
	Type             *string   `json:"type,omitempty"`
	Experience       *string   `json:"experience,omitempty"`
	Salary           *string   `json:"salary,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Requirements     *[]string `json:"requirements,omitempty"`
	Responsibilities *[]string `json:"responsibilities,omitempty"`
	Status           *string   `json:"status,omitempty" validate:"omitempty,oneof=Active Draft Closed"`
}

// Application is a candidate's submission for a job.
type Application struct {
	ID         string `json:"id"`
	JobID      string `json:"jobId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Experience string `json:"experience,omitempty"`
	ResumeURL  string `json:"resumeUrl,omitempty"`
	CoverNote  string `json:"coverLetter,omitempty"`
	Status     string `json:"status"`
	AppliedAt  string `json:"appliedAt,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// NewApplication is the public apply payload.
type NewApplication struct {
	JobID      string `json:"jobId"`
	Name       string `json:"name"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	Experience string `json:"experience"`
	ResumeURL  string `json:"resumeUrl" validate:"omitempty,url"`
	CoverNote  string `json:"coverLetter"`
}

// ApplicationView is an application enriched with the job title.
type ApplicationView struct {
	Application
	Position string `json:"position"`
}
