package models

// Project statuses.
const (
	ProjectPlanning   = "Planning"
	ProjectInProgress = "In Progress"
	ProjectCompleted  = "Completed"
)

// Module is one tracked piece of work inside a project.
type Module struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Progress    float64 `json:"progress"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// Project is a client engagement. Progress is the rounded mean of the
// modules' progress and is recomputed whenever a module changes.
type Project struct {
	ID                 string   `json:"id"`
	ClientID           string   `json:"clientId"`
	ClientName         string   `json:"clientName"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	ProjectName        string   `json:"projectName"`
	ProjectValue       float64  `json:"projectValue"`
	AmountPaid         float64  `json:"amountPaid"`
	InitialPaymentDate string   `json:"initialPaymentDate,omitempty"`
	SecondDueDate      string   `json:"secondDueDate,omitempty"`
	Thumbnail          string   `json:"thumbnail"`
	Location           string   `json:"location"`
	Description        string   `json:"description"`
	Status             string   `json:"status"`
	Progress           float64  `json:"progress"`
	Modules            []Module `json:"modules"`
	Version            int64    `json:"version"`
	CreatedAt          string   `json:"createdAt,omitempty"`
	UpdatedAt          string   `json:"updatedAt,omitempty"`
}

// NewProject is the admin payload for creating a project.
type NewProject struct {
	ClientID           string   `json:"clientId"`
	ClientName         string   `json:"clientName"`
	Email              string   `json:"email" validate:"omitempty,email"`
	Phone              string   `json:"phone"`
	ProjectName        string   `json:"projectName"`
	ProjectValue       float64  `json:"projectValue" validate:"gte=0"`
	AmountPaid         float64  `json:"amountPaid" validate:"gte=0"`
	InitialPaymentDate string   `json:"initialPaymentDate"`
	SecondDueDate      string   `json:"secondDueDate"`
	Thumbnail          string   `json:"thumbnail"`
	Location           string   `json:"location"`
	Description        string   `json:"description"`
	Status             string   `json:"status"`
	Modules            []Module `json:"modules" validate:"dive"`
}

// ProjectPatch is a partial project update. Nil fields are left alone.
type ProjectPatch struct {
	ClientName         *string   `json:"clientName,omitempty"`
	Email              *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string   `json:"phone,omitempty"`
	ProjectName        *string   `json:"projectName,omitempty" validate:"omitempty,min=1"`
	ProjectValue       *float64  `json:"projectValue,omitempty" validate:"omitempty,gte=0"`
	AmountPaid         *float64  `json:"amountPaid,omitempty" validate:"omitempty,gte=0"`
	InitialPaymentDate *string   `json:"initialPaymentDate,omitempty"`
	SecondDueDate      *string   `json:"secondDueDate,omitempty"`
	Thumbnail          *string   `json:"thumbnail,omitempty"`
	Location           *string   `json:"location,omitempty"`
	Description        *string   `json:"description,omitempty"`
	Status             *string   `json:"status,omitempty"`
	Modules            *[]Module `json:"modules,omitempty"`
}

// ModulePatch is a partial module update.
type ModulePatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Progress    *float64 `json:"progress,omitempty" validate:"omitempty,gte=0,lte=100"`
}
