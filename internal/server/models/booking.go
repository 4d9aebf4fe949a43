package models

// Default statuses and priorities.
const (
	AppointmentPending = "Pending"
	TicketActive       = "Active"
	TicketMedium       = "Medium"
)

// Appointment is a consultation booked by a client.
type Appointment struct {
	ID         string `json:"id"`
	ClientID   string `json:"clientId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Purpose    string `json:"purpose"`
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// NewAppointment is the client booking payload.
type NewAppointment struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Purpose string `json:"purpose"`
	Phone   string `json:"phone"`
}

// Ticket is a client support request.
type Ticket struct {
	ID          string `json:"id"`
	ClientID    string `json:"clientId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	AdminNotes  string `json:"adminNotes,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// NewTicket is the client support payload.
type NewTicket struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	Phone       string `json:"phone"`
}

// StatusPatch is the admin update for appointments and tickets.
type StatusPatch struct {
	Status   *string `json:"status,omitempty" validate:"omitempty,min=1"`
	Priority *string `json:"priority,omitempty"`
	Date     *string `json:"date,omitempty"`
	Time     *string `json:"time,omitempty"`
	Notes    *string `json:"adminNotes,omitempty"`
}
