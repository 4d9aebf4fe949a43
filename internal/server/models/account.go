// Package models defines the documents the API stores and returns.
package models

// Account is a registered client or administrator. Password holds the
// bcrypt hash; it only travels between the repository and the auth service.
type Account struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	IsVerified bool   `json:"isVerified"`
	Blocked    bool   `json:"blocked"`
	Role       string `json:"role"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// Profile is the account as shown to its owner.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role"`
	Blocked   bool   `json:"blocked"`
	CreatedAt string `json:"createdAt"`
}

func (a *Account) Profile() Profile {
	return Profile{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Avatar:    a.Avatar,
		Role:      a.Role,
		Blocked:   a.Blocked,
		CreatedAt: a.CreatedAt,
	}
}

// AccountSummary is the admin listing projection.
type AccountSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Blocked   bool   `json:"blocked"`
	CreatedAt string `json:"createdAt"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Blocked:   a.Blocked,
		CreatedAt: a.CreatedAt,
	}
}

// ProfilePatch holds the owner-editable fields. Nil fields are left alone.
type ProfilePatch struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,nonblank,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}
