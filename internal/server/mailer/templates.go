package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Kolkata is the zone request timestamps are shown in.
var Kolkata = loadZone("Asia/Kolkata", 5*60*60+30*60)

func loadZone(name string, offset int) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone("IST", offset)
}

func render(name string, data any) (string, error) {
	var b bytes.Buffer
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}

// OTPEmail is the password-reset code email.
func OTPEmail(to, name, code string, ttl time.Duration, now time.Time) (Message, error) {
	html, err := render("otp.html", struct {
		Name    string
		Code    string
		Minutes int
		Year    int
	}{name, code, int(ttl.Minutes()), now.Year()})
	if err != nil {
		return Message{}, err
	}
	return Message{
		FromName: "Exceptionz",
		To:       to,
		Subject:  "Password Reset OTP - Exceptionz",
		HTML:     html,
	}, nil
}

// DeletionRequestEmail notifies the administrator of an account deletion request.
func DeletionRequestEmail(adminTo, name, email, reason string, requestedAt time.Time) (Message, error) {
	html, err := render("deletion_admin.html", struct {
		Name        string
		Email       string
		Reason      string
		RequestedAt string
	}{name, email, reason, requestedAt.In(Kolkata).Format("02/01/2006, 3:04:05 pm")})
	if err != nil {
		return Message{}, err
	}
	return Message{
		FromName: "Exceptionz App",
		To:       adminTo,
		Subject:  "Account Deletion Request - Exceptionz",
		HTML:     html,
	}, nil
}

// DeletionConfirmationEmail acknowledges a deletion request to the requester.
func DeletionConfirmationEmail(to, name, support string, now time.Time) (Message, error) {
	html, err := render("deletion_user.html", struct {
		Name    string
		Support string
		Year    int
	}{name, support, now.Year()})
	if err != nil {
		return Message{}, err
	}
	return Message{
		FromName: "Exceptionz Support",
		To:       to,
		Subject:  "Account Deletion Request Received - Exceptionz",
		HTML:     html,
	}, nil
}
