package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  []byte
}

func stubSendMail(t *testing.T, err error) *sentMail {
	t.Helper()
	got := &sentMail{}
	orig := smtpSendMail
	smtpSendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		*got = sentMail{addr: addr, auth: a, from: from, to: to, msg: msg}
		return err
	}
	t.Cleanup(func() { smtpSendMail = orig })
	return got
}

func decodedBody(t *testing.T, raw []byte) string {
	t.Helper()
	_, body, ok := strings.Cut(string(raw), "\r\n\r\n")
	require.True(t, ok)
	b, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body, "\r\n", ""))
	require.NoError(t, err)
	return string(b)
}

func TestSMTPSender_Send(t *testing.T) {
	got := stubSendMail(t, nil)
	s := NewSMTPSender(Config{Host: "smtp.gmail.com", Port: 587, Username: "team@exceptionz.in", Password: "pw"})

	err := s.Send(context.Background(), Message{FromName: "Exceptionz", To: "a@x.com", Subject: "Hi", HTML: "<p>" + strings.Repeat("x", 200) + "</p>"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.gmail.com:587", got.addr)
	assert.NotNil(t, got.auth)
	assert.Equal(t, "team@exceptionz.in", got.from)
	assert.Equal(t, []string{"a@x.com"}, got.to)

	raw := string(got.msg)
	assert.Contains(t, raw, "From: Exceptionz <team@exceptionz.in>\r\n")
	assert.Contains(t, raw, "To: a@x.com\r\n")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.Contains(t, decodedBody(t, got.msg), strings.Repeat("x", 200))
}

func TestSMTPSender_NoAuthWithoutUser(t *testing.T) {
	got := stubSendMail(t, nil)
	s := NewSMTPSender(Config{Host: "localhost", Port: 1025, From: "noreply@exceptionz.in"})

	require.NoError(t, s.Send(context.Background(), Message{To: "a@x.com", Subject: "s"}))
	assert.Nil(t, got.auth)
	assert.Equal(t, "noreply@exceptionz.in", got.from)
}

func TestSMTPSender_Errors(t *testing.T) {
	stubSendMail(t, errors.New("535 bad credentials"))
	s := NewSMTPSender(Config{Host: "h", Port: 25})

	err := s.Send(context.Background(), Message{To: "a@x.com"})
	assert.ErrorContains(t, err, "535 bad credentials")

	err = s.Send(context.Background(), Message{})
	assert.ErrorContains(t, err, "empty recipient")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: "a@x.com"}), context.Canceled)
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(logging.New(&buf, "development"))

	require.NoError(t, s.Send(context.Background(), Message{To: "a@x.com", Subject: "Password Reset OTP - Exceptionz", HTML: "<b>123456</b>"}))
	assert.Contains(t, buf.String(), "a@x.com")
	assert.Contains(t, buf.String(), "123456")
}

func TestOTPEmail(t *testing.T) {
	msg, err := OTPEmail("a@x.com", "Asha <3", "482913", 10*time.Minute, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", msg.To)
	assert.Contains(t, msg.Subject, "Password Reset OTP")
	assert.Contains(t, msg.HTML, "482913")
	assert.Contains(t, msg.HTML, "10 minutes")
	assert.Contains(t, msg.HTML, "2025")
	assert.Contains(t, msg.HTML, "Asha &lt;3")
}

func TestDeletionEmails(t *testing.T) {
	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	admin, err := DeletionRequestEmail("admin@exceptionz.in", "Ravi", "ravi@x.com", "", at)
	require.NoError(t, err)
	assert.Equal(t, "admin@exceptionz.in", admin.To)
	assert.Contains(t, admin.HTML, "ravi@x.com")
	assert.Contains(t, admin.HTML, "Not provided")
	assert.Contains(t, admin.HTML, "04/03/2025, 3:30:00 pm")

	withReason, err := DeletionRequestEmail("admin@exceptionz.in", "Ravi", "ravi@x.com", "moving on", at)
	require.NoError(t, err)
	assert.Contains(t, withReason.HTML, "moving on")

	user, err := DeletionConfirmationEmail("ravi@x.com", "Ravi", "admin@exceptionz.in", at)
	require.NoError(t, err)
	assert.Equal(t, "ravi@x.com", user.To)
	assert.Contains(t, user.HTML, "mailto:admin@exceptionz.in")
	assert.Contains(t, user.HTML, "48 hours")
}
