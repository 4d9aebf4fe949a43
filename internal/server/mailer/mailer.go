// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/google/uuid"
)

// Message is a single HTML email.
type Message struct {
	FromName string
	To       string
	Subject  string
	HTML     string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// smtpSendMail is a seam for testing smtp.SendMail.
var smtpSendMail = smtp.SendMail

// Config is the SMTP account used for outbound mail.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the envelope sender; Username is used when empty.
	From string
}

type SMTPSender struct {
	cfg Config
	now func() time.Time
}

func NewSMTPSender(cfg Config) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{cfg: cfg, now: time.Now}
}

// Send blocks until the server accepts the message. The context is only
// checked before dialing since net/smtp has no cancellation hook.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("send mail: empty recipient")
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	body := s.compose(msg)
	if err := smtpSendMail(addr, auth, s.cfg.From, []string{msg.To}, body); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) compose(msg Message) []byte {
	from := s.cfg.From
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", msg.FromName), s.cfg.From)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), s.cfg.Host)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")

	enc := base64.StdEncoding.EncodeToString([]byte(msg.HTML))
	for len(enc) > 76 {
		b.WriteString(enc[:76] + "\r\n")
		enc = enc[76:]
	}
	b.WriteString(enc + "\r\n")
	return b.Bytes()
}

// LogSender writes messages to the log instead of delivering them.
// It stands in for SMTP when no mail account is configured.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.Info(ctx, "mail not delivered, no smtp account configured",
		"to", msg.To, "subject", msg.Subject, "bytes", len(msg.HTML))
	s.log.Debug(ctx, "mail body", "html", strings.TrimSpace(msg.HTML))
	return nil
}
