package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/cryptox"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore/memory"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/logging"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/config"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/mailer"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/repomanager"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/verification"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	cryptox.Cost = bcrypt.MinCost
}

func newManager() *repomanager.DocStoreRepositoryManager {
	return repomanager.NewDocStoreRepositoryManager(memory.New(), "test-")
}

// outbox records sent mail and can be told to fail.
type outbox struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, msg)
	return nil
}

// fakeFiles is an in-memory InvoiceStorage.
type fakeFiles struct {
	objects    map[string][]byte
	uploadErr  error
	presignErr error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{objects: map[string][]byte{}}
}

func (f *fakeFiles) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	f.objects[key] = buf.Bytes()
	return "https://files.test/" + key, nil
}

func (f *fakeFiles) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://files.test/" + key + "?ttl=" + ttl.String(), nil
}

type authFixture struct {
	svc  *AuthService
	m    *repomanager.DocStoreRepositoryManager
	mail *outbox
	now  time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		m:    newManager(),
		mail: &outbox{},
		now:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	dir := NewAccountDirectory(f.m.Accounts())
	wf := verification.New(verification.NewMemoryStore(), dir, dir,
		verification.WithClock(clock),
		verification.WithCodeGenerator(func() (string, error) { return "123456", nil }),
	)
	cfg := &config.Config{
		SecretKey:       "test-secret",
		TokenTTL:        time.Hour,
		VerificationTTL: 10 * time.Minute,
		AdminEmail:      "admin@exceptionz.test",
	}
	f.svc = NewAuthService(f.m, wf, f.mail, cfg, logging.NewNop())
	f.svc.now = clock
	return f
}

func (f *authFixture) register(t *testing.T, name, email, password string) *AuthResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	return res
}

func seedAccount(t *testing.T, m repomanager.RepositoryManager, name, email, role string) *models.Account {
	t.Helper()
	hash, err := cryptox.HashPassword("password")
	require.NoError(t, err)
	a, err := m.Accounts().Create(context.Background(), &models.Account{Name: name, Email: email, Password: hash, Phone: "9000000000", Role: role})
	require.NoError(t, err)
	return a
}

func messageOf(t *testing.T, err error) string {
	t.Helper()
	msg, ok := common.MessageOf(err)
	require.True(t, ok, "no client message on %v", err)
	return msg
}

var errBoom = errors.New("boom")
