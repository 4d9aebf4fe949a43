package services

import (
	"context"
	"testing"
	"time"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/cryptox"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/auth"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/verification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, RegisterInput{Name: " Asha ", Email: "Asha@Example.com", Password: "secret1", Phone: "98400"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", res.User.Name)
	assert.Equal(t, "asha@example.com", res.User.Email)
	assert.Equal(t, common.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.User.CreatedAt)

	id, err := auth.GetUserIDFromToken(res.Token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)

	stored, err := f.m.Accounts().Get(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.True(t, cryptox.CheckPassword(stored.Password, "secret1"))
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name string
		in   RegisterInput
		want string
	}{
		{"missing name", RegisterInput{Email: "a@b.c", Password: "secret1"}, "Please provide name, email and password"},
		{"missing email", RegisterInput{Name: "A", Password: "secret1"}, "Please provide name, email and password"},
		{"short password", RegisterInput{Name: "A", Email: "a@b.c", Password: "12345"}, "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Equal(t, tt.want, messageOf(t, err))
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "A", "a@example.com", "secret1")

	_, err := f.svc.Register(context.Background(), RegisterInput{Name: "B", Email: "A@EXAMPLE.COM", Password: "secret2"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Equal(t, "User with this email already exists", messageOf(t, err))
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg := f.register(t, "A", "a@example.com", "secret1")

	res, err := f.svc.Login(ctx, "A@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)

	_, err = f.svc.Login(ctx, "a@example.com", "wrong-pass")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "", "secret1")
	assert.Equal(t, "Please provide email and password", messageOf(t, err))
}

func TestLogin_Blocked(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg := f.register(t, "A", "a@example.com", "secret1")

	_, err := f.m.Accounts().SetBlocked(ctx, reg.User.ID, true)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "a@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrAccountBlocked)

	// a wrong password on a blocked account is still a credential error
	_, err = f.svc.Login(ctx, "a@example.com", "nope-nope")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRequireAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	admin := seedAccount(t, f.m, "Root", "root@example.com", common.RoleAdmin)
	user := seedAccount(t, f.m, "U", "u@example.com", common.RoleUser)

	assert.NoError(t, f.svc.RequireAdmin(ctx, admin.ID))
	assert.ErrorIs(t, f.svc.RequireAdmin(ctx, user.ID), common.ErrorForbidden)
	assert.ErrorIs(t, f.svc.RequireAdmin(ctx, "ghost"), common.ErrorForbidden)

	_, err := f.m.Accounts().SetBlocked(ctx, admin.ID, true)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.RequireAdmin(ctx, admin.ID), common.ErrorForbidden)
}

func TestProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg := f.register(t, "A", "a@example.com", "secret1")

	name, phone := "  Asha K ", "9876543210"
	p, err := f.svc.UpdateProfile(ctx, reg.User.ID, models.ProfilePatch{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", p.Name)
	assert.Equal(t, phone, p.Phone)
	assert.Equal(t, "a@example.com", p.Email)

	got, err := f.svc.Profile(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, *p, *got)

	_, err = f.svc.Profile(ctx, "ghost")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.Equal(t, "User not found", messageOf(t, err))

	_, err = f.svc.UpdateProfile(ctx, "ghost", models.ProfilePatch{Phone: &phone})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg := f.register(t, "A", "a@example.com", "secret1")

	err := f.svc.ChangePassword(ctx, reg.User.ID, "wrong-1", "secret2")
	assert.ErrorIs(t, err, common.ErrWrongPassword)

	err = f.svc.ChangePassword(ctx, reg.User.ID, "secret1", "short")
	assert.Equal(t, "New password must be at least 6 characters", messageOf(t, err))

	err = f.svc.ChangePassword(ctx, reg.User.ID, "", "secret2")
	assert.Equal(t, "Please provide current and new password", messageOf(t, err))

	require.NoError(t, f.svc.ChangePassword(ctx, reg.User.ID, "secret1", "secret2"))

	_, err = f.svc.Login(ctx, "a@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "a@example.com", "secret2")
	assert.NoError(t, err)
}

func TestAuthInvoices(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg := f.register(t, "A", "a@example.com", "secret1")

	list, err := f.svc.Invoices(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = f.m.Progress().Init(ctx, reg.User.ID)
	require.NoError(t, err)
	_, err = f.m.Progress().AddInvoice(ctx, reg.User.ID, map[string]any{"amount": 1200})
	require.NoError(t, err)

	list, err = f.svc.Invoices(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, float64(1200), list[0]["amount"])

	_, err = f.svc.Invoices(ctx, "ghost")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "Asha", "a@example.com", "secret1")

	require.NoError(t, f.svc.SendOTP(ctx, "A@example.com"))
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "a@example.com", f.mail.sent[0].To)
	assert.Contains(t, f.mail.sent[0].HTML, "123456")

	err := f.svc.ResetPassword(ctx, "a@example.com", "newpass1")
	assert.ErrorIs(t, err, verification.ErrNotVerified)
	assert.Equal(t, "Please verify OTP first before resetting password.", messageOf(t, err))

	err = f.svc.VerifyOTP(ctx, "a@example.com", "000000")
	assert.ErrorIs(t, err, verification.ErrMismatch)
	assert.Equal(t, "Invalid OTP. Please try again.", messageOf(t, err))

	require.NoError(t, f.svc.VerifyOTP(ctx, "a@example.com", "123456"))
	require.NoError(t, f.svc.ResetPassword(ctx, "a@example.com", "newpass1"))

	_, err = f.svc.Login(ctx, "a@example.com", "newpass1")
	assert.NoError(t, err)

	err = f.svc.ResetPassword(ctx, "a@example.com", "another1")
	assert.ErrorIs(t, err, verification.ErrNotVerified)
}

func TestSendOTP_Errors(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	err := f.svc.SendOTP(ctx, " ")
	assert.Equal(t, "Please provide your email address", messageOf(t, err))

	err = f.svc.SendOTP(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, verification.ErrUnknownIdentity)
	assert.Equal(t, "No account found with this email address", messageOf(t, err))

	f.register(t, "A", "a@example.com", "secret1")
	f.mail.err = errBoom
	err = f.svc.SendOTP(ctx, "a@example.com")
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, "Failed to send OTP. Please try again later.", messageOf(t, err))
}

func TestVerifyOTP_Errors(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "A", "a@example.com", "secret1")

	err := f.svc.VerifyOTP(ctx, "a@example.com", "")
	assert.Equal(t, "Please provide email and OTP", messageOf(t, err))

	err = f.svc.VerifyOTP(ctx, "a@example.com", "123456")
	assert.ErrorIs(t, err, verification.ErrNoActiveRequest)
	assert.Equal(t, "OTP expired or not found. Please request a new OTP.", messageOf(t, err))

	require.NoError(t, f.svc.SendOTP(ctx, "a@example.com"))
	f.now = f.now.Add(10*time.Minute + time.Second)

	err = f.svc.VerifyOTP(ctx, "a@example.com", "123456")
	assert.ErrorIs(t, err, verification.ErrExpired)
	assert.Equal(t, "OTP has expired. Please request a new OTP.", messageOf(t, err))
}

func TestResetPassword_Validation(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ResetPassword(context.Background(), "", "newpass1")
	assert.Equal(t, "Please provide email and new password", messageOf(t, err))

	err = f.svc.ResetPassword(context.Background(), "a@example.com", "abc")
	assert.Equal(t, "Password must be at least 6 characters", messageOf(t, err))
}

func TestRequestDeletion(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	err := f.svc.RequestDeletion(ctx, "", "a@example.com", "")
	assert.Equal(t, "Please provide your name and email address", messageOf(t, err))

	require.NoError(t, f.svc.RequestDeletion(ctx, "Asha", "a@example.com", "No longer needed"))
	require.Len(t, f.mail.sent, 2)
	assert.Equal(t, "admin@exceptionz.test", f.mail.sent[0].To)
	assert.Contains(t, f.mail.sent[0].HTML, "No longer needed")
	assert.Equal(t, "a@example.com", f.mail.sent[1].To)
}

func TestAccountDirectory(t *testing.T) {
	m := newManager()
	ctx := context.Background()
	a := seedAccount(t, m, "A", "a@example.com", common.RoleUser)
	dir := NewAccountDirectory(m.Accounts())

	id, found, err := dir.LookupAccount(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, a.ID, id)

	_, found, err = dir.LookupAccount(ctx, "b@example.com")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, dir.SetCredential(ctx, a.ID, "hash"))
	got, err := m.Accounts().Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", got.Password)
}
