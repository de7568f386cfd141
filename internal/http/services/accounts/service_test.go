package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dropDatabas3/holamaria/internal/email"
	"github.com/dropDatabas3/holamaria/internal/oauth"
	"github.com/dropDatabas3/holamaria/internal/security/password"
	"github.com/dropDatabas3/holamaria/internal/security/signedlink"
	"github.com/dropDatabas3/holamaria/internal/store/core"
	"github.com/dropDatabas3/holamaria/internal/store/memory"
)

// fakeSender captura los mails en vez de mandarlos.
type fakeSender struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	to, subject, body string
}

func (f *fakeSender) Send(to, subject, htmlBody, textBody string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: textBody})
	return nil
}

// params chicos para que los tests no quemen CPU en argon2
var testHash = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func newTestService(t *testing.T) (*Service, *memory.Store, *fakeSender) {
	t.Helper()
	store := memory.New()
	sender := &fakeSender{}
	mailer := email.NewService(sender, signedlink.New([]byte("secret"), 180*time.Second), "http://127.0.0.1:8080")
	svc := NewService(Deps{Store: store, Mailer: mailer, Hash: testHash})
	return svc, store, sender
}

func TestRegister(t *testing.T) {
	svc, store, sender := newTestService(t)
	ctx := context.Background()

	acc, err := svc.Register(ctx, "maria", "Maria@Example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if acc.Email != "maria@example.com" {
		t.Fatalf("email not lowercased: %q", acc.Email)
	}
	if acc.Provider != oauth.ProviderCommon {
		t.Fatalf("provider: got %q", acc.Provider)
	}
	if acc.Active || acc.EmailVerified {
		t.Fatalf("new local account must start inactive: %+v", acc)
	}
	if acc.PasswordHash == nil || !password.Verify("hunter2hunter2", *acc.PasswordHash) {
		t.Fatal("password hash missing or wrong")
	}

	if len(sender.sent) != 1 {
		t.Fatalf("want 1 activation mail, got %d", len(sender.sent))
	}
	m := sender.sent[0]
	if m.to != "maria@example.com" || m.subject != "Confirm your Account" {
		t.Fatalf("unexpected mail: %+v", m)
	}
	if !strings.Contains(m.body, "/active/?code=") {
		t.Fatalf("mail body missing activation link: %q", m.body)
	}

	if _, err := store.GetByEmailProvider(ctx, "maria@example.com", oauth.ProviderCommon); err != nil {
		t.Fatalf("account not persisted: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "u", "not-an-email", "hunter2hunter2"); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad email: want ErrValidation, got %v", err)
	}
	if _, err := svc.Register(ctx, "u", "a@b.com", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password: want ErrValidation, got %v", err)
	}
}

func TestRegister_DefaultUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	acc, err := svc.Register(context.Background(), "  ", "a@b.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if acc.DisplayName != oauth.DefaultDisplayName {
		t.Fatalf("want %q, got %q", oauth.DefaultDisplayName, acc.DisplayName)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "u", "a@b.com", "hunter2hunter2"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "v", "A@B.com", "hunter2hunter2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestRegister_MailFailure(t *testing.T) {
	svc, _, sender := newTestService(t)
	sender.fail = true

	_, err := svc.Register(context.Background(), "u", "a@b.com", "hunter2hunter2")
	if !errors.Is(err, ErrMailDelivery) {
		t.Fatalf("want ErrMailDelivery, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	acc, err := svc.Register(ctx, "u", "a@b.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}

	// todavía inactiva
	if _, err := svc.Authenticate(ctx, "a@b.com", "hunter2hunter2"); !errors.Is(err, ErrInactive) {
		t.Fatalf("inactive account: want ErrInactive, got %v", err)
	}

	acc.Active = true
	if err := store.Update(ctx, acc); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Authenticate(ctx, "A@B.COM", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Authenticate err: %v", err)
	}
	if got.ID != acc.ID {
		t.Fatalf("id mismatch: %q vs %q", got.ID, acc.ID)
	}

	if _, err := svc.Authenticate(ctx, "a@b.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@b.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_FederatedAccountHasNoPassword(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	// cuenta federada con el mismo email que intenta el login local
	fed := &core.Account{Email: "a@b.com", Provider: oauth.ProviderKakao, Active: true, EmailVerified: true}
	if err := store.Create(ctx, fed); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(ctx, "a@b.com", "whatever-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestChangeEmail(t *testing.T) {
	svc, store, sender := newTestService(t)
	ctx := context.Background()

	acc, err := svc.Register(ctx, "u", "old@b.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	acc.Active = true
	acc.EmailVerified = true
	if err := store.Update(ctx, acc); err != nil {
		t.Fatal(err)
	}
	sender.sent = nil

	got, err := svc.ChangeEmail(ctx, acc.ID, "New@B.com")
	if err != nil {
		t.Fatalf("ChangeEmail err: %v", err)
	}
	if got.Email != "new@b.com" {
		t.Fatalf("email: got %q", got.Email)
	}
	if got.EmailVerified {
		t.Fatal("changed email must be unverified until confirmed")
	}
	if len(sender.sent) != 1 || sender.sent[0].to != "new@b.com" {
		t.Fatalf("verification mail not sent to new address: %+v", sender.sent)
	}
	if !strings.Contains(sender.sent[0].body, "/verify/?code=") {
		t.Fatalf("mail body missing verify link: %q", sender.sent[0].body)
	}
}

func TestChangeEmail_FederatedRejected(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	fed := &core.Account{Email: "a@kakao.com", Provider: oauth.ProviderKakao, Active: true}
	if err := store.Create(ctx, fed); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ChangeEmail(ctx, fed.ID, "new@b.com"); !errors.Is(err, ErrFederated) {
		t.Fatalf("want ErrFederated, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	acc, err := svc.Register(ctx, "u", "a@b.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	acc.Active = true
	if err := store.Update(ctx, acc); err != nil {
		t.Fatal(err)
	}

	if err := svc.ResetPassword(ctx, acc.ID, "new-password-123"); err != nil {
		t.Fatalf("ResetPassword err: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "a@b.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password still works")
	}
	if _, err := svc.Authenticate(ctx, "a@b.com", "new-password-123"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	if err := svc.ResetPassword(ctx, acc.ID, "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password: want ErrValidation, got %v", err)
	}
}

func TestResendActivation(t *testing.T) {
	svc, store, sender := newTestService(t)
	ctx := context.Background()

	acc, err := svc.Register(ctx, "u", "a@b.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	sender.sent = nil

	if err := svc.ResendActivation(ctx, "A@B.com"); err != nil {
		t.Fatalf("ResendActivation err: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("want 1 mail, got %d", len(sender.sent))
	}

	// cuenta ya activa: no-op
	acc.Active = true
	if err := store.Update(ctx, acc); err != nil {
		t.Fatal(err)
	}
	sender.sent = nil
	if err := svc.ResendActivation(ctx, "a@b.com"); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("active account must not get activation mail: %+v", sender.sent)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	acc, err := svc.Register(ctx, "old", "a@b.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}

	name := "nuevo"
	got, err := svc.UpdateProfile(ctx, acc.ID, &name)
	if err != nil {
		t.Fatalf("UpdateProfile err: %v", err)
	}
	if got.DisplayName != "nuevo" {
		t.Fatalf("display name: got %q", got.DisplayName)
	}

	empty := "  "
	if _, err := svc.UpdateProfile(ctx, acc.ID, &empty); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty username: want ErrValidation, got %v", err)
	}
}
