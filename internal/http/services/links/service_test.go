package links

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/holamaria/internal/oauth"
	"github.com/dropDatabas3/holamaria/internal/security/signedlink"
	"github.com/dropDatabas3/holamaria/internal/store/core"
	"github.com/dropDatabas3/holamaria/internal/store/memory"
)

func newFixture(t *testing.T) (*Service, *memory.Store, *signedlink.Codec) {
	t.Helper()
	store := memory.New()
	codec := signedlink.New([]byte("secret"), 180*time.Second)
	return NewService(Deps{Store: store, Codec: codec}), store, codec
}

func seedLocal(t *testing.T, store *memory.Store, email string) *core.Account {
	t.Helper()
	acc := &core.Account{Email: email, DisplayName: "u", Provider: oauth.ProviderCommon}
	if err := store.Create(context.Background(), acc); err != nil {
		t.Fatal(err)
	}
	return acc
}

func TestActivate(t *testing.T) {
	svc, store, codec := newFixture(t)
	ctx := context.Background()
	acc := seedLocal(t, store, "a@b.com")

	if err := svc.Activate(ctx, codec.Sign("a@b.com")); err != nil {
		t.Fatalf("Activate err: %v", err)
	}
	got, _ := store.GetByID(ctx, acc.ID)
	if !got.Active || !got.EmailVerified {
		t.Fatalf("account not activated: %+v", got)
	}

	// reconsumo del link: idempotente
	if err := svc.Activate(ctx, codec.Sign("a@b.com")); err != nil {
		t.Fatalf("second Activate err: %v", err)
	}
}

func TestActivate_BadCode(t *testing.T) {
	svc, store, _ := newFixture(t)
	seedLocal(t, store, "a@b.com")

	err := svc.Activate(context.Background(), "garbage")
	if !errors.Is(err, signedlink.ErrInvalid) {
		t.Fatalf("want ErrInvalid, got %v", err)
	}
}

func TestActivate_UnknownAccount(t *testing.T) {
	svc, _, codec := newFixture(t)
	err := svc.Activate(context.Background(), codec.Sign("ghost@b.com"))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	svc, store, codec := newFixture(t)
	ctx := context.Background()

	acc := seedLocal(t, store, "a@b.com")
	acc.Active = true
	if err := store.Update(ctx, acc); err != nil {
		t.Fatal(err)
	}

	if err := svc.Verify(ctx, codec.Sign("a@b.com")); err != nil {
		t.Fatalf("Verify err: %v", err)
	}
	got, _ := store.GetByID(ctx, acc.ID)
	if !got.EmailVerified {
		t.Fatalf("email not marked verified: %+v", got)
	}
	if !got.Active {
		t.Fatal("verify must not touch activation state")
	}
}
