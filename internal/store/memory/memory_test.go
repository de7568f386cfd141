package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dropDatabas3/holamaria/internal/store/core"
)

func TestCreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	acc := &core.Account{Email: "User@Example.com", DisplayName: "u", Provider: "common"}
	if err := s.Create(ctx, acc); err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if acc.ID == "" {
		t.Fatal("Create did not assign an id")
	}

	got, err := s.GetByID(ctx, acc.ID)
	if err != nil {
		t.Fatalf("GetByID err: %v", err)
	}
	if got.Email != "user@example.com" {
		t.Fatalf("email not lowercased: %q", got.Email)
	}

	// lookup case-insensitive
	got, err = s.GetByEmailProvider(ctx, "USER@example.COM", "common")
	if err != nil {
		t.Fatalf("GetByEmailProvider err: %v", err)
	}
	if got.ID != acc.ID {
		t.Fatalf("id mismatch: got %q want %q", got.ID, acc.ID)
	}
}

func TestCreate_ConflictOnEmailProvider(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, &core.Account{Email: "a@b.com", Provider: "kakao"}); err != nil {
		t.Fatalf("Create err: %v", err)
	}
	err := s.Create(ctx, &core.Account{Email: "a@b.com", Provider: "kakao"})
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}

	// mismo email con otro provider es otra cuenta
	if err := s.Create(ctx, &core.Account{Email: "a@b.com", Provider: "google"}); err != nil {
		t.Fatalf("same email, other provider: %v", err)
	}
}

func TestUpdate_MovesKey(t *testing.T) {
	s := New()
	ctx := context.Background()

	acc := &core.Account{Email: "old@b.com", Provider: "common"}
	if err := s.Create(ctx, acc); err != nil {
		t.Fatalf("Create err: %v", err)
	}

	acc.Email = "new@b.com"
	if err := s.Update(ctx, acc); err != nil {
		t.Fatalf("Update err: %v", err)
	}
	if _, err := s.GetByEmailProvider(ctx, "old@b.com", "common"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("old key still resolves: %v", err)
	}
	if _, err := s.GetByEmailProvider(ctx, "new@b.com", "common"); err != nil {
		t.Fatalf("new key does not resolve: %v", err)
	}
}

func TestUpdate_ConflictOnTakenEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, &core.Account{Email: "taken@b.com", Provider: "common"}); err != nil {
		t.Fatal(err)
	}
	acc := &core.Account{Email: "mine@b.com", Provider: "common"}
	if err := s.Create(ctx, acc); err != nil {
		t.Fatal(err)
	}

	acc.Email = "taken@b.com"
	if err := s.Update(ctx, acc); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	acc := &core.Account{Email: "a@b.com", Provider: "common"}
	if err := s.Create(ctx, acc); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, acc.ID); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if _, err := s.GetByID(ctx, acc.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, acc.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("double delete: want ErrNotFound, got %v", err)
	}
}

func TestCreate_ConcurrentSameKey(t *testing.T) {
	s := New()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	created := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc := &core.Account{Email: "race@b.com", Provider: "naver"}
			if err := s.Create(ctx, acc); err == nil {
				created <- acc.ID
			}
		}()
	}
	wg.Wait()
	close(created)

	var ids []string
	for id := range created {
		ids = append(ids, id)
	}
	if len(ids) != 1 {
		t.Fatalf("want exactly one successful create, got %d", len(ids))
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	acc := &core.Account{Email: "a@b.com", Provider: "common", DisplayName: "orig"}
	if err := s.Create(ctx, acc); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetByID(ctx, acc.ID)
	got.DisplayName = "mutated"

	again, _ := s.GetByID(ctx, acc.ID)
	if again.DisplayName != "orig" {
		t.Fatalf("store leaked internal pointer: %q", again.DisplayName)
	}
}
