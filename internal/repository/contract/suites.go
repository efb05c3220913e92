package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/repository"
)

// UserFactory builds a repository whose backing collection holds exactly seed, in order.
type UserFactory func(t *testing.T, seed []model.User) (repository.UserRepository, func())

func seedUsers(n int) []model.User {
	out := make([]model.User, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.User{
			ID:        int64(i),
			FirstName: "F" + string(rune('A'+i-1)),
			LastName:  "L" + string(rune('A'+i-1)),
			Email:     "u" + string(rune('a'+i-1)) + "@example.com",
			Avatar:    "https://example.com/a.png",
		})
	}
	return out
}

func RunUserRepositoryContract(t *testing.T, makeRepo UserFactory) {
	t.Helper()

	t.Run("get_by_id", func(t *testing.T) {
		seed := seedUsers(3)
		repo, cleanup := makeRepo(t, seed)
		t.Cleanup(cleanup)
		got, err := repo.GetByID(context.Background(), 2)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != seed[1] {
			t.Fatalf("mismatch: got %+v want %+v", got, seed[1])
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t, seedUsers(1))
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t, seedUsers(7))
		t.Cleanup(cleanup)
		ctx := context.Background()

		res, err := repo.List(ctx, repository.Page{Number: 1, Size: 3})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Data) != 3 || res.Total != 7 || res.Data[0].ID != 1 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Data), res.Total)
		}
		res3, err := repo.List(ctx, repository.Page{Number: 3, Size: 3})
		if err != nil {
			t.Fatalf("list3: %v", err)
		}
		if len(res3.Data) != 1 || res3.Total != 7 || res3.Data[0].ID != 7 {
			t.Fatalf("unexpected page3: len=%d total=%d", len(res3.Data), res3.Total)
		}
	})

	t.Run("list_out_of_range_page_is_empty", func(t *testing.T) {
		repo, cleanup := makeRepo(t, seedUsers(2))
		t.Cleanup(cleanup)
		res, err := repo.List(context.Background(), repository.Page{Number: 5, Size: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Data == nil || len(res.Data) != 0 || res.Total != 2 {
			t.Fatalf("expected empty non-nil page with total 2, got %+v", res)
		}
	})

	t.Run("update_visible_to_reads", func(t *testing.T) {
		repo, cleanup := makeRepo(t, seedUsers(3))
		t.Cleanup(cleanup)
		ctx := context.Background()

		// warm any read path first so stale copies would show up below
		if _, err := repo.List(ctx, repository.Page{Number: 1, Size: 3}); err != nil {
			t.Fatalf("list: %v", err)
		}
		if _, err := repo.GetByID(ctx, 2); err != nil {
			t.Fatalf("get: %v", err)
		}

		up := model.UserUpdate{FirstName: "Janet", LastName: "Weaver", Email: "janet@example.com"}
		updated, err := repo.Update(ctx, 2, up)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ID != 2 || updated.FirstName != "Janet" || updated.Email != "janet@example.com" {
			t.Fatalf("unexpected update result: %+v", updated)
		}

		got, err := repo.GetByID(ctx, 2)
		if err != nil {
			t.Fatalf("get after update: %v", err)
		}
		if got.FirstName != "Janet" {
			t.Fatalf("stale record after update: %+v", got)
		}
		page, err := repo.List(ctx, repository.Page{Number: 1, Size: 3})
		if err != nil {
			t.Fatalf("list after update: %v", err)
		}
		if page.Data[1].FirstName != "Janet" {
			t.Fatalf("stale page after update: %+v", page.Data[1])
		}
	})

	t.Run("update_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t, seedUsers(1))
		t.Cleanup(cleanup)
		_, err := repo.Update(context.Background(), 42, model.UserUpdate{FirstName: "A", LastName: "B", Email: "a@b.c"})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
