package stickers

import (
	"context"
	"strings"
	"testing"

	"github.com/stickerdash/stickerdash-backend/internal/permissions"
	"github.com/stickerdash/stickerdash-backend/pkg/db/dbtest"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
)

type stubChecker struct {
	allowed map[string]bool
	calls   int
}

func (s *stubChecker) HasPermission(ctx context.Context, userID string, perm permissions.Permission) (bool, error) {
	s.calls++
	return s.allowed[userID] && perm == permissions.AdminWrite, nil
}

func newTestService(t *testing.T, checker permissions.Checker) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(dbtest.Open(t).DB(), 0),
		Permissions: checker,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestServiceCreateRequiresAdminWrite(t *testing.T) {
	checker := &stubChecker{allowed: map[string]bool{"admin": true}}
	svc := newTestService(t, checker)
	ctx := context.Background()

	_, err := svc.Create(ctx, "member", CreateStickerInput{Name: "Orpheus", ImageURL: "https://img/o"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	_, err = svc.Create(ctx, "", CreateStickerInput{Name: "Orpheus", ImageURL: "https://img/o"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	created, err := svc.Create(ctx, "admin", CreateStickerInput{Name: "  Orpheus ", ImageURL: "https://img/o"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.Name != "Orpheus" {
		t.Fatalf("unexpected created sticker %+v", created)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected catalog %+v", list)
	}
}

func TestServiceCreateValidatesInput(t *testing.T) {
	svc := newTestService(t, &stubChecker{allowed: map[string]bool{"admin": true}})

	_, err := svc.Create(context.Background(), "admin", CreateStickerInput{Name: " ", ImageURL: "https://img/o"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateCountsNameLengthInCharacters(t *testing.T) {
	svc := newTestService(t, &stubChecker{allowed: map[string]bool{"admin": true}})
	ctx := context.Background()

	if _, err := svc.Create(ctx, "admin", CreateStickerInput{Name: strings.Repeat("é", MaxNameLength), ImageURL: "https://img/e"}); err != nil {
		t.Fatalf("expected multibyte name at the limit to fit: %v", err)
	}
	_, err := svc.Create(ctx, "admin", CreateStickerInput{Name: strings.Repeat("x", MaxNameLength+1), ImageURL: "https://img/x"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceListEmptyCatalog(t *testing.T) {
	svc := newTestService(t, &stubChecker{})
	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{Permissions: &stubChecker{}}); err == nil {
		t.Fatal("expected missing repo error")
	}
}
