package permissions

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/stickerdash/stickerdash-backend/pkg/db/models"
	"github.com/stickerdash/stickerdash-backend/pkg/enums"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
)

type stubUsers struct {
	users map[string]*models.User
	err   error
}

func (s stubUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func rolePtr(role enums.UserRole) *enums.UserRole {
	return &role
}

func TestRoleCheckerHasPermission(t *testing.T) {
	users := stubUsers{users: map[string]*models.User{
		"admin":  {ID: "admin", Role: rolePtr(enums.UserRoleAdmin)},
		"member": {ID: "member", Role: rolePtr(enums.UserRoleUser)},
		"legacy": {ID: "legacy"},
		"banned": {ID: "banned", Role: rolePtr(enums.UserRoleAdmin), Banned: true},
	}}
	checker, err := NewRoleChecker(users)
	if err != nil {
		t.Fatalf("new checker: %v", err)
	}

	cases := []struct {
		name   string
		userID string
		perm   Permission
		want   bool
	}{
		{name: "admin writes catalog", userID: "admin", perm: AdminWrite, want: true},
		{name: "admin edits own stickers", userID: "admin", perm: StickerWrite, want: true},
		{name: "user cannot import", userID: "member", perm: AdminWrite, want: false},
		{name: "user edits own stickers", userID: "member", perm: StickerWrite, want: true},
		{name: "missing role defaults to user", userID: "legacy", perm: StickerRead, want: true},
		{name: "missing role is not admin", userID: "legacy", perm: AdminRead, want: false},
		{name: "banned admin holds nothing", userID: "banned", perm: AdminWrite, want: false},
		{name: "unknown user", userID: "ghost", perm: StickerRead, want: false},
		{name: "blank user", userID: "", perm: StickerRead, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := checker.HasPermission(context.Background(), tc.userID, tc.perm)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("HasPermission(%s, %s) = %v, want %v", tc.userID, tc.perm, got, tc.want)
			}
		})
	}
}

func TestRoleCheckerStoreFailure(t *testing.T) {
	checker, err := NewRoleChecker(stubUsers{err: errors.New("connection reset")})
	if err != nil {
		t.Fatalf("new checker: %v", err)
	}
	_, err = checker.HasPermission(context.Background(), "admin", AdminWrite)
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestAllCoversRoleStatements(t *testing.T) {
	known := map[Permission]bool{}
	for _, perm := range All() {
		known[perm] = true
	}
	for role, granted := range statements {
		for _, perm := range granted {
			if !known[perm] {
				t.Fatalf("role %s grants unlisted permission %s", role, perm)
			}
		}
	}
	if AdminRead.String() != "admin:read" {
		t.Fatalf("unexpected string %q", AdminRead.String())
	}
	if RoleAllows(enums.UserRoleUser, AdminRead) {
		t.Fatal("users must not read the admin panel")
	}
}
