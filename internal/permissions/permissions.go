// Package permissions answers whether a user holds a named capability.
package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/stickerdash/stickerdash-backend/pkg/db/models"
	"github.com/stickerdash/stickerdash-backend/pkg/enums"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
)

// Permission names an action on a resource, written resource:action.
type Permission struct {
	Resource string
	Action   string
}

func (p Permission) String() string {
	return p.Resource + ":" + p.Action
}

var (
	AdminRead    = Permission{Resource: "admin", Action: "read"}
	AdminWrite   = Permission{Resource: "admin", Action: "write"}
	StickerRead  = Permission{Resource: "sticker", Action: "read"}
	StickerWrite = Permission{Resource: "sticker", Action: "write"}
)

// statements lists what each role may do.
var statements = map[enums.UserRole][]Permission{
	enums.UserRoleAdmin: {AdminRead, AdminWrite, StickerRead, StickerWrite},
	enums.UserRoleUser:  {StickerRead, StickerWrite},
}

// All lists every known permission in a stable order.
func All() []Permission {
	return []Permission{AdminRead, AdminWrite, StickerRead, StickerWrite}
}

// RoleAllows reports whether role grants perm.
func RoleAllows(role enums.UserRole, perm Permission) bool {
	for _, granted := range statements[role] {
		if granted == perm {
			return true
		}
	}
	return false
}

// Checker is the permission oracle consulted before privileged operations.
type Checker interface {
	HasPermission(ctx context.Context, userID string, perm Permission) (bool, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// RoleChecker resolves permissions from the stored user role.
type RoleChecker struct {
	users userLookup
}

// NewRoleChecker builds a checker backed by the users repository.
func NewRoleChecker(users userLookup) (*RoleChecker, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &RoleChecker{users: users}, nil
}

// HasPermission loads the user and evaluates its role. Unknown or banned
// users hold nothing.
func (c *RoleChecker) HasPermission(ctx context.Context, userID string, perm Permission) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, nil
	}
	user, err := c.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user permissions")
	}
	if user.Banned {
		return false, nil
	}
	return RoleAllows(user.EffectiveRole(), perm), nil
}
