package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/stickerdash/stickerdash-backend/internal/users"
	pkgAuth "github.com/stickerdash/stickerdash-backend/pkg/auth"
	"github.com/stickerdash/stickerdash-backend/pkg/auth/session"
	"github.com/stickerdash/stickerdash-backend/pkg/config"
	pkgdb "github.com/stickerdash/stickerdash-backend/pkg/db"
	"github.com/stickerdash/stickerdash-backend/pkg/db/models"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
)

// Service issues and maintains sessions for provider-authenticated users.
type Service interface {
	IssueSession(ctx context.Context, identity ProviderIdentity) (*SessionTokens, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*SessionTokens, error)
	Logout(ctx context.Context, accessToken string) error
	CurrentSession(ctx context.Context, userID string) (*SessionView, error)
}

type service struct {
	users   userRepository
	session sessionManager
	jwtCfg  config.JWTConfig
	now     func() time.Time
}

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, dto users.UpsertUserDTO) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, userID, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (session.Rotation, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Clock          func() time.Time
}

// NewService constructs a session service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		users:   params.UserRepo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
		now:     clock,
	}, nil
}

// IssueSession records the provider identity and mints a fresh token pair.
func (s *service) IssueSession(ctx context.Context, identity ProviderIdentity) (*SessionTokens, error) {
	subject := strings.TrimSpace(identity.Subject)
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if subject == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider identity requires subject and email")
	}

	user, err := s.users.Upsert(ctx, users.UpsertUserDTO{
		ID:    subject,
		Name:  strings.TrimSpace(identity.Name),
		Email: email,
		Image: identity.Image,
	})
	if err != nil {
		if isEmailTaken(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email is already linked to another account")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert user")
	}
	if user.Banned {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is banned")
	}

	accessID := session.NewAccessID()
	accessToken, err := s.mint(user, accessID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.session.Generate(ctx, user.ID, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	return &SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Refresh rotates the refresh token bound to the presented (possibly expired)
// access token. The role is reloaded so demotions and bans take effect.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*SessionTokens, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	rotation, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}
	if rotation.UserID != claims.UserID {
		_ = s.session.Revoke(ctx, rotation.AccessID)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session does not belong to token subject")
	}

	user, err := s.users.FindByID(ctx, rotation.UserID)
	if err != nil {
		_ = s.session.Revoke(ctx, rotation.AccessID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.Banned {
		_ = s.session.Revoke(ctx, rotation.AccessID)
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is banned")
	}

	minted, err := s.mint(user, rotation.AccessID)
	if err != nil {
		return nil, err
	}
	return &SessionTokens{
		AccessToken:  minted,
		RefreshToken: rotation.RefreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Logout revokes the session tied to the presented access token.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// CurrentSession describes the signed-in user.
func (s *service) CurrentSession(ctx context.Context, userID string) (*SessionView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return &SessionView{User: SessionUser{ID: user.ID, Name: user.Name}}, nil
}

func (s *service) mint(user *models.User, accessID string) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.EffectiveRole(),
		JTI:    accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

// isEmailTaken matches the postgres constraint name and the sqlite column form.
func isEmailTaken(err error) bool {
	return pkgdb.IsUniqueViolation(err, "users_email_key") || pkgdb.IsUniqueViolation(err, "users.email")
}
