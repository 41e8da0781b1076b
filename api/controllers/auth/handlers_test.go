package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stickerdash/stickerdash-backend/api/middleware"
	"github.com/stickerdash/stickerdash-backend/internal/auth"
	"github.com/stickerdash/stickerdash-backend/internal/users"
	"github.com/stickerdash/stickerdash-backend/pkg/config"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
)

type stubAuthService struct {
	issued       *auth.ProviderIdentity
	refreshArgs  [2]string
	loggedOut    string
	refreshErr   error
	sessionCalls []string
}

func (s *stubAuthService) IssueSession(ctx context.Context, identity auth.ProviderIdentity) (*auth.SessionTokens, error) {
	s.issued = &identity
	return &auth.SessionTokens{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &users.UserDTO{ID: identity.Subject, Name: identity.Name},
	}, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.SessionTokens, error) {
	s.refreshArgs = [2]string{accessToken, refreshToken}
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return &auth.SessionTokens{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessToken string) error {
	s.loggedOut = accessToken
	return nil
}

func (s *stubAuthService) CurrentSession(ctx context.Context, userID string) (*auth.SessionView, error) {
	s.sessionCalls = append(s.sessionCalls, userID)
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return &auth.SessionView{User: auth.SessionUser{ID: userID, Name: "Orpheus"}}, nil
}

func devConfig(enabled bool) *config.Config {
	return &config.Config{
		App:          config.AppConfig{Env: "dev"},
		FeatureFlags: config.FeatureFlagsConfig{DevSessions: enabled},
	}
}

func TestAuthSessionReturnsCaller(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "U1"))
	rec := httptest.NewRecorder()

	AuthSession(svc, nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data auth.SessionView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "U1", body.Data.User.ID)
	assert.Equal(t, "Orpheus", body.Data.User.Name)
}

func TestAuthDevSessionDisabled(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/dev-session", strings.NewReader(`{"subject":"U1","name":"Orpheus","email":"o@hackclub.com"}`))
	rec := httptest.NewRecorder()

	AuthDevSession(svc, devConfig(false), nil)(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, svc.issued)
}

func TestAuthDevSessionIssuesTokens(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/dev-session", strings.NewReader(`{"subject":"U1","name":"Orpheus","email":"o@hackclub.com"}`))
	rec := httptest.NewRecorder()

	AuthDevSession(svc, devConfig(true), nil)(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.issued)
	assert.Equal(t, "U1", svc.issued.Subject)
	assert.Equal(t, "access", rec.Header().Get(tokenHeader))
}

func TestAuthDevSessionValidatesBody(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/dev-session", strings.NewReader(`{"subject":"U1","name":"Orpheus","email":"not-an-email"}`))
	rec := httptest.NewRecorder()

	AuthDevSession(svc, devConfig(true), nil)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.issued)
}

func TestAuthRefreshPassesBearerAndBody(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"r1"}`))
	req.Header.Set("Authorization", "Bearer old-access")
	rec := httptest.NewRecorder()

	AuthRefresh(svc, nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]string{"old-access", "r1"}, svc.refreshArgs)
	assert.Equal(t, "access-2", rec.Header().Get(tokenHeader))
}

func TestAuthRefreshMapsServiceError(t *testing.T) {
	svc := &stubAuthService{refreshErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"r1"}`))
	req.Header.Set("Authorization", "Bearer old-access")
	rec := httptest.NewRecorder()

	AuthRefresh(svc, nil)(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthLogoutRequiresBearer(t *testing.T) {
	svc := &stubAuthService{}
	rec := httptest.NewRecorder()
	AuthLogout(svc, nil)(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	AuthLogout(svc, nil)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", svc.loggedOut)
}
