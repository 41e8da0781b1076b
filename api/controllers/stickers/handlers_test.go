package stickers

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
	"github.com/stickerdash/stickerdash-backend/internal/catalogimport"
	"github.com/stickerdash/stickerdash-backend/internal/ownership"
	"github.com/stickerdash/stickerdash-backend/internal/stickers"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
)

type ownershipCall struct {
	userID    string
	stickerID int64
	owned     bool
	amount    int
}

type stubOwnership struct {
	calls []ownershipCall
	err   error
}

func (s *stubOwnership) SetOwnership(ctx context.Context, userID string, stickerID int64, owned bool, amount int) error {
	s.calls = append(s.calls, ownershipCall{userID, stickerID, owned, amount})
	return s.err
}

func (s *stubOwnership) ListOwned(ctx context.Context, userID string) ([]ownership.RecordDTO, error) {
	return []ownership.RecordDTO{{UserID: userID, StickerID: 2, Quantity: 3}}, nil
}

type stubCatalog struct {
	created *stickers.CreateStickerInput
	actor   string
}

func (s *stubCatalog) List(ctx context.Context) ([]stickers.StickerDTO, error) {
	return []stickers.StickerDTO{{ID: 1, Name: "orpheus", ImageURL: "https://cdn.example.com/o.png"}}, nil
}

func (s *stubCatalog) Create(ctx context.Context, actorID string, input stickers.CreateStickerInput) (*stickers.StickerDTO, error) {
	s.created = &input
	s.actor = actorID
	return &stickers.StickerDTO{ID: 9, Name: input.Name, Category: input.Category, ImageURL: input.ImageURL}, nil
}

type stubImporter struct {
	actor catalogimport.Actor
	url   string
	err   error
}

func (s *stubImporter) ImportFromJSON(ctx context.Context, actor catalogimport.Actor, sourceURL string) (*catalogimport.Result, error) {
	s.actor = actor
	s.url = sourceURL
	if s.err != nil {
		return nil, s.err
	}
	return &catalogimport.Result{Fetched: 3, Inserted: 2, Skipped: 1}, nil
}

func authed(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestPublicStickers(t *testing.T) {
	rec := httptest.NewRecorder()
	PublicStickers(&stubCatalog{}, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/public/v1/stickers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []stickers.StickerDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "orpheus", body.Data[0].Name)
}

func TestOwnedStickersUsesCaller(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/stickers/owned", nil), "U1")
	OwnedStickers(&stubOwnership{}, nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []ownership.RecordDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "U1", body.Data[0].UserID)
}

func TestSetStickerOwned(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		want   *ownershipCall
	}{
		{"default amount", `{"sticker_id":4,"owned":true}`, http.StatusOK, &ownershipCall{"U1", 4, true, 0}},
		{"explicit amount", `{"sticker_id":4,"owned":true,"amount":3}`, http.StatusOK, &ownershipCall{"U1", 4, true, 3}},
		{"not owned", `{"sticker_id":4,"owned":false}`, http.StatusOK, &ownershipCall{"U1", 4, false, 0}},
		{"zero sticker id", `{"sticker_id":0,"owned":true}`, http.StatusBadRequest, nil},
		{"missing owned", `{"sticker_id":4}`, http.StatusBadRequest, nil},
		{"zero amount", `{"sticker_id":4,"owned":true,"amount":0}`, http.StatusBadRequest, nil},
		{"negative amount", `{"sticker_id":4,"owned":true,"amount":-2}`, http.StatusBadRequest, nil},
		{"malformed", `{"sticker_id":`, http.StatusBadRequest, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOwnership{}
			rec := httptest.NewRecorder()
			req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/stickers/owned", strings.NewReader(tc.body)), "U1")

			SetStickerOwned(svc, nil)(rec, req)

			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.want == nil {
				assert.Empty(t, svc.calls)
				return
			}
			require.Len(t, svc.calls, 1)
			assert.Equal(t, *tc.want, svc.calls[0])
		})
	}
}

func TestSetStickerOwnedMapsNotFound(t *testing.T) {
	svc := &stubOwnership{err: pkgerrors.New(pkgerrors.CodeNotFound, "sticker not found")}
	rec := httptest.NewRecorder()
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/stickers/owned", strings.NewReader(`{"sticker_id":99,"owned":true}`)), "U1")

	SetStickerOwned(svc, nil)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminCreateStickerTrimsInput(t *testing.T) {
	svc := &stubCatalog{}
	rec := httptest.NewRecorder()
	req := authed(httptest.NewRequest(http.MethodPost, "/api/admin/v1/stickers", strings.NewReader(`{"name":"  dino  ","category":"  ","image_url":"https://cdn.example.com/d.png"}`)), "ADMIN")

	AdminCreateSticker(svc, nil)(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, svc.created)
	assert.Equal(t, "dino", svc.created.Name)
	assert.Nil(t, svc.created.Category)
	assert.Equal(t, "ADMIN", svc.actor)
}

func TestAdminImportStickers(t *testing.T) {
	svc := &stubImporter{}
	rec := httptest.NewRecorder()
	req := authed(httptest.NewRequest(http.MethodPost, "/api/admin/v1/stickers/import", strings.NewReader(`{"url":"https://feed.example.com/stickers.json"}`)), "ADMIN")

	AdminImportStickers(svc, nil)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ADMIN", svc.actor.UserID)
	assert.Equal(t, "https://feed.example.com/stickers.json", svc.url)

	var body struct {
		Data catalogimport.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, catalogimport.Result{Fetched: 3, Inserted: 2, Skipped: 1}, body.Data)
}

func TestAdminImportStickersRejectsBadURL(t *testing.T) {
	svc := &stubImporter{}
	rec := httptest.NewRecorder()
	req := authed(httptest.NewRequest(http.MethodPost, "/api/admin/v1/stickers/import", strings.NewReader(`{"url":"ftp://feed.example.com/x"}`)), "ADMIN")

	AdminImportStickers(svc, nil)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.url)
}
