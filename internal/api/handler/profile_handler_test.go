package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

type stubProfiles struct {
	updateFn func(ctx context.Context, client ports.BackendClient, identityID string, input ports.ProfileUpdateInput) error
	uploadFn func(ctx context.Context, client ports.BackendClient, identityID, filename string, data []byte) (string, error)
}

func (s *stubProfiles) Update(ctx context.Context, client ports.BackendClient, identityID string, input ports.ProfileUpdateInput) error {
	return s.updateFn(ctx, client, identityID, input)
}

func (s *stubProfiles) UploadAvatar(ctx context.Context, client ports.BackendClient, identityID, filename string, data []byte) (string, error) {
	return s.uploadFn(ctx, client, identityID, filename, data)
}

func TestProfileHandler_Get_Anonymous(t *testing.T) {
	e := newEcho()
	c, _ := newJSONContext(e, http.MethodGet, "/profile", "")
	withVisitor(c, &stubStore{})

	if err := NewProfileHandler(&stubProfiles{}).Get(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestProfileHandler_Get_FetchesMissingProfile(t *testing.T) {
	e := newEcho()
	store := &stubStore{
		state: ports.SessionState{Identity: &domain.Identity{ID: "u1"}},
		fetchProfileFn: func(st *ports.SessionState, id string) {
			st.Profile = &domain.Profile{ID: id, FullName: "Ana", Role: domain.RoleUser}
		},
	}
	c, rec := newJSONContext(e, http.MethodGet, "/profile", "")
	withVisitor(c, store)

	if err := NewProfileHandler(&stubProfiles{}).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(store.fetched) != 1 || store.fetched[0] != "u1" {
		t.Fatalf("expected one fetch for u1, got %v", store.fetched)
	}
	var resp profileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.FullName != "Ana" || resp.DisplayName != "Ana" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProfileHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	store := &stubStore{
		state: ports.SessionState{Identity: &domain.Identity{ID: "u1"}},
		fetchProfileFn: func(st *ports.SessionState, _ string) {
			st.Err = domain.ErrRecordNotFound
		},
	}
	c, _ := newJSONContext(e, http.MethodGet, "/profile", "")
	withVisitor(c, store)

	if err := NewProfileHandler(&stubProfiles{}).Get(c); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestProfileHandler_Update_RefetchesProfile(t *testing.T) {
	e := newEcho()
	store := &stubStore{
		state: signedIn("u1", domain.RoleUser),
		fetchProfileFn: func(st *ports.SessionState, id string) {
			st.Profile = &domain.Profile{ID: id, FullName: "Ana Baru", Phone: "0812", Role: domain.RoleUser}
		},
	}
	profiles := &stubProfiles{
		updateFn: func(_ context.Context, _ ports.BackendClient, id string, in ports.ProfileUpdateInput) error {
			if id != "u1" || in.FullName != "Ana Baru" || in.Phone != "0812" {
				t.Fatalf("unexpected update: %s %+v", id, in)
			}
			return nil
		},
	}
	c, rec := newJSONContext(e, http.MethodPut, "/profile", `{"full_name":"Ana Baru","email":"u1@example.com","no_telp":"0812"}`)
	withVisitor(c, store)

	if err := NewProfileHandler(profiles).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(store.fetched) != 1 {
		t.Fatalf("expected profile refetch after update, got %v", store.fetched)
	}
	var resp profileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.FullName != "Ana Baru" || resp.Phone != "0812" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProfileHandler_Update_Forbidden(t *testing.T) {
	e := newEcho()
	store := &stubStore{state: signedIn("u1", domain.RoleUser)}
	profiles := &stubProfiles{
		updateFn: func(context.Context, ports.BackendClient, string, ports.ProfileUpdateInput) error {
			return domain.ErrForbidden
		},
	}
	c, _ := newJSONContext(e, http.MethodPut, "/profile", `{"full_name":"Ana","email":"u1@example.com"}`)
	withVisitor(c, store)

	if err := NewProfileHandler(profiles).Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(store.fetched) != 0 {
		t.Fatalf("failed update must not refetch")
	}
}

func avatarContext(t *testing.T, filename string, data []byte) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("avatar", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/profile/avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return httptest.NewRecorder(), req
}

func TestProfileHandler_UploadAvatar(t *testing.T) {
	e := newEcho()
	store := &stubStore{state: signedIn("u1", domain.RoleUser)}
	profiles := &stubProfiles{
		uploadFn: func(_ context.Context, _ ports.BackendClient, id, filename string, data []byte) (string, error) {
			if id != "u1" || filename != "me.png" || string(data) != "png-bytes" {
				t.Fatalf("unexpected upload: %s %s %q", id, filename, data)
			}
			return "http://localhost/storage/v1/object/public/avatars/u1/me.png", nil
		},
	}
	rec, req := avatarContext(t, "me.png", []byte("png-bytes"))
	c := e.NewContext(req, rec)
	withVisitor(c, store)

	if err := NewProfileHandler(profiles).UploadAvatar(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp avatarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AvatarURL == "" || len(store.fetched) != 1 {
		t.Fatalf("expected avatar url and refetch, got %+v %v", resp, store.fetched)
	}
}

func TestProfileHandler_UploadAvatar_MissingFile(t *testing.T) {
	e := newEcho()
	c, _ := newJSONContext(e, http.MethodPost, "/profile/avatar", "")
	withVisitor(c, &stubStore{state: signedIn("u1", domain.RoleUser)})

	err := NewProfileHandler(&stubProfiles{}).UploadAvatar(c)
	if code := httpCode(err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%v)", code, err)
	}
}
