package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jingleboxpro/jinglebox/internal/errs"
	"github.com/jingleboxpro/jinglebox/internal/model"
	"github.com/jingleboxpro/jinglebox/internal/service"
)

// ---- in-memory backends ----

type memUsers struct {
	byEmail map[string]*model.User
}

func newMemUsers() *memUsers { return &memUsers{byEmail: make(map[string]*model.User)} }

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return errs.ErrAlreadyExists
	}
	cp := *u
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memPages struct {
	byName  map[string]*model.Page
	byOwner map[uuid.UUID]*model.Page
}

func newMemPages() *memPages {
	return &memPages{byName: make(map[string]*model.Page), byOwner: make(map[uuid.UUID]*model.Page)}
}

func (m *memPages) Create(_ context.Context, p *model.Page) error {
	if _, ok := m.byName[p.Username]; ok {
		return errs.ErrAlreadyExists
	}
	if _, ok := m.byOwner[p.OwnerID]; ok {
		return errs.ErrAlreadyExists
	}
	cp := *p
	m.byName[p.Username] = &cp
	m.byOwner[p.OwnerID] = &cp
	return nil
}

func (m *memPages) GetByUsername(_ context.Context, username string) (*model.Page, error) {
	p, ok := m.byName[username]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPages) GetByOwner(_ context.Context, ownerID uuid.UUID) (*model.Page, error) {
	p, ok := m.byOwner[ownerID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type openLimiter struct{}

func (openLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	return true, 0, nil
}
func (openLimiter) Success(context.Context, string, []byte) error { return nil }
func (openLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	return false, 0, nil
}

// ---- harness ----

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	key := []byte("test-sign-key")
	pages := service.NewPageService(newMemPages())
	auth := service.NewAuthService(newMemUsers(), pages, key, time.Hour, openLimiter{})
	boards := service.NewBoards()
	gifts := service.NewExchange(0)

	srv := New(auth, pages, boards, gifts, key, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func signUp(t *testing.T, ts *httptest.Server, email, username string) string {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodPost, "/auth/signup", "", signUpRequest{
		Email: email, Password: "secret-pwd", Username: username,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var ar authResponse
	require.NoError(t, json.Unmarshal(body, &ar))
	require.NotEmpty(t, ar.AccessToken)
	return ar.AccessToken
}

// ---- tests ----

func TestAPI_SignUpAndSignIn(t *testing.T) {
	ts := newTestServer(t)

	tok := signUp(t, ts, "frosty@northpole.dev", "frosty")
	require.NotEmpty(t, tok)

	resp, body := doJSON(t, ts, http.MethodPost, "/auth/signin", "", signInRequest{
		Email: "frosty@northpole.dev", Password: "secret-pwd",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var ar authResponse
	require.NoError(t, json.Unmarshal(body, &ar))
	assert.NotEmpty(t, ar.AccessToken)
	assert.Equal(t, "frosty", ar.Username)

	resp, _ = doJSON(t, ts, http.MethodPost, "/auth/signin", "", signInRequest{
		Email: "frosty@northpole.dev", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_SignUp_Conflicts(t *testing.T) {
	ts := newTestServer(t)
	signUp(t, ts, "frosty@northpole.dev", "frosty")

	resp, _ := doJSON(t, ts, http.MethodPost, "/auth/signup", "", signUpRequest{
		Email: "other@northpole.dev", Password: "pwd12345", Username: "frosty",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPost, "/auth/signup", "", signUpRequest{
		Email: "bad@northpole.dev", Password: "pwd12345", Username: "No Spaces!",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_AuthRequired(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/me/page"},
		{http.MethodGet, "/me/gifts"},
		{http.MethodPost, "/me/gifts/unwrap"},
		{http.MethodPost, "/pages"},
		{http.MethodPost, "/pages/frosty/gifts"},
	} {
		resp, _ := doJSON(t, ts, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
	}

	resp, _ := doJSON(t, ts, http.MethodGet, "/me/page", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_PageLookup(t *testing.T) {
	ts := newTestServer(t)
	tok := signUp(t, ts, "frosty@northpole.dev", "frosty")

	resp, body := doJSON(t, ts, http.MethodGet, "/pages/frosty", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pr pageResponse
	require.NoError(t, json.Unmarshal(body, &pr))
	assert.Equal(t, "frosty", pr.Username)
	assert.Zero(t, pr.MessageCount)
	assert.Zero(t, pr.PendingGifts)

	resp, _ = doJSON(t, ts, http.MethodGet, "/pages/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, ts, http.MethodGet, "/me/page", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &pr))
	assert.Equal(t, "frosty", pr.Username)
}

func TestAPI_Messages(t *testing.T) {
	ts := newTestServer(t)
	signUp(t, ts, "frosty@northpole.dev", "frosty")

	resp, msg := doJSON(t, ts, http.MethodPost, "/pages/frosty/messages", "", addMessageRequest{
		Text: "happy holidays", Sender: "rudolph",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(msg))
	var m model.Message
	require.NoError(t, json.Unmarshal(msg, &m))
	assert.Equal(t, "happy holidays", m.Text)
	assert.Equal(t, "rudolph", m.SenderLabel)

	resp, body := doJSON(t, ts, http.MethodGet, "/pages/frosty/messages", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []model.Message
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, m.ID, list[0].ID)

	resp, _ = doJSON(t, ts, http.MethodPost, "/pages/frosty/messages", "", addMessageRequest{Sender: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPost, "/pages/ghost/messages", "", addMessageRequest{
		Text: "hi", Sender: "x",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_GiftFlow(t *testing.T) {
	ts := newTestServer(t)
	frosty := signUp(t, ts, "frosty@northpole.dev", "frosty")
	rudolph := signUp(t, ts, "rudolph@northpole.dev", "rudolph")

	// rudolph sends frosty a gift; wrapping is omitted so defaults apply
	resp, body := doJSON(t, ts, http.MethodPost, "/pages/frosty/gifts", rudolph, sendGiftRequest{
		Template: "snowglobe", Note: "shake it!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sent giftResponse
	require.NoError(t, json.Unmarshal(body, &sent))
	assert.Equal(t, "rudolph", sent.FromLabel)
	assert.Equal(t, model.DefaultWrapping(), sent.Wrapping)
	assert.NotEmpty(t, sent.Name)

	resp, body = doJSON(t, ts, http.MethodGet, "/me/gifts", frosty, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending pendingResponse
	require.NoError(t, json.Unmarshal(body, &pending))
	assert.Equal(t, 1, pending.Pending)

	resp, body = doJSON(t, ts, http.MethodPost, "/me/gifts/unwrap", frosty, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var got giftResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, "shake it!", got.Message)

	resp, _ = doJSON(t, ts, http.MethodPost, "/me/gifts/unwrap", frosty, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// unknown template and unknown recipient
	resp, _ = doJSON(t, ts, http.MethodPost, "/pages/frosty/gifts", rudolph, sendGiftRequest{Template: "pony"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doJSON(t, ts, http.MethodPost, "/pages/ghost/gifts", rudolph, sendGiftRequest{Template: "ecard"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Countdown(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/countdown", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rem struct {
		Days   int       `json:"days"`
		Target time.Time `json:"target"`
	}
	require.NoError(t, json.Unmarshal(body, &rem))
	assert.Equal(t, time.December, rem.Target.Month())
	assert.Equal(t, 25, rem.Target.Day())
	assert.False(t, rem.Target.Before(time.Now()))
}
