package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BariVakhidov/guestlist/internal/config"
	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/http-server/api"
	"github.com/BariVakhidov/guestlist/internal/services/checkin"
	"github.com/BariVakhidov/guestlist/internal/services/guests"
	"github.com/BariVakhidov/guestlist/internal/services/operators"
	"github.com/BariVakhidov/guestlist/internal/storage/sqlite"
)

type envelope struct {
	Data          json.RawMessage `json:"data"`
	Success       bool            `json:"success"`
	StatusMessage string          `json:"status_message"`
}

type testAPI struct {
	t        *testing.T
	server   *httptest.Server
	admin    string
	operator string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(filepath.Join(t.TempDir(), "guestlist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	auth := operators.New(log, "test-secret", time.Hour)
	_, adminToken, err := auth.IssueToken(models.Operator{ID: "admin-1", Name: "Host", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, operatorToken, err := auth.IssueToken(models.Operator{ID: "door-1", Name: "Door One"})
	require.NoError(t, err)

	guestService := guests.New(guests.Opts{
		Log:        log,
		Events:     store,
		Guests:     store,
		Attendance: store,
		PublicURL:  "http://guestlist.test",
	})
	checkinService := checkin.New(log, store, store, store)

	srv := api.New(config.HTTPConfig{Timeout: 5 * time.Second}, log, api.Services{
		Auth:    auth,
		Guests:  guestService,
		CheckIn: checkinService,
	})
	server := httptest.NewServer(srv.Handler())
	t.Cleanup(server.Close)

	return &testAPI{t: t, server: server, admin: adminToken, operator: operatorToken}
}

func (a *testAPI) do(method, path, token, contentType string, body io.Reader) *http.Response {
	a.t.Helper()

	req, err := http.NewRequest(method, a.server.URL+path, body)
	require.NoError(a.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func (a *testAPI) json(method, path, token string, in any, wantStatus int, out any) envelope {
	a.t.Helper()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		require.NoError(a.t, err)
		body = bytes.NewReader(raw)
	}

	resp := a.do(method, path, token, "application/json", body)
	require.Equal(a.t, wantStatus, resp.StatusCode)

	var env envelope
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&env))
	if out != nil {
		require.NoError(a.t, json.Unmarshal(env.Data, out))
	}

	return env
}

func (a *testAPI) createEvent() models.Event {
	a.t.Helper()

	var event models.Event
	a.json(http.MethodPost, "/v1/events", a.admin, map[string]any{
		"name":    "Ada's 30th",
		"venue":   "Lagos",
		"honoree": "Ada Obi",
	}, http.StatusCreated, &event)

	return event
}

func (a *testAPI) addGuest(eventID, name, category string) models.Guest {
	a.t.Helper()

	var guest models.Guest
	a.json(http.MethodPost, "/v1/events/"+eventID+"/guests", a.admin, map[string]any{
		"name":     name,
		"category": category,
		"phone":    "+2348000000",
	}, http.StatusCreated, &guest)

	return guest
}

func TestAuth(t *testing.T) {
	a := newTestAPI(t)

	env := a.json(http.MethodPost, "/v1/events", "", map[string]any{"name": "x"}, http.StatusUnauthorized, nil)
	assert.False(t, env.Success)

	a.json(http.MethodPost, "/v1/events", "garbage", map[string]any{"name": "x"}, http.StatusUnauthorized, nil)
	a.json(http.MethodPost, "/v1/events", a.operator, map[string]any{"name": "x"}, http.StatusForbidden, nil)
}

func TestGuestValidation(t *testing.T) {
	a := newTestAPI(t)
	event := a.createEvent()

	a.json(http.MethodPost, "/v1/events/"+event.ID.String()+"/guests", a.admin,
		map[string]any{"name": "Ada Obi", "email": "not-an-email"}, http.StatusBadRequest, nil)
	a.json(http.MethodPost, "/v1/events/"+event.ID.String()+"/guests", a.admin,
		map[string]any{"email": "ada@example.com"}, http.StatusBadRequest, nil)
	a.json(http.MethodPost, "/v1/events/not-a-uuid/guests", a.admin,
		map[string]any{"name": "Ada Obi"}, http.StatusBadRequest, nil)
}

func TestCheckInFlow(t *testing.T) {
	a := newTestAPI(t)
	event := a.createEvent()
	guest := a.addGuest(event.ID.String(), "Ada Obi", models.CategoryVIP)

	// public card hides contact details
	resp := a.do(http.MethodGet, "/card/"+guest.AccessToken, "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Ada Obi")
	assert.Contains(t, string(raw), guest.ShortCode)
	assert.NotContains(t, string(raw), "+2348000000")

	resp = a.do(http.MethodGet, "/card/"+guest.AccessToken+"/qr.png", "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	a.json(http.MethodGet, "/card/00000000000000000000000000000000", "", nil, http.StatusNotFound, nil)

	var first models.Outcome
	a.json(http.MethodPost, "/v1/checkin", a.operator, map[string]any{"token": guest.AccessToken}, http.StatusOK, &first)
	assert.Equal(t, models.OutcomeAdmitted, first.Kind)
	assert.Equal(t, "Ada Obi", first.Guest.Name)

	var second models.Outcome
	a.json(http.MethodPost, "/v1/checkin", a.operator, map[string]any{"token": strings.ToLower(guest.ShortCode)}, http.StatusOK, &second)
	assert.Equal(t, models.OutcomeAlreadyAdmitted, second.Kind)
	assert.True(t, first.Timestamp.Equal(second.Timestamp))

	var unknown models.Outcome
	a.json(http.MethodPost, "/v1/checkin", a.operator, map[string]any{"token": "ffffffffffffffffffffffffffffffff"}, http.StatusOK, &unknown)
	assert.Equal(t, models.OutcomeNotFound, unknown.Kind)

	var invalid models.Outcome
	a.json(http.MethodPost, "/v1/checkin", a.operator, map[string]any{"token": "ZZZZ"}, http.StatusOK, &invalid)
	assert.Equal(t, models.OutcomeInvalidInput, invalid.Kind)

	var stats models.Stats
	a.json(http.MethodGet, "/v1/events/"+event.ID.String()+"/stats", a.operator, nil, http.StatusOK, &stats)
	assert.Equal(t, models.Stats{Total: 1, CheckedIn: 1, VIP: 1, Pending: 0}, stats)

	var roster []models.RosterEntry
	a.json(http.MethodGet, "/v1/events/"+event.ID.String()+"/guests", a.admin, nil, http.StatusOK, &roster)
	require.Len(t, roster, 1)
	assert.True(t, roster[0].CheckedIn)
	require.NotNil(t, roster[0].AdmittedAt)
	assert.True(t, first.Timestamp.Equal(*roster[0].AdmittedAt))

	a.json(http.MethodDelete, "/v1/guests/"+guest.ID.String(), a.admin, nil, http.StatusConflict, nil)
}

func TestUpdateGuest(t *testing.T) {
	a := newTestAPI(t)
	event := a.createEvent()
	guest := a.addGuest(event.ID.String(), "Ada Obi", models.CategoryRegular)
	path := "/v1/guests/" + guest.ID.String()

	var updated models.Guest
	a.json(http.MethodPatch, path, a.admin, map[string]any{"name": "Ada Obi-Okafor", "category": "VIP"}, http.StatusOK, &updated)
	assert.Equal(t, "Ada Obi-Okafor", updated.Name)
	assert.Equal(t, models.CategoryVIP, updated.Category)
	assert.Equal(t, "+2348000000", updated.Phone)
	assert.Equal(t, guest.AccessToken, updated.AccessToken)

	var roster []models.RosterEntry
	a.json(http.MethodGet, "/v1/events/"+event.ID.String()+"/guests", a.admin, nil, http.StatusOK, &roster)
	require.Len(t, roster, 1)
	assert.Equal(t, "Ada Obi-Okafor", roster[0].Name)
	assert.False(t, roster[0].CheckedIn)
	assert.Nil(t, roster[0].AdmittedAt)

	a.json(http.MethodPatch, path, a.admin, map[string]any{"email": "not-an-email"}, http.StatusBadRequest, nil)
	a.json(http.MethodPatch, path, a.admin, map[string]any{"name": " "}, http.StatusBadRequest, nil)
	a.json(http.MethodPatch, path, a.operator, map[string]any{"name": "Bola"}, http.StatusForbidden, nil)
	a.json(http.MethodPatch, "/v1/guests/"+uuid.NewString(), a.admin, map[string]any{"name": "Bola"}, http.StatusNotFound, nil)
}

func TestImportExport(t *testing.T) {
	a := newTestAPI(t)
	event := a.createEvent()
	path := "/v1/events/" + event.ID.String() + "/guests"

	resp := a.do(http.MethodPost, path+"/import", a.admin, "text/csv",
		strings.NewReader("Name,Email Address,Category\nAda Obi,ada@example.com,VIP\nBola Ade,,\n"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []models.Guest
	a.json(http.MethodGet, path, a.admin, nil, http.StatusOK, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "ada@example.com", list[0].Email)

	a.json(http.MethodGet, path, a.operator, nil, http.StatusForbidden, nil)

	resp = a.do(http.MethodGet, path+"/export", a.admin, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "guests-export-")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Ada Obi,VIP,,ada@example.com,Not Checked In,"+list[0].AccessToken)

	resp = a.do(http.MethodPost, path+"/import", a.admin, "text/csv", strings.NewReader("phone\n123\n"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	a.json(http.MethodDelete, "/v1/guests/"+list[1].ID.String(), a.admin, nil, http.StatusOK, nil)
	a.json(http.MethodDelete, "/v1/guests/"+list[1].ID.String(), a.admin, nil, http.StatusNotFound, nil)
}

func TestScanLogDisabled(t *testing.T) {
	a := newTestAPI(t)

	a.json(http.MethodGet, "/v1/scans", a.admin, nil, http.StatusNotImplemented, nil)
}
