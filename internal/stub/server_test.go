package stub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobsetu/admin-tui/internal/api"
)

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore()
	auth := NewAuth(store, "test-secret", zerolog.Nop())
	broadcaster := NewBroadcaster(zerolog.Nop())
	srv := httptest.NewServer(NewServer(store, auth, broadcaster, zerolog.Nop()).Router())
	t.Cleanup(srv.Close)
	return srv, store
}

// login runs the OTP flow for a seeded mobile number and returns the token.
func login(t *testing.T, srv *httptest.Server, store *Store, mobile string) string {
	t.Helper()
	store.SaveOTP(mobile, "123456")

	body, _ := json.Marshal(map[string]string{"mobileNumber": mobile, "otp": "123456"})
	resp, err := http.Post(srv.URL+"/api/auth/verify-otp", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data api.VerifyResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Data.Token)
	return out.Data.Token
}

func request(t *testing.T, srv *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestOTPLoginFlow(t *testing.T) {
	srv, store := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/auth/send-otp", "application/json",
		strings.NewReader(`{"mobileNumber":"9999999999"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	token := login(t, srv, store, "9999999999")

	resp = request(t, srv, http.MethodGet, "/api/admin/stats", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWrongOTPRejected(t *testing.T) {
	srv, store := newTestServer(t)
	store.SaveOTP("9999999999", "123456")

	resp, err := http.Post(srv.URL+"/api/auth/verify-otp", "application/json",
		strings.NewReader(`{"mobileNumber":"9999999999","otp":"000000"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/admin/users", "/api/admin/stats", "/api/jobs", "/api/audit-logs"} {
		resp := request(t, srv, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)

		var body struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Authentication required", body.Message, path)
	}
}

func TestRoleEnforcement(t *testing.T) {
	srv, store := newTestServer(t)
	subToken := login(t, srv, store, "8888888888") // seeded SUBADMIN

	// Staff surface is open to subadmins.
	resp := request(t, srv, http.MethodGet, "/api/admin/stats", subToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = request(t, srv, http.MethodPost, "/api/admin/jobs", subToken,
		api.Job{Title: "Clerk", JobType: "STATE", State: "Bihar"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Admin-only surface is not.
	for _, path := range []string{"/api/admin/users", "/api/admin/subadmins", "/api/audit-logs"} {
		resp := request(t, srv, http.MethodGet, path, subToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestJobMutationBroadcastsEvent(t *testing.T) {
	srv, store := newTestServer(t)
	token := login(t, srv, store, "9999999999")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	resp := request(t, srv, http.MethodPost, "/api/admin/jobs", token,
		api.Job{Title: "Forest Guard", JobType: "STATE", State: "Assam"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Event string `json:"event"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, "job:created", env.Event)
}

func TestSocketRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSubadminLifecycleIsAudited(t *testing.T) {
	srv, store := newTestServer(t)
	token := login(t, srv, store, "9999999999")

	resp := request(t, srv, http.MethodPost, "/api/admin/subadmins", token,
		api.SubadminRequest{MobileNumber: "7777777777", Name: "UP Desk", AssignedStates: []string{"Uttar Pradesh"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Data struct {
			Subadmin api.Subadmin `json:"subadmin"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	id := created.Data.Subadmin.ID
	require.NotEmpty(t, id)
	assert.Equal(t, api.VerificationPending, created.Data.Subadmin.VerificationStatus)

	resp = request(t, srv, http.MethodPost, fmt.Sprintf("/api/admin/subadmins/%s/verify", id), token,
		map[string]string{"notes": "documents checked"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, srv, http.MethodPut, fmt.Sprintf("/api/admin/subadmins/%s/permissions", id), token,
		map[string][]string{"permissions": {"CREATE_JOBS", "VIEW_USERS"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, srv, http.MethodPost, fmt.Sprintf("/api/admin/subadmins/%s/deactivate", id), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Verified filter excludes nothing it should not.
	subs := store.ListSubadmins(api.VerificationVerified)
	found := false
	for _, s := range subs {
		if s.ID == id {
			found = true
			assert.False(t, s.IsActive)
			assert.ElementsMatch(t, []string{"CREATE_JOBS", "VIEW_USERS"}, s.AdminProfile.Permissions)
		}
	}
	assert.True(t, found, "verified subadmin should appear under the VERIFIED filter")

	// Every step left an audit entry, newest first.
	resp = request(t, srv, http.MethodGet, "/api/audit-logs?limit=10", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Data struct {
			AuditLogs []api.AuditLog `json:"auditLogs"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Equal(t, 4, page.Total)

	actions := make([]string, 0, len(page.Data.AuditLogs))
	for _, a := range page.Data.AuditLogs {
		actions = append(actions, a.Action)
		assert.Equal(t, "SUCCESS", a.Status)
	}
	assert.Equal(t, []string{
		"SUBADMIN_DEACTIVATED",
		"SUBADMIN_PERMISSIONS_UPDATED",
		"SUBADMIN_VERIFIED",
		"SUBADMIN_CREATED",
	}, actions)

	// Action filter narrows the page.
	resp = request(t, srv, http.MethodGet, "/api/audit-logs?action=SUBADMIN_VERIFIED", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page.Data.AuditLogs = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "SUBADMIN_VERIFIED", page.Data.AuditLogs[0].Action)
}

func TestDuplicateSubadminMobileRejected(t *testing.T) {
	srv, store := newTestServer(t)
	token := login(t, srv, store, "9999999999")

	resp := request(t, srv, http.MethodPost, "/api/admin/subadmins", token,
		api.SubadminRequest{MobileNumber: "8888888888", Name: "Duplicate"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
