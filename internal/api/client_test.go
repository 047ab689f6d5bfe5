package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"jobs": []Job{}}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok-123")
	_, err := c.ListJobs(10)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)

	c.SetToken("")
	_, err = c.ListJobs(10)
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "cleared token must not be sent")
}

func TestClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Authentication required"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetStats()
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	err = c.DeleteJob("abc")
	assert.True(t, IsUnauthorized(err))
}

func TestClientStatusErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "mobile number already registered"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.CreateSubadmin(SubadminRequest{MobileNumber: "9000000000", Name: "X"})
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, "mobile number already registered", UserMessage(err, "fallback"))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.Status)
}

func TestUserMessageFallback(t *testing.T) {
	assert.Equal(t, "fallback", UserMessage(ErrUnauthorized, "fallback"))
	assert.Equal(t, "fallback", UserMessage(&StatusError{Status: 500}, "fallback"))
}

func TestVerifyOTPDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify-otp", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "9999999999", body["mobileNumber"])
		assert.Equal(t, "123456", body["otp"])

		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"token": "jwt-abc",
			"user": map[string]any{
				"_id":          "u1",
				"mobileNumber": "9999999999",
				"role":         "ADMIN",
				"isActive":     true,
			},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.VerifyOTP("9999999999", "123456", nil)
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", result.Token)
	assert.Equal(t, RoleAdmin, result.User.Role)
	assert.True(t, result.User.Role.Staff())
}

func TestListAuditLogsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "SUBADMIN_VERIFIED", q.Get("action"))
		assert.Equal(t, "SUCCESS", q.Get("status"))
		assert.Equal(t, "2026-01-01", q.Get("startDate"))
		assert.Equal(t, "2", q.Get("page"))
		json.NewEncoder(w).Encode(map[string]any{
			"data":  map[string]any{"auditLogs": []AuditLog{{ID: "a1", Action: "SUBADMIN_VERIFIED"}}},
			"total": 21,
			"pages": 2,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	page, err := c.ListAuditLogs(AuditFilter{
		Action:    "SUBADMIN_VERIFIED",
		Status:    "SUCCESS",
		StartDate: "2026-01-01",
		Page:      2,
		Limit:     20,
	})
	require.NoError(t, err)
	assert.Equal(t, 21, page.Total)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Logs, 1)
	assert.Equal(t, "a1", page.Logs[0].ID)
}
