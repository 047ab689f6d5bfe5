package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client makes REST calls to the listing-service backend.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client targeting the given base URL
// (e.g. "http://127.0.0.1:5000/api").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken sets the bearer credential used on subsequent requests.
// An empty token clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// --- Auth ---

// SendOTP requests an OTP for the given mobile number.
func (c *Client) SendOTP(mobileNumber, purpose string) error {
	body := map[string]string{"mobileNumber": mobileNumber, "purpose": purpose}
	return c.post("/auth/send-otp", body, nil)
}

// VerifyOTP exchanges an OTP for a credential token and principal. Callers
// must still reject non-staff roles before establishing a session.
func (c *Client) VerifyOTP(mobileNumber, otp string, profile map[string]string) (*VerifyResult, error) {
	body := map[string]any{"mobileNumber": mobileNumber, "otp": otp}
	if profile != nil {
		body["profile"] = profile
	}
	var out struct {
		Data VerifyResult `json:"data"`
	}
	if err := c.post("/auth/verify-otp", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Logout invalidates the credential server-side. Best effort.
func (c *Client) Logout() error {
	return c.post("/auth/logout", nil, nil)
}

// --- Jobs ---

// ListJobs fetches up to limit jobs.
func (c *Client) ListJobs(limit int) ([]Job, error) {
	var out struct {
		Data struct {
			Jobs []Job `json:"jobs"`
		} `json:"data"`
	}
	if err := c.get("/jobs?limit="+strconv.Itoa(limit), &out); err != nil {
		return nil, err
	}
	return out.Data.Jobs, nil
}

// CreateJob creates a job posting.
func (c *Client) CreateJob(job Job) (*Job, error) {
	var out struct {
		Data struct {
			Job Job `json:"job"`
		} `json:"data"`
	}
	if err := c.post("/admin/jobs", job, &out); err != nil {
		return nil, err
	}
	return &out.Data.Job, nil
}

// UpdateJob replaces the job with the given id.
func (c *Client) UpdateJob(id string, job Job) error {
	return c.put("/admin/jobs/"+url.PathEscape(id), job, nil)
}

// DeleteJob removes the job with the given id.
func (c *Client) DeleteJob(id string) error {
	return c.del("/admin/jobs/" + url.PathEscape(id))
}

// --- Schemes ---

// ListSchemes fetches up to limit schemes.
func (c *Client) ListSchemes(limit int) ([]Scheme, error) {
	var out struct {
		Data struct {
			Schemes []Scheme `json:"schemes"`
		} `json:"data"`
	}
	if err := c.get("/schemes?limit="+strconv.Itoa(limit), &out); err != nil {
		return nil, err
	}
	return out.Data.Schemes, nil
}

// CreateScheme creates a scheme.
func (c *Client) CreateScheme(scheme Scheme) (*Scheme, error) {
	var out struct {
		Data struct {
			Scheme Scheme `json:"scheme"`
		} `json:"data"`
	}
	if err := c.post("/admin/schemes", scheme, &out); err != nil {
		return nil, err
	}
	return &out.Data.Scheme, nil
}

// UpdateScheme replaces the scheme with the given id.
func (c *Client) UpdateScheme(id string, scheme Scheme) error {
	return c.put("/admin/schemes/"+url.PathEscape(id), scheme, nil)
}

// DeleteScheme removes the scheme with the given id.
func (c *Client) DeleteScheme(id string) error {
	return c.del("/admin/schemes/" + url.PathEscape(id))
}

// --- Users / stats ---

// ListUsers fetches all accounts.
func (c *Client) ListUsers() ([]User, error) {
	var out struct {
		Data struct {
			Users []User `json:"users"`
		} `json:"data"`
	}
	if err := c.get("/admin/users", &out); err != nil {
		return nil, err
	}
	return out.Data.Users, nil
}

// GetStats fetches the dashboard aggregate.
func (c *Client) GetStats() (*Stats, error) {
	var out struct {
		Data Stats `json:"data"`
	}
	if err := c.get("/admin/stats", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// --- Subadmins ---

// ListSubadmins fetches subadmins, optionally filtered by verification status.
func (c *Client) ListSubadmins(verificationStatus string) ([]Subadmin, error) {
	path := "/admin/subadmins"
	if verificationStatus != "" {
		path += "?verificationStatus=" + url.QueryEscape(verificationStatus)
	}
	var out struct {
		Data struct {
			Subadmins []Subadmin `json:"subadmins"`
		} `json:"data"`
	}
	if err := c.get(path, &out); err != nil {
		return nil, err
	}
	return out.Data.Subadmins, nil
}

// CreateSubadmin starts a subadmin onboarding request.
func (c *Client) CreateSubadmin(req SubadminRequest) error {
	return c.post("/admin/subadmins", req, nil)
}

// UpdateSubadmin updates the subadmin profile.
func (c *Client) UpdateSubadmin(id string, req SubadminRequest) error {
	return c.put("/admin/subadmins/"+url.PathEscape(id), req, nil)
}

// VerifySubadmin approves a pending subadmin.
func (c *Client) VerifySubadmin(id, notes string) error {
	body := map[string]string{"notes": notes}
	return c.post("/admin/subadmins/"+url.PathEscape(id)+"/verify", body, nil)
}

// RejectSubadmin rejects a pending subadmin.
func (c *Client) RejectSubadmin(id, reason string) error {
	body := map[string]string{"reason": reason}
	return c.post("/admin/subadmins/"+url.PathEscape(id)+"/reject", body, nil)
}

// ActivateSubadmin re-enables a deactivated subadmin.
func (c *Client) ActivateSubadmin(id string) error {
	return c.post("/admin/subadmins/"+url.PathEscape(id)+"/activate", nil, nil)
}

// DeactivateSubadmin disables a subadmin account.
func (c *Client) DeactivateSubadmin(id string) error {
	return c.post("/admin/subadmins/"+url.PathEscape(id)+"/deactivate", nil, nil)
}

// UpdateSubadminPermissions replaces a subadmin's permission grants.
func (c *Client) UpdateSubadminPermissions(id string, permissions []string) error {
	body := map[string][]string{"permissions": permissions}
	return c.put("/admin/subadmins/"+url.PathEscape(id)+"/permissions", body, nil)
}

// --- Audit logs ---

// ListAuditLogs fetches one page of the audit trail.
func (c *Client) ListAuditLogs(f AuditFilter) (*AuditPage, error) {
	q := url.Values{}
	if f.Action != "" {
		q.Set("action", f.Action)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	path := "/audit-logs"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var out struct {
		Data struct {
			AuditLogs []AuditLog `json:"auditLogs"`
		} `json:"data"`
		Total int `json:"total"`
		Pages int `json:"pages"`
	}
	if err := c.get(path, &out); err != nil {
		return nil, err
	}
	return &AuditPage{Logs: out.Data.AuditLogs, Total: out.Total, Pages: out.Pages}, nil
}

// --- Transport helpers ---

func (c *Client) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *Client) post(path string, body, out any) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *Client) put(path string, body, out any) error {
	return c.do(http.MethodPut, path, body, out)
}

func (c *Client) del(path string) error {
	return c.do(http.MethodDelete, path, nil, nil)
}

func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// readMessage extracts the backend's {"message": ...} error body, if any.
func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		return body.Message
	}
	return ""
}
