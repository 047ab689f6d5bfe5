package stub

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jobsetu/admin-tui/internal/api"
)

// Server is the stub backend: REST routes under /api plus the /ws event
// socket, sharing one store and one broadcaster.
type Server struct {
	store       *Store
	auth        *Auth
	broadcaster *Broadcaster
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewServer wires the stub's components together.
func NewServer(store *Store, auth *Auth, broadcaster *Broadcaster, log zerolog.Logger) *Server {
	return &Server{
		store:       store,
		auth:        auth,
		broadcaster: broadcaster,
		log:         log,
		upgrader: websocket.Upgrader{
			// Local development stub; any origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/auth/send-otp", s.handleSendOTP).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/verify-otp", s.handleVerifyOTP).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.auth.Middleware)
	authed.HandleFunc("/api/auth/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/api/jobs", s.handleListJobs).Methods(http.MethodGet)
	authed.HandleFunc("/api/schemes", s.handleListSchemes).Methods(http.MethodGet)
	authed.HandleFunc("/api/admin/stats", s.handleStats).Methods(http.MethodGet)

	staff := authed.NewRoute().Subrouter()
	staff.Use(s.auth.RequireRole(api.RoleAdmin, api.RoleSubadmin))
	staff.HandleFunc("/api/admin/jobs", s.handleCreateJob).Methods(http.MethodPost)
	staff.HandleFunc("/api/admin/jobs/{id}", s.handleUpdateJob).Methods(http.MethodPut)
	staff.HandleFunc("/api/admin/jobs/{id}", s.handleDeleteJob).Methods(http.MethodDelete)
	staff.HandleFunc("/api/admin/schemes", s.handleCreateScheme).Methods(http.MethodPost)
	staff.HandleFunc("/api/admin/schemes/{id}", s.handleUpdateScheme).Methods(http.MethodPut)
	staff.HandleFunc("/api/admin/schemes/{id}", s.handleDeleteScheme).Methods(http.MethodDelete)

	admin := authed.NewRoute().Subrouter()
	admin.Use(s.auth.RequireRole(api.RoleAdmin))
	admin.HandleFunc("/api/admin/users", s.handleListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/api/admin/subadmins", s.handleListSubadmins).Methods(http.MethodGet)
	admin.HandleFunc("/api/admin/subadmins", s.handleCreateSubadmin).Methods(http.MethodPost)
	admin.HandleFunc("/api/admin/subadmins/{id}", s.handleUpdateSubadmin).Methods(http.MethodPut)
	admin.HandleFunc("/api/admin/subadmins/{id}/verify", s.handleVerifySubadmin).Methods(http.MethodPost)
	admin.HandleFunc("/api/admin/subadmins/{id}/reject", s.handleRejectSubadmin).Methods(http.MethodPost)
	admin.HandleFunc("/api/admin/subadmins/{id}/activate", s.handleActivateSubadmin).Methods(http.MethodPost)
	admin.HandleFunc("/api/admin/subadmins/{id}/deactivate", s.handleDeactivateSubadmin).Methods(http.MethodPost)
	admin.HandleFunc("/api/admin/subadmins/{id}/permissions", s.handlePermissions).Methods(http.MethodPut)
	admin.HandleFunc("/api/audit-logs", s.handleAuditLogs).Methods(http.MethodGet)

	r.HandleFunc("/ws", s.handleWS)
	return r
}

// --- Auth handlers ---

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MobileNumber string `json:"mobileNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MobileNumber == "" {
		writeError(w, http.StatusBadRequest, "mobileNumber is required")
		return
	}
	s.auth.IssueOTP(body.MobileNumber)
	writeData(w, http.StatusOK, map[string]string{"message": "OTP sent"})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MobileNumber string `json:"mobileNumber"`
		OTP          string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	result, err := s.auth.Verify(body.MobileNumber, body.OTP)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeData(w, http.StatusOK, result)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; logout succeeds by decree.
	writeData(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// --- Jobs ---

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{"jobs": s.store.ListJobs()})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var job api.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil || job.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	created := s.store.CreateJob(job)
	s.broadcaster.Broadcast("job:created", created)
	writeData(w, http.StatusCreated, map[string]any{"job": created})
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var job api.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	id := mux.Vars(r)["id"]
	if err := s.store.UpdateJob(id, job); err != nil {
		writeStoreError(w, err)
		return
	}
	s.broadcaster.Broadcast("job:updated", map[string]string{"_id": id})
	writeData(w, http.StatusOK, map[string]string{"message": "Job updated"})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteJob(id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.broadcaster.Broadcast("job:deleted", map[string]string{"_id": id})
	writeData(w, http.StatusOK, map[string]string{"message": "Job deleted"})
}

// --- Schemes ---

func (s *Server) handleListSchemes(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{"schemes": s.store.ListSchemes()})
}

func (s *Server) handleCreateScheme(w http.ResponseWriter, r *http.Request) {
	var scheme api.Scheme
	if err := json.NewDecoder(r.Body).Decode(&scheme); err != nil || scheme.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	created := s.store.CreateScheme(scheme)
	s.broadcaster.Broadcast("scheme:created", created)
	writeData(w, http.StatusCreated, map[string]any{"scheme": created})
}

func (s *Server) handleUpdateScheme(w http.ResponseWriter, r *http.Request) {
	var scheme api.Scheme
	if err := json.NewDecoder(r.Body).Decode(&scheme); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	id := mux.Vars(r)["id"]
	if err := s.store.UpdateScheme(id, scheme); err != nil {
		writeStoreError(w, err)
		return
	}
	s.broadcaster.Broadcast("scheme:updated", map[string]string{"_id": id})
	writeData(w, http.StatusOK, map[string]string{"message": "Scheme updated"})
}

func (s *Server) handleDeleteScheme(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteScheme(id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.broadcaster.Broadcast("scheme:deleted", map[string]string{"_id": id})
	writeData(w, http.StatusOK, map[string]string{"message": "Scheme deleted"})
}

// --- Users / stats ---

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{"users": s.store.ListUsers()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.store.Stats())
}

// --- Subadmins ---

func (s *Server) handleListSubadmins(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("verificationStatus")
	writeData(w, http.StatusOK, map[string]any{"subadmins": s.store.ListSubadmins(status)})
}

func (s *Server) handleCreateSubadmin(w http.ResponseWriter, r *http.Request) {
	actor := PrincipalFrom(r.Context())
	var req api.SubadminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MobileNumber == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "mobileNumber and name are required")
		return
	}
	sub, err := s.store.CreateSubadmin(req)
	if err != nil {
		s.store.Audit("SUBADMIN_CREATED", actor.ID, "", map[string]string{"mobileNumber": req.MobileNumber}, "FAILURE")
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.store.Audit("SUBADMIN_CREATED", actor.ID, sub.ID, map[string]string{"mobileNumber": req.MobileNumber}, "SUCCESS")
	writeData(w, http.StatusCreated, map[string]any{"subadmin": sub})
}

func (s *Server) handleUpdateSubadmin(w http.ResponseWriter, r *http.Request) {
	actor := PrincipalFrom(r.Context())
	id := mux.Vars(r)["id"]
	var req api.SubadminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := s.store.UpdateSubadmin(id, req); err != nil {
		writeStoreError(w, err)
		return
	}
	s.store.Audit("SUBADMIN_UPDATED", actor.ID, id, nil, "SUCCESS")
	writeData(w, http.StatusOK, map[string]string{"message": "Subadmin updated"})
}

func (s *Server) handleVerifySubadmin(w http.ResponseWriter, r *http.Request) {
	s.verification(w, r, api.VerificationVerified, "SUBADMIN_VERIFIED", "notes")
}

func (s *Server) handleRejectSubadmin(w http.ResponseWriter, r *http.Request) {
	s.verification(w, r, api.VerificationRejected, "SUBADMIN_REJECTED", "reason")
}

func (s *Server) verification(w http.ResponseWriter, r *http.Request, status, action, field string) {
	actor := PrincipalFrom(r.Context())
	id := mux.Vars(r)["id"]
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)
	if err := s.store.SetVerification(id, status); err != nil {
		s.store.Audit(action, actor.ID, id, nil, "FAILURE")
		writeStoreError(w, err)
		return
	}
	var details any
	if v := body[field]; v != "" {
		details = map[string]string{field: v}
	}
	s.store.Audit(action, actor.ID, id, details, "SUCCESS")
	writeData(w, http.StatusOK, map[string]string{"message": "Verification status updated"})
}

func (s *Server) handleActivateSubadmin(w http.ResponseWriter, r *http.Request) {
	s.activation(w, r, true, "SUBADMIN_ACTIVATED")
}

func (s *Server) handleDeactivateSubadmin(w http.ResponseWriter, r *http.Request) {
	s.activation(w, r, false, "SUBADMIN_DEACTIVATED")
}

func (s *Server) activation(w http.ResponseWriter, r *http.Request, active bool, action string) {
	actor := PrincipalFrom(r.Context())
	id := mux.Vars(r)["id"]
	if err := s.store.SetActive(id, active); err != nil {
		s.store.Audit(action, actor.ID, id, nil, "FAILURE")
		writeStoreError(w, err)
		return
	}
	s.store.Audit(action, actor.ID, id, nil, "SUCCESS")
	writeData(w, http.StatusOK, map[string]string{"message": "Account updated"})
}

func (s *Server) handlePermissions(w http.ResponseWriter, r *http.Request) {
	actor := PrincipalFrom(r.Context())
	id := mux.Vars(r)["id"]
	var body struct {
		Permissions []string `json:"permissions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := s.store.SetPermissions(id, body.Permissions); err != nil {
		if errors.Is(err, errNotFound) {
			writeStoreError(w, err)
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		s.store.Audit("SUBADMIN_PERMISSIONS_UPDATED", actor.ID, id, nil, "FAILURE")
		return
	}
	s.store.Audit("SUBADMIN_PERMISSIONS_UPDATED", actor.ID, id,
		map[string][]string{"permissions": body.Permissions}, "SUCCESS")
	writeData(w, http.StatusOK, map[string]string{"message": "Permissions updated"})
}

// --- Audit logs ---

func (s *Server) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := api.AuditFilter{
		Action:    q.Get("action"),
		Status:    q.Get("status"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Page:      atoiDefault(q.Get("page"), 1),
		Limit:     atoiDefault(q.Get("limit"), 20),
	}
	page := s.store.ListAudits(filter)
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  map[string]any{"auditLogs": page.Logs},
		"total": page.Total,
		"pages": page.Pages,
	})
}

// --- Socket ---

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.Authenticate(r); err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("ws upgrade")
		return
	}
	s.log.Info().Str("remote", r.RemoteAddr).Msg("ws client connected")
	c := s.broadcaster.AddClient(conn)

	go func() {
		defer func() {
			s.broadcaster.RemoveClient(c)
			s.log.Info().Str("remote", r.RemoteAddr).Msg("ws client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// --- Response helpers ---

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotFound) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	return n
}
