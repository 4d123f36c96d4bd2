// Package apitest provides an in-memory fake of the HR API for client and
// store tests. Handlers answer with the same success/error envelope the real
// server uses.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"leavectl/internal/model"
)

const (
	// Credentials and token accepted by the fake login endpoint.
	Email    = "staff@example.com"
	Password = "secret"
)

// Server is the fake API. Exported fields let a test steer behavior:
// expire the session, slow an endpoint down, or fail uploads.
type Server struct {
	HTTP *httptest.Server

	mu sync.Mutex

	// TokenExpired makes every authenticated endpoint answer 401.
	TokenExpired bool
	// Forbidden makes every authenticated endpoint answer 403.
	Forbidden bool
	// FailUploads makes the document upload endpoint answer 500.
	FailUploads bool
	// EventsDelay stalls the calendar events endpoint, for supersession
	// tests.
	EventsDelay time.Duration
	// EventsPayloadByCall lets successive event fetches answer with
	// different payloads so tests can tell which fetch committed.
	EventsPayloadByCall [][]model.CalendarEvent

	Token        string
	RefreshToken string
	// OAuthCode is the one authorization code the callback endpoint accepts.
	OAuthCode string

	Users         []model.User
	Departments   []model.Department
	LeaveTypes    []model.LeaveType
	Balances      []model.LeaveBalance
	Requests      []model.LeaveRequest
	Events        []model.CalendarEvent
	Holidays      []model.Holiday
	Notifications []model.Notification
	Report        model.LeaveReport
	ExportBody    []byte

	LoginCalls        int
	OAuthCalls        int
	RefreshCalls      int
	UploadCalls       int
	CreateLeaveCalls  int
	EventsCalls       int
	MarkReadCalls     int
	MarkAllReadCalls  int
	ProfileFetchCalls int
}

type envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *envelopeError `json:"error,omitempty"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewServer starts the fake with one seeded staff user. Close it with
// s.HTTP.Close().
func NewServer() *Server {
	s := &Server{
		Token:        uuid.NewString(),
		RefreshToken: uuid.NewString(),
		OAuthCode:    uuid.NewString(),
		Users: []model.User{{
			ID:        "u1",
			Email:     Email,
			FirstName: "Sam",
			LastName:  "Staff",
			Role:      model.RoleStaff,
			CreatedAt: time.Now().UTC(),
		}},
		ExportBody: []byte("name,days\nSam Staff,3\n"),
	}

	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/oauth/callback", s.handleOAuthCallback)
		r.Post("/auth/refresh", s.handleRefresh)
		r.Post("/auth/logout", s.authed(s.ok))
		r.Get("/auth/me", s.authed(s.handleMe))

		r.Get("/users", s.authed(s.handleListUsers))
		r.Post("/users", s.authed(s.handleCreateUser))
		r.Put("/users/{id}", s.authed(s.handleUpdateUser))
		r.Delete("/users/{id}", s.authed(s.ok))

		r.Get("/departments", s.authed(s.handleListDepartments))
		r.Post("/departments", s.authed(s.handleCreateDepartment))
		r.Post("/departments/{id}/head", s.authed(s.handleAssignHead))

		r.Get("/leave/types", s.authed(s.handleListLeaveTypes))
		r.Get("/leave/balances", s.authed(s.handleBalances))
		r.Get("/leave/requests", s.authed(s.handleListRequests))
		r.Post("/leave/requests", s.authed(s.handleCreateRequest))
		r.Put("/leave/requests/{id}/status", s.authed(s.handleRequestStatus))
		r.Post("/leave/documents", s.authed(s.handleUploadDocuments))

		r.Get("/calendar/events", s.authed(s.handleListEvents))
		r.Get("/calendar/holidays", s.authed(s.handleListHolidays))

		r.Get("/notifications", s.authed(s.handleListNotifications))
		r.Put("/notifications/{id}/read", s.authed(s.handleMarkRead))
		r.Put("/notifications/read-all", s.authed(s.handleMarkAllRead))

		r.Get("/reports/leave", s.authed(s.handleReport))
		r.Get("/reports/leave/export", s.authed(s.handleExport))
	})

	s.HTTP = httptest.NewServer(router)
	return s
}

// BaseURL is the API base the client should be pointed at.
func (s *Server) BaseURL() string { return s.HTTP.URL + "/api/v1" }

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		expired := s.TokenExpired
		forbidden := s.Forbidden
		token := s.Token
		s.mu.Unlock()

		if expired || r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, envelope{Error: &envelopeError{Code: "UNAUTHORIZED", Message: "token expired"}})
			return
		}
		if forbidden {
			writeJSON(w, http.StatusForbidden, envelope{Error: &envelopeError{Code: "FORBIDDEN", Message: "insufficient role"}})
			return
		}
		next(w, r)
	}
}

func (s *Server) ok(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	s.LoginCalls++
	user := s.Users[0]
	token, refresh := s.Token, s.RefreshToken
	s.mu.Unlock()

	if body.Email != Email || body.Password != Password {
		writeJSON(w, http.StatusUnauthorized, envelope{Error: &envelopeError{Code: "UNAUTHORIZED", Message: "invalid credentials"}})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]any{
		"user":         user,
		"token":        token,
		"refreshToken": refresh,
	}})
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	s.OAuthCalls++
	user := s.Users[0]
	code, token, refresh := s.OAuthCode, s.Token, s.RefreshToken
	s.mu.Unlock()

	if body.Code != code {
		writeJSON(w, http.StatusUnauthorized, envelope{Error: &envelopeError{Code: "UNAUTHORIZED", Message: "invalid authorization code"}})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]any{
		"user":         user,
		"token":        token,
		"refreshToken": refresh,
	}})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	s.RefreshCalls++
	valid := body.RefreshToken == s.RefreshToken && !s.TokenExpired
	if valid {
		s.Token = uuid.NewString()
		s.RefreshToken = uuid.NewString()
	}
	user := s.Users[0]
	token, refresh := s.Token, s.RefreshToken
	s.mu.Unlock()

	if !valid {
		writeJSON(w, http.StatusUnauthorized, envelope{Error: &envelopeError{Code: "UNAUTHORIZED", Message: "refresh token invalid"}})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]any{
		"user":         user,
		"token":        token,
		"refreshToken": refresh,
	}})
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.ProfileFetchCalls++
	user := s.Users[0]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: user})
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	users := append([]model.User(nil), s.Users...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: users})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user model.User
	_ = json.NewDecoder(r.Body).Decode(&user)
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.Users = append(s.Users, user)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: user})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var user model.User
	_ = json.NewDecoder(r.Body).Decode(&user)
	user.ID = id

	s.mu.Lock()
	for i := range s.Users {
		if s.Users[i].ID == id {
			s.Users[i] = user
			break
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: user})
}

func (s *Server) handleListDepartments(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	departments := append([]model.Department(nil), s.Departments...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: departments})
}

func (s *Server) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var department model.Department
	_ = json.NewDecoder(r.Body).Decode(&department)
	department.ID = uuid.NewString()

	s.mu.Lock()
	s.Departments = append(s.Departments, department)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: department})
}

func (s *Server) handleAssignHead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		UserID string `json:"userId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	var updated model.Department
	for i := range s.Departments {
		if s.Departments[i].ID == id {
			s.Departments[i].HeadID = body.UserID
			updated = s.Departments[i]
			break
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: updated})
}

func (s *Server) handleListLeaveTypes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	types := append([]model.LeaveType(nil), s.LeaveTypes...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: types})
}

func (s *Server) handleBalances(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	balances := append([]model.LeaveBalance(nil), s.Balances...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: balances})
}

func (s *Server) handleListRequests(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	requests := append([]model.LeaveRequest(nil), s.Requests...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: requests})
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var request model.LeaveRequest
	_ = json.NewDecoder(r.Body).Decode(&request)
	request.ID = uuid.NewString()
	request.Status = model.LeaveStatusPending
	request.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.CreateLeaveCalls++
	s.Requests = append(s.Requests, request)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: request})
}

func (s *Server) handleRequestStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	var updated model.LeaveRequest
	found := false
	for i := range s.Requests {
		if s.Requests[i].ID != id {
			continue
		}
		if s.Requests[i].Status != model.LeaveStatusPending {
			s.mu.Unlock()
			writeJSON(w, http.StatusConflict, envelope{Error: &envelopeError{Code: "CONFLICT", Message: "request already settled"}})
			return
		}
		s.Requests[i].Status = body.Status
		updated = s.Requests[i]
		found = true
		break
	}
	s.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusNotFound, envelope{Error: &envelopeError{Code: "NOT_FOUND", Message: "leave request not found"}})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: updated})
}

func (s *Server) handleUploadDocuments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.UploadCalls++
	fail := s.FailUploads
	s.mu.Unlock()

	if fail {
		writeJSON(w, http.StatusInternalServerError, envelope{Error: &envelopeError{Code: "UPLOAD_FAILED", Message: "document upload failed"}})
		return
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Error: &envelopeError{Code: "BAD_REQUEST", Message: "invalid multipart body"}})
		return
	}
	var documents []model.LeaveDocument
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			documents = append(documents, model.LeaveDocument{
				ID:        uuid.NewString(),
				FileName:  header.Filename,
				FileSize:  header.Size,
				CreatedAt: time.Now().UTC(),
			})
		}
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: documents})
}

func (s *Server) handleListEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.EventsCalls++
	call := s.EventsCalls
	delay := s.EventsDelay
	events := append([]model.CalendarEvent(nil), s.Events...)
	if len(s.EventsPayloadByCall) >= call {
		events = s.EventsPayloadByCall[call-1]
		// Only the first call stalls, so a test can start a second fetch
		// while this one is pending.
		if call > 1 {
			delay = 0
		}
	}
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: events})
}

func (s *Server) handleListHolidays(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	holidays := append([]model.Holiday(nil), s.Holidays...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: holidays})
}

func (s *Server) handleListNotifications(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	notifications := append([]model.Notification(nil), s.Notifications...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: notifications})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	s.MarkReadCalls++
	for i := range s.Notifications {
		if s.Notifications[i].ID == id {
			s.Notifications[i].IsRead = true
			break
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.MarkAllReadCalls++
	for i := range s.Notifications {
		s.Notifications[i].IsRead = true
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	report := s.Report
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: report})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	s.mu.Lock()
	body := s.ExportBody
	s.mu.Unlock()
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
