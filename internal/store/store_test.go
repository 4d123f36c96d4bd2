package store

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"leavectl/internal/api"
	"leavectl/internal/apitest"
	"leavectl/internal/model"
	"leavectl/internal/session"
)

func newTestStores(t *testing.T, server *apitest.Server) *Stores {
	t.Helper()
	sessions := session.NewManager(t.TempDir())
	client := api.New(server.BaseURL(), sessions, api.WithTimeout(5*time.Second))
	return New(client, nil)
}

func loginStores(t *testing.T, s *Stores) {
	t.Helper()
	if err := s.Auth.Login(context.Background(), apitest.Email, apitest.Password, false); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestFetchReplacesCollection(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	s := newTestStores(t, server)
	loginStores(t, s)

	if err := s.Users.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got := len(s.Users.All()); got != 1 {
		t.Fatalf("expected 1 user, got %d", got)
	}

	server.Users = append(server.Users, model.User{ID: "u2", Email: "two@example.com", Role: model.RoleStaff})
	if err := s.Users.Fetch(context.Background()); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if got := len(s.Users.All()); got != 2 {
		t.Fatalf("fetch must replace the collection, got %d users", got)
	}
}

func TestCreateAppendsAndDeleteFilters(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	s := newTestStores(t, server)
	loginStores(t, s)

	if err := s.Users.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	created, err := s.Users.Create(context.Background(), api.UserInput{Email: "new@example.com", Role: model.RoleStaff})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got := len(s.Users.All()); got != 2 {
		t.Fatalf("create must append, got %d users", got)
	}

	if err := s.Users.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	for _, u := range s.Users.All() {
		if u.ID == created.ID {
			t.Fatal("delete must filter the record out")
		}
	}
}

func TestSessionExpiryFlipsAuthFlag(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	s := newTestStores(t, server)
	loginStores(t, s)

	if !s.Auth.Authenticated() {
		t.Fatal("expected authenticated after login")
	}

	server.TokenExpired = true
	if err := s.Users.Fetch(context.Background()); err == nil {
		t.Fatal("expected fetch to fail")
	}
	if s.Auth.Authenticated() {
		t.Fatal("session expiry must flip the authenticated flag")
	}
	if s.Users.Error() != "Your session has expired. Please log in again." {
		t.Fatalf("unexpected error message: %q", s.Users.Error())
	}
}

func TestCanceledFetchNeverSetsError(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	server.EventsDelay = 500 * time.Millisecond
	s := newTestStores(t, server)
	loginStores(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	from := time.Now()
	if err := s.Calendar.FetchEvents(ctx, from, from.AddDate(0, 1, 0)); err == nil {
		t.Fatal("expected canceled fetch to return an error to the caller")
	}
	if s.Calendar.Error() != "" {
		t.Fatalf("canceled fetch must not record an error, got %q", s.Calendar.Error())
	}
}

func TestSecondEventsFetchSupersedesFirst(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	server.EventsDelay = 400 * time.Millisecond
	server.EventsPayloadByCall = [][]model.CalendarEvent{
		{{ID: "stale", Title: "stale"}},
		{{ID: "fresh", Title: "fresh"}},
	}
	s := newTestStores(t, server)
	loginStores(t, s)

	from := time.Now()
	to := from.AddDate(0, 1, 0)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// First fetch; stalls server-side until after the second starts.
		_ = s.Calendar.FetchEvents(context.Background(), from, to)
	}()

	time.Sleep(100 * time.Millisecond)
	if err := s.Calendar.FetchEvents(context.Background(), from, to); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	wg.Wait()

	events := s.Calendar.Events()
	if len(events) != 1 || events[0].ID != "fresh" {
		t.Fatalf("only the second fetch's result may commit, got %+v", events)
	}
	if s.Calendar.Error() != "" {
		t.Fatalf("superseded fetch must not record an error, got %q", s.Calendar.Error())
	}
}

// gatingTransport holds the first calendar-events response after it has
// fully arrived, so a test can run a second fetch to completion while the
// first sits between response and commit.
type gatingTransport struct {
	settled chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil || !strings.HasSuffix(req.URL.Path, "/calendar/events") {
		return resp, err
	}
	gated := false
	g.once.Do(func() { gated = true })
	if !gated {
		return resp, nil
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	close(g.settled)
	<-g.release
	return resp, nil
}

func TestSettledButSupersededFetchNeverCommits(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	server.EventsPayloadByCall = [][]model.CalendarEvent{
		{{ID: "stale", Title: "stale"}},
		{{ID: "fresh", Title: "fresh"}},
	}

	gate := &gatingTransport{
		settled: make(chan struct{}),
		release: make(chan struct{}),
	}
	sessions := session.NewManager(t.TempDir())
	client := api.New(server.BaseURL(), sessions, api.WithHTTPClient(&http.Client{Transport: gate}))
	s := New(client, nil)
	loginStores(t, s)

	from := time.Now()
	to := from.AddDate(0, 1, 0)

	first := make(chan error, 1)
	go func() {
		first <- s.Calendar.FetchEvents(context.Background(), from, to)
	}()

	// The first response has settled; the second fetch starts and finishes
	// before the first is allowed to proceed to its commit.
	<-gate.settled
	if err := s.Calendar.FetchEvents(context.Background(), from, to); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	close(gate.release)

	if err := <-first; err == nil {
		t.Fatal("superseded fetch must report its cancellation to the caller")
	}
	events := s.Calendar.Events()
	if len(events) != 1 || events[0].ID != "fresh" {
		t.Fatalf("stale result must not overwrite the newer one, got %+v", events)
	}
	if s.Calendar.Error() != "" {
		t.Fatalf("superseded fetch must not record an error, got %q", s.Calendar.Error())
	}
	if s.Calendar.Loading() {
		t.Fatal("loading flag stuck after the superseded fetch returned")
	}
}

func TestBalancesDisplayedVerbatim(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	// availableDays deliberately disagrees with total-used-pending+adjustment
	// to prove the client does not recompute it.
	server.Balances = []model.LeaveBalance{{
		UserID:        "u1",
		LeaveTypeID:   "lt1",
		Year:          2025,
		TotalDays:     20,
		UsedDays:      5,
		PendingDays:   2,
		Adjustment:    1,
		AvailableDays: 99,
	}}
	s := newTestStores(t, server)
	loginStores(t, s)

	if err := s.Leave.FetchBalances(context.Background(), "u1", 2025); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	balances := s.Leave.Balances()
	if len(balances) != 1 {
		t.Fatalf("expected 1 balance, got %d", len(balances))
	}
	if balances[0].AvailableDays != 99 {
		t.Fatalf("available days must be the server value verbatim, got %v", balances[0].AvailableDays)
	}
}

func TestApplyWithDocumentsRecordsUploadFailure(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	server.FailUploads = true
	s := newTestStores(t, server)
	loginStores(t, s)

	input := api.LeaveRequestInput{LeaveTypeID: "lt1", StartDate: time.Now(), EndDate: time.Now().AddDate(0, 0, 1)}
	uploads := []api.Upload{{Field: "documents", FileName: "cert.pdf", Data: []byte("x")}}

	if _, err := s.Leave.ApplyWithDocuments(context.Background(), input, uploads); err == nil {
		t.Fatal("expected compound apply to fail")
	}
	if server.CreateLeaveCalls != 0 {
		t.Fatal("upload failure must prevent the create step")
	}
	if s.Leave.Error() != "document upload failed" {
		t.Fatalf("store error must reflect the upload failure, got %q", s.Leave.Error())
	}
}

func TestStatusUpdatePatchesInPlace(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	server.Requests = []model.LeaveRequest{
		{ID: "lr1", Status: model.LeaveStatusPending, Reason: "trip"},
		{ID: "lr2", Status: model.LeaveStatusPending, Reason: "rest"},
	}
	s := newTestStores(t, server)
	loginStores(t, s)

	if err := s.Leave.FetchRequests(context.Background(), ""); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if _, err := s.Leave.SetStatus(context.Background(), "lr1", model.LeaveStatusApproved, "ok"); err != nil {
		t.Fatalf("status update failed: %v", err)
	}

	requests := s.Leave.Requests()
	if len(requests) != 2 {
		t.Fatalf("patch must not change the collection size, got %d", len(requests))
	}
	for _, r := range requests {
		switch r.ID {
		case "lr1":
			if r.Status != model.LeaveStatusApproved {
				t.Fatalf("lr1 not patched: %s", r.Status)
			}
		case "lr2":
			if r.Status != model.LeaveStatusPending {
				t.Fatalf("lr2 must be untouched: %s", r.Status)
			}
		}
	}
}

func TestSettledRequestIsTerminal(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	server.Requests = []model.LeaveRequest{{ID: "lr1", Status: model.LeaveStatusApproved}}
	s := newTestStores(t, server)
	loginStores(t, s)

	if err := s.Leave.FetchRequests(context.Background(), ""); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if _, err := s.Leave.SetStatus(context.Background(), "lr1", model.LeaveStatusRejected, ""); err == nil {
		t.Fatal("expected error updating a settled request")
	}
}

func TestSubscribersNotified(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	s := newTestStores(t, server)
	loginStores(t, s)

	var mu sync.Mutex
	calls := 0
	s.Users.Subscribe(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	if err := s.Users.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls == 0 {
		t.Fatal("subscriber never notified")
	}
}

func TestResetDropsSlices(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	s := newTestStores(t, server)
	loginStores(t, s)

	if err := s.Users.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	s.Reset()
	if len(s.Users.All()) != 0 {
		t.Fatal("reset must drop cached slices")
	}
}
