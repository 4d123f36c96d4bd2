package api

import (
	"context"
	"testing"
	"time"

	"leavectl/internal/apitest"
	"leavectl/internal/session"
)

func newTestClient(t *testing.T, server *apitest.Server) *Client {
	t.Helper()
	sessions := session.NewManager(t.TempDir())
	return New(server.BaseURL(), sessions, WithTimeout(5*time.Second))
}

func login(t *testing.T, c *Client) {
	t.Helper()
	if _, err := c.Login(context.Background(), apitest.Email, apitest.Password, false); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestTokenRequiredBeforeNetworkIO(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	c := newTestClient(t, server)

	_, err := c.ListUsers(context.Background())
	if !IsAuthRequired(err) {
		t.Fatalf("expected auth-required error, got %v", err)
	}
	if server.ProfileFetchCalls != 0 {
		t.Fatal("no request should reach the server without a token")
	}
}

func TestLoginStoresTokenPair(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	c := newTestClient(t, server)

	result, err := c.Login(context.Background(), apitest.Email, apitest.Password, false)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.Email != apitest.Email {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	pair, ok := c.Sessions().Get()
	if !ok || pair.Token != server.Token {
		t.Fatal("token pair not stored")
	}
}

func TestExpiredSessionClassification(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	c := newTestClient(t, server)
	login(t, c)

	server.TokenExpired = true
	_, err := c.ListUsers(context.Background())
	if !IsSessionExpired(err) {
		t.Fatalf("expected session-expired, got %v", err)
	}
	if err.Error() != "Your session has expired. Please log in again." {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestForbiddenClassification(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	c := newTestClient(t, server)
	login(t, c)

	server.Forbidden = true
	_, err := c.ListUsers(context.Background())
	if !IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCanceledRequestClassification(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	server.EventsDelay = time.Second
	c := newTestClient(t, server)
	login(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := c.ListCalendarEvents(ctx, time.Now(), time.Now().AddDate(0, 1, 0))
	if !IsCanceled(err) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestRestoreRefreshesStaleToken(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	c := newTestClient(t, server)
	login(t, c)

	// Rotate the server-side token so the stored one is stale; the refresh
	// token is still good.
	server.Token = "rotated-elsewhere"

	user, err := c.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if user.Email != apitest.Email {
		t.Fatalf("unexpected user: %+v", user)
	}
	if server.RefreshCalls != 1 {
		t.Fatalf("expected exactly one refresh, got %d", server.RefreshCalls)
	}
	pair, _ := c.Sessions().Get()
	if pair.Token != server.Token {
		t.Fatal("refreshed token pair not stored")
	}
}

func TestFailedRefreshClearsBothStores(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	c := newTestClient(t, server)
	if _, err := c.Login(context.Background(), apitest.Email, apitest.Password, true); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	server.TokenExpired = true
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail")
	}
	if _, ok := c.Sessions().Get(); ok {
		t.Fatal("token stores must be cleared after an irrecoverable refresh")
	}
}

func TestLogoutClearsTokens(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	c := newTestClient(t, server)
	if _, err := c.Login(context.Background(), apitest.Email, apitest.Password, true); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, ok := c.Sessions().Get(); ok {
		t.Fatal("tokens survived logout")
	}
}

func TestCompoundCreateStopsOnUploadFailure(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	server.FailUploads = true
	c := newTestClient(t, server)
	login(t, c)

	input := LeaveRequestInput{
		LeaveTypeID: "lt1",
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 0, 2),
		Reason:      "medical",
	}
	uploads := []Upload{{Field: "documents", FileName: "note.pdf", Data: []byte("pdf")}}

	_, err := c.CreateLeaveRequestWithDocuments(context.Background(), input, uploads)
	if err == nil {
		t.Fatal("expected upload failure")
	}
	if err.Error() != "document upload failed" {
		t.Fatalf("error should reflect the upload step, got %q", err.Error())
	}
	if server.CreateLeaveCalls != 0 {
		t.Fatal("no leave request may be created when the upload fails")
	}
}

func TestCompoundCreatePassesDocumentIDs(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	c := newTestClient(t, server)
	login(t, c)

	input := LeaveRequestInput{
		LeaveTypeID: "lt1",
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 0, 1),
	}
	uploads := []Upload{{Field: "documents", FileName: "note.pdf", Data: []byte("pdf")}}

	request, err := c.CreateLeaveRequestWithDocuments(context.Background(), input, uploads)
	if err != nil {
		t.Fatalf("compound create failed: %v", err)
	}
	if request.Status != "pending" {
		t.Fatalf("new request should be pending, got %s", request.Status)
	}
	if server.UploadCalls != 1 || server.CreateLeaveCalls != 1 {
		t.Fatalf("expected 1 upload + 1 create, got %d/%d", server.UploadCalls, server.CreateLeaveCalls)
	}
}

func TestCompoundCreateLeavesInputUntouched(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	c := newTestClient(t, server)
	login(t, c)

	ids := []string{"caller-owned"}
	input := LeaveRequestInput{
		LeaveTypeID: "lt1",
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 0, 1),
		DocumentIDs: ids,
	}
	uploads := []Upload{{Field: "documents", FileName: "note.pdf", Data: []byte("pdf")}}

	if _, err := c.CreateLeaveRequestWithDocuments(context.Background(), input, uploads); err != nil {
		t.Fatalf("compound create failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "caller-owned" {
		t.Fatalf("caller's slice must not be modified, got %v", ids)
	}
}

func TestOAuthExchangeHonorsRememberPreference(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	dir := t.TempDir()
	sessions := session.NewManager(dir)
	c := New(server.BaseURL(), sessions, WithTimeout(5*time.Second))

	// The remember choice is recorded before the provider redirect; the
	// exchange afterwards must land the pair in the persistent store.
	if err := sessions.SetRememberPreference(true); err != nil {
		t.Fatalf("recording remember preference: %v", err)
	}
	result, err := c.ExchangeOAuthCode(context.Background(), server.OAuthCode)
	if err != nil {
		t.Fatalf("code exchange failed: %v", err)
	}
	if result.User.Email != apitest.Email {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	pair, ok := session.NewFileStore(dir).Get()
	if !ok || pair.Token != server.Token {
		t.Fatal("remembered exchange must persist the token pair")
	}
	if server.OAuthCalls != 1 {
		t.Fatalf("expected one exchange call, got %d", server.OAuthCalls)
	}

	if _, err := c.ExchangeOAuthCode(context.Background(), "bogus"); err == nil {
		t.Fatal("expected error for an invalid code")
	}
}

func TestExportFilename(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	got := ExportFilename("leave-report", from, to, "csv")
	if got != "leave-report-2025-03-01-2025-03-31.csv" {
		t.Fatalf("unexpected filename: %s", got)
	}
}

func TestExportLeaveReport(t *testing.T) {
	server := apitest.NewServer()
	defer server.HTTP.Close()
	c := newTestClient(t, server)
	login(t, c)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	blob, filename, err := c.ExportLeaveReport(context.Background(), from, to, FormatCSV)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(blob) == 0 {
		t.Fatal("empty export body")
	}
	if filename != "leave-report-2025-03-01-2025-03-31.csv" {
		t.Fatalf("unexpected filename: %s", filename)
	}

	if _, _, err := c.ExportLeaveReport(context.Background(), from, to, "docx"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
