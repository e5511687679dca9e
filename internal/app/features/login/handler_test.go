package login_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/features/login"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newLoginHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	mgr, err := auth.NewManager(auth.RandomKey(), "clubhub_session", "", false, logger)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	h := login.NewHandler(db, mgr, uierrors.NewErrorLogger(logger), logger, "clubadmin", string(hash))
	return h, testutil.NewFixtures(t, db)
}

func postLogin(t *testing.T, h *login.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	return rec
}

func TestHandleLogin_Admin(t *testing.T) {
	h, _ := newLoginHandler(t)

	rec := postLogin(t, h, `{"login_id":"clubadmin","password":"correct horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Role != "admin" {
		t.Errorf("role: got %q, want %q", resp.Role, "admin")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie to be set")
	}
}

func TestHandleLogin_AdminWrongPassword(t *testing.T) {
	h, _ := newLoginHandler(t)

	rec := postLogin(t, h, `{"login_id":"clubadmin","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHandleLogin_ApprovedMember(t *testing.T) {
	h, fixtures := newLoginHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, "田中", "太郎", "B1234567")

	// Student ids normalize, so lowercase input still matches.
	rec := postLogin(t, h, `{"login_id":"b1234567"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Role != "member" {
		t.Errorf("role: got %q, want %q", resp.Role, "member")
	}
	if resp.Name != "田中 太郎" {
		t.Errorf("name: got %q, want %q", resp.Name, "田中 太郎")
	}
}

func TestHandleLogin_PendingMember(t *testing.T) {
	h, fixtures := newLoginHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreatePendingMember(ctx, "田中", "太郎", "B1234567")

	rec := postLogin(t, h, `{"login_id":"B1234567"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for pending member, got %d", rec.Code)
	}
}

func TestHandleLogin_UnknownStudentID(t *testing.T) {
	h, _ := newLoginHandler(t)

	rec := postLogin(t, h, `{"login_id":"B9999999"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown student id, got %d", rec.Code)
	}
}

func TestHandleLogin_BadBody(t *testing.T) {
	h, _ := newLoginHandler(t)

	rec := postLogin(t, h, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestHandleLogout(t *testing.T) {
	h, _ := newLoginHandler(t)

	req := httptest.NewRequest("POST", "/logout", nil)
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
