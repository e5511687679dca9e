package events_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/features/events"
	"github.com/dalemusser/clubhub/internal/app/features/participation"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newEventsRouter(t *testing.T) (http.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	h := events.NewHandler(db, errLog, logger)
	p := participation.NewHandler(db, errLog, logger)
	return events.Routes(h, p), testutil.NewFixtures(t, db)
}

func memberUser(m models.Member) *auth.SessionUser {
	return &auth.SessionUser{ID: m.ID.Hex(), Name: m.FullName(), Role: "member"}
}

func adminUser() *auth.SessionUser {
	return &auth.SessionUser{ID: "admin", Name: "clubadmin", Role: "admin"}
}

func doJSON(t *testing.T, router http.Handler, u *auth.SessionUser, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		req = auth.WithTestUser(req, u)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// connectDiscord flips the member's Discord connection directly in the
// collection.
func connectDiscord(t *testing.T, fx *testutil.Fixtures, m models.Member) {
	t.Helper()
	_, err := fx.DB.Collection("members").UpdateByID(context.Background(), m.ID,
		bson.M{"$set": bson.M{"linked_accounts.discord": models.LinkedAccount{
			Connected:  true,
			ExternalID: "user#0001",
		}}})
	if err != nil {
		t.Fatalf("connectDiscord: %v", err)
	}
}

func createRestrictedEvent(t *testing.T, router http.Handler, name string) models.Event {
	t.Helper()
	date := time.Now().Add(7 * 24 * time.Hour).Format(time.RFC3339)
	deadline := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	rec := doJSON(t, router, adminUser(), "POST", "/",
		`{"name":"`+name+`","visibility":"discord","date":"`+date+`","deadline":"`+deadline+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("createRestrictedEvent: %d: %s", rec.Code, rec.Body.String())
	}
	var e models.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("createRestrictedEvent parse: %v", err)
	}
	return e
}

type listResponse struct {
	Events []struct {
		models.Event
		Accepting bool `json:"accepting"`
	} `json:"events"`
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) listResponse {
	t.Helper()
	var resp listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse list: %v", err)
	}
	return resp
}

func TestList_RestrictedGating(t *testing.T) {
	router, fx := newEventsRouter(t)
	ctx := context.Background()

	m := fx.CreateMember(ctx, "田中", "太郎", "B1111111")
	connected := fx.CreateMember(ctx, "鈴木", "花子", "B2222222")
	connectDiscord(t, fx, connected)

	fx.CreateEvent(ctx, "新歓BBQ", nil)
	createRestrictedEvent(t, router, "Discord交流会")

	rec := doJSON(t, router, memberUser(m), "GET", "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeList(t, rec).Events; len(got) != 1 || got[0].Name != "新歓BBQ" {
		t.Errorf("unconnected member should see only public events, got %d", len(got))
	}

	rec = doJSON(t, router, memberUser(connected), "GET", "/", "")
	if got := decodeList(t, rec).Events; len(got) != 2 {
		t.Errorf("connected member should see both events, got %d", len(got))
	}

	rec = doJSON(t, router, adminUser(), "GET", "/", "")
	if got := decodeList(t, rec).Events; len(got) != 2 {
		t.Errorf("admin should see both events, got %d", len(got))
	}
}

func TestList_AcceptingFlag(t *testing.T) {
	router, fx := newEventsRouter(t)
	ctx := context.Background()

	m := fx.CreateMember(ctx, "田中", "太郎", "B1111111")
	live := fx.CreateEvent(ctx, "夏合宿", nil)
	expired := fx.CreateExpiredEvent(ctx, "春合宿")

	rec := doJSON(t, router, memberUser(m), "GET", "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, v := range decodeList(t, rec).Events {
		switch v.ID {
		case live.ID:
			if !v.Accepting {
				t.Errorf("%s should be accepting", v.Name)
			}
		case expired.ID:
			if v.Accepting {
				t.Errorf("%s should not be accepting", v.Name)
			}
		}
	}
}

func TestList_SortByDate(t *testing.T) {
	router, fx := newEventsRouter(t)
	ctx := context.Background()

	m := fx.CreateMember(ctx, "田中", "太郎", "B1111111")
	later := fx.CreateEvent(ctx, "冬合宿", nil)
	earlier := fx.CreateEvent(ctx, "秋合宿", nil)

	_, err := fx.DB.Collection("events").UpdateByID(ctx, earlier.ID,
		bson.M{"$set": bson.M{"date": time.Now().Add(24 * time.Hour).UTC()}})
	if err != nil {
		t.Fatalf("failed to move event date: %v", err)
	}

	rec := doJSON(t, router, memberUser(m), "GET", "/?sort=date", "")
	got := decodeList(t, rec).Events
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].ID != earlier.ID || got[1].ID != later.ID {
		t.Errorf("events not in date order: %s, %s", got[0].Name, got[1].Name)
	}

	rec = doJSON(t, router, memberUser(m), "GET", "/?sort=-date", "")
	got = decodeList(t, rec).Events
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].ID != later.ID || got[1].ID != earlier.ID {
		t.Errorf("events not in reverse date order: %s, %s", got[0].Name, got[1].Name)
	}
}

func TestView_Restricted(t *testing.T) {
	router, fx := newEventsRouter(t)
	ctx := context.Background()

	m := fx.CreateMember(ctx, "田中", "太郎", "B1111111")
	connected := fx.CreateMember(ctx, "鈴木", "花子", "B2222222")
	connectDiscord(t, fx, connected)

	e := createRestrictedEvent(t, router, "Discord交流会")

	rec := doJSON(t, router, memberUser(m), "GET", "/"+e.ID.Hex(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unconnected member: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, router, memberUser(connected), "GET", "/"+e.ID.Hex(), "")
	if rec.Code != http.StatusOK {
		t.Errorf("connected member: expected 200, got %d", rec.Code)
	}
}

func TestCreate_Validation(t *testing.T) {
	router, _ := newEventsRouter(t)

	rec := doJSON(t, router, adminUser(), "POST", "/", `{"description":"no name"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreate_MemberForbidden(t *testing.T) {
	router, fx := newEventsRouter(t)
	ctx := context.Background()

	m := fx.CreateMember(ctx, "田中", "太郎", "B1111111")

	rec := doJSON(t, router, memberUser(m), "POST", "/", `{"name":"x"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestUpdate_SchemaLockedByParticipation(t *testing.T) {
	router, fx := newEventsRouter(t)
	ctx := context.Background()

	m := fx.CreateMember(ctx, "田中", "太郎", "B1111111")
	e := fx.CreateEvent(ctx, "夏合宿", []models.FormField{{
		ID: "f1", Kind: models.KindShortText, Label: "ニックネーム",
	}})
	fx.CreateParticipation(ctx, e.ID, m.ID, map[string]models.Answer{
		"f1": {Text: "taro"},
	})

	date := e.Date.Format(time.RFC3339)
	deadline := e.Deadline.Format(time.RFC3339)
	body := `{"name":"夏合宿","visibility":"public","date":"` + date + `","deadline":"` + deadline + `",
		"form_schema":[{"id":"f2","kind":"long_text","label":"意気込み"}]}`

	rec := doJSON(t, router, adminUser(), "PUT", "/"+e.ID.Hex(), body)
	if rec.Code != http.StatusConflict {
		t.Errorf("schema change with active participation: expected 409, got %d: %s",
			rec.Code, rec.Body.String())
	}
}

func TestDelete(t *testing.T) {
	router, fx := newEventsRouter(t)
	ctx := context.Background()

	m := fx.CreateMember(ctx, "田中", "太郎", "B1111111")
	e := fx.CreateEvent(ctx, "夏合宿", nil)

	rec := doJSON(t, router, adminUser(), "DELETE", "/"+e.ID.Hex(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, memberUser(m), "GET", "/"+e.ID.Hex(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted event: expected 404, got %d", rec.Code)
	}

	// Idempotent.
	rec = doJSON(t, router, adminUser(), "DELETE", "/"+e.ID.Hex(), "")
	if rec.Code != http.StatusOK {
		t.Errorf("second delete: expected 200, got %d", rec.Code)
	}
}
