package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cargolink/cargo-portal/internal/api/middleware"
	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
	"github.com/cargolink/cargo-portal/internal/infrastructure/config"
	"github.com/cargolink/cargo-portal/pkg/logger"
)

type stubRepo struct {
	accounts map[string]*domain.Account
}

func newStubRepo() *stubRepo {
	return &stubRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := r.accounts[account.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	clone := *account
	if clone.ID == "" {
		clone.ID = account.Username
	}
	r.accounts[clone.Username] = &clone
	out := clone
	return &out, nil
}

func (r *stubRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	if a, ok := r.accounts[username]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubRepo) List(_ context.Context, filter ports.AccountFilter) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range r.accounts {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.Active != nil && a.IsActive != *filter.Active {
			continue
		}
		if filter.Query != "" && !strings.Contains(a.Username, filter.Query) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubRepo) UpdateRole(_ context.Context, username string, role domain.Role) error {
	a, ok := r.accounts[username]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Role = role
	return nil
}

func (r *stubRepo) SetActive(_ context.Context, username string, active bool) error {
	a, ok := r.accounts[username]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.IsActive = active
	return nil
}

func (r *stubRepo) CountByRole(_ context.Context) (domain.RoleCounts, error) {
	var counts domain.RoleCounts
	for _, a := range r.accounts {
		switch a.Role {
		case domain.RoleClient:
			counts.Clients++
		case domain.RoleDriver:
			counts.Drivers++
		case domain.RoleClearanceAgent:
			counts.ClearanceAgents++
		case domain.RoleAdmin:
			counts.Admins++
		}
	}
	return counts, nil
}

type stubStore struct {
	revoked map[string]bool
	notices map[string][]string
}

func newStubStore() *stubStore {
	return &stubStore{revoked: make(map[string]bool), notices: make(map[string][]string)}
}

func (s *stubStore) Revoke(_ context.Context, sessionID string, _ time.Duration) error {
	s.revoked[sessionID] = true
	return nil
}

func (s *stubStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	return s.revoked[sessionID], nil
}

func (s *stubStore) PushNotice(_ context.Context, username, notice string) error {
	s.notices[username] = append(s.notices[username], notice)
	return nil
}

func (s *stubStore) PopNotices(_ context.Context, username string) ([]string, error) {
	out := s.notices[username]
	delete(s.notices, username)
	return out, nil
}

func newTestRouter(t *testing.T) (*echo.Echo, *stubRepo, *stubStore) {
	t.Helper()
	logger.Init(logger.Options{Level: "error"})

	repo := newStubRepo()
	store := newStubStore()
	e := newRouter(routerDeps{
		repo:     repo,
		sessions: store,
		cfg: &config.Config{
			JWTSecret:         "test-secret",
			SessionTTLMinutes: 60,
			BcryptCost:        4,
		},
	})
	return e, repo, store
}

func registerBody(username, role string) string {
	payload := map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"first_name":       "Test",
		"last_name":        "User",
		"role":             role,
		"password":         "s3cret-pass",
		"password_confirm": "s3cret-pass",
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func doJSON(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func registerAccount(t *testing.T, e *echo.Echo, username, role string) *http.Cookie {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/register/", registerBody(username, role))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register %s: expected 303, got %d (%s)", username, rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

func TestRegister_RedirectsToRoleDashboard(t *testing.T) {
	cases := []struct {
		role string
		want string
	}{
		{"client", "/dashboard/client/"},
		{"driver", "/dashboard/driver/"},
		{"clearance_agent", "/dashboard/clearance-agent/"},
		{"admin", "/dashboard/admin/"},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			e, repo, _ := newTestRouter(t)

			rec := doJSON(e, http.MethodPost, "/register/", registerBody("user_"+tc.role, tc.role))
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("expected 303, got %d (%s)", rec.Code, rec.Body.String())
			}
			if loc := rec.Header().Get(echo.HeaderLocation); loc != tc.want {
				t.Fatalf("expected redirect to %s, got %q", tc.want, loc)
			}
			sessionCookie(t, rec)

			account := repo.accounts["user_"+tc.role]
			if account == nil {
				t.Fatalf("account not persisted")
			}
			if string(account.Role) != tc.role {
				t.Fatalf("expected role %s, got %s", tc.role, account.Role)
			}
			if account.PasswordHash == "s3cret-pass" {
				t.Fatalf("password stored in plaintext")
			}
		})
	}
}

func TestRegister_MissingFields(t *testing.T) {
	e, repo, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodPost, "/register/", `{"username": "solo"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, field := range []string{"email", "first_name", "last_name", "role", "password"} {
		if _, ok := resp.Fields[field]; !ok {
			t.Fatalf("expected error for field %s, got %v", field, resp.Fields)
		}
	}
	if len(repo.accounts) != 0 {
		t.Fatalf("no account should be persisted on validation failure")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	e, repo, _ := newTestRouter(t)

	registerAccount(t, e, "bob", "client")
	rec := doJSON(e, http.MethodPost, "/register/", registerBody("bob", "driver"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "username") {
		t.Fatalf("expected username field error, got %s", rec.Body.String())
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("expected exactly one account, got %d", len(repo.accounts))
	}
}

func TestLogin_RedirectsByRole(t *testing.T) {
	cases := []struct {
		role string
		want string
	}{
		{"client", "/dashboard/client/"},
		{"driver", "/dashboard/driver/"},
		{"clearance_agent", "/dashboard/clearance-agent/"},
		{"admin", "/dashboard/admin/"},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			e, _, _ := newTestRouter(t)
			registerAccount(t, e, "user1", tc.role)

			rec := doJSON(e, http.MethodPost, "/login/", `{"username": "user1", "password": "s3cret-pass"}`)
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("expected 303, got %d (%s)", rec.Code, rec.Body.String())
			}
			if loc := rec.Header().Get(echo.HeaderLocation); loc != tc.want {
				t.Fatalf("expected redirect to %s, got %q", tc.want, loc)
			}
			sessionCookie(t, rec)
		})
	}
}

func TestLogin_UnrecognizedRoleFallsThrough(t *testing.T) {
	e, repo, _ := newTestRouter(t)
	registerAccount(t, e, "odd", "client")
	repo.accounts["odd"].Role = "intern"

	rec := doJSON(e, http.MethodPost, "/login/", `{"username": "odd", "password": "s3cret-pass"}`)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/dashboard/" {
		t.Fatalf("expected redirect to generic dashboard, got %q", loc)
	}
}

func TestLogin_GenericFailure(t *testing.T) {
	e, repo, _ := newTestRouter(t)
	registerAccount(t, e, "frank", "driver")
	repo.accounts["frank"].IsActive = false

	cases := []struct {
		name string
		body string
	}{
		{"wrong password", `{"username": "frank", "password": "wrong-pass"}`},
		{"inactive account", `{"username": "frank", "password": "s3cret-pass"}`},
		{"unknown username", `{"username": "ghost", "password": "whatever1"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/login/", tc.body)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "invalid username or password") {
				t.Fatalf("expected generic message, got %s", rec.Body.String())
			}
		})
	}
}

func TestLogin_AlreadyAuthenticatedRedirects(t *testing.T) {
	e, _, _ := newTestRouter(t)
	cookie := registerAccount(t, e, "dana", "clearance_agent")

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := doJSON(e, method, "/login/", "", cookie)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("%s /login/: expected 303, got %d", method, rec.Code)
		}
		if loc := rec.Header().Get(echo.HeaderLocation); loc != "/dashboard/clearance-agent/" {
			t.Fatalf("%s /login/: expected role redirect, got %q", method, loc)
		}
	}
}

func TestDashboard_RequiresSession(t *testing.T) {
	e, _, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodGet, "/dashboard/", "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login/" {
		t.Fatalf("expected redirect to /login/, got %q", loc)
	}
}

func TestDashboard_DispatchRedirectsByRole(t *testing.T) {
	e, _, _ := newTestRouter(t)
	cookie := registerAccount(t, e, "d1", "driver")

	rec := doJSON(e, http.MethodGet, "/dashboard/", "", cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/dashboard/driver/" {
		t.Fatalf("expected redirect to driver dashboard, got %q", loc)
	}
}

func TestDashboard_UnrecognizedRoleGetsGenericView(t *testing.T) {
	e, repo, _ := newTestRouter(t)
	cookie := registerAccount(t, e, "odd", "client")
	repo.accounts["odd"].Role = "intern"

	// Session cookie still says client; log in again to pick up the new role.
	rec := doJSON(e, http.MethodPost, "/login/", `{"username": "odd", "password": "s3cret-pass"}`)
	cookie = sessionCookie(t, rec)

	rec = doJSON(e, http.MethodGet, "/dashboard/", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"dashboard":"default"`) {
		t.Fatalf("expected generic dashboard payload, got %s", rec.Body.String())
	}
}

func TestDashboard_WrongRoleDeniedAndRedirected(t *testing.T) {
	e, _, _ := newTestRouter(t)
	cookie := registerAccount(t, e, "d1", "driver")

	rec := doJSON(e, http.MethodGet, "/dashboard/admin/", "", cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/dashboard/" {
		t.Fatalf("expected redirect to /dashboard/, got %q", loc)
	}
	if strings.Contains(rec.Body.String(), "admin") {
		t.Fatalf("admin content must not leak to a driver")
	}

	// The denial notice shows up on the driver's own dashboard.
	rec = doJSON(e, http.MethodGet, "/dashboard/driver/", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Access denied") {
		t.Fatalf("expected access denied notice, got %s", rec.Body.String())
	}
}

func TestDashboard_AdminCounts(t *testing.T) {
	e, _, _ := newTestRouter(t)
	registerAccount(t, e, "c1", "client")
	registerAccount(t, e, "c2", "client")
	registerAccount(t, e, "d1", "driver")
	registerAccount(t, e, "ca1", "clearance_agent")
	adminCookie := registerAccount(t, e, "a1", "admin")

	rec := doJSON(e, http.MethodGet, "/dashboard/admin/", "", adminCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Dashboard string `json:"dashboard"`
		Stats     struct {
			TotalUsers      int64 `json:"total_users"`
			Clients         int64 `json:"clients"`
			Drivers         int64 `json:"drivers"`
			ClearanceAgents int64 `json:"clearance_agents"`
			Admins          int64 `json:"admins"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Dashboard != "admin" {
		t.Fatalf("unexpected dashboard: %s", resp.Dashboard)
	}
	if resp.Stats.Clients != 2 || resp.Stats.Drivers != 1 || resp.Stats.ClearanceAgents != 1 || resp.Stats.Admins != 1 {
		t.Fatalf("unexpected counts: %+v", resp.Stats)
	}
	sum := resp.Stats.Clients + resp.Stats.Drivers + resp.Stats.ClearanceAgents + resp.Stats.Admins
	if resp.Stats.TotalUsers != sum {
		t.Fatalf("total_users %d != sum of per-role counts %d", resp.Stats.TotalUsers, sum)
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	e, _, _ := newTestRouter(t)
	cookie := registerAccount(t, e, "gone", "client")

	rec := doJSON(e, http.MethodPost, "/logout/", "", cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("expected redirect to landing, got %q", loc)
	}

	// The old cookie no longer authenticates.
	rec = doJSON(e, http.MethodGet, "/dashboard/", "", cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login/" {
		t.Fatalf("expected redirect to /login/ after logout, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestAdminTooling_RequiresStaff(t *testing.T) {
	e, repo, _ := newTestRouter(t)
	cookie := registerAccount(t, e, "a1", "admin")

	rec := doJSON(e, http.MethodGet, "/admin/accounts/", "", cookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-staff admin: expected 403, got %d", rec.Code)
	}

	repo.accounts["a1"].IsStaff = true
	rec = doJSON(e, http.MethodGet, "/admin/accounts/", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("staff admin: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestAdminTooling_BulkSetRole(t *testing.T) {
	e, repo, _ := newTestRouter(t)
	registerAccount(t, e, "u1", "client")
	registerAccount(t, e, "u2", "client")
	cookie := registerAccount(t, e, "a1", "admin")
	repo.accounts["a1"].IsStaff = true

	body := `{"action": "set_role", "usernames": ["u1", "u2", "missing"], "role": "driver"}`
	rec := doJSON(e, http.MethodPost, "/admin/accounts/actions/", body, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var outcome struct {
		Updated []string          `json:"updated"`
		Failed  map[string]string `json:"failed"`
		Message string            `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if len(outcome.Updated) != 2 {
		t.Fatalf("expected 2 updated, got %v", outcome.Updated)
	}
	if _, ok := outcome.Failed["missing"]; !ok {
		t.Fatalf("expected failure for missing username, got %v", outcome.Failed)
	}
	if outcome.Message != "2 accounts updated." {
		t.Fatalf("unexpected message: %q", outcome.Message)
	}
	if repo.accounts["u1"].Role != domain.RoleDriver || repo.accounts["u2"].Role != domain.RoleDriver {
		t.Fatalf("roles not updated")
	}
}
