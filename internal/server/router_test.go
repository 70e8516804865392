package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chalan-service/internal/model"
	"chalan-service/pkg/config"
	"chalan-service/pkg/database"
	"chalan-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServer(t *testing.T) *echo.Echo {
	t.Helper()
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 168})
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.SetDB(db)
	return New(zap.NewNop())
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	if resp["token"] == "" {
		t.Fatalf("no token in response: %s", rec.Body.String())
	}
	return resp["token"]
}

func TestEndToEndRegisterLoginClientChalans(t *testing.T) {
	e := setupServer(t)

	// Register the root user and log in.
	rec := do(t, e, http.MethodPost, "/auth/register", "",
		`{"username":"admin","email":"admin@example.com","password":"pw1","role":"root","isRoot":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("register: want 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, e, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"pw1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	tok := token(t, rec)

	// Create a client.
	rec = do(t, e, http.MethodPost, "/api/clients", tok,
		`{"name":"Acme","phone":"123","email":"a@b.com","address":"X"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client: want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var client model.Client
	if err := json.Unmarshal(rec.Body.Bytes(), &client); err != nil {
		t.Fatalf("decode client: %v", err)
	}

	// Two chalans for the same client; the second must carry serial 2.
	body := fmt.Sprintf(`{"clientId":%d,"items":[{"particulars":"Flyers","noOfBoxes":2,"costPerBox":5}]}`, client.ID)
	rec = do(t, e, http.MethodPost, "/api/chalans", tok, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first chalan: want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, e, http.MethodPost, "/api/chalans", tok, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("second chalan: want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var second model.Chalan
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode chalan: %v", err)
	}
	if second.SerialNumber != 2 {
		t.Fatalf("second chalan: want serial 2, got %d", second.SerialNumber)
	}
	if second.CreatedBy != "admin" {
		t.Fatalf("want createdBy admin, got %q", second.CreatedBy)
	}

	// Profile reflects the registered identity.
	rec = do(t, e, http.MethodGet, "/api/users/me", tok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: want 200, got %d", rec.Code)
	}
	var profile struct {
		Username string `json:"username"`
		Role     string `json:"role"`
		IsRoot   bool   `json:"isRoot"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Username != "admin" || profile.Role != "root" || !profile.IsRoot {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestProtectedRoutesFailClosed(t *testing.T) {
	e := setupServer(t)

	rec := do(t, e, http.MethodGet, "/api/clients", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: want 401, got %d", rec.Code)
	}

	rec = do(t, e, http.MethodGet, "/api/clients", "garbage-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: want 401, got %d", rec.Code)
	}
}

func TestAddOnlyRoleCannotMutate(t *testing.T) {
	e := setupServer(t)

	rec := do(t, e, http.MethodPost, "/auth/register", "",
		`{"username":"clerk","email":"c@example.com","password":"pw1","role":"add-only"}`)
	tok := token(t, rec)

	// Creating is allowed.
	rec = do(t, e, http.MethodPost, "/api/clients", tok, `{"name":"Acme"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add-only create: want 201, got %d", rec.Code)
	}

	// Updating and deleting are not.
	rec = do(t, e, http.MethodPut, "/api/clients/1", tok, `{"name":"Renamed"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("add-only update: want 403, got %d", rec.Code)
	}
	rec = do(t, e, http.MethodDelete, "/api/clients/1", tok, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("add-only delete: want 403, got %d", rec.Code)
	}
}

func TestDeletedUserTokenStaysValid(t *testing.T) {
	e := setupServer(t)

	rec := do(t, e, http.MethodPost, "/auth/register", "",
		`{"username":"gone","email":"g@example.com","password":"pw1","role":"full"}`)
	tok := token(t, rec)

	rec = do(t, e, http.MethodDelete, "/api/users/me", tok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete profile: want 200, got %d", rec.Code)
	}

	// The token is a pure claims check: listing still works, but the
	// profile read reports the missing row.
	rec = do(t, e, http.MethodGet, "/api/clients", tok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("token must stay valid until expiry, got %d", rec.Code)
	}
	rec = do(t, e, http.MethodGet, "/api/users/me", tok, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("profile of deleted user: want 404, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := setupServer(t)

	rec := do(t, e, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
