package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"chalan-service/pkg/config"
	"chalan-service/pkg/database"
	"chalan-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 168})
}

// setupTestDB points the handlers at a unique in-memory database per test
// to avoid cross-test collisions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.SetDB(db)
	return db
}

// newJSONContext builds an echo context around a JSON request.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser injects authenticated claims the way AuthMiddleware would.
func asUser(c echo.Context, username, role string) {
	claims := &jwtutil.UserClaims{UserID: 1, Username: username, Role: role, IsRoot: role == "root"}
	c.Set("user", claims)
	c.Set("user_id", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("role", claims.Role)
}
