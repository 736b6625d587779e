package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

func mustMakeJWT(t *testing.T, secret string, sub int64, role string, method jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  1,
		"exp":  9999999999,
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func runRequest(t *testing.T, e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMWError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

func okHandler(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return c.JSON(http.StatusOK, mwOKResponse{UserID: userID, Role: role})
}

func TestAuthJWT_Unauthorized_NoHeader(t *testing.T) {
	e := echo.New()
	cfg := config.Config{JWTSecret: "test-secret"}
	e.GET("/protected", okHandler, middleware.AuthJWT(cfg))

	rec := runRequest(t, e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
}

// HS256以外の署名は通さない
func TestAuthJWT_Unauthorized_WrongAlg(t *testing.T) {
	e := echo.New()
	cfg := config.Config{JWTSecret: "test-secret"}
	e.GET("/protected", okHandler, middleware.AuthJWT(cfg))

	raw := mustMakeJWT(t, cfg.JWTSecret, 1, string(model.RoleUser), jwt.SigningMethodHS512)
	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_Success_SetsContext(t *testing.T) {
	e := echo.New()
	cfg := config.Config{JWTSecret: "test-secret"}
	e.GET("/protected", okHandler, middleware.AuthJWT(cfg))

	raw := mustMakeJWT(t, cfg.JWTSecret, 123, string(model.RoleUser), jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, string(model.RoleUser), body.Role)
}

// USERは403、ADMINだけ通る
func TestAdminRoleGuard_RejectsNonAdmin(t *testing.T) {
	e := echo.New()
	cfg := config.Config{JWTSecret: "test-secret"}
	e.GET("/protected", okHandler, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

	raw := mustMakeJWT(t, cfg.JWTSecret, 1, string(model.RoleUser), jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin only", decodeMWError(t, rec).Error)
}

func TestAdminRoleGuard_AllowsAdmin(t *testing.T) {
	e := echo.New()
	cfg := config.Config{JWTSecret: "test-secret"}
	e.GET("/protected", okHandler, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

	raw := mustMakeJWT(t, cfg.JWTSecret, 2, string(model.RoleAdmin), jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// AuthJWT無しで直接ガードに当たったら401
func TestAdminRoleGuard_MissingContext(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, middleware.AdminRoleGuard())

	rec := runRequest(t, e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
}
