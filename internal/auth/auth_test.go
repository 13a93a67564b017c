package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken(7, "ada@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "ada@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	InitJWT("test-secret")
	expired, err := GenerateToken(7, "", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := ValidateToken(expired); err == nil {
		t.Error("expected expired token to be rejected")
	}

	InitJWT("other-secret")
	foreign, _ := GenerateToken(7, "", time.Hour)
	InitJWT("test-secret")
	if _, err := ValidateToken(foreign); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		id, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "ok": ok})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	InitJWT("test-secret")
	r := newRouter(AuthMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without header, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for malformed header, got %d", w.Code)
	}

	token, _ := GenerateToken(3, "", time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", w.Code)
	}
}

func TestOptionalAuthMiddlewareLetsAnonymousThrough(t *testing.T) {
	InitJWT("test-secret")
	r := newRouter(OptionalAuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"ok":false,"user_id":0}` {
		t.Errorf("unexpected body %s", body)
	}
}
