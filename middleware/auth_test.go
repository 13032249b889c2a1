package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"store-rating-api/middleware"
	"store-rating-api/models"
)

func newSigner(exp int) *middleware.Signer {
	return &middleware.Signer{Secret: []byte("test-secret"), Issuer: "test", ExpSeconds: exp}
}

func TestSignParseRoundtrip(t *testing.T) {
	signer := newSigner(3600)
	token, err := signer.Sign(42, "alice@example.com", models.RoleAdmin)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := signer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "alice@example.com" || claims.Role != models.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	expired := newSigner(-60)
	token, err := expired.Sign(1, "a@example.com", models.RoleUser)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := newSigner(3600).Parse(token); err == nil {
		t.Fatal("expired token must not parse")
	}

	other := &middleware.Signer{Secret: []byte("other-secret"), Issuer: "test", ExpSeconds: 3600}
	foreign, err := other.Sign(1, "a@example.com", models.RoleUser)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := newSigner(3600).Parse(foreign); err == nil {
		t.Fatal("token signed with a different secret must not parse")
	}
}

func newTestRouter(signer *middleware.Signer, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/t", middleware.AuthRequired(signer))
	if len(roles) > 0 {
		group.Use(middleware.RoleRequired(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"email": p.Email, "role": p.Role})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	signer := newSigner(3600)
	r := newTestRouter(signer)

	// no header
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/t/ping", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no header: status = %d, want 401", w.Code)
	}

	// malformed scheme
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/t/ping", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad scheme: status = %d, want 401", w.Code)
	}

	// valid token passes and the principal is visible to the handler
	token, err := signer.Sign(7, "me@example.com", models.RoleUser)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/t/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestRoleRequired(t *testing.T) {
	signer := newSigner(3600)
	r := newTestRouter(signer, models.RoleAdmin)

	userToken, err := signer.Sign(1, "user@example.com", models.RoleUser)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/t/ping", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("user hitting admin route: status = %d, want 403", w.Code)
	}

	adminToken, err := signer.Sign(2, "admin@example.com", models.RoleAdmin)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/t/ping", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin hitting admin route: status = %d, want 200", w.Code)
	}
}
