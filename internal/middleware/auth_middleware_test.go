package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"datavault-server/pkg/jwt"
)

const testSecret = "middleware-test-secret"

func protectedProbe(t *testing.T) (http.Handler, *string) {
	t.Helper()

	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	return AuthMiddleware(testSecret)(next), &seenUserID
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	handler, seenUserID := protectedProbe(t)

	token, err := jwt.GenerateToken("user-42", time.Hour, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/data", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if *seenUserID != "user-42" {
		t.Errorf("expected user-42 in context, got %q", *seenUserID)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired, _ := jwt.GenerateToken("user-42", -time.Hour, testSecret)
	wrongSecret, _ := jwt.GenerateToken("user-42", time.Hour, "some-other-secret")

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "bearer without token", header: "Bearer"},
		{name: "malformed token", header: "Bearer not.a.token"},
		{name: "expired token", header: "Bearer " + expired},
		{name: "wrong signing secret", header: "Bearer " + wrongSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, seenUserID := protectedProbe(t)

			req := httptest.NewRequest("GET", "/data", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rr.Code)
			}
			if *seenUserID != "" {
				t.Error("handler ran despite rejected credential")
			}
		})
	}
}

func TestGetUserID_Unset(t *testing.T) {
	req := httptest.NewRequest("GET", "/data", nil)
	if id := GetUserID(req); id != "" {
		t.Errorf("expected empty user id, got %q", id)
	}
}
