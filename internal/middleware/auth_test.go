package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"veikals/internal/session"
)

// withSession returns a request carrying the given session data in its
// context, the way LoadSession would leave it.
func withSession(r *http.Request, data *session.Data) *http.Request {
	ctx := context.WithValue(r.Context(), SessionKey, data)
	return r.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	handler := RequireAuth(okHandler())

	req := httptest.NewRequest("GET", "/admin/categories", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected non-empty error message")
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	handler := RequireAuth(okHandler())

	req := httptest.NewRequest("GET", "/admin/categories", nil)
	req = withSession(req, &session.Data{
		UserID: uuid.New(), Email: "a@b.lv", Role: "editor", TwoFADone: true,
	})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequire2FA(t *testing.T) {
	tests := []struct {
		name       string
		sess       *session.Data
		wantStatus int
	}{
		{
			name:       "2fa incomplete",
			sess:       &session.Data{UserID: uuid.New(), Role: "admin", TwoFADone: false},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "2fa complete",
			sess:       &session.Data{UserID: uuid.New(), Role: "admin", TwoFADone: true},
			wantStatus: http.StatusOK,
		},
		{
			name: "no session passes through",
			// RequireAuth handles the anonymous case; Require2FA only
			// gates sessions that exist.
			sess:       nil,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Require2FA(okHandler())
			req := httptest.NewRequest("GET", "/admin/products", nil)
			if tt.sess != nil {
				req = withSession(req, tt.sess)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		sess       *session.Data
		wantStatus int
	}{
		{
			name:       "admin allowed",
			sess:       &session.Data{UserID: uuid.New(), Role: "admin", TwoFADone: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "editor forbidden",
			sess:       &session.Data{UserID: uuid.New(), Role: "editor", TwoFADone: true},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "anonymous forbidden",
			sess:       nil,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAdmin(okHandler())
			req := httptest.NewRequest("DELETE", "/admin/brands/x", nil)
			if tt.sess != nil {
				req = withSession(req, tt.sess)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("SessionFromCtx = %v, want nil", got)
		}
	})

	t.Run("with session", func(t *testing.T) {
		want := &session.Data{UserID: uuid.New(), Email: "x@y.lv"}
		ctx := context.WithValue(context.Background(), SessionKey, want)
		if got := SessionFromCtx(ctx); got != want {
			t.Errorf("SessionFromCtx = %v, want %v", got, want)
		}
	})
}
