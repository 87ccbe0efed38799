package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/metrics"
)

type fakeVerifier struct {
	subject string
}

func (f *fakeVerifier) VerifyToken(token string) (*models.SessionClaims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	c := &models.SessionClaims{}
	c.Subject = f.subject
	return c, nil
}

func (f *fakeVerifier) Close() error { return nil }

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(httputil.GetUserID(r)))
	})
}

func TestAuth_MockSession(t *testing.T) {
	h := Auth(nil, "session-user", slog.Default())(echoUser())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/thread", nil))

	if rec.Body.String() != "session-user" {
		t.Errorf("user = %q, want session-user", rec.Body.String())
	}
}

func TestAuth_Bearer(t *testing.T) {
	h := Auth(&fakeVerifier{subject: "jwt-user"}, "session-user", slog.Default())(echoUser())

	tests := []struct {
		name       string
		method     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", http.MethodGet, "Bearer good", http.StatusOK, "jwt-user"},
		{"lowercase scheme", http.MethodGet, "bearer good", http.StatusOK, "jwt-user"},
		{"missing header", http.MethodGet, "", http.StatusUnauthorized, ""},
		{"bad token", http.MethodGet, "Bearer bad", http.StatusUnauthorized, ""},
		{"preflight skips auth", http.MethodOptions, "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/thread", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRecovery_KeepsCORSHeaders(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	})
	cors := httputil.CORSHeaders{AllowOrigin: "*", Methods: httputil.MethodsChat}
	h := cors.Middleware(Recovery(slog.Default())(panicky))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ai-chat", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header lost on panic")
	}
}

func TestInstrument(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	h := Instrument(m, "GET /api/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET /api/health", "GET", "500"))
	if got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
	if _, ok := any(&statusRecorder{ResponseWriter: rec}).(http.Flusher); !ok {
		t.Error("statusRecorder must implement http.Flusher")
	}
}
