package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type stubTokens map[string]int64

func (s stubTokens) Parse(token, typ string) (int64, error) {
	if typ != "access" {
		return 0, errors.New("wrong type")
	}
	id, ok := s[token]
	if !ok {
		return 0, errors.New("unknown token")
	}
	return id, nil
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64(ContextUserID)})
	})
	r.GET("/test", handlers...)
	return r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	r := newTestRouter(JWT(stubTokens{"good": 7}, "access"))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer good", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic good", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doGet(r, tt.header); w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestMemoryLimiter(t *testing.T) {
	l := newMemoryLimiter(2, time.Minute)
	now := time.Now()

	if !l.allow("a", now) || !l.allow("a", now) {
		t.Fatal("first two hits must pass")
	}
	if l.allow("a", now) {
		t.Fatal("third hit must be blocked")
	}
	if !l.allow("b", now) {
		t.Fatal("other keys are independent")
	}
	if !l.allow("a", now.Add(2*time.Minute)) {
		t.Fatal("window must reset")
	}
}

func TestActionRateLimit_InMemory(t *testing.T) {
	if redisClient != nil {
		t.Skip("redis configured; in-memory path not used")
	}
	r := newTestRouter(JWT(stubTokens{"good": 7, "other": 8}, "access"), ActionRateLimit(2, time.Minute))

	for i := 0; i < 2; i++ {
		if w := doGet(r, "Bearer good"); w.Code != http.StatusOK {
			t.Fatalf("hit %d: status = %d", i, w.Code)
		}
	}
	if w := doGet(r, "Bearer good"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w := doGet(r, "Bearer other"); w.Code != http.StatusOK {
		t.Fatalf("other user status = %d", w.Code)
	}
}

func TestActionRateLimit_RequiresUser(t *testing.T) {
	r := newTestRouter(ActionRateLimit(2, time.Minute))
	if w := doGet(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := newTestRouter(RequestLogger())

	w := doGet(r, "")
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("missing request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	const id = "9b2e7c1a-7f0e-4a4b-9d59-0d2b7d7c4f11"
	req.Header.Set(RequestIDHeader, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != id {
		t.Fatalf("request id = %q, want %q", got, id)
	}
}
