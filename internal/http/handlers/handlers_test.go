package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/economy"
	"clicker_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// stubEconomy keeps one player's rewards in memory; claimed rewards disappear.
type stubEconomy struct {
	rewards map[int64]*domain.Reward
	clicks  func(clicks int64) (service.ClickResult, error)
	err     error
}

func (s *stubEconomy) Profile(ctx context.Context, userID int64) (*service.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.Profile{Player: &domain.Player{User: domain.User{ID: userID}}}, nil
}

func (s *stubEconomy) SyncClicks(ctx context.Context, userID, clicks int64) (service.ClickResult, error) {
	return s.clicks(clicks)
}

func (s *stubEconomy) UseInspiration(ctx context.Context, userID, clicks int64) (service.ClickResult, error) {
	return service.ClickResult{}, domain.ErrRankTooLow
}

func (s *stubEconomy) UseReplenishment(ctx context.Context, userID int64) (*domain.Player, error) {
	return nil, domain.ErrNoChargesLeft
}

func (s *stubEconomy) StartMining(ctx context.Context, userID int64) (economy.MiningSession, error) {
	return economy.MiningSession{}, s.err
}

func (s *stubEconomy) ClaimMining(ctx context.Context, userID int64) (service.MiningClaim, error) {
	return service.MiningClaim{}, domain.ErrStillMining
}

func (s *stubEconomy) PromoteRank(ctx context.Context, userID int64) (domain.Rank, error) {
	return domain.Rank{}, domain.ErrInsufficientFunds
}

func (s *stubEconomy) ListRewards(ctx context.Context, userID int64) ([]*domain.Reward, error) {
	out := []*domain.Reward{}
	for _, r := range s.rewards {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubEconomy) ClaimReward(ctx context.Context, userID, rewardID int64) (*domain.Reward, error) {
	r, ok := s.rewards[rewardID]
	if !ok || r.UserID != userID {
		return nil, domain.ErrRewardNotFound
	}
	delete(s.rewards, rewardID)
	return r, nil
}

func (s *stubEconomy) ListTransactions(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	return nil, nil
}

type stubAccounts struct{}

func (stubAccounts) Authenticate(ctx context.Context, initData string, meta service.RequestMeta) (*service.AuthResult, error) {
	if initData != "valid" {
		return nil, domain.ErrInvalidCredential
	}
	return &service.AuthResult{Registered: true}, nil
}

func (stubAccounts) Refresh(ctx context.Context, refreshToken string, meta service.RequestMeta) (*service.AuthResult, error) {
	return nil, domain.ErrInvalidCredential
}

type stubTasks struct{}

func (stubTasks) Available(ctx context.Context, userID int64) ([]service.TaskView, error) {
	return []service.TaskView{}, nil
}

func (stubTasks) Start(ctx context.Context, userID, taskID int64) error {
	if taskID != 1 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (stubTasks) Complete(ctx context.Context, userID, taskID int64) (*domain.Reward, error) {
	return nil, domain.ErrConditionUnverifiable
}

func newTestRouter(eco *stubEconomy) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(eco, stubAccounts{}, stubTasks{})

	r := gin.New()
	r.POST("/auth", h.Auth)
	r.POST("/auth/refresh", h.Refresh)

	authed := r.Group("")
	authed.Use(func(c *gin.Context) { c.Set("user_id", int64(42)); c.Next() })
	authed.GET("/user/profile", h.Profile)
	authed.PATCH("/user/sync_clicks", h.SyncClicks)
	authed.PATCH("/user/bonus/inspiration", h.Inspiration)
	authed.POST("/user/bonus/replenishment", h.Replenishment)
	authed.PATCH("/user/promote", h.Promote)
	authed.POST("/mining/start", h.StartMining)
	authed.POST("/mining/claim", h.ClaimMining)
	authed.GET("/rewards", h.ListRewards)
	authed.POST("/rewards/claim", h.ClaimReward)
	authed.POST("/tasks/:id/start", h.StartTask)
	authed.POST("/tasks/:id/complete", h.CompleteTask)

	r.GET("/anon/profile", h.Profile)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestErrorStatusMapping(t *testing.T) {
	r := newTestRouter(&stubEconomy{})

	cases := []struct {
		method, path, body string
		status             int
		kind               domain.ErrorKind
	}{
		{"PATCH", "/user/bonus/inspiration", `{"clicks":3}`, http.StatusLocked, domain.KindRankTooLow},
		{"POST", "/user/bonus/replenishment", ``, http.StatusConflict, domain.KindNoChargesLeft},
		{"PATCH", "/user/promote", ``, http.StatusConflict, domain.KindInsufficientFunds},
		{"POST", "/mining/claim", ``, http.StatusConflict, domain.KindStillMining},
		{"POST", "/tasks/7/start", ``, http.StatusNotFound, domain.KindTaskNotFound},
		{"POST", "/tasks/1/complete", ``, http.StatusUnprocessableEntity, domain.KindConditionUnverifiable},
		{"POST", "/auth", `{"init_data":"forged"}`, http.StatusUnauthorized, domain.KindInvalidCredential},
		{"POST", "/auth/refresh", `{"refresh_token":"x"}`, http.StatusUnauthorized, domain.KindInvalidCredential},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := do(r, tc.method, tc.path, tc.body)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			if got := errorKind(t, w); got != string(tc.kind) {
				t.Fatalf("error = %q, want %q", got, tc.kind)
			}
		})
	}
}

func TestInfrastructureErrorIsHidden(t *testing.T) {
	r := newTestRouter(&stubEconomy{err: errors.New("pq: connection refused")})

	w := do(r, "GET", "/user/profile", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Fatalf("internal error leaked: %s", w.Body.String())
	}
}

func TestBadInput(t *testing.T) {
	r := newTestRouter(&stubEconomy{})

	if w := do(r, "PATCH", "/user/sync_clicks", `{"clicks":"many"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("non-integer clicks: status = %d, want 400", w.Code)
	}
	if w := do(r, "POST", "/tasks/abc/start", ``); w.Code != http.StatusBadRequest {
		t.Fatalf("bad task id: status = %d, want 400", w.Code)
	}
	if w := do(r, "POST", "/rewards/claim", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing reward_id: status = %d, want 400", w.Code)
	}
	if w := do(r, "POST", "/auth", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing init_data: status = %d, want 400", w.Code)
	}
}

func TestSyncClicks(t *testing.T) {
	eco := &stubEconomy{clicks: func(clicks int64) (service.ClickResult, error) {
		if clicks <= 0 {
			return service.ClickResult{}, domain.ErrInvalidClicks
		}
		return service.ClickResult{CoinsDelta: 8, Coins: 1008, Energy: 2}, nil
	}}
	r := newTestRouter(eco)

	w := do(r, "PATCH", "/user/sync_clicks", `{"clicks":10}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var res service.ClickResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.CoinsDelta != 8 || res.Energy != 2 {
		t.Fatalf("result = %+v", res)
	}

	w = do(r, "PATCH", "/user/sync_clicks", `{"clicks":0}`)
	if w.Code != http.StatusBadRequest || errorKind(t, w) != string(domain.KindInvalidInput) {
		t.Fatalf("zero clicks: status = %d body %s", w.Code, w.Body.String())
	}
}

func TestClaimRewardOnce(t *testing.T) {
	eco := &stubEconomy{rewards: map[int64]*domain.Reward{
		5: {ID: 5, UserID: 42, Type: domain.RewardTask, Amount: 1000},
		6: {ID: 6, UserID: 7, Type: domain.RewardTask, Amount: 1000},
	}}
	r := newTestRouter(eco)

	if w := do(r, "POST", "/rewards/claim", `{"reward_id":5}`); w.Code != http.StatusOK {
		t.Fatalf("first claim: status = %d, body %s", w.Code, w.Body.String())
	}
	w := do(r, "POST", "/rewards/claim", `{"reward_id":5}`)
	if w.Code != http.StatusNotFound || errorKind(t, w) != string(domain.KindRewardNotFound) {
		t.Fatalf("second claim: status = %d, body %s", w.Code, w.Body.String())
	}

	// someone else's reward looks missing
	w = do(r, "POST", "/rewards/claim", `{"reward_id":6}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign reward: status = %d", w.Code)
	}
}

func TestAuthRegisteredIsCreated(t *testing.T) {
	r := newTestRouter(&stubEconomy{})
	if w := do(r, "POST", "/auth", `{"init_data":"valid"}`); w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
}

func TestMissingUserIsUnauthorized(t *testing.T) {
	r := newTestRouter(&stubEconomy{})
	if w := do(r, "GET", "/anon/profile", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadiness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	redisDown := func(ctx context.Context) error { return errors.New("dial tcp: refused") }
	h := NewHealthHandler(pingerFunc(func(ctx context.Context) error { return nil }), redisDown, "test")
	r := gin.New()
	r.GET("/readyz", h.Readiness)

	w := do(r, "GET", "/readyz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("redis outage must not fail readiness, got %d", w.Code)
	}
	var res HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.Checks["redis"], "degraded") {
		t.Fatalf("redis check = %q", res.Checks["redis"])
	}

	h = NewHealthHandler(pingerFunc(func(ctx context.Context) error { return errors.New("down") }), nil, "test")
	r = gin.New()
	r.GET("/readyz", h.Readiness)
	if w := do(r, "GET", "/readyz", ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("db outage: status = %d, want 503", w.Code)
	}
}
