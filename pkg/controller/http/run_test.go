package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	controller "github.com/m-mizutani/streakmon/pkg/controller/http"
	"github.com/m-mizutani/streakmon/pkg/domain/model"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
)

type mockStreakUC struct {
	runFunc func(ctx context.Context) (*model.CheckResult, error)

	mu    sync.Mutex
	calls int
	done  chan struct{}
}

func (m *mockStreakUC) Check(ctx context.Context) (*model.CheckResult, error) {
	return nil, errors.New("not used")
}

func (m *mockStreakUC) Run(ctx context.Context) (*model.CheckResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.done != nil {
		defer func() { m.done <- struct{}{} }()
	}
	if m.runFunc != nil {
		return m.runFunc(ctx)
	}
	return &model.CheckResult{Date: "2025-12-06"}, nil
}

func (m *mockStreakUC) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newRunServer(t *testing.T, uc *mockStreakUC) http.Handler {
	t.Helper()
	server, err := controller.NewServer(context.Background(), uc,
		controller.WithRunSecret("test-secret"),
	)
	gt.NoError(t, err)
	return server.Handler
}

func postRun(handler http.Handler, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRunHandler_Authorization(t *testing.T) {
	tests := []struct {
		name           string
		auth           string
		wantStatusCode int
	}{
		{name: "Valid token", auth: "Bearer test-secret", wantStatusCode: http.StatusOK},
		{name: "Invalid token", auth: "Bearer wrong", wantStatusCode: http.StatusUnauthorized},
		{name: "Missing header", auth: "", wantStatusCode: http.StatusUnauthorized},
		{name: "Wrong scheme", auth: "Basic test-secret", wantStatusCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockStreakUC{}
			w := postRun(newRunServer(t, uc), "/run", tt.auth)
			gt.Equal(t, w.Code, tt.wantStatusCode)

			if tt.wantStatusCode == http.StatusUnauthorized {
				gt.Equal(t, uc.callCount(), 0)
			}
		})
	}
}

func TestRunHandler_Result(t *testing.T) {
	tests := []struct {
		name           string
		runFunc        func(ctx context.Context) (*model.CheckResult, error)
		wantStatusCode int
		wantStatus     model.RunStatus
	}{
		{
			name: "commit found",
			runFunc: func(ctx context.Context) (*model.CheckResult, error) {
				return &model.CheckResult{
					HadCommitInWindow: true,
					Date:              "2025-12-06",
					Pushes:            []model.PushEvent{{ID: "1"}, {ID: "2"}},
				}, nil
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     model.RunStatus{Status: "success", HadCommit: true, Date: "2025-12-06", Pushes: 2},
		},
		{
			name: "activity source failure",
			runFunc: func(ctx context.Context) (*model.CheckResult, error) {
				return nil, goerr.New("failed to query push activity", goerr.T(types.ErrTagActivitySource))
			},
			wantStatusCode: http.StatusBadGateway,
			wantStatus: model.RunStatus{
				Status:   "error",
				Error:    "failed to query push activity",
				Category: "activity_source",
			},
		},
		{
			name: "notification failure keeps evaluated result",
			runFunc: func(ctx context.Context) (*model.CheckResult, error) {
				return &model.CheckResult{Date: "2025-12-06"},
					goerr.New("failed to deliver status mail", goerr.T(types.ErrTagNotification))
			},
			wantStatusCode: http.StatusInternalServerError,
			wantStatus: model.RunStatus{
				Status:   "error",
				Date:     "2025-12-06",
				Error:    "failed to deliver status mail",
				Category: "notification",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockStreakUC{runFunc: tt.runFunc}
			w := postRun(newRunServer(t, uc), "/run", "Bearer test-secret")
			gt.Equal(t, w.Code, tt.wantStatusCode)

			var got model.RunStatus
			gt.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			gt.Equal(t, got, tt.wantStatus)
			gt.Equal(t, uc.callCount(), 1)
		})
	}
}

func TestRunHandler_Async(t *testing.T) {
	uc := &mockStreakUC{done: make(chan struct{}, 1)}
	w := postRun(newRunServer(t, uc), "/run?async=true", "Bearer test-secret")
	gt.Equal(t, w.Code, http.StatusAccepted)

	var got model.RunStatus
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	gt.Equal(t, got.Status, "accepted")

	select {
	case <-uc.done:
	case <-time.After(time.Second):
		t.Fatal("background run did not complete within timeout")
	}
	gt.Equal(t, uc.callCount(), 1)
}

func TestRunEndpoint_DisabledWithoutSecret(t *testing.T) {
	server, err := controller.NewServer(context.Background(), &mockStreakUC{})
	gt.NoError(t, err)

	w := postRun(server.Handler, "/run", "Bearer ")
	gt.Equal(t, w.Code, http.StatusNotFound)
}
