package http

import (
	"context"
	"crypto/hmac"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/interfaces"
	"github.com/m-mizutani/streakmon/pkg/domain/model"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
	"github.com/m-mizutani/streakmon/pkg/utils/async"
	"github.com/m-mizutani/streakmon/pkg/utils/errutil"
)

// RunHandler triggers the daily check from a scheduler
type RunHandler struct {
	secret   string
	streakUC interfaces.StreakCheckUseCase
}

// NewRunHandler creates a new RunHandler
func NewRunHandler(secret string, streakUC interfaces.StreakCheckUseCase) *RunHandler {
	return &RunHandler{
		secret:   secret,
		streakUC: streakUC,
	}
}

// Handle runs the check and reports the outcome. With ?async=true the run is
// accepted immediately and continues in the background.
func (h *RunHandler) Handle(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.From(r.Context())

	if !h.verifyToken(r.Header.Get("Authorization")) {
		logger.Warn("Invalid run token")
		writeError(w, r, goerr.New("invalid token"), http.StatusUnauthorized)
		return
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	ctx := ctxlog.With(r.Context(), logger)

	if r.URL.Query().Get("async") == "true" {
		async.Dispatch(ctx, func(ctx context.Context) error {
			_, err := h.streakUC.Run(ctx)
			return err
		})
		writeJSON(w, r, http.StatusAccepted, &model.RunStatus{Status: "accepted"})
		return
	}

	result, err := h.streakUC.Run(ctx)
	if err != nil {
		errutil.Handle(ctx, "Streak check failed", err)

		category := types.Category(err)
		status := http.StatusInternalServerError
		if category == types.ErrTagActivitySource.String() {
			status = http.StatusBadGateway
		}
		writeJSON(w, r, status, model.NewFailedRunStatus(result, err, category))
		return
	}

	writeJSON(w, r, http.StatusOK, model.NewRunStatus(result))
}

// verifyToken compares the bearer token in constant time
func (h *RunHandler) verifyToken(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return false
	}
	return hmac.Equal([]byte(token), []byte(h.secret))
}
