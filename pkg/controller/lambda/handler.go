package lambda

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/interfaces"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
	"github.com/m-mizutani/streakmon/pkg/utils/errutil"
)

// Response is the invocation result reported to the Lambda runtime
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Handler runs the daily check for each scheduled invocation
type Handler struct {
	streakUC interfaces.StreakCheckUseCase
}

// NewHandler creates a new Handler
func NewHandler(streakUC interfaces.StreakCheckUseCase) *Handler {
	return &Handler{streakUC: streakUC}
}

// Handle processes an EventBridge schedule event. The error is returned along with
// the response so that a failed run shows up as a failed invocation.
func (h *Handler) Handle(ctx context.Context, event events.CloudWatchEvent) (*Response, error) {
	logger := ctxlog.From(ctx).With("run_id", uuid.NewString())
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Scheduled invocation",
		"event_id", event.ID,
		"source", event.Source,
		"time", event.Time,
	)

	result, err := h.streakUC.Run(ctx)
	if err != nil {
		errutil.Handle(ctx, "Streak check failed", err)

		body := err.Error()
		if goerr.HasTag(err, types.ErrTagNotification) {
			body = fmt.Sprintf("Email failed: %s", err.Error())
		}
		return &Response{StatusCode: http.StatusInternalServerError, Body: body}, err
	}

	found := "no commit found"
	if result.HadCommitInWindow {
		found = "commit found"
	}

	body := fmt.Sprintf("Email sent. %s.", found)
	if !result.Notified {
		body = fmt.Sprintf("Email skipped. %s.", found)
	}

	return &Response{StatusCode: http.StatusOK, Body: body}, nil
}
