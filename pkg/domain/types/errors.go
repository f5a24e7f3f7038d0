package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures by the component that failed
var (
	// ErrTagConfig marks missing or malformed settings. Raised before any network call.
	ErrTagConfig = goerr.NewTag("config")

	// ErrTagActivitySource marks failures while querying push activity.
	ErrTagActivitySource = goerr.NewTag("activity_source")

	// ErrTagNotification marks failures while delivering the status mail.
	ErrTagNotification = goerr.NewTag("notification")

	// ErrTagAuth marks a rejected credential (GitHub token or SMTP login).
	ErrTagAuth = goerr.NewTag("auth")

	// ErrTagRateLimit marks a GitHub rate limit response.
	ErrTagRateLimit = goerr.NewTag("rate_limit")

	// ErrTagNetwork marks transport level failures.
	ErrTagNetwork = goerr.NewTag("network")
)

// Category returns the name of the top-level failure category of err, or "internal"
// when no category tag is attached
func Category(err error) string {
	switch {
	case goerr.HasTag(err, ErrTagConfig):
		return ErrTagConfig.String()
	case goerr.HasTag(err, ErrTagActivitySource):
		return ErrTagActivitySource.String()
	case goerr.HasTag(err, ErrTagNotification):
		return ErrTagNotification.String()
	default:
		return "internal"
	}
}
