package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
)

// PushEvent represents a single push recorded by the activity source
type PushEvent struct {
	ID        string    // Event ID assigned by GitHub
	Repo      string    // Repository full name (owner/name)
	CreatedAt time.Time // When the push was recorded
}

// CheckResult is the outcome of one window evaluation. It is never persisted.
type CheckResult struct {
	Username          string
	HadCommitInWindow bool
	CheckedAt         time.Time
	Date              string // Local date of the check, YYYY-MM-DD
	WindowStart       time.Time
	WindowEnd         time.Time
	Pushes            []PushEvent // Pushes inside the window
	Skipped           []PushEvent // Pushes outside the window
	Notified          bool        // Status mail was delivered
}

// Variant selects the message template
type Variant string

const (
	VariantPositive Variant = "positive"
	VariantWarning  Variant = "warning"
)

// Variant returns the message variant for the result
func (r *CheckResult) Variant() Variant {
	if r.HadCommitInWindow {
		return VariantPositive
	}
	return VariantWarning
}

// NotifyPolicy decides which results are mailed
type NotifyPolicy string

const (
	// NotifyAlways sends a status report for every result
	NotifyAlways NotifyPolicy = "always"
	// NotifyOnMissing sends only when no push was found in the window
	NotifyOnMissing NotifyPolicy = "on-missing"
)

// ParseNotifyPolicy validates a policy name
func ParseNotifyPolicy(s string) (NotifyPolicy, error) {
	switch p := NotifyPolicy(s); p {
	case NotifyAlways, NotifyOnMissing:
		return p, nil
	case "":
		return NotifyAlways, nil
	default:
		return "", goerr.New("unknown notify policy",
			goerr.V("policy", s),
			goerr.T(types.ErrTagConfig),
		)
	}
}

// ShouldNotify reports whether the result must be mailed under the policy
func (p NotifyPolicy) ShouldNotify(r *CheckResult) bool {
	if p == NotifyOnMissing {
		return !r.HadCommitInWindow
	}
	return true
}

// Message is a composed status mail
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}
