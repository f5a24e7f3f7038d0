package config

import (
	"github.com/m-mizutani/streakmon/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Window holds the daily check window and notification policy
type Window struct {
	Start    string
	End      string
	Timezone string
	Policy   string
}

// Flags returns CLI flags for the check window
func (c *Window) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "window-start",
			Usage:       "Window start, local HH:MM (inclusive)",
			Value:       "00:01",
			Destination: &c.Start,
			Sources:     cli.EnvVars("STREAKMON_WINDOW_START"),
		},
		&cli.StringFlag{
			Name:        "window-end",
			Usage:       "Window end, local HH:MM (exclusive)",
			Value:       "18:30",
			Destination: &c.End,
			Sources:     cli.EnvVars("STREAKMON_WINDOW_END"),
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "IANA time zone of the window",
			Value:       "Australia/Sydney",
			Destination: &c.Timezone,
			Sources:     cli.EnvVars("STREAKMON_TIMEZONE"),
		},
		&cli.StringFlag{
			Name:        "notify-policy",
			Usage:       "When to send mail (always, on-missing)",
			Value:       string(model.NotifyAlways),
			Destination: &c.Policy,
			Sources:     cli.EnvVars("STREAKMON_NOTIFY_POLICY"),
		},
	}
}

// Build parses the window and the policy
func (c *Window) Build() (model.CheckWindow, model.NotifyPolicy, error) {
	window, err := model.NewCheckWindow(c.Start, c.End, c.Timezone)
	if err != nil {
		return model.CheckWindow{}, "", err
	}
	policy, err := model.ParseNotifyPolicy(c.Policy)
	if err != nil {
		return model.CheckWindow{}, "", err
	}
	return window, policy, nil
}
