package config

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/interfaces"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
	"github.com/m-mizutani/streakmon/pkg/infra/mail"
	"github.com/urfave/cli/v3"
)

// SMTP holds mail relay configuration
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string `masq:"secret"`
	TLS      string
}

// Flags returns CLI flags for SMTP configuration
func (c *SMTP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP relay host",
			Destination: &c.Host,
			Sources:     cli.EnvVars("STREAKMON_SMTP_HOST", "SMTP_SERVER"),
		},
		&cli.StringFlag{
			Name:        "smtp-port",
			Usage:       "SMTP relay port",
			Value:       "587",
			Destination: &c.Port,
			Sources:     cli.EnvVars("STREAKMON_SMTP_PORT", "SMTP_PORT"),
		},
		&cli.StringFlag{
			Name:        "smtp-username",
			Usage:       "SMTP login (defaults to the sender address)",
			Destination: &c.Username,
			Sources:     cli.EnvVars("STREAKMON_SMTP_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP password or app password",
			Destination: &c.Password,
			Sources:     cli.EnvVars("STREAKMON_SMTP_PASSWORD", "SENDER_PASSWORD"),
		},
		&cli.StringFlag{
			Name:        "smtp-tls",
			Usage:       "STARTTLS policy (mandatory, opportunistic, none)",
			Value:       mail.TLSMandatory,
			Destination: &c.TLS,
			Sources:     cli.EnvVars("STREAKMON_SMTP_TLS"),
		},
	}
}

// NewClient validates the configuration and creates the notifier. sender is used as
// the login when no username is configured.
func (c *SMTP) NewClient(sender string) (interfaces.Notifier, error) {
	if c.Host == "" {
		return nil, goerr.New("SMTP host is required", goerr.T(types.ErrTagConfig))
	}
	if c.Password == "" {
		return nil, goerr.New("SMTP password is required", goerr.T(types.ErrTagConfig))
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid SMTP port",
			goerr.V("port", c.Port),
			goerr.T(types.ErrTagConfig),
		)
	}

	username := c.Username
	if username == "" {
		username = sender
	}

	return mail.NewClient(c.Host,
		mail.WithPort(port),
		mail.WithAuth(username, c.Password),
		mail.WithTLS(c.TLS),
	)
}
