package config

import (
	"net/mail"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Mail holds sender and recipient addresses of the status mail
type Mail struct {
	From string
	To   string
}

// Flags returns CLI flags for mail addresses
func (c *Mail) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mail-from",
			Usage:       "Sender address of the status mail",
			Destination: &c.From,
			Sources:     cli.EnvVars("STREAKMON_MAIL_FROM", "SENDER_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "mail-to",
			Usage:       "Recipient address of the status mail",
			Destination: &c.To,
			Sources:     cli.EnvVars("STREAKMON_MAIL_TO", "RECIPIENT_EMAIL"),
		},
	}
}

// Validate checks both addresses are present and well formed
func (c *Mail) Validate() error {
	addrs := []struct{ flag, value string }{
		{"mail-from", c.From},
		{"mail-to", c.To},
	}
	for _, addr := range addrs {
		if addr.value == "" {
			return goerr.New("mail address is required", goerr.V("flag", addr.flag), goerr.T(types.ErrTagConfig))
		}
		if _, err := mail.ParseAddress(addr.value); err != nil {
			return goerr.Wrap(err, "invalid mail address",
				goerr.V("flag", addr.flag),
				goerr.V("address", addr.value),
				goerr.T(types.ErrTagConfig),
			)
		}
	}
	return nil
}
