package mail

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/interfaces"
	"github.com/m-mizutani/streakmon/pkg/domain/model"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
	gomail "github.com/wneessen/go-mail"
)

// TLS policies accepted by WithTLS
const (
	TLSMandatory     = "mandatory"
	TLSOpportunistic = "opportunistic"
	TLSNone          = "none"
)

type config struct {
	host     string
	port     int
	username string
	password string
	tls      string
	timeout  time.Duration
}

// Option is a functional option for the SMTP client
type Option func(*config)

// WithPort sets the relay port
func WithPort(port int) Option {
	return func(c *config) {
		c.port = port
	}
}

// WithAuth sets the SMTP login
func WithAuth(username, password string) Option {
	return func(c *config) {
		c.username = username
		c.password = password
	}
}

// WithTLS selects mandatory, opportunistic or no STARTTLS
func WithTLS(policy string) Option {
	return func(c *config) {
		c.tls = policy
	}
}

// WithTimeout bounds dialing and each SMTP command
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

type client struct {
	cfg  *config
	opts []gomail.Option
}

// NewClient creates a Notifier that delivers through an authenticated SMTP relay
func NewClient(host string, opts ...Option) (interfaces.Notifier, error) {
	cfg := &config{
		host:    host,
		port:    587,
		tls:     TLSMandatory,
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.host == "" {
		return nil, goerr.New("SMTP host is required", goerr.T(types.ErrTagConfig))
	}

	mailOpts := []gomail.Option{
		gomail.WithPort(cfg.port),
		gomail.WithTimeout(cfg.timeout),
	}

	switch cfg.tls {
	case TLSMandatory:
		if cfg.port == 465 {
			mailOpts = append(mailOpts, gomail.WithSSL())
		} else {
			mailOpts = append(mailOpts, gomail.WithTLSPolicy(gomail.TLSMandatory))
		}
	case TLSOpportunistic:
		mailOpts = append(mailOpts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	case TLSNone:
		mailOpts = append(mailOpts, gomail.WithTLSPolicy(gomail.NoTLS))
	default:
		return nil, goerr.New("unknown SMTP TLS policy",
			goerr.V("tls", cfg.tls),
			goerr.T(types.ErrTagConfig),
		)
	}

	if cfg.username != "" {
		mailOpts = append(mailOpts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.username),
			gomail.WithPassword(cfg.password),
		)
	}

	// Validate options once so that a bad port fails at startup, not at send time
	if _, err := gomail.NewClient(cfg.host, mailOpts...); err != nil {
		return nil, goerr.Wrap(err, "invalid SMTP settings",
			goerr.V("host", cfg.host),
			goerr.V("port", cfg.port),
			goerr.T(types.ErrTagConfig),
		)
	}

	return &client{cfg: cfg, opts: mailOpts}, nil
}

// Send delivers msg as multipart/alternative with a plain text and an HTML part
func (c *client) Send(ctx context.Context, msg *model.Message) error {
	logger := ctxlog.From(ctx)

	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return goerr.Wrap(err, "invalid sender address",
			goerr.V("from", msg.From),
			goerr.T(types.ErrTagNotification),
		)
	}
	if err := m.To(msg.To); err != nil {
		return goerr.Wrap(err, "invalid recipient address",
			goerr.V("to", msg.To),
			goerr.T(types.ErrTagNotification),
		)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	mc, err := gomail.NewClient(c.cfg.host, c.opts...)
	if err != nil {
		return goerr.Wrap(err, "failed to create SMTP client", goerr.T(types.ErrTagNotification))
	}

	logger.Debug("Sending mail",
		"host", c.cfg.host,
		"port", c.cfg.port,
		"to", msg.To,
		"subject", msg.Subject,
	)

	if err := mc.DialAndSendWithContext(ctx, m); err != nil {
		return classifyError(err,
			goerr.V("host", c.cfg.host),
			goerr.V("port", c.cfg.port),
			goerr.V("to", msg.To),
		)
	}

	logger.Info("Mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// SMTP reply codes that mean the relay refused the login
var authFailureCodes = map[int]struct{}{
	530: {}, // authentication required
	534: {}, // mechanism too weak
	535: {}, // credentials invalid
}

func classifyError(err error, opts ...goerr.Option) error {
	opts = append(opts, goerr.T(types.ErrTagNotification))

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		if _, ok := authFailureCodes[protoErr.Code]; ok {
			return goerr.Wrap(err, "SMTP relay rejected the credential",
				append(opts, goerr.T(types.ErrTagAuth), goerr.V("code", protoErr.Code))...)
		}
		return goerr.Wrap(err, "SMTP relay refused the message",
			append(opts, goerr.V("code", protoErr.Code))...)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return goerr.Wrap(err, "failed to reach SMTP relay", append(opts, goerr.T(types.ErrTagNetwork))...)
	}

	return goerr.Wrap(err, "failed to send mail", opts...)
}
