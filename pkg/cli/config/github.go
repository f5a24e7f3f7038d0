package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/interfaces"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
	"github.com/m-mizutani/streakmon/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub account and API credential configuration
type GitHub struct {
	Username       string
	Token          string `masq:"secret"`
	AppID          string
	InstallationID string
	PrivateKey     string `masq:"secret"`
	BaseURL        string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-username",
			Usage:       "GitHub account whose pushes are monitored",
			Destination: &c.Username,
			Sources:     cli.EnvVars("STREAKMON_GITHUB_USERNAME", "GITHUB_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("STREAKMON_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID (alternative to a token)",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("STREAKMON_GITHUB_APP_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("STREAKMON_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM content or file path)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("STREAKMON_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub API base URL (GitHub Enterprise)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("STREAKMON_GITHUB_BASE_URL"),
		},
	}
}

// Validate checks that a username and exactly one usable credential are present
func (c *GitHub) Validate() error {
	if c.Username == "" {
		return goerr.New("GitHub username is required", goerr.T(types.ErrTagConfig))
	}
	if c.Token == "" && c.AppID == "" {
		return goerr.New("either GitHub token or GitHub App ID is required", goerr.T(types.ErrTagConfig))
	}
	if c.AppID != "" && (c.InstallationID == "" || c.PrivateKey == "") {
		return goerr.New("GitHub App requires installation ID and private key",
			goerr.V("app_id", c.AppID),
			goerr.T(types.ErrTagConfig),
		)
	}
	return nil
}

// NewClient validates the configuration and creates the activity source
func (c *GitHub) NewClient() (interfaces.ActivitySource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var opts []github.Option
	if c.AppID != "" {
		appID, err := parseID("github-app-id", c.AppID)
		if err != nil {
			return nil, err
		}
		installationID, err := parseID("github-app-installation-id", c.InstallationID)
		if err != nil {
			return nil, err
		}
		key, err := c.privateKey()
		if err != nil {
			return nil, err
		}
		opts = append(opts, github.WithApp(appID, installationID, key))
	} else {
		opts = append(opts, github.WithToken(c.Token))
	}

	if c.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(c.BaseURL))
	}

	return github.NewClient(opts...)
}

func (c *GitHub) privateKey() ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(c.PrivateKey), "-----BEGIN") {
		return []byte(c.PrivateKey), nil
	}

	key, err := os.ReadFile(c.PrivateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key",
			goerr.V("path", c.PrivateKey),
			goerr.T(types.ErrTagConfig),
		)
	}
	return key, nil
}

func parseID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, goerr.New("invalid numeric ID",
			goerr.V("flag", name),
			goerr.V("value", value),
			goerr.T(types.ErrTagConfig),
		)
	}
	return id, nil
}
