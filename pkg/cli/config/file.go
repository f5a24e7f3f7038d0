package config

import (
	"os"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File is the layout of the optional TOML configuration file
type File struct {
	GitHub struct {
		Username       string `toml:"username"`
		Token          string `toml:"token"`
		AppID          int64  `toml:"app_id"`
		InstallationID int64  `toml:"installation_id"`
		PrivateKey     string `toml:"private_key"`
		BaseURL        string `toml:"base_url"`
	} `toml:"github"`

	SMTP struct {
		Host     string `toml:"host"`
		Port     int    `toml:"port"`
		Username string `toml:"username"`
		Password string `toml:"password"`
		TLS      string `toml:"tls"`
	} `toml:"smtp"`

	Mail struct {
		From string `toml:"from"`
		To   string `toml:"to"`
	} `toml:"mail"`

	Window struct {
		Start        string `toml:"start"`
		End          string `toml:"end"`
		Timezone     string `toml:"timezone"`
		NotifyPolicy string `toml:"notify_policy"`
	} `toml:"window"`
}

// ReadFile decodes a TOML configuration file. Unknown keys are rejected.
func ReadFile(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open config file",
			goerr.V("path", path),
			goerr.T(types.ErrTagConfig),
		)
	}
	defer fd.Close()

	var f File
	if err := toml.NewDecoder(fd).DisallowUnknownFields().Decode(&f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file",
			goerr.V("path", path),
			goerr.T(types.ErrTagConfig),
		)
	}
	return &f, nil
}

func itoa[T int | int64](v T) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(int64(v), 10)
}

func (f *File) values() map[string]string {
	return map[string]string{
		"github-username":            f.GitHub.Username,
		"github-token":               f.GitHub.Token,
		"github-app-id":              itoa(f.GitHub.AppID),
		"github-app-installation-id": itoa(f.GitHub.InstallationID),
		"github-app-private-key":     f.GitHub.PrivateKey,
		"github-base-url":            f.GitHub.BaseURL,
		"smtp-host":                  f.SMTP.Host,
		"smtp-port":                  itoa(f.SMTP.Port),
		"smtp-username":              f.SMTP.Username,
		"smtp-password":              f.SMTP.Password,
		"smtp-tls":                   f.SMTP.TLS,
		"mail-from":                  f.Mail.From,
		"mail-to":                    f.Mail.To,
		"window-start":               f.Window.Start,
		"window-end":                 f.Window.End,
		"timezone":                   f.Window.Timezone,
		"notify-policy":              f.Window.NotifyPolicy,
	}
}

// Apply fills every flag of cmd that was not given on the command line or by an
// environment variable with the value from the file.
func (f *File) Apply(cmd *cli.Command) error {
	values := f.values()

	for _, flag := range cmd.Flags {
		for _, name := range flag.Names() {
			value, ok := values[name]
			if !ok || value == "" || cmd.IsSet(name) {
				continue
			}
			if err := cmd.Set(name, value); err != nil {
				return goerr.Wrap(err, "failed to apply config file value",
					goerr.V("flag", name),
					goerr.T(types.ErrTagConfig),
				)
			}
		}
	}
	return nil
}
