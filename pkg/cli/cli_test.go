package cli_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/streakmon/pkg/cli"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
)

func newEventsServer(t *testing.T, username string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/users/"+username+"/events" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestRun_Check(t *testing.T) {
	srv, hits := newEventsServer(t, "octocat")

	err := cli.Run(context.Background(), []string{
		"streakmon", "--log-level", "error",
		"check",
		"--github-username", "octocat",
		"--github-token", "ghp_test",
		"--github-base-url", srv.URL + "/",
	})
	gt.NoError(t, err)
	gt.Equal(t, hits.Load(), int32(1))
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"streakmon", "--log-level", "verbose", "check"})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
}

func TestRun_ConfigErrorBeforeNetwork(t *testing.T) {
	srv, hits := newEventsServer(t, "octocat")

	err := cli.Run(context.Background(), []string{
		"streakmon", "--log-level", "error",
		"run",
		"--github-username", "octocat",
		"--github-token", "ghp_test",
		"--github-base-url", srv.URL + "/",
		"--mail-from", "monitor@example.com",
		"--mail-to", "me@example.com",
		"--smtp-password", "app-password",
		"--smtp-host", "",
	})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
	gt.Equal(t, hits.Load(), int32(0))
}

func TestRun_InvalidWindow(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"streakmon", "--log-level", "error",
		"check",
		"--github-username", "octocat",
		"--github-token", "ghp_test",
		"--window-start", "19:00",
		"--window-end", "18:30",
	})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
}

func TestRun_EnvAndConfigFile(t *testing.T) {
	srv, hits := newEventsServer(t, "env-user")
	dir := t.TempDir()

	envFile := filepath.Join(dir, ".env")
	gt.NoError(t, os.WriteFile(envFile, []byte("STREAKMON_GITHUB_USERNAME=env-user\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("STREAKMON_GITHUB_USERNAME") })

	configFile := filepath.Join(dir, "streakmon.toml")
	gt.NoError(t, os.WriteFile(configFile, []byte(`
[github]
username = "file-user"
token = "ghp_file"
base_url = "`+srv.URL+`/"

[window]
timezone = "Asia/Tokyo"
`), 0600))

	err := cli.Run(context.Background(), []string{
		"streakmon", "--log-level", "error",
		"--env-file", envFile,
		"--config", configFile,
		"check",
	})
	gt.NoError(t, err)

	// The env file value wins over the config file
	gt.Equal(t, hits.Load(), int32(1))
}

func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, key := range keys {
			_ = os.Unsetenv(key)
		}
	})
}

func writeEnvFile(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	gt.NoError(t, os.WriteFile(path, []byte(
		"STREAKMON_GITHUB_USERNAME=env-user\n"+
			"STREAKMON_GITHUB_TOKEN=ghp_env\n"+
			"STREAKMON_GITHUB_BASE_URL="+baseURL+"/\n",
	), 0600))
	return path
}

func TestRun_EnvFileOnly(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T, envFile string) []string
	}{
		{
			name: "flag before subcommand",
			args: func(t *testing.T, envFile string) []string {
				return []string{"streakmon", "--log-level", "error", "--env-file", envFile, "check"}
			},
		},
		{
			name: "flag with equals sign",
			args: func(t *testing.T, envFile string) []string {
				return []string{"streakmon", "--env-file=" + envFile, "--log-level", "error", "check"}
			},
		},
		{
			name: "environment variable",
			args: func(t *testing.T, envFile string) []string {
				t.Setenv("STREAKMON_ENV_FILE", envFile)
				return []string{"streakmon", "--log-level", "error", "check"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetAfter(t, "STREAKMON_GITHUB_USERNAME", "STREAKMON_GITHUB_TOKEN", "STREAKMON_GITHUB_BASE_URL")
			srv, hits := newEventsServer(t, "env-user")
			envFile := writeEnvFile(t, srv.URL)

			err := cli.Run(context.Background(), tt.args(t, envFile))
			gt.NoError(t, err)
			gt.Equal(t, hits.Load(), int32(1))
		})
	}
}

func TestRun_EnvironmentWinsOverEnvFile(t *testing.T) {
	srv, hits := newEventsServer(t, "real-user")

	envFile := filepath.Join(t.TempDir(), ".env")
	gt.NoError(t, os.WriteFile(envFile, []byte("STREAKMON_GITHUB_USERNAME=env-user\n"), 0600))
	t.Setenv("STREAKMON_GITHUB_USERNAME", "real-user")

	err := cli.Run(context.Background(), []string{
		"streakmon", "--log-level", "error",
		"--env-file", envFile,
		"check",
		"--github-token", "ghp_test",
		"--github-base-url", srv.URL + "/",
	})
	gt.NoError(t, err)
	gt.Equal(t, hits.Load(), int32(1))
}

func TestRun_MissingEnvFile(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"streakmon", "--env-file", filepath.Join(t.TempDir(), "none.env"), "check",
	})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
}
