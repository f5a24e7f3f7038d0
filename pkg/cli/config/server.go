package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr      string
	RunSecret string `masq:"secret"`
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("STREAKMON_ADDR"),
		},
		&cli.StringFlag{
			Name:        "run-secret",
			Usage:       "Bearer token required by POST /run (empty disables the endpoint)",
			Destination: &c.RunSecret,
			Sources:     cli.EnvVars("STREAKMON_RUN_SECRET"),
		},
	}
}
