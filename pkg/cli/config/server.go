package config

import (
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr       string
	SessionTTL time.Duration
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Category:    "Server",
			Value:       "localhost:8000",
			Sources:     cli.EnvVars("LAUNCHBOARD_ADDR"),
			Destination: &s.Addr,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "How long an idle dashboard session is kept (0 keeps sessions forever)",
			Category:    "Server",
			Value:       time.Hour,
			Sources:     cli.EnvVars("LAUNCHBOARD_SESSION_TTL"),
			Destination: &s.SessionTTL,
		},
	}
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Duration("session_ttl", s.SessionTTL),
	)
}
