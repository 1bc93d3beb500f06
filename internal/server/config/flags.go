package config

import (
	"time"

	"github.com/dmitrijs2005/cryptown/internal/flagx"
	"github.com/spf13/pflag"
)

var knownFlags = []string{
	"-a", "--address",
	"-d", "--database-dsn",
	"-s", "--secret-key",
	"-t", "--token-validity",
	"-r", "--redis-addr",
	"-l", "--log-level",
	"--log-format",
}

// parseFlags overlays command-line flags, the last configuration layer.
//
// Supported flags:
//
//	-a, --address string        HTTP bind address (e.g. ":8080")
//	-d, --database-dsn string   PostgreSQL DSN
//	-s, --secret-key string     session token HMAC secret
//	-t, --token-validity int    session token validity, minutes
//	-r, --redis-addr string     Redis address for the session cache
//	-l, --log-level string      debug, info, warn or error
//	    --log-format string     json or console
//
// Only these flags are looked at; everything else in args is filtered out
// first so -c/--config and foreign flags don't trip the parser.
func parseFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)

	fs.StringVarP(&cfg.HTTPAddr, "address", "a", cfg.HTTPAddr, "address and port to run server")
	fs.StringVarP(&cfg.DatabaseDSN, "database-dsn", "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVarP(&cfg.SecretKey, "secret-key", "s", cfg.SecretKey, "secret key")
	validity := fs.IntP("token-validity", "t", int(cfg.SessionTokenValidityDuration.Minutes()), "session token validity (in minutes)")
	fs.StringVarP(&cfg.RedisAddr, "redis-addr", "r", cfg.RedisAddr, "redis address")
	fs.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	if fs.Changed("token-validity") {
		cfg.SessionTokenValidityDuration = time.Duration(*validity) * time.Minute
	}

	return nil
}
