package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cryptown/internal/flagx"
	"github.com/spf13/viper"
)

const envPrefix = "CRYPTOWN"

// parseFile overlays values from the file named by -c/--config (any format
// viper understands, picked by extension) and from CRYPTOWN_* environment
// variables, e.g. CRYPTOWN_DATABASE_DSN or CRYPTOWN_PASSWORD_POLICY_MIN_LENGTH.
// Keys absent from both sources keep their current value.
func parseFile(cfg *Config, args []string) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := flagx.ConfigFileFlag(args); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	setString(v, "http_addr", &cfg.HTTPAddr)
	setString(v, "database_dsn", &cfg.DatabaseDSN)
	setString(v, "secret_key", &cfg.SecretKey)
	setDuration(v, "session_token_validity", &cfg.SessionTokenValidityDuration)
	setString(v, "redis.addr", &cfg.RedisAddr)
	setString(v, "redis.password", &cfg.RedisPassword)
	setString(v, "log.level", &cfg.LogLevel)
	setString(v, "log.format", &cfg.LogFormat)
	setInt(v, "bcrypt_cost", &cfg.BcryptCost)
	if v.IsSet("cors_origins") {
		cfg.CORSOrigins = v.GetStringSlice("cors_origins")
	}
	setInt(v, "auth_rate_limit", &cfg.AuthRateLimit)
	setInt(v, "login.max_attempts", &cfg.MaxLoginAttempts)
	setDuration(v, "login.ban_window", &cfg.BanWindow)

	p := &cfg.PasswordPolicy
	setInt(v, "password_policy.min_length", &p.MinLength)
	setInt(v, "password_policy.max_bytes", &p.MaxBytes)
	setInt(v, "password_policy.min_lowercase", &p.MinLowercase)
	setInt(v, "password_policy.min_uppercase", &p.MinUppercase)
	setInt(v, "password_policy.min_numbers", &p.MinNumbers)
	setInt(v, "password_policy.min_symbols", &p.MinSymbols)
	if v.IsSet("password_policy.return_score") {
		p.ReturnScore = v.GetBool("password_policy.return_score")
	}
	setFloat(v, "password_policy.min_score", &p.MinScore)
	setFloat(v, "password_policy.points_per_unique", &p.PointsPerUnique)
	setFloat(v, "password_policy.points_per_repeat", &p.PointsPerRepeat)
	setFloat(v, "password_policy.points_for_containing_lower", &p.PointsForContainingLower)
	setFloat(v, "password_policy.points_for_containing_upper", &p.PointsForContainingUpper)
	setFloat(v, "password_policy.points_for_containing_number", &p.PointsForContainingNumber)
	setFloat(v, "password_policy.points_for_containing_symbol", &p.PointsForContainingSymbol)

	return nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func setFloat(v *viper.Viper, key string, dst *float64) {
	if v.IsSet(key) {
		*dst = v.GetFloat64(key)
	}
}

func setDuration(v *viper.Viper, key string, dst *time.Duration) {
	if v.IsSet(key) {
		*dst = v.GetDuration(key)
	}
}
