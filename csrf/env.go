package csrf

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the scalar fields of Config that can come from the
// environment.
type envConfig struct {
	Secret          string        `env:"SECRET"`
	CookieName      string        `env:"COOKIE_NAME"`
	CookiePath      string        `env:"COOKIE_PATH"`
	CookieDomain    string        `env:"COOKIE_DOMAIN"`
	CookieSecure    bool          `env:"COOKIE_SECURE"`
	CookieSameSite  string        `env:"COOKIE_SAMESITE"`
	HeaderName      string        `env:"HEADER_NAME"`
	InvalidMessage  string        `env:"INVALID_MESSAGE"`
	InvalidStatus   int           `env:"INVALID_STATUS"`
	ExcludedMethods []string      `env:"EXCLUDED_METHODS" envSeparator:","`
	RenewOnWrite    bool          `env:"RENEW_ON_WRITE"`
	TokenTTL        time.Duration `env:"TOKEN_TTL"`
}

// LoadEnv reads the secret and a Config from variables named
// <prefix>SECRET, <prefix>COOKIE_NAME, and so on. Unset variables keep
// the defaults New applies. The secret is not validated here.
func LoadEnv(prefix string) (string, Config, error) {
	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: prefix}); err != nil {
		return "", Config{}, fmt.Errorf("csrf: parse env: %w", err)
	}

	sameSite, err := parseSameSite(ec.CookieSameSite)
	if err != nil {
		return "", Config{}, err
	}

	var methods []string
	for _, m := range ec.ExcludedMethods {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, m)
		}
	}

	return ec.Secret, Config{
		CookieName:      ec.CookieName,
		CookiePath:      ec.CookiePath,
		CookieDomain:    ec.CookieDomain,
		CookieSecure:    ec.CookieSecure,
		CookieSameSite:  sameSite,
		HeaderName:      ec.HeaderName,
		InvalidMessage:  ec.InvalidMessage,
		InvalidStatus:   ec.InvalidStatus,
		ExcludedMethods: methods,
		RenewOnWrite:    ec.RenewOnWrite,
		TokenTTL:        ec.TokenTTL,
	}, nil
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("csrf: invalid cookie samesite %q", s)
	}
}
