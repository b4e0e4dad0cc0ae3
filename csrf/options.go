package csrf

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultCookieName     = "xsrftoken"
	DefaultHeaderName     = "X-XSRF-Token"
	DefaultInvalidMessage = "Invalid XSRF Token"
	DefaultInvalidStatus  = http.StatusForbidden

	// DefaultTokenTTL is the granted token lifetime on the browser cookie (1 year).
	DefaultTokenTTL = 365 * 24 * time.Hour
)

// DefaultExcludedMethods are exempt from verification unless Config.ExcludedMethods is set.
var DefaultExcludedMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodTrace,
}

// ErrorHandler renders a rejected request. err is always a *ForbiddenError.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type Config struct {
	// Cookie
	CookieName     string
	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite

	// Token transport
	HeaderName string // e.g.: "X-XSRF-Token"

	// Rejection
	InvalidMessage string
	InvalidStatus  int
	ErrorHandler   ErrorHandler

	// ExcludedMethods skip verification. nil keeps the defaults, an empty
	// non-nil slice verifies every method.
	ExcludedMethods []string

	// RenewOnWrite rotates the token after every verified request.
	RenewOnWrite bool

	// TokenTTL is the cookie lifetime and, for the default codec, the
	// window in which a token verifies.
	TokenTTL time.Duration

	Codec   Codec
	Logger  *zap.Logger
	Metrics *Metrics
}

type Protector struct {
	secret   string
	cfg      Config
	excluded map[string]bool
}

// New validates the secret and merges cfg over the defaults.
func New(secret string, cfg Config) (*Protector, error) {
	if secret == "" {
		return nil, &ConfigurationError{Err: ErrMissingSecret}
	}

	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultHeaderName
	}
	if cfg.InvalidMessage == "" {
		cfg.InvalidMessage = DefaultInvalidMessage
	}
	if cfg.InvalidStatus == 0 {
		cfg.InvalidStatus = DefaultInvalidStatus
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "/"
	}
	if cfg.CookieSameSite == 0 {
		cfg.CookieSameSite = http.SameSiteLaxMode
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.ExcludedMethods == nil {
		cfg.ExcludedMethods = DefaultExcludedMethods
	}
	if cfg.Codec == nil {
		cfg.Codec = XSRFTokenCodec{Timeout: cfg.TokenTTL}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	excluded := make(map[string]bool, len(cfg.ExcludedMethods))
	methods := make([]string, 0, len(cfg.ExcludedMethods))
	for _, m := range cfg.ExcludedMethods {
		m = strings.ToUpper(m)
		excluded[m] = true
		methods = append(methods, m)
	}
	cfg.ExcludedMethods = methods

	return &Protector{secret: secret, cfg: cfg, excluded: excluded}, nil
}

// MustNew is like New but panics on a configuration error.
func MustNew(secret string, cfg Config) *Protector {
	p, err := New(secret, cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// CookieName returns the name of the cookie carrying the token.
func (p *Protector) CookieName() string { return p.cfg.CookieName }

// HeaderName returns the header clients echo the token through.
func (p *Protector) HeaderName() string { return p.cfg.HeaderName }

// Exempt reports whether method skips verification.
func (p *Protector) Exempt(method string) bool {
	return p.excluded[strings.ToUpper(method)]
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var fe *ForbiddenError
	if errors.As(err, &fe) {
		http.Error(w, fe.Message, fe.Status)
		return
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}
