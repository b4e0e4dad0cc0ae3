package csrf

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// State is the terminal state of a request passing through the guard.
type State int

const (
	// StatePass: downstream runs, no renewal.
	StatePass State = iota
	// StatePassWithRenewal: downstream runs, token rotated afterwards.
	StatePassWithRenewal
	// StateReject: downstream never runs.
	StateReject
)

func (s State) String() string {
	switch s {
	case StatePass:
		return "pass"
	case StatePassWithRenewal:
		return "pass_renewed"
	case StateReject:
		return "reject"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Decide for one request.
type Decision struct {
	// Issue is set when the request carried no header token; a fresh
	// token must be minted into the response before anything else.
	Issue bool
	// Exempt is set when the method skips verification.
	Exempt bool
	// Renew is set when the token must be rotated after downstream completes.
	Renew bool
	// Err is a *ForbiddenError when the request is rejected.
	Err error
}

func (d Decision) State() State {
	switch {
	case d.Err != nil:
		return StateReject
	case d.Renew:
		return StatePassWithRenewal
	default:
		return StatePass
	}
}

// Decide evaluates method and header token without touching the response.
func (p *Protector) Decide(method, token string) Decision {
	d := Decision{Issue: token == ""}

	if p.Exempt(method) {
		d.Exempt = true
		return d
	}

	if token == "" || !p.cfg.Codec.Verify(p.secret, token) {
		d.Err = &ForbiddenError{Status: p.cfg.InvalidStatus, Message: p.cfg.InvalidMessage}
		return d
	}

	d.Renew = p.cfg.RenewOnWrite
	return d
}

// EnsureToken mints a fresh token and sets it as the response cookie.
//
// Params:
// - w: response writer used to set the cookie.
//
// Returns:
// - the minted token; empty string and error if the codec fails.
func (p *Protector) EnsureToken(w http.ResponseWriter) (string, error) {
	cfg := p.cfg

	tok, err := cfg.Codec.Mint(p.secret)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    tok,
		Path:     cfg.CookiePath,
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.TokenTTL / time.Second),
		Expires:  time.Now().Add(cfg.TokenTTL),
		SameSite: cfg.CookieSameSite,
		Secure:   cfg.CookieSecure,
		HttpOnly: false, // client script echoes it through the header
	})

	return tok, nil
}

// Begin runs the guard up to the downstream call: it reads the header
// token, mints one into w when absent, and decides. The returned request
// carries the token in its context. A non-nil error means the codec
// failed and the request must not proceed.
func (p *Protector) Begin(w http.ResponseWriter, r *http.Request) (*http.Request, Decision, error) {
	token := r.Header.Get(p.cfg.HeaderName)
	d := p.Decide(r.Method, token)

	if d.Issue {
		issued, err := p.EnsureToken(w)
		if err != nil {
			p.cfg.Logger.Error("failed to mint xsrf token",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			return r, d, err
		}
		p.cfg.Metrics.issued("missing")
		p.cfg.Logger.Debug("new xsrf token assigned",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		r = r.WithContext(contextWithToken(r.Context(), issued, true))
	} else {
		r = r.WithContext(contextWithToken(r.Context(), token, false))
	}

	if d.Err != nil {
		p.cfg.Logger.Debug("xsrf token rejected",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
	}
	p.cfg.Metrics.observe(d.State())
	return r, d, nil
}

// Renew rotates the token after a verified request. It is skipped when
// the request context is already done.
func (p *Protector) Renew(w http.ResponseWriter, r *http.Request) error {
	if err := r.Context().Err(); err != nil {
		p.cfg.Metrics.dropped()
		p.cfg.Logger.Debug("xsrf renewal skipped on cancelled request",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		return err
	}
	if _, err := p.EnsureToken(w); err != nil {
		p.cfg.Logger.Error("failed to renew xsrf token",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		return err
	}
	p.cfg.Metrics.issued("renewal")
	return nil
}

// RenewalDropped records that a renewal could not be delivered because
// the handler committed the response before returning.
func (p *Protector) RenewalDropped(r *http.Request) {
	p.cfg.Metrics.dropped()
	p.cfg.Logger.Warn("xsrf renewal dropped, response already committed",
		zap.String("path", r.URL.Path),
	)
}

// Reject renders err through the configured ErrorHandler.
func (p *Protector) Reject(w http.ResponseWriter, r *http.Request, err error) {
	p.cfg.ErrorHandler(w, r, err)
}

// Protect wraps the given next http.Handler and enforces XSRF protection.
//
// Behavior:
//   - A request without a header token always gets a fresh token cookie,
//     before any other check, so a rejected client can retry at once.
//   - Excluded methods (GET/HEAD/OPTIONS/TRACE by default) call next
//     without verification.
//   - Other methods must echo a token the codec verifies against the
//     secret; otherwise the request is rejected and next never runs.
//   - With RenewOnWrite, the token is rotated after next returns.
//
// Params:
// - next: downstream handler to be executed after the checks pass.
//
// Returns:
// - An http.Handler that performs the XSRF logic before delegating to next.
func (p *Protector) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, d, err := p.Begin(w, r)
		if err != nil {
			http.Error(w, "failed to set XSRF cookie", http.StatusInternalServerError)
			return
		}

		if d.Exempt {
			next.ServeHTTP(w, r)
			return
		}

		if d.Err != nil {
			p.Reject(w, r, d.Err)
			return
		}

		if !d.Renew {
			next.ServeHTTP(w, r)
			return
		}

		dw := newDeferredWriter(w)
		next.ServeHTTP(dw.ResponseWriter(), r)
		if dw.committed {
			p.RenewalDropped(r)
			return
		}
		_ = p.Renew(w, r)
		dw.commit()
	})
}

// TokenHandler returns an HTTP handler that writes the current XSRF token.
// This is useful for SPAs to fetch the token and attach it to subsequent requests.
// When the request went through Protect without minting, a new token is
// minted so the body always matches the response cookie.
//
// Returns:
// - http.Handler that responds with the token in the response body (text/plain).
func (p *Protector) TokenHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := TokenFromContext(r.Context())
		if !ok || !TokenIssued(r.Context()) {
			var err error
			if tok, err = p.EnsureToken(w); err != nil {
				http.Error(w, "failed to set XSRF cookie", http.StatusInternalServerError)
				return
			}
			p.cfg.Metrics.issued("endpoint")
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(tok))
	})
}
