// Package csrf provides XSRF protection for Go net/http servers using the
// double-submit cookie pattern with signed, stateless tokens.
//
// How it works
//   - A request without the X-XSRF-Token header always gets a freshly
//     minted token in the xsrftoken cookie, whatever its method, so
//     first-contact clients (and rejected ones) can retry immediately. The
//     cookie is not HttpOnly: client script must read it and echo it back.
//   - Excluded methods (GET, HEAD, OPTIONS, TRACE) pass without verification.
//   - Every other method must send a header token the Codec verifies
//     against the server secret. Missing and invalid tokens are rejected
//     identically (403 "Invalid XSRF Token" by default) and the downstream
//     handler never runs.
//   - With RenewOnWrite, a verified request gets a new token cookie after
//     the handler returns. The response is held back until then.
//
// No issued token is stored server side; the default codec re-derives
// validity from the secret using golang.org/x/net/xsrftoken.
//
// # Configuration
//
// New takes the secret and a Config. Zero fields keep their defaults:
//   - CookieName "xsrftoken", HeaderName "X-XSRF-Token"
//   - InvalidMessage "Invalid XSRF Token", InvalidStatus 403
//   - ExcludedMethods GET/HEAD/OPTIONS/TRACE (nil means defaults)
//   - TokenTTL one year, CookiePath "/", CookieSameSite Lax
//
// LoadEnv builds the same from environment variables.
//
// Typical usage
//
//	p, err := csrf.New(os.Getenv("XSRF_SECRET"), csrf.Config{RenewOnWrite: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", p.Protect(appMux))
//
// For SPAs, expose a small endpoint that returns the current token:
//
//	r.Get("/csrf-token", func(w http.ResponseWriter, r *http.Request) {
//	    p.TokenHandler().ServeHTTP(w, r)
//	})
//
// Gin users should use the csrfgin subpackage.
package csrf
