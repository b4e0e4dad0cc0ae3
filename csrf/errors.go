package csrf

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSecret = errors.New("xsrf secret is missing")
	ErrForbidden     = errors.New("xsrf token rejected")
)

// ConfigurationError is returned by New when the Protector cannot be built.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "csrf: configuration: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ForbiddenError rejects a non-exempt request whose header token is
// missing or does not verify. Both cases produce the same error.
type ForbiddenError struct {
	Status  int
	Message string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("csrf: %d %s", e.Status, e.Message)
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }
