package appconfig

import (
	"errors"
	"fmt"
)

var (
	ErrNoSource          = errors.New("either a file path or raw configuration must be provided")
	ErrTwoSources        = errors.New("only one of file path or raw configuration may be provided")
	ErrFileNotFound      = errors.New("configuration file not found")
	ErrPermission        = errors.New("configuration file permission denied")
	ErrMalformed         = errors.New("configuration file is not valid JSON")
	ErrRootNotMapping    = errors.New("configuration root must be a mapping")
	ErrReloadUnsupported = errors.New("reload cannot be used when raw configuration is provided")
	ErrKeyNotFound       = errors.New("key not found")
)

// Error is the single configuration error kind. Op names the failing step
// ("load", "reload", "lookup", "new"), Path the file or key path involved.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("configuration %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err came from this package.
func IsConfigurationError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}
