package auth

import "time"

// DefaultTokenTTL is the lifetime of every bearer token.
const DefaultTokenTTL = time.Hour

type Config struct {
	Secret string `mapstructure:"secret"`
	// CollapseLoginErrors reports an unknown login name the same way as a
	// wrong password.
	CollapseLoginErrors bool `mapstructure:"collapse_login_errors"`
}
