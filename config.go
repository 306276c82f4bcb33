package monthversary

import "time"

// Credentials is one static role identity (a shared username/password pair
// from configuration, not a user record).
type Credentials struct {
	Username string
	Password string
}

// Config holds all configuration for a monthversary site.
type Config struct {
	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/deck.db")

	Admin  Credentials // Required: editor login
	Viewer Credentials // Required: viewer login

	SessionSecret string // Required: session cookie signing secret
	CookieSecure  bool   // Set true for HTTPS

	DeckCacheTTL time.Duration // Published deck cache TTL (default 1min)
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/deck.db"
	}
	if c.DeckCacheTTL == 0 {
		c.DeckCacheTTL = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes, before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
