// Command monthversary runs the slideshow server. All configuration comes
// from environment variables, optionally loaded from a .env file.
package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	monthversary "github.com/WagaOruoch/monthversary"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	app := monthversary.New(monthversary.Config{
		Addr:         ":" + envOr("PORT", "3000"),
		DatabasePath: envOr("DATABASE_PATH", "data/deck.db"),
		Admin: monthversary.Credentials{
			Username: mustEnv("ADMIN_USERNAME"),
			Password: mustEnv("ADMIN_PASSWORD"),
		},
		Viewer: monthversary.Credentials{
			Username: mustEnv("VIEWER_USERNAME"),
			Password: mustEnv("VIEWER_PASSWORD"),
		},
		SessionSecret: mustEnv("SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
	})
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return v
}
