package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses the token lifetime duration string
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Values are read once at startup and treated as
// immutable afterwards; components receive the struct explicitly instead of
// reading ambient globals.
type Config struct {
	Env          string        // application environment (e.g. "dev", "prod")
	Port         string        // HTTP port to listen on
	DBUser       string        // database username
	DBPass       string        // database password (optional)
	DBHost       string        // database host address
	DBPort       string        // database port number
	DBName       string        // database name
	JWTSecret    string        // secret used to sign JWTs
	JWTExpiresIn time.Duration // auth token time-to-live (duration string, e.g. "24h")
	BcryptCost   int           // bcrypt cost for password hashing
	ClientURL    string        // browser origin allowed by CORS
	MailHost     string        // SMTP host; empty disables outgoing mail
	MailPort     int           // SMTP port
	MailUser     string        // SMTP username
	MailPassword string        // SMTP password
	MailFrom     string        // sender address for outgoing mail
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. Mail settings are
// optional so local setups can run without an SMTP server.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		JWTExpiresIn: mustDur("JWT_EXPIRES_IN"),
		BcryptCost:   mustInt("BCRYPT_COST"),
		ClientURL:    must("CLIENT_URL"),
		MailHost:     os.Getenv("MAIL_HOST"),
		MailPort:     atoi(getenv("MAIL_PORT", "587")),
		MailUser:     os.Getenv("MAIL_USER"),
		MailPassword: os.Getenv("MAIL_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// mustDur is like must() but parses the value as a Go duration string.
func mustDur(key string) time.Duration {
	s := must(key)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}
