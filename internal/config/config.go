package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env   string
	Port  int
	DBURL string

	// seeded librarian account; skipped when email or password is empty
	LibrarianEmail    string
	LibrarianPassword string
	LibrarianName     string

	JWTSecret           string
	JWTAccessTTLMinutes int

	// bearer-token enforcement on the mutating endpoints is opt-in;
	// off means anyone can write, which matches deployments predating tokens
	AuthRequired bool

	AllowedOrigins []string

	TracingEnabled bool
	OTLPEndpoint   string

	RateLimitPerMinute int
}

func Load() Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 4000),
		DBURL: buildDBURL(),

		LibrarianEmail:    getEnv("LIBRARIAN_EMAIL", ""),
		LibrarianPassword: getEnv("LIBRARIAN_PASSWORD", ""),
		LibrarianName:     getEnv("LIBRARIAN_NAME", "Librarian"),

		JWTSecret:           getEnv("JWT_SECRET", "dev-only-secret"),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 30),

		AuthRequired: getEnvBool("AUTH_REQUIRED", false),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),

		TracingEnabled: getEnvBool("OTEL_TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "libraryhub")
	pass := getEnv("DB_PASSWORD", "libraryhub")
	name := getEnv("DB_NAME", "libraryhub")
	// the catalogue database only accepts encrypted connections
	ssl := getEnv("DB_SSLMODE", "require")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return b
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
