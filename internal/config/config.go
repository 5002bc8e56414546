package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	PostgresURI    string // Empty: in-memory repositories (local use only)
	RedisURI       string // Empty: in-memory sessions, no catalog cache
	MongoURI       string // Empty: audit trail disabled
	MongoDatabase  string
	AMQPURL        string // Empty: new-feedback events are not published
	Port           string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	Environment    string   // ENV: production, development, etc.
	LogLevel       string
	AllowedHost    string // Production only: reject requests for other hosts
	TrustProxy     bool   // Take the client IP from X-Forwarded-For

	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	BootstrapAdminNom      string
	BootstrapAdminPrenom   string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:5173"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" && !containsOrigin(allowedOrigins, u) {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	return &Config{
		PostgresURI:            os.Getenv("POSTGRES_URI"),
		RedisURI:               os.Getenv("REDIS_URI"),
		MongoURI:               getEnv("MONGODB_URI", os.Getenv("MONGO_URI")),
		MongoDatabase:          getEnv("MONGODB_DATABASE", "remontee"),
		AMQPURL:                os.Getenv("AMQP_URL"),
		Port:                   getEnv("PORT", "3000"),
		AllowedOrigins:         allowedOrigins,
		Environment:            env,
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		AllowedHost:            strings.TrimSpace(os.Getenv("ALLOWED_HOST")),
		TrustProxy:             getEnvBool("TRUST_PROXY", false),
		BootstrapAdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		BootstrapAdminNom:      getEnv("BOOTSTRAP_ADMIN_NOM", "ADMIN"),
		BootstrapAdminPrenom:   getEnv("BOOTSTRAP_ADMIN_PRENOM", "Admin"),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// HasBootstrapAdmin reports whether an admin should be seeded at startup.
func (c *Config) HasBootstrapAdmin() bool {
	return c.BootstrapAdminEmail != "" && c.BootstrapAdminPassword != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}
