package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "ALLOWED_ORIGINS", "FRONTEND_URL", "FRONTEND_URL_2", "POSTGRES_URI", "REDIS_URI", "MONGODB_URI", "MONGO_URI", "AMQP_URL", "BOOTSTRAP_ADMIN_EMAIL", "BOOTSTRAP_ADMIN_PASSWORD", "TRUST_PROXY"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.PostgresURI)
	assert.Empty(t, cfg.MongoURI)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.HasBootstrapAdmin())
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ENV", " Production ")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "https://remontee.example.com, http://localhost:5173 ,")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "admin@mim.fr")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "changeme123")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("ALLOWED_HOST", " api.remontee.example.com ")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"https://remontee.example.com", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI)
	assert.True(t, cfg.HasBootstrapAdmin())
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, "api.remontee.example.com", cfg.AllowedHost)
}
