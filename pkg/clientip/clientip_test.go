package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.10:54321"
	r.Header.Set("X-Forwarded-For", "203.0.113.7")

	assert.Equal(t, "192.0.2.10", RealClientIP(r))
	assert.Equal(t, "203.0.113.7", ForwardedClientIP(r))
	assert.Equal(t, "192.0.2.10", Resolver(false)(r))
}

func TestForwardedClientIP_Fallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.10:54321"
	r.Header.Set("X-Forwarded-For", "not-an-ip, 203.0.113.7")

	assert.Equal(t, "192.0.2.10", ForwardedClientIP(r))
}
