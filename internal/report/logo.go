package report

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// LogoSource loads the company logo image bytes.
type LogoSource interface {
	Load(ctx context.Context) ([]byte, error)
}

// LogoFile reads the logo from a local path.
type LogoFile string

func (p LogoFile) Load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	return data, nil
}

// LogoURL downloads the logo. A nil Client means http.DefaultClient.
type LogoURL struct {
	URL    string
	Client *http.Client
}

func (u LogoURL) Load(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build logo request: %w", err)
	}
	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch logo: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read logo body: %w", err)
	}
	return data, nil
}

// ParseLogoSource picks LogoURL for http(s) locations and LogoFile otherwise.
// An empty location returns nil.
func ParseLogoSource(location string) LogoSource {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return LogoURL{URL: location}
	default:
		return LogoFile(location)
	}
}
