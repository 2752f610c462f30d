package httpc

import (
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/petfriends/internal/util"
)

// Httpc describes how resty clients talking to the service are built.
type Httpc struct {
	BaseURL   string
	Timeout   time.Duration
	TlsConfig *tls.Config
}

// New returns a resty.Client configured with the receiver's base URL, timeout and TLS settings.
// A zero Timeout leaves the client without a deadline. Retries stay disabled.
func (h *Httpc) New() *resty.Client {
	c := resty.New().SetRetryCount(0)
	if h.BaseURL != "" {
		c.SetBaseURL(h.BaseURL)
	}
	if h.Timeout > 0 {
		c.SetTimeout(h.Timeout)
	}
	cfg := h.TlsConfig
	if cfg == nil {
		return c
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}
	c.SetTLSClientConfig(cfg)
	return c
}

// ParseTLSVersion converts a TLS version string to the corresponding crypto/tls constant.
// Supports "1.2", "12", "tls1.2", "tls12" and the same forms for 1.0, 1.1 and 1.3.
// Returns 0 if the version string is not recognized.
func ParseTLSVersion(version string) uint16 {
	switch util.TrimAndLower(version) {
	case "1.0", "10", "tls1.0", "tls10":
		return tls.VersionTLS10
	case "1.1", "11", "tls1.1", "tls11":
		return tls.VersionTLS11
	case "1.2", "12", "tls1.2", "tls12":
		return tls.VersionTLS12
	case "1.3", "13", "tls1.3", "tls13":
		return tls.VersionTLS13
	default:
		return 0
	}
}
