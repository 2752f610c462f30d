// Package petfriends is a client for the PetFriends pet-management REST service.
//
// Every method issues exactly one HTTP request and hands back the status code
// together with the body. Nothing is retried and the status is never
// interpreted: a 403 is a Result, not an error. Errors are returned only when
// no response was obtained at all (transport failure, cancelled context,
// unreadable photo file).
//
//	c := petfriends.New(petfriends.Config{})
//	res, err := c.GetAPIKey(ctx, petfriends.Credentials{Email: email, Password: password})
//	if err != nil {
//		return err
//	}
//	if res.IsJSON() {
//		pets, err := c.ListPets(ctx, *res.Value, petfriends.FilterMyPets)
//		...
//	}
package petfriends

import (
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/petfriends/internal/common"
	"github.com/loykin/petfriends/internal/constants"
	"github.com/loykin/petfriends/internal/httpc"
	"github.com/loykin/petfriends/internal/util"
)

// DefaultBaseURL is the public PetFriends deployment.
const DefaultBaseURL = constants.DefaultBaseURL

// Listing filters accepted by ListPets. Any other value is forwarded as is.
const (
	FilterAll    = constants.FilterAll
	FilterMyPets = constants.FilterMyPets
)

// Config controls how the client reaches the service.
type Config struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// Timeout bounds a whole call. Zero means no deadline.
	Timeout time.Duration
	// TLSConfig is optional; nil uses the system defaults.
	TLSConfig *tls.Config
	// Logger defaults to the process-wide logger.
	Logger *common.Logger
}

// Client is the PetFriends API client. It holds no per-user state: the caller
// obtains an AuthKey and passes it to each call. Safe for concurrent use.
type Client struct {
	rc      *resty.Client
	baseURL string
	logger  *common.Logger
}

// New builds a client from cfg.
func New(cfg Config) *Client {
	base := util.EnsureTrailingSlash(util.TrimWithDefault(cfg.BaseURL, DefaultBaseURL))
	h := httpc.Httpc{BaseURL: base, Timeout: cfg.Timeout, TlsConfig: cfg.TLSConfig}

	logger := cfg.Logger
	if logger == nil {
		logger = common.GetLogger()
	}

	return &Client{
		rc:      h.New(),
		baseURL: base,
		logger:  logger.WithComponent("petfriends"),
	}
}

// BaseURL returns the normalized base URL, always ending in a slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}
