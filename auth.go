package petfriends

import (
	"context"
	"net/http"

	"github.com/loykin/petfriends/internal/constants"
)

// GetAPIKey requests an auth key for the given credentials. They are sent as
// the email and password headers; empty values are sent as empty headers.
// A 200 carries {"key": "..."}; unknown users get a 403 HTML page.
func (c *Client) GetAPIKey(ctx context.Context, creds Credentials) (*Result[AuthKey], error) {
	req := c.newRequest(ctx, nil).
		SetHeader(constants.HeaderEmail, creds.Email).
		SetHeader(constants.HeaderPassword, creds.Password)
	return execute[AuthKey](c, "get_api_key", req, http.MethodGet, constants.PathAPIKey)
}
