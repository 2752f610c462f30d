package petfriends

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/petfriends/internal/constants"
)

func (c *Client) newRequest(ctx context.Context, key *AuthKey) *resty.Request {
	if ctx == nil {
		ctx = context.Background()
	}
	req := c.rc.R().SetContext(ctx)
	if key != nil {
		req.SetHeader(constants.HeaderAuthKey, key.Key)
	}
	return req
}

// execute sends req once and wraps the response into a Result whatever its status.
func execute[T any](c *Client, op string, req *resty.Request, method, path string) (*Result[T], error) {
	logger := c.logger.WithOperation(op).WithRequest(method, path)
	logger.Debug("sending request")

	resp, err := req.Execute(method, path)
	if err != nil {
		logger.Error("request failed", "error", err)
		return nil, fmt.Errorf("petfriends: %s: %w", op, err)
	}

	res := newResult[T](resp)
	logger.Debug("received response",
		"status_code", res.StatusCode,
		"response_size", len(res.Text),
		"json", res.IsJSON(),
		"duration", resp.Time())
	return res, nil
}
