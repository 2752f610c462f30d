package petfriends

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// ErrNotJSON marks a body that is empty, JSON null or not JSON at all.
var ErrNotJSON = errors.New("petfriends: response body is not JSON")

// Result is the outcome of one call. StatusCode and Text are always set.
// When the body decodes as JSON into T, Value is non-nil; otherwise Value is
// nil, DecodeErr says why, and Text holds what the server sent.
type Result[T any] struct {
	StatusCode int
	Value      *T
	Text       string
	DecodeErr  error
	Header     http.Header
}

func newResult[T any](resp *resty.Response) *Result[T] {
	body := resp.Body()
	r := &Result[T]{
		StatusCode: resp.StatusCode(),
		Text:       string(body),
		Header:     resp.Header(),
	}
	if len(strings.TrimSpace(r.Text)) == 0 || !gjson.ValidBytes(body) || gjson.ParseBytes(body).Type == gjson.Null {
		r.DecodeErr = ErrNotJSON
		return r
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		r.DecodeErr = err
		return r
	}
	r.Value = &v
	return r
}

// IsJSON reports whether the body decoded into the typed value.
func (r *Result[T]) IsJSON() bool {
	return r != nil && r.Value != nil
}

// OK reports a 2xx status.
func (r *Result[T]) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Contains reports whether the raw body contains substr.
func (r *Result[T]) Contains(substr string) bool {
	return r != nil && strings.Contains(r.Text, substr)
}

// Get looks up a gjson path in the raw body. It works even when the body did
// not fit T, as long as it is JSON.
func (r *Result[T]) Get(path string) gjson.Result {
	if r == nil {
		return gjson.Result{}
	}
	return gjson.Get(r.Text, path)
}

// Has reports whether path exists in a JSON body.
func (r *Result[T]) Has(path string) bool {
	return r.Get(path).Exists()
}

// Bytes returns the raw body.
func (r *Result[T]) Bytes() []byte {
	if r == nil {
		return nil
	}
	return []byte(r.Text)
}
