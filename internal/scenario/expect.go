package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/loykin/petfriends"
	"github.com/loykin/petfriends/internal/util"
	"github.com/tidwall/gjson"
)

// Expect describes what a response must look like. Zero fields are not
// checked, so an empty Expect accepts anything.
type Expect struct {
	// Status lists the allowed status codes.
	Status []int
	// Contains must appear verbatim in the raw body.
	Contains string
	// Paths must exist in a JSON body (gjson syntax).
	Paths []string
	// NonEmpty paths must exist and hold a non-empty string, array or object.
	NonEmpty []string
	// Equals maps gjson paths to their expected string form.
	Equals map[string]string
}

// Check validates status and body and reports every mismatch at once.
func (e Expect) Check(status int, body string) error {
	var errs []error
	if err := e.checkStatus(status); err != nil {
		errs = append(errs, err)
	}
	if e.Contains != "" && !strings.Contains(body, e.Contains) {
		errs = append(errs, fmt.Errorf("body does not contain %q: %s", e.Contains, util.Truncate(body, 200)))
	}

	if len(e.Paths)+len(e.NonEmpty)+len(e.Equals) > 0 {
		if !gjson.Valid(body) {
			errs = append(errs, fmt.Errorf("body is not JSON: %s", util.Truncate(body, 200)))
			return errors.Join(errs...)
		}
		parsed := gjson.Parse(body)
		for _, p := range e.Paths {
			if !parsed.Get(p).Exists() {
				errs = append(errs, fmt.Errorf("missing path %q", p))
			}
		}
		for _, p := range e.NonEmpty {
			if !nonEmpty(parsed.Get(p)) {
				errs = append(errs, fmt.Errorf("path %q is missing or empty", p))
			}
		}
		for p, want := range e.Equals {
			got := parsed.Get(p)
			if !got.Exists() {
				errs = append(errs, fmt.Errorf("missing path %q", p))
				continue
			}
			if got.String() != want {
				errs = append(errs, fmt.Errorf("path %q = %q, want %q", p, util.Truncate(got.String(), 80), util.Truncate(want, 80)))
			}
		}
	}
	return errors.Join(errs...)
}

func (e Expect) checkStatus(status int) error {
	if len(e.Status) == 0 {
		return nil
	}
	for _, s := range e.Status {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("status %d not in allowed set %v", status, e.Status)
}

func nonEmpty(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch {
	case r.IsArray():
		return len(r.Array()) > 0
	case r.IsObject():
		return len(r.Map()) > 0
	case r.Type == gjson.Null:
		return false
	default:
		return r.String() != ""
	}
}

// verify applies e to a client result.
func verify[T any](res *petfriends.Result[T], e Expect) error {
	if res == nil {
		return errors.New("no response")
	}
	return e.Check(res.StatusCode, res.Text)
}
