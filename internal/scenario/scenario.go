// Package scenario holds the PetFriends black-box suite as data. Each Case
// drives the client through a short sequence of calls and checks the answers,
// so the same cases run from go test and from the CLI.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/loykin/petfriends"
	"github.com/loykin/petfriends/internal/common"
)

// ErrNoOwnPets fails cases that need a pet of the test user when there is none.
var ErrNoOwnPets = errors.New("there are no own pets")

// Env is what every case runs against.
type Env struct {
	Client *petfriends.Client
	// Creds is the valid fixture account.
	Creds petfriends.Credentials
	// JPEG and GIF are paths of the photo fixtures.
	JPEG string
	GIF  string
}

// Validate reports missing pieces of the environment.
func (e Env) Validate() error {
	var errs []error
	if e.Client == nil {
		errs = append(errs, errors.New("client is required"))
	}
	if strings.TrimSpace(e.Creds.Email) == "" || strings.TrimSpace(e.Creds.Password) == "" {
		errs = append(errs, errors.New("email and password are required"))
	}
	if e.JPEG == "" || e.GIF == "" {
		errs = append(errs, errors.New("jpeg and gif fixtures are required"))
	}
	return errors.Join(errs...)
}

// Case is one check of the suite.
type Case struct {
	Group       string
	Name        string
	Description string
	Run         func(ctx context.Context, env Env) error
}

// ID is group/name, the form Select matches against.
func (c Case) ID() string {
	return c.Group + "/" + c.Name
}

// Outcome is the result of running one Case.
type Outcome struct {
	Case     string
	Err      error
	Duration time.Duration
}

func (o Outcome) Passed() bool { return o.Err == nil }

// Run executes cases in order and returns one Outcome each. A failing case
// does not stop the run; a cancelled ctx marks the remaining cases as failed.
func Run(ctx context.Context, env Env, cases []Case) []Outcome {
	logger := common.GetLogger().WithComponent("scenario")
	out := make([]Outcome, 0, len(cases))
	for _, c := range cases {
		cl := logger.WithCase(c.ID())
		if err := ctx.Err(); err != nil {
			out = append(out, Outcome{Case: c.ID(), Err: err})
			continue
		}
		start := time.Now()
		err := c.Run(ctx, env)
		o := Outcome{Case: c.ID(), Err: err, Duration: time.Since(start)}
		if err != nil {
			cl.Warn("case failed", "error", err, "duration", o.Duration)
		} else {
			cl.Debug("case passed", "duration", o.Duration)
		}
		out = append(out, o)
	}
	return out
}

// Failed counts failed outcomes.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.Passed() {
			n++
		}
	}
	return n
}

// Select keeps the cases matching any of patterns, in their original order.
// A pattern without a slash matches whole groups; otherwise it is matched
// against group/name, with '/' as the glob separator. No patterns selects
// everything.
func Select(cases []Case, patterns []string) ([]Case, error) {
	if len(patterns) == 0 {
		return cases, nil
	}
	type matcher struct {
		glob.Glob
		byGroup bool
	}
	matchers := make([]matcher, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		matchers = append(matchers, matcher{Glob: g, byGroup: !strings.Contains(p, "/")})
	}
	var out []Case
	for _, c := range cases {
		for _, m := range matchers {
			target := c.ID()
			if m.byGroup {
				target = c.Group
			}
			if m.Match(target) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}
