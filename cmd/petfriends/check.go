package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/loykin/petfriends"
	"github.com/loykin/petfriends/internal/scenario"
	"github.com/spf13/cobra"
)

// errChecksFailed is returned when at least one case failed.
var errChecksFailed = errors.New("checks failed")

func (a *app) checkCmd() *cobra.Command {
	var (
		patterns []string
		list     bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the black-box suite against the configured endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := scenario.Select(scenario.Cases(), patterns)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if list {
				for _, c := range cases {
					_, _ = fmt.Fprintf(w, "%-32s %s\n", c.ID(), c.Description)
				}
				return nil
			}

			s, err := a.settings(cmd)
			if err != nil {
				return err
			}
			creds, err := s.RequireCredentials()
			if err != nil {
				return err
			}
			env := scenario.Env{
				Client: petfriends.New(s.ClientConfig()),
				Creds:  creds,
				JPEG:   s.Images.JPEG,
				GIF:    s.Images.GIF,
			}
			if err := env.Validate(); err != nil {
				return err
			}

			outcomes := scenario.Run(cmd.Context(), env, cases)
			for _, o := range outcomes {
				if o.Passed() {
					_, _ = fmt.Fprintf(w, "PASS %s (%s)\n", o.Case, o.Duration.Round(time.Millisecond))
				} else {
					_, _ = fmt.Fprintf(w, "FAIL %s (%s): %v\n", o.Case, o.Duration.Round(time.Millisecond), o.Err)
				}
			}
			failed := scenario.Failed(outcomes)
			_, _ = fmt.Fprintf(w, "%d passed, %d failed\n", len(outcomes)-failed, failed)
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errChecksFailed, failed, len(outcomes))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&patterns, "run", nil, "run only cases matching group or group/name glob (repeatable)")
	cmd.Flags().BoolVar(&list, "list", false, "list the selected cases without running them")
	return cmd
}
