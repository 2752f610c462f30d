package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/loykin/petfriends"
	"github.com/loykin/petfriends/internal/config"
	"github.com/loykin/petfriends/internal/util"
	"github.com/spf13/cobra"
)

// settings loads the configuration for this run and installs its logger.
func (a *app) settings(cmd *cobra.Command) (*config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	dotenv, _ := cmd.Flags().GetString("env-file")
	s, err := config.Load(a.v, path, dotenv)
	if err != nil {
		return nil, err
	}
	if err := s.SetupLogging(); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) client(cmd *cobra.Command) (*petfriends.Client, *config.Settings, error) {
	s, err := a.settings(cmd)
	if err != nil {
		return nil, nil, err
	}
	return petfriends.New(s.ClientConfig()), s, nil
}

// authKey returns the --key value, or requests a key with the configured
// credentials.
func authKey(ctx context.Context, cmd *cobra.Command, c *petfriends.Client, s *config.Settings) (petfriends.AuthKey, error) {
	if key, _ := cmd.Flags().GetString("key"); strings.TrimSpace(key) != "" {
		return petfriends.AuthKey{Key: key}, nil
	}
	creds, err := s.RequireCredentials()
	if err != nil {
		return petfriends.AuthKey{}, err
	}
	res, err := c.GetAPIKey(ctx, creds)
	if err != nil {
		return petfriends.AuthKey{}, err
	}
	if !res.IsJSON() || res.Value.Key == "" {
		return petfriends.AuthKey{}, fmt.Errorf("get api key: status %d: %s", res.StatusCode, util.Truncate(res.Text, 200))
	}
	return *res.Value, nil
}

// withKey is the common shape of the API subcommands: build a client, obtain
// a key, call the API and print what came back.
func (a *app) withKey(cmd *cobra.Command, call func(ctx context.Context, c *petfriends.Client, key petfriends.AuthKey) (status int, body string, err error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, s, err := a.client(cmd)
	if err != nil {
		return err
	}
	key, err := authKey(ctx, cmd, c, s)
	if err != nil {
		return err
	}
	status, body, err := call(ctx, c, key)
	if err != nil {
		return err
	}
	return printResult(cmd, status, body)
}
