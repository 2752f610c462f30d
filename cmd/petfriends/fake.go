package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loykin/petfriends/internal/fakeapi"
	"github.com/loykin/petfriends/internal/fakeapi/store"
	"github.com/spf13/cobra"
)

func (a *app) fakeCmd() *cobra.Command {
	var (
		listen string
		dbPath string
		secret string
		keyTTL time.Duration
	)
	cmd := &cobra.Command{
		Use:   "fake",
		Short: "Serve a local emulator of the PetFriends API",
		Long: "Serve a local emulator of the PetFriends API. The configured email and " +
			"password are registered as a user, so `petfriends check --base-url` can target it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings(cmd)
			if err != nil {
				return err
			}
			gin.SetMode(gin.ReleaseMode)

			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			opts := fakeapi.Options{Secret: []byte(secret), KeyTTL: keyTTL}
			if creds, err := s.RequireCredentials(); err == nil {
				opts.Users = append(opts.Users, fakeapi.User{Email: creds.Email, Password: creds.Password})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := fakeapi.New(ctx, st, opts)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8080", "address to listen on")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite file for users and pets (default in-memory)")
	cmd.Flags().StringVar(&secret, "secret", "", "key signing secret (default random)")
	cmd.Flags().DurationVar(&keyTTL, "key-ttl", 0, "auth key lifetime (0 = never expires)")
	return cmd
}
