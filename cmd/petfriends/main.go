package main

import (
	"github.com/loykin/petfriends/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the per-invocation state shared by subcommands.
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "petfriends",
		Short:         "Talk to the PetFriends API and run its black-box checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", constants.DefaultConfigPath, "path to a config yaml")
	pf.String("env-file", constants.DefaultDotEnvPath, "dotenv file with PETFRIENDS_* variables")
	pf.String("base-url", "", "service base URL (default "+constants.DefaultBaseURL+")")
	pf.String("email", "", "account email")
	pf.String("password", "", "account password")
	pf.Duration("timeout", 0, "per-call timeout (0 = none)")
	pf.Bool("insecure", false, "skip TLS certificate verification")
	pf.String("log-level", "", "log level: error, warn, info, debug")
	pf.StringP("output", "o", outputText, "output format: text, json, yaml")
	pf.String("key", "", "reuse this auth key instead of requesting one")

	_ = a.v.BindPFlag("base_url", pf.Lookup("base-url"))
	_ = a.v.BindPFlag("email", pf.Lookup("email"))
	_ = a.v.BindPFlag("password", pf.Lookup("password"))
	_ = a.v.BindPFlag("timeout", pf.Lookup("timeout"))
	_ = a.v.BindPFlag("insecure", pf.Lookup("insecure"))
	_ = a.v.BindPFlag("logging.level", pf.Lookup("log-level"))

	root.AddCommand(
		a.keyCmd(),
		a.petsCmd(),
		a.addCmd(),
		a.setPhotoCmd(),
		a.deleteCmd(),
		a.updateCmd(),
		a.checkCmd(),
		a.fakeCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		exitHandler.LogFatalError(err, "command execution failed")
	}
}
