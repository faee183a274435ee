// Command csequery looks a user up across the UNSW and CSE directories and
// prints the merged profile as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"csequery/config"
	"csequery/directory"
	"csequery/query"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		authUser   = pflag.StringP("user", "u", "", "authenticate with a different user than the query")
		password   = pflag.StringP("password", "p", "", "password to use to authenticate (rather than prompting)")
		configPath = pflag.String("config", "", "path to a directory configuration file")
		verbose    = pflag.BoolP("verbose", "v", false, "enable debug logging")
	)
	pflag.Parse()

	if pflag.NArg() != 1 {
		return fmt.Errorf("usage: %s [flags] <user>", os.Args[0])
	}
	subject := pflag.Arg(0)

	auth := *authUser
	if auth == "" {
		auth = subject
	}

	secret := *password
	if secret == "" {
		var err error
		secret, err = promptPassword()
		if err != nil {
			return err
		}
	}

	log, err := newLogger(*verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	profile, err := query.New(cfg, log).QueryOther(context.Background(), auth, secret, subject)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return &directory.EncodingError{Err: err}
	}
	fmt.Println(string(out))

	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	// The profile itself goes to stdout; diagnostics stay on stderr.
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Enter LDAP password: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(secret), nil
}
