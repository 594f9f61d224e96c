// FILE: tplog/src/cmd/tplog/commands/token.go
package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"tplog/src/internal/admin"

	"golang.org/x/term"
)

const defaultTokenTTL = 24 * time.Hour

// TokenCommand mints bearer tokens for the admin endpoint
type TokenCommand struct {
	output io.Writer
	errOut io.Writer
}

func NewTokenCommand() *TokenCommand {
	return &TokenCommand{
		output: os.Stdout,
		errOut: os.Stderr,
	}
}

func (tc *TokenCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("token", flag.ContinueOnError)
	cmd.SetOutput(tc.errOut)

	var (
		secret      = cmd.String("s", "", "Admin jwt_secret (prompted if not provided)")
		secretLong  = cmd.String("secret", "", "Admin jwt_secret (prompted if not provided)")
		subject     = cmd.String("u", "", "Token subject")
		subjectLong = cmd.String("subject", "", "Token subject")
		ttl         = cmd.Duration("ttl", defaultTokenTTL, "Token lifetime")
	)

	cmd.Usage = func() {
		fmt.Fprint(tc.errOut, tc.Help())
		fmt.Fprintln(tc.errOut, "\nOptions:")
		cmd.PrintDefaults()
	}

	if err := cmd.Parse(args); err != nil {
		return err
	}
	if cmd.NArg() > 0 {
		return fmt.Errorf("unexpected argument(s): %s", strings.Join(cmd.Args(), " "))
	}

	finalSecret := coalesceString(*secret, *secretLong, os.Getenv("TPLOG_ADMIN_JWT_SECRET"))
	if finalSecret == "" {
		prompted, err := tc.promptSecret()
		if err != nil {
			return err
		}
		finalSecret = prompted
	}

	token, err := admin.IssueToken(finalSecret, coalesceString(*subject, *subjectLong, "admin"), *ttl)
	if err != nil {
		return err
	}

	fmt.Fprintln(tc.output, token)
	return nil
}

func (tc *TokenCommand) promptSecret() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no secret given and stdin is not a terminal")
	}

	fmt.Fprint(tc.errOut, "Enter jwt_secret: ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(tc.errOut)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	if len(secret) == 0 {
		return "", fmt.Errorf("secret is empty")
	}
	return string(secret), nil
}

func (tc *TokenCommand) Description() string {
	return "Generate an admin API bearer token"
}

func (tc *TokenCommand) Help() string {
	return `Token Command - Generate an HS256 bearer token for the admin API

Usage:
  tplog token [options]

The secret must match [admin] jwt_secret. It is read from -secret,
then TPLOG_ADMIN_JWT_SECRET, then prompted on the terminal.

Examples:
  tplog token -u ops -ttl 1h
  curl -H "Authorization: Bearer $(tplog token -s $SECRET)" http://127.0.0.1:8089/stats
`
}
