package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/config"
)

// RunInteractiveLogin prompts for email and password, exchanges them for
// a session token and persists config.
func RunInteractiveLogin(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		return goerr.New("email is required")
	}

	fmt.Fprint(out, "password: ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		return goerr.New("password is required")
	}

	cfg, err := config.LoadOptional()
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.APIURL, "", cfg.Timeout)
	token, err := client.Login(ctx, email, password)
	if err != nil {
		return goerr.Wrap(err, "login failed", goerr.V("email", email))
	}

	cfg.Token = token
	cfg.Email = email
	if err := cfg.Save(); err != nil {
		return goerr.Wrap(err, "save config")
	}

	fmt.Fprintf(out, "logged in as %s\n", email)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `registry login` command.
func LoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the company registry service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunInteractiveLogin(cmd.Context(), os.Stdin, cmd.OutOrStdout())
		},
	}
}
