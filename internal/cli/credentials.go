package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// passwordFlags lets a password come from a flag or from stdin, so it can be
// kept out of shell history
type passwordFlags struct {
	pass      string
	fromStdin bool
}

func (p *passwordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.pass, "pass", "", "Password")
	cmd.Flags().BoolVar(&p.fromStdin, "password-stdin", false, "Read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("pass", "password-stdin")
}

func (p *passwordFlags) resolve(in io.Reader) (string, error) {
	if !p.fromStdin {
		return p.pass, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newRegisterCmd() *cobra.Command {
	var name, user string
	var pw passwordFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := pw.resolve(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if user == "" || pass == "" || name == "" {
				return fmt.Errorf("--name, --user, and a password are required")
			}

			req := map[string]string{
				"displayName": name,
				"username":    user,
				"password":    pass,
			}
			var result RegisterResult

			if err := client.Post(cmd.Context(), "/api/v1/register", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	pw.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var user string
	var pw passwordFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify a username and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := pw.resolve(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if user == "" || pass == "" {
				return fmt.Errorf("--user and a password are required")
			}

			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result LoginResult

			if err := client.Post(cmd.Context(), "/api/v1/login", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	pw.register(cmd)
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
