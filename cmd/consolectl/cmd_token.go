package main

import (
	"fmt"
	"time"

	"ainews-console/internal/features/user"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage stored tokens",
	Long: `Show, set or clear the tokens the console sends to the backend.

Kinds:
  admin - used by the admin screens
  user  - used by the reader pages`,
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Describe both stored tokens",
	Args:  cobra.NoArgs,
	RunE:  runTokenShow,
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <admin|user> <token>",
	Short: "Store a token",
	Args:  cobra.ExactArgs(2),
	RunE:  runTokenSet,
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear <admin|user>",
	Short: "Remove a stored token",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenClear,
}

func init() {
	tokenCmd.AddCommand(tokenShowCmd, tokenSetCmd, tokenClearCmd)
}

func userService() (user.UserService, error) {
	_, store, err := openStore()
	if err != nil {
		return nil, err
	}
	return user.NewUserService(store), nil
}

func runTokenShow(cmd *cobra.Command, args []string) error {
	svc, err := userService()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, id := range svc.Me() {
		switch {
		case !id.Present:
			fmt.Fprintf(out, "%-6s not set\n", id.Kind)
		case id.Opaque:
			fmt.Fprintf(out, "%-6s set (opaque)\n", id.Kind)
		default:
			line := fmt.Sprintf("%-6s set user=%s admin=%t", id.Kind, id.UserID, id.Admin)
			if id.ExpiresAt != nil {
				line += " expires=" + id.ExpiresAt.Format(time.RFC3339)
			}
			if id.Expired {
				line += " (expired)"
			}
			fmt.Fprintln(out, line)
		}
	}
	return nil
}

func runTokenSet(cmd *cobra.Command, args []string) error {
	svc, err := userService()
	if err != nil {
		return err
	}
	if err := svc.SetToken(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s token saved\n", args[0])
	return nil
}

func runTokenClear(cmd *cobra.Command, args []string) error {
	svc, err := userService()
	if err != nil {
		return err
	}
	if err := svc.ClearToken(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s token cleared\n", args[0])
	return nil
}
