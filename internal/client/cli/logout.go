package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke this device's token and clear cached credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(rt.writer, "Logged out.")
			return nil
		},
	}
}
