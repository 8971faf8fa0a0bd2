package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commis-dev/commis/internal/common"
)

func newWhoamiCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account this device is logged in as",
		RunE: func(cmd *cobra.Command, _ []string) error {
			me, err := rt.auth.WhoAmI(cmd.Context())
			if err != nil {
				if errors.Is(err, common.ErrNotAuthenticated) {
					return errors.New("not logged in, run `commis login` first")
				}
				return err
			}
			fmt.Fprintf(rt.writer, "%s <%s>\n", me.Name, me.Email)
			return nil
		},
	}
}
