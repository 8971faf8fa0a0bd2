package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func newTokensCommand(rt *runtimeState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Manage this account's API tokens",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List issued tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokens, err := rt.auth.ListTokens(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(rt.writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDEVICE\tPLATFORM\tEXPIRES\tLAST USED\t")
			for _, t := range tokens {
				id := t.ID
				if t.Current {
					id += " (current)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
					id, t.DeviceName, t.DevicePlatform, formatMillis(t.ExpiresAt), formatMillis(t.LastUsedAt))
			}
			return w.Flush()
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a token by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.auth.DeleteToken(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(rt.writer, "Token deleted.")
			return nil
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}

func newDevicesCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List devices paired with this account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			devices, err := rt.auth.ListDevices(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(rt.writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DEVICE ID\tNAME\tPLATFORM\tLAST USED\t")
			for _, d := range devices {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
					d.DeviceID, d.DeviceName, d.Platform, formatMillis(d.LastUsedAt))
			}
			return w.Flush()
		},
	}
}
