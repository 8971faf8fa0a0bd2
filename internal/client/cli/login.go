package cli

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

// openBrowser is a best-effort attempt to open the verification page.
// Failures are silent; the URL is printed either way.
var openBrowser = func(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

func newLoginCommand(rt *runtimeState) *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log this device in via the browser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			grant, err := rt.auth.StartLogin(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(rt.writer, "Your verification code: %s\n", grant.Code)
			fmt.Fprintf(rt.writer, "Confirm it at: %s\n", grant.VerificationURL)
			if !noBrowser {
				_ = openBrowser(grant.VerificationURL)
			}
			fmt.Fprintln(rt.writer, "Waiting for verification...")

			if err := rt.auth.WaitForVerification(ctx, grant.DeviceCode); err != nil {
				return err
			}

			fmt.Fprintln(rt.writer, "Logged in.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "do not open the browser automatically")
	return cmd
}
