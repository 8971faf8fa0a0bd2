// Package cli implements the Commis command-line interface on top of the
// auth service.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/commis-dev/commis/internal/client/api"
	"github.com/commis-dev/commis/internal/client/config"
	"github.com/commis-dev/commis/internal/client/credstore"
	"github.com/commis-dev/commis/internal/client/services"
)

type runtimeState struct {
	configPath     string
	serverOverride string
	cfg            *config.Config
	auth           *services.AuthService
	writer         io.Writer
}

// NewRootCommand builds the commis root command with all subcommands
// registered. writer receives command output (os.Stdout in production).
func NewRootCommand(writer io.Writer) *cobra.Command {
	rt := &runtimeState{writer: writer}

	root := &cobra.Command{
		Use:           "commis",
		Short:         "Commis CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			cfg, err := config.Load(rt.configPath)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			if rt.serverOverride != "" {
				cfg.ServerURL = rt.serverOverride
			}
			rt.cfg = cfg

			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			rt.auth = services.NewAuthService(api.NewClient(cfg.ServerURL), store, cfg.PollInterval, cfg.PollAttempts)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&rt.serverOverride, "server", "", "server base URL")

	root.AddCommand(
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newWhoamiCommand(rt),
		newRegisterCommand(rt),
		newTokensCommand(rt),
		newDevicesCommand(rt),
	)

	return root
}

func newStore(cfg *config.Config) (credstore.Store, error) {
	switch cfg.CredentialsBackend {
	case "keyring":
		return credstore.NewKeyringStore(), nil
	case "file", "":
		return credstore.NewFileStore(cfg.CredentialsPath)
	default:
		return nil, fmt.Errorf("unknown credentials backend %q", cfg.CredentialsBackend)
	}
}
