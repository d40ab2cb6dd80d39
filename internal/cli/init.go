package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tlog/internal/sqlite"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tlog storage",
		Long:  "Create the configuration and data directories, the database and a settings file with defaults.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(b *sqlite.Backend) error {
				if _, err := os.Stat(a.settings.Path()); os.IsNotExist(err) {
					if err := a.settings.Save(); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
					}
				}

				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return printJSON(out, map[string]string{
						"config_dir": a.configDir,
						"database":   b.Path(),
						"settings":   a.settings.Path(),
					})
				}
				fmt.Fprintln(out, "tlog initialized")
				fmt.Fprintf(out, "  config:   %s\n", a.configDir)
				fmt.Fprintf(out, "  database: %s\n", b.Path())
				fmt.Fprintf(out, "  settings: %s\n", a.settings.Path())
				return nil
			})
		},
	}
}
