package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/ubuntu-bootstrap/internal/config"
)

// attachInitConfigCommand adds the `init-config` subcommand writing a
// settings file with defaults, ready for the operator to edit.
func attachInitConfigCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "init-config",
		Short: "Write a settings file with default values.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			cfg.ExtraUsers = extraUsers

			if err := config.Save(configPath, cfg); err != nil {
				return err
			}

			path := configPath
			if path == "" {
				path = config.DefaultConfigFilename
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", path)

			return nil
		},
	})
}
