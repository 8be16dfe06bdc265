package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/drawpad/internal/config"
)

func newConfigCmd(r *root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or save the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), r.config.String())
			return nil
		},
	}, &cobra.Command{
		Use:   "save",
		Short: "Write the current configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSave(cmd, r)
		},
	})
	return cmd
}

func runConfigSave(cmd *cobra.Command, r *root) error {
	// If loader found a config file, save there
	path := config.NewLoader(version, r.configPath).GetConfigPath()
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("no config path: home directory unknown")
	}
	if err := config.Save(r.config, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
	return nil
}
