package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mexbridge/mexbridge/application/schema"
	"github.com/mexbridge/mexbridge/domain/entities"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the runtime configuration",
	}

	cmd.AddCommand(newConfigShowCommand(rootOpts))
	cmd.AddCommand(newConfigSchemaCommand())
	cmd.AddCommand(newConfigInitCommand(rootOpts))

	return cmd
}

func newConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the runtime configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.store(false).Load()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal runtime config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newConfigSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the runtime configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := schema.RuntimeConfigSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}

func newConfigInitCommand(rootOpts *RootOptions) *cobra.Command {
	var cfg entities.RuntimeConfig

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a runtime configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := rootOpts.store(true)
			if err := store.Save(&cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", store.ConfigPath())
			return err
		},
	}

	cmd.Flags().StringVar(&cfg.RuntimeHome, "home", "", "runtime home directory (required)")
	cmd.Flags().StringVar(&cfg.SysImage, "sysimage", "", "system image loaded at bootstrap")
	cmd.Flags().StringVar(&cfg.LibPath, "lib", "", "runtime shared library or module")
	_ = cmd.MarkFlagRequired("home")

	return cmd
}
