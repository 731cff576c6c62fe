package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/tui"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or modify configuration",
		Long: `View or modify configuration.

Subcommands allow viewing and modifying configuration values. Values
written through 'set' are validated on the next load.`,
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigResetCmd(),
		newConfigPathCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"list"},
		Short:   "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}

			app.Presenter = tui.NewPresenter(getFormat(format), tui.PresenterOptions{
				Writer:    cmd.OutOrStdout(),
				UseColors: app.Config.ShouldUseColors(),
			})

			manager, err := config.NewManager(app.Paths.ConfigFile)
			if err != nil {
				return ErrConfig("failed to read configuration", err)
			}

			view := &tui.ConfigView{
				Location: app.Paths.ConfigFile,
				Values:   manager.AllSettings(),
			}

			return app.Presenter.RenderConfig(view)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get specific config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			app, err := loadApp()
			if err != nil {
				return err
			}

			manager, err := config.NewManager(app.Paths.ConfigFile)
			if err != nil {
				return ErrConfig("failed to read configuration", err)
			}

			if !manager.HasKey(key) {
				return fmt.Errorf("key not found: %s", key)
			}

			fmt.Fprintln(cmd.OutOrStdout(), manager.Get(key))
			return nil
		},
	}

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := config.ParseValue(args[1])

			app, err := loadApp()
			if err != nil {
				return err
			}

			manager, err := config.NewManager(app.Paths.ConfigFile)
			if err != nil {
				return ErrConfig("failed to read configuration", err)
			}

			if err := manager.Set(key, value); err != nil {
				return ErrConfig("failed to write configuration", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, value)
			return nil
		},
	}

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Paths.ConfigFile)
			return nil
		},
	}
}

func newConfigResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset to default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}

			manager, err := config.NewManager(app.Paths.ConfigFile)
			if err != nil {
				return ErrConfig("failed to read configuration", err)
			}

			if err := manager.Reset(); err != nil {
				return ErrConfig("failed to reset configuration", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
			return nil
		},
	}

	return cmd
}
