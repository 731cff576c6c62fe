package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wardenhq/warden/core/audit"
	"github.com/wardenhq/warden/tui"
)

// NewResetSecurityCmd creates the reset-security command.
func NewResetSecurityCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reset-security",
		Short: "Clear the security violation state",
		Long: `Clear the security violation state.

When repeated bypass attempts push the gate into violation state, every
subsequent operation is denied until an explicit reset. The reset itself
is recorded in the audit trail.`,
		Example: `  warden reset-security
  warden reset-security --reason "false positive from retry loop"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := loadApp()
			if err != nil {
				return err
			}
			if err := app.InitStore(ctx); err != nil {
				return ErrDatabase("failed to open database", err)
			}
			defer func() {
				_ = app.Close()
			}()

			app.Presenter = tui.NewPresenter(tui.FormatTable, tui.PresenterOptions{
				Writer:    cmd.OutOrStdout(),
				UseColors: app.Config.ShouldUseColors(),
			})

			violated, err := inViolationState(ctx, app.Store)
			if err != nil {
				return err
			}

			message := "security state reset by operator"
			if reason != "" {
				message = fmt.Sprintf("security state reset by operator: %s", reason)
			}

			event := audit.NewSecurityEvent(audit.EventSecurityReset, message)
			app.Recorder().RecordSecurityEvent(ctx, event)

			if !violated {
				return app.Presenter.RenderMessage("No active security violation; reset recorded anyway.")
			}
			return app.Presenter.RenderMessage("Security violation state cleared.")
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason for the reset, recorded in the audit trail")

	return cmd
}
