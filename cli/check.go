package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wardenhq/warden/core/approval"
	"github.com/wardenhq/warden/core/operation"
	"github.com/wardenhq/warden/tui"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var (
		target    string
		content   string
		command   string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "check <operation-type>",
		Short: "Run one operation through the approval gate",
		Long: `Run one operation through the approval gate.

Classifies the operation, applies the configured policy, and prompts
interactively when approval is required. The decision is recorded in the
audit trail. Exits 0 when approved, 4 when denied, 5 when the gate is in
security violation state.

Operation types: file_read, file_list, file_create, file_write,
file_delete, command_exec, package_install, system_modify.`,
		Example: `  warden check file_write --target ./main.go --content "$(cat new.go)"
  warden check command_exec --command "rm -rf build/"
  warden check package_install --target leftpad`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			opType, err := operation.ParseType(args[0])
			if err != nil {
				return WrapError(ExitGeneral, "invalid operation type", err)
			}

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

			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			params := map[string]any{}
			if target != "" {
				params["target"] = target
			}
			if content != "" {
				params["content"] = content
			}
			if command != "" {
				params["command"] = command
				if target == "" {
					params["target"] = command
				}
			}

			gate := approval.NewGate(app.Config, tui.NewPrompter(app.Config),
				approval.WithRecorder(app.Recorder()))

			resp := gate.RequestApproval(ctx, opType, params, sessionID)

			if resp.Approved {
				message := fmt.Sprintf("Approved: %s", resp.Reason)
				if resp.Ticket != nil {
					message += fmt.Sprintf(" (ticket %s, valid until %s)",
						resp.Ticket.ID, resp.Ticket.ExpiresAt.Format("15:04:05"))
				}
				return app.Presenter.RenderMessage(message)
			}

			if kind, ok := resp.Details["error_kind"].(string); ok && kind == approval.ErrorKindSecurityViolation {
				return ErrSecurityViolation(resp.Reason)
			}

			return ErrDenied(resp.Reason)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "target path or resource")
	cmd.Flags().StringVar(&content, "content", "", "content for create/write operations")
	cmd.Flags().StringVar(&command, "command", "", "command line for exec operations")
	cmd.Flags().StringVar(&sessionID, "session", "", "session identifier (generated when empty)")

	return cmd
}
