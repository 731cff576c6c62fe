package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/wardenhq/warden/core/audit"
	"github.com/wardenhq/warden/storage"
	"github.com/wardenhq/warden/tui"
)

// NewRetentionCmd creates the retention command.
func NewRetentionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retention",
		Short: "Manage audit trail retention",
		Long: `Manage audit trail retention.

Retention is controlled by storage.retention_days. Approval records older
than the cutoff are pruned; security events are kept unless pruning is
explicitly extended to them.`,
	}

	cmd.AddCommand(
		newRetentionStatusCmd(),
		newRetentionCleanupCmd(),
	)

	return cmd
}

func newRetentionStatusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show retention policy and pending cleanup",
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

			app.Presenter = tui.NewPresenter(getFormat(format), tui.PresenterOptions{
				Writer:    cmd.OutOrStdout(),
				UseColors: app.Config.ShouldUseColors(),
			})

			policy := audit.NewRetentionPolicy(app.Config.Storage.RetentionDays)

			view := &tui.RetentionView{
				Enabled:       policy.IsEnabled(),
				RetentionDays: policy.RetentionDays,
				DryRun:        true,
			}

			if policy.IsEnabled() {
				cutoff := policy.CutoffTime()
				view.Cutoff = cutoff

				pending, err := app.Store.CountApprovals(ctx, &storage.ApprovalFilter{Until: &cutoff})
				if err != nil {
					return ErrDatabase("failed to count expired records", err)
				}
				view.ApprovalsDeleted = pending
			}

			return app.Presenter.RenderRetention(view)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	return cmd
}

func newRetentionCleanupCmd() *cobra.Command {
	var (
		dryRun      bool
		pruneEvents bool
		format      string
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete audit records older than the retention cutoff",
		Example: `  warden retention cleanup --dry-run
  warden retention cleanup
  warden retention cleanup --include-events`,
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

			app.Presenter = tui.NewPresenter(getFormat(format), tui.PresenterOptions{
				Writer:    cmd.OutOrStdout(),
				UseColors: app.Config.ShouldUseColors(),
			})

			policy := audit.NewRetentionPolicy(app.Config.Storage.RetentionDays)
			if pruneEvents {
				policy.KeepSecurityEvents = false
			}

			view := &tui.RetentionView{
				Enabled:       policy.IsEnabled(),
				RetentionDays: policy.RetentionDays,
				DryRun:        dryRun,
			}

			if !policy.IsEnabled() {
				if err := app.Presenter.RenderRetention(view); err != nil {
					return err
				}
				return app.Presenter.RenderMessage("Retention is disabled (storage.retention_days = 0); nothing to clean.")
			}

			cutoff := policy.CutoffTime()
			view.Cutoff = cutoff

			if dryRun {
				pending, err := app.Store.CountApprovals(ctx, &storage.ApprovalFilter{Until: &cutoff})
				if err != nil {
					return ErrDatabase("failed to count expired records", err)
				}
				view.ApprovalsDeleted = pending
				return app.Presenter.RenderRetention(view)
			}

			deleted, err := app.Store.DeleteApprovalsBefore(ctx, cutoff)
			if err != nil {
				return ErrDatabase("failed to delete expired approval records", err)
			}
			view.ApprovalsDeleted = deleted

			if !policy.KeepSecurityEvents {
				eventsDeleted, err := app.Store.DeleteSecurityEventsBefore(ctx, cutoff)
				if err != nil {
					return ErrDatabase("failed to delete expired security events", err)
				}
				view.EventsDeleted = eventsDeleted
			}

			return app.Presenter.RenderRetention(view)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be deleted without deleting")
	cmd.Flags().BoolVar(&pruneEvents, "include-events", false, "also prune security events older than the cutoff")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	return cmd
}
