package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/wardenhq/warden/core/audit"
	"github.com/wardenhq/warden/internal/version"
	"github.com/wardenhq/warden/storage"
	"github.com/wardenhq/warden/tui"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show gate status and audit trail summary",
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

			view, err := buildStatusView(ctx, app)
			if err != nil {
				return err
			}

			return app.Presenter.RenderStatus(view)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	return cmd
}

func buildStatusView(ctx context.Context, app *App) (*tui.StatusView, error) {
	info, err := app.Store.GetDatabaseInfo(ctx)
	if err != nil {
		return nil, ErrDatabase("failed to read database info", err)
	}

	bypassCount, err := app.Store.CountSecurityEvents(ctx, &storage.SecurityEventFilter{
		EventType: audit.EventBypassAttempt,
	})
	if err != nil {
		return nil, ErrDatabase("failed to count bypass attempts", err)
	}

	violated, err := inViolationState(ctx, app.Store)
	if err != nil {
		return nil, err
	}

	policy := audit.NewRetentionPolicy(app.Config.Storage.RetentionDays)

	view := &tui.StatusView{
		Version:           version.Version,
		Mode:              string(app.Config.Approval.Mode),
		BypassAttempts:    bypassCount,
		SecurityViolation: violated,
		Database: tui.DatabaseView{
			Location:           info.Path,
			SizeBytes:          info.SizeBytes,
			SizeHuman:          tui.FormatBytes(info.SizeBytes),
			ApprovalCount:      info.ApprovalCount,
			SecurityEventCount: info.SecurityEventCount,
			OldestApproval:     info.OldestApproval,
			NewestApproval:     info.NewestApproval,
		},
		Config: tui.ConfigStatusView{
			Location:          app.Paths.ConfigFile,
			Mode:              string(app.Config.Approval.Mode),
			TimeoutSeconds:    app.Config.Approval.TimeoutSeconds,
			MaxBypassAttempts: app.Config.Approval.MaxBypassAttempts,
			RetentionDays:     app.Config.Storage.RetentionDays,
		},
	}

	if policy.IsEnabled() {
		cutoff := policy.CutoffTime()
		view.Config.RetentionCutoff = cutoff

		toClean, err := app.Store.CountApprovals(ctx, &storage.ApprovalFilter{Until: &cutoff})
		if err != nil {
			return nil, ErrDatabase("failed to count expired records", err)
		}
		view.Config.RecordsToClean = toClean
	}

	return view, nil
}

// inViolationState reports whether a security violation has been recorded
// more recently than the last administrative reset.
func inViolationState(ctx context.Context, store storage.Store) (bool, error) {
	violations, err := store.QuerySecurityEvents(ctx, &storage.SecurityEventFilter{
		EventType: audit.EventSecurityViolation,
		Limit:     1,
	})
	if err != nil {
		return false, ErrDatabase("failed to query security events", err)
	}
	if len(violations) == 0 {
		return false, nil
	}

	resets, err := store.QuerySecurityEvents(ctx, &storage.SecurityEventFilter{
		EventType: audit.EventSecurityReset,
		Limit:     1,
	})
	if err != nil {
		return false, ErrDatabase("failed to query security events", err)
	}
	if len(resets) == 0 {
		return true, nil
	}

	return violations[0].Timestamp.After(resets[0].Timestamp), nil
}
