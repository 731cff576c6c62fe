package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/wardenhq/warden/core/audit"
	"github.com/wardenhq/warden/storage"
	"github.com/wardenhq/warden/tui"
)

// NewEventsCmd creates the events command.
func NewEventsCmd() *cobra.Command {
	var (
		limit     int
		eventType string
		since     string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show security events",
		Long: `Show security events from the audit trail, newest first.

Security events capture bypass attempts, violations, fail-safe triggers,
timeouts and UI failures.`,
		Example: `  warden events
  warden events --type bypass_attempt --since 1h`,
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

			filter := &storage.SecurityEventFilter{
				EventType: audit.EventType(eventType),
				Limit:     limit,
			}

			if since != "" {
				d, err := time.ParseDuration(since)
				if err != nil {
					return WrapError(ExitGeneral, "invalid --since duration", err)
				}
				t := time.Now().Add(-d)
				filter.Since = &t
			}

			events, err := app.Store.QuerySecurityEvents(ctx, filter)
			if err != nil {
				return ErrDatabase("failed to query security events", err)
			}

			views := make([]*tui.SecurityEventView, 0, len(events))
			for _, event := range events {
				views = append(views, tui.NewSecurityEventView(event))
			}

			return app.Presenter.RenderSecurityEvents(views)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of events to show")
	cmd.Flags().StringVar(&eventType, "type", "", "filter by event type")
	cmd.Flags().StringVar(&since, "since", "", "show events newer than this duration (e.g. 1h)")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json, jsonl")

	return cmd
}
