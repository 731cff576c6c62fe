package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/wardenhq/warden/core/operation"
	"github.com/wardenhq/warden/storage"
	"github.com/wardenhq/warden/tui"
)

// NewLogsCmd creates the logs command.
func NewLogsCmd() *cobra.Command {
	var (
		limit      int
		offset     int
		sessionID  string
		opTypeFlag string
		deniedOnly bool
		since      string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show approval decisions",
		Long: `Show approval decisions from the audit trail, newest first.

Each entry records the operation, its risk classification, the decision,
and how long the user took to respond.`,
		Example: `  warden logs
  warden logs --denied --since 24h
  warden logs --session 7d3c2a1b --format jsonl`,
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

			filter := &storage.ApprovalFilter{
				SessionID:  sessionID,
				DeniedOnly: deniedOnly,
				Limit:      limit,
				Offset:     offset,
			}

			if opTypeFlag != "" {
				opType, err := operation.ParseType(opTypeFlag)
				if err != nil {
					return WrapError(ExitGeneral, "invalid operation type", err)
				}
				filter.OperationType = opType
			}

			if since != "" {
				d, err := time.ParseDuration(since)
				if err != nil {
					return WrapError(ExitGeneral, "invalid --since duration", err)
				}
				t := time.Now().Add(-d)
				filter.Since = &t
			}

			records, err := app.Store.QueryApprovals(ctx, filter)
			if err != nil {
				return ErrDatabase("failed to query approval records", err)
			}

			views := make([]*tui.ApprovalView, 0, len(records))
			for _, record := range records {
				views = append(views, tui.NewApprovalView(record))
			}

			return app.Presenter.RenderApprovals(views)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of records to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of records to skip")
	cmd.Flags().StringVar(&sessionID, "session", "", "filter by session identifier")
	cmd.Flags().StringVar(&opTypeFlag, "type", "", "filter by operation type")
	cmd.Flags().BoolVar(&deniedOnly, "denied", false, "show only denied operations")
	cmd.Flags().StringVar(&since, "since", "", "show records newer than this duration (e.g. 24h)")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json, jsonl")

	return cmd
}
