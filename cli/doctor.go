package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wardenhq/warden/alert"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/storage"
	"github.com/wardenhq/warden/tui"
)

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose installation and configuration problems",
		Long: `Diagnose installation and configuration problems.

Checks the configuration file, the audit database, alert targets, and
whether interactive approval prompts can be shown. Exits non-zero when
any check fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			presenter := tui.NewPresenter(getFormat(format), tui.PresenterOptions{
				Writer:    cmd.OutOrStdout(),
				UseColors: true,
			})

			view := runDoctorChecks(ctx)

			if err := presenter.RenderDoctor(view); err != nil {
				return err
			}
			if !view.AllOK {
				return NewCLIError(ExitGeneral, "one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	return cmd
}

func runDoctorChecks(ctx context.Context) *tui.DoctorView {
	view := &tui.DoctorView{AllOK: true}

	add := func(check tui.DoctorCheck) {
		if check.Status == tui.CheckFail {
			view.AllOK = false
		}
		view.Checks = append(view.Checks, check)
	}

	cfg, err := config.Load(globalFlags.ConfigPath)
	if err != nil {
		add(tui.DoctorCheck{
			Name:        "config",
			Description: "configuration loads and validates",
			Status:      tui.CheckFail,
			Message:     err.Error(),
			Suggestion:  "run 'warden config reset' to restore defaults",
		})
		return view
	}

	paths := config.ResolvePaths()

	configCheck := tui.DoctorCheck{
		Name:        "config",
		Description: "configuration loads and validates",
		Status:      tui.CheckOK,
		Message:     paths.ConfigFile,
	}
	if _, statErr := os.Stat(paths.ConfigFile); os.IsNotExist(statErr) {
		configCheck.Status = tui.CheckWarn
		configCheck.Message = "no config file found; built-in defaults in effect"
		configCheck.Suggestion = "run 'warden config set approval.mode standard' to create one"
	}
	add(configCheck)

	add(checkDatabase(ctx, cfg))
	add(checkAlerts(cfg))

	terminalCheck := tui.DoctorCheck{
		Name:        "terminal",
		Description: "interactive approval prompts available",
		Status:      tui.CheckOK,
		Message:     "stdin and stdout are terminals",
	}
	if !tui.IsInteractive() {
		terminalCheck.Status = tui.CheckWarn
		terminalCheck.Message = "not running in an interactive terminal"
		terminalCheck.Suggestion = "operations requiring approval will be denied in non-interactive runs"
	}
	add(terminalCheck)

	return view
}

func checkDatabase(ctx context.Context, cfg *config.Config) tui.DoctorCheck {
	check := tui.DoctorCheck{
		Name:        "database",
		Description: "audit database opens and migrates",
	}

	store, err := storage.NewSQLiteStore(cfg.GetDatabasePath())
	if err != nil {
		check.Status = tui.CheckFail
		check.Message = err.Error()
		check.Suggestion = "verify the data directory is writable"
		return check
	}
	defer func() {
		_ = store.Close()
	}()

	if err := store.Init(ctx); err != nil {
		check.Status = tui.CheckFail
		check.Message = err.Error()
		check.Suggestion = "the database file may be corrupt; move it aside and retry"
		return check
	}

	info, err := store.GetDatabaseInfo(ctx)
	if err != nil {
		check.Status = tui.CheckFail
		check.Message = err.Error()
		return check
	}

	check.Status = tui.CheckOK
	check.Message = fmt.Sprintf("%s (%s, %d approvals, %d events)",
		info.Path, tui.FormatBytes(info.SizeBytes), info.ApprovalCount, info.SecurityEventCount)
	return check
}

func checkAlerts(cfg *config.Config) tui.DoctorCheck {
	check := tui.DoctorCheck{
		Name:        "alerts",
		Description: "alert targets configured correctly",
	}

	registry, err := alert.FromConfig(cfg.Alerts)
	if err != nil {
		check.Status = tui.CheckFail
		check.Message = err.Error()
		check.Suggestion = "fix the alerts section of the config file"
		return check
	}
	defer func() {
		_ = registry.Close()
	}()

	enabled := len(registry.Enabled())
	check.Status = tui.CheckOK
	check.Message = fmt.Sprintf("%d target(s) configured, %d enabled", len(registry.All()), enabled)
	if enabled == 0 {
		check.Status = tui.CheckWarn
		check.Message = "no alert targets enabled"
		check.Suggestion = "security events will only reach the audit database"
	}
	return check
}
