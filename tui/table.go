package tui

import (
	"fmt"
	"sort"
	"time"
)

// TablePresenter renders output in table format.
type TablePresenter struct {
	tw        *tableWriter
	color     *Colorizer
	termWidth int
}

// NewTablePresenter creates a new table presenter.
func NewTablePresenter(opts PresenterOptions) *TablePresenter {
	termWidth := opts.TerminalWidth
	if termWidth == 0 {
		termWidth = GetTerminalWidth()
	}
	return &TablePresenter{
		tw:        &tableWriter{w: opts.Writer},
		color:     NewColorizer(opts.UseColors),
		termWidth: termWidth,
	}
}

// RenderStatus renders the gate status.
func (p *TablePresenter) RenderStatus(status *StatusView) error {
	p.tw.printf("%s\n\n", p.color.Header("warden "+status.Version))

	p.tw.printf("%s\n", p.color.Header("Gate"))
	p.tw.printf("  %-18s %s\n", "Mode", status.Mode)
	p.tw.printf("  %-18s %s\n", "Bypass attempts", p.color.Number(FormatNumber(status.BypassAttempts)))
	if status.SecurityViolation {
		p.tw.printf("  %-18s %s\n", "Security state", p.color.Error("VIOLATION (denying all requests until reset)"))
	} else {
		p.tw.printf("  %-18s %s\n", "Security state", p.color.Success("ok"))
	}
	p.tw.println()

	p.tw.printf("%s\n", p.color.Header("Database"))
	p.tw.printf("  %-18s %s\n", "Location", p.color.Path(status.Database.Location))
	p.tw.printf("  %-18s %s\n", "Size", status.Database.SizeHuman)
	p.tw.printf("  %-18s %s\n", "Approvals", p.color.Number(FormatNumber(status.Database.ApprovalCount)))
	p.tw.printf("  %-18s %s\n", "Security events", p.color.Number(FormatNumber(status.Database.SecurityEventCount)))
	if !status.Database.OldestApproval.IsZero() {
		p.tw.printf("  %-18s %s\n", "Oldest", FormatTime(status.Database.OldestApproval))
		p.tw.printf("  %-18s %s\n", "Latest", FormatTime(status.Database.NewestApproval))
	}
	p.tw.println()

	p.tw.printf("%s\n", p.color.Header("Config"))
	p.tw.printf("  %-18s %s\n", "Location", p.color.Path(status.Config.Location))
	p.tw.printf("  %-18s %ds\n", "Timeout", status.Config.TimeoutSeconds)
	p.tw.printf("  %-18s %d\n", "Bypass limit", status.Config.MaxBypassAttempts)
	p.tw.printf("  %-18s %d days\n", "Retention", status.Config.RetentionDays)
	if status.Config.RecordsToClean > 0 {
		p.tw.printf("  %-18s %s records older than %s\n", "To clean",
			p.color.Number(FormatNumber(status.Config.RecordsToClean)),
			FormatTime(status.Config.RetentionCutoff))
	}

	return p.tw.Err()
}

// RenderApprovals renders a list of approval decisions.
func (p *TablePresenter) RenderApprovals(approvals []*ApprovalView) error {
	if len(approvals) == 0 {
		p.tw.println("No approval records found.")
		return p.tw.Err()
	}

	p.tw.printf("Approvals (%d)\n", len(approvals))
	p.tw.println(HorizontalLine(p.termWidth))

	for _, a := range approvals {
		p.tw.printf("%s  %-8s  %-16s %-10s %s\n",
			FormatTimeShort(a.Timestamp),
			p.color.Decision(a.Approved),
			a.OperationType,
			p.color.Risk(a.RiskLevel),
			p.color.Path(a.Target))

		detail := fmt.Sprintf("   session %s", a.ShortSessionID)
		if a.ResponseTimeSeconds > 0 {
			responded := time.Duration(a.ResponseTimeSeconds * float64(time.Second))
			detail += "  *  responded in " + FormatDuration(responded)
		}
		if a.Reason != "" {
			detail += "  *  " + TruncateString(a.Reason, 80)
		}
		p.tw.println(p.color.Dim(detail))
		p.tw.println()
	}

	return p.tw.Err()
}

// RenderSecurityEvents renders a list of security events.
func (p *TablePresenter) RenderSecurityEvents(events []*SecurityEventView) error {
	if len(events) == 0 {
		p.tw.println("No security events found.")
		return p.tw.Err()
	}

	p.tw.printf("Security events (%d)\n", len(events))
	p.tw.println(HorizontalLine(p.termWidth))

	for _, e := range events {
		marker := p.color.Warning(e.EventType)
		if e.Severe {
			marker = p.color.Error(e.EventType)
		}

		p.tw.printf("%s  %-20s %s\n", FormatTimeShort(e.Timestamp), marker, TruncateString(e.Message, 100))

		detail := fmt.Sprintf("   event %s", e.ShortID)
		if e.Target != "" {
			detail += "  *  target " + e.Target
		}
		if e.BypassAttempts > 0 {
			detail += fmt.Sprintf("  *  %d bypass attempts", e.BypassAttempts)
		}
		p.tw.println(p.color.Dim(detail))
		p.tw.println()
	}

	return p.tw.Err()
}

// RenderRetention renders retention enforcement results.
func (p *TablePresenter) RenderRetention(result *RetentionView) error {
	if !result.Enabled {
		p.tw.println("Retention is disabled (retention_days is 0).")
		return p.tw.Err()
	}

	verb := "Deleted"
	if result.DryRun {
		verb = "Would delete"
	}

	p.tw.printf("Retention: %d days (cutoff %s)\n", result.RetentionDays, FormatTime(result.Cutoff))
	p.tw.printf("%s %s approval records and %s security events.\n",
		verb,
		p.color.Number(FormatNumber(result.ApprovalsDeleted)),
		p.color.Number(FormatNumber(result.EventsDeleted)))

	return p.tw.Err()
}

// RenderDoctor renders the doctor check results.
func (p *TablePresenter) RenderDoctor(result *DoctorView) error {
	p.tw.printf("%s\n\n", p.color.Header("Doctor"))

	for _, check := range result.Checks {
		status := p.color.StatusOK()
		switch check.Status {
		case CheckWarn:
			status = p.color.Warning("[??]")
		case CheckFail:
			status = p.color.StatusFail()
		}

		p.tw.printf("%s %-24s %s\n", status, check.Name, check.Message)
		if check.Suggestion != "" {
			p.tw.printf("     %s\n", p.color.Dim(check.Suggestion))
		}
	}

	p.tw.println()
	if result.AllOK {
		p.tw.println(p.color.Success("All checks passed."))
	} else {
		p.tw.println(p.color.Error("Some checks failed."))
	}

	return p.tw.Err()
}

// RenderConfig renders the configuration.
func (p *TablePresenter) RenderConfig(config *ConfigView) error {
	p.tw.printf("%s\n", p.color.Header("Configuration"))
	p.tw.printf("%-20s %s\n\n", "Location", p.color.Path(config.Location))

	keys := sortedKeys(config.Values)
	for _, key := range keys {
		p.tw.printf("%-40s %v\n", key, config.Values[key])
	}

	return p.tw.Err()
}

// RenderError renders an error message.
func (p *TablePresenter) RenderError(err error) error {
	p.tw.printf("%s %v\n", p.color.Error("error:"), err)
	return p.tw.Err()
}

// RenderMessage renders a simple message.
func (p *TablePresenter) RenderMessage(message string) error {
	p.tw.println(message)
	return p.tw.Err()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ensure TablePresenter implements Presenter
var _ Presenter = (*TablePresenter)(nil)
