package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/core/approval"
	"github.com/wardenhq/warden/tui/component/prompt"
)

// Prompter presents approval requests as interactive terminal prompts. It
// satisfies the approval gate's UI contract and returns errors instead of
// crashing when no terminal is available.
type Prompter struct {
	cfg *config.Config
}

// NewPrompter creates a Prompter bound to display configuration.
func NewPrompter(cfg *config.Config) *Prompter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Prompter{cfg: cfg}
}

// ShowApprovalRequest presents one confirmation stage and blocks for the
// decision.
func (p *Prompter) ShowApprovalRequest(ctx context.Context, req *approval.Request) (*approval.Response, error) {
	if !IsInteractive() {
		return nil, fmt.Errorf("approval prompt requires an interactive terminal")
	}

	opts := prompt.Options{
		Message:        req.Message,
		StatedRisks:    req.StatedRisks,
		Stage:          req.Stage,
		TotalStages:    req.TotalStages,
		TimeoutWarning: req.TimeoutWarning,
		ShowCountdown:  p.cfg.Display.UseCountdown,
	}

	if req.Operation != nil {
		opts.OperationType = string(req.Operation.OperationType)
		opts.Target = req.Operation.Target
		opts.Description = req.Operation.Description
		opts.RiskLevel = req.Operation.RiskLevel.String()
		if p.cfg.Display.ShowPreview {
			opts.Preview = req.Operation.Preview
		}
	}

	if deadline, ok := ctx.Deadline(); ok {
		opts.Deadline = deadline
	}

	final, err := tea.NewProgram(prompt.New(opts), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("approval prompt failed: %w", err)
	}

	model, ok := final.(prompt.Model)
	if !ok {
		return nil, fmt.Errorf("approval prompt returned unexpected model %T", final)
	}

	if model.Decision() == prompt.DecisionApproved {
		return approval.NewApprovedResponse("approved by user"), nil
	}
	return approval.NewDeniedResponse(""), nil
}

// OfferAlternatives presents the alternatives menu after a rejection and
// returns the selected label, or "" when the user declines all.
func (p *Prompter) OfferAlternatives(ctx context.Context, req *approval.Request, alternatives []approval.Alternative) (string, error) {
	if !IsInteractive() {
		return "", fmt.Errorf("alternatives menu requires an interactive terminal")
	}

	choices := make([]prompt.Choice, 0, len(alternatives))
	for _, alt := range alternatives {
		choices = append(choices, prompt.Choice{
			Label:       alt.Label,
			Description: alt.Description,
		})
	}

	final, err := tea.NewProgram(prompt.NewChoice("Alternatives", choices), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", fmt.Errorf("alternatives menu failed: %w", err)
	}

	model, ok := final.(prompt.ChoiceModel)
	if !ok {
		return "", fmt.Errorf("alternatives menu returned unexpected model %T", final)
	}

	return model.Selected(), nil
}

// Ensure Prompter implements the approval UI contract.
var _ approval.UI = (*Prompter)(nil)
