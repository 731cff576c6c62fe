package alert

import (
	"context"
	"fmt"
	"sync"

	"github.com/safedep/dry/log"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/core/audit"
)

// Registry manages registered alert targets and fans severe security
// events out to every enabled one. It satisfies audit.Alerter so it can be
// attached directly to a Recorder.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]Target
}

// NewRegistry creates a new alert target registry.
func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[string]Target),
	}
}

// FromConfig builds a registry from alert target configuration. Unknown
// target types are an error; the caller decides whether that is fatal.
func FromConfig(cfg config.AlertsConfig) (*Registry, error) {
	registry := NewRegistry()

	for _, tc := range cfg.Targets {
		switch tc.Type {
		case TargetTypeStdout:
			registry.Register(NewStdoutTarget(tc.Name, tc.Enabled))
		case TargetTypeNop:
			registry.Register(NewNopTarget(tc.Name, tc.Enabled))
		default:
			return nil, fmt.Errorf("unknown alert target type %q for target %q", tc.Type, tc.Name)
		}
	}

	return registry, nil
}

// Register adds a target to the registry.
func (r *Registry) Register(target Target) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.targets[target.Name()] = target
}

// Get retrieves a target by name.
func (r *Registry) Get(name string) (Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target, ok := r.targets[name]
	return target, ok
}

// All returns all registered targets.
func (r *Registry) All() []Target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	targets := make([]Target, 0, len(r.targets))
	for _, t := range r.targets {
		targets = append(targets, t)
	}

	return targets
}

// Enabled returns all enabled targets.
func (r *Registry) Enabled() []Target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var targets []Target
	for _, t := range r.targets {
		if t.Enabled() {
			targets = append(targets, t)
		}
	}

	return targets
}

// Alert delivers the event to every enabled target. Delivery failures are
// logged, never propagated: alerting must not affect the decision path.
func (r *Registry) Alert(ctx context.Context, event *audit.SecurityEvent) {
	for _, target := range r.Enabled() {
		if err := target.Send(ctx, event); err != nil {
			log.Errorf("failed to deliver alert to target %s: %v", target.Name(), err)
		}
	}
}

// Close closes all registered targets, returning the first error.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, target := range r.targets {
		if err := target.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

var _ audit.Alerter = (*Registry)(nil)
