package approval

import (
	"sync"
	"time"

	"github.com/wardenhq/warden/core/operation"
)

const (
	// bypassWindow is the trailing window for the rate heuristic.
	bypassWindow = 10 * time.Second
	// bypassBurstThreshold is how many identical operation types from the
	// same caller within the window count as suspicious.
	bypassBurstThreshold = 5
)

// Detector flags suspicious request patterns that suggest something is
// trying to drive operations around the gate. It keeps a monotonically
// non-decreasing attempt counter; once the counter reaches the configured
// threshold the detector enters a sticky violation state that persists
// until an explicit reset.
type Detector struct {
	mu          sync.Mutex
	maxAttempts int
	recent      map[bypassKey][]time.Time
	attempts    int
	violated    bool
	now         func() time.Time
}

type bypassKey struct {
	sessionID string
	opType    operation.Type
}

// NewDetector creates a Detector with the given violation threshold.
func NewDetector(maxAttempts int) *Detector {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Detector{
		maxAttempts: maxAttempts,
		recent:      make(map[bypassKey][]time.Time),
		now:         time.Now,
	}
}

// Observe records a request and reports whether it is flagged as a bypass
// attempt: the same operation type from the same session arriving at burst
// rate inside the trailing window. Flagged observations increment the
// attempt counter.
func (d *Detector) Observe(sessionID string, opType operation.Type) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	key := bypassKey{sessionID: sessionID, opType: opType}

	kept := d.recent[key][:0]
	for _, t := range d.recent[key] {
		if now.Sub(t) <= bypassWindow {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	d.recent[key] = kept

	if len(kept) >= bypassBurstThreshold {
		d.flagLocked()
		return true
	}

	return false
}

// Flag records a bypass attempt detected outside the rate heuristic, such
// as redemption of a bad ticket. Returns the updated attempt count.
func (d *Detector) Flag() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.flagLocked()
	return d.attempts
}

func (d *Detector) flagLocked() {
	d.attempts++
	if d.attempts >= d.maxAttempts {
		d.violated = true
	}
}

// Attempts returns the current attempt count.
func (d *Detector) Attempts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attempts
}

// Violated returns true once the attempt counter has reached the threshold.
// The state is sticky until Reset.
func (d *Detector) Violated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.violated
}

// Threshold returns the configured violation threshold.
func (d *Detector) Threshold() int {
	return d.maxAttempts
}

// Reset clears the attempt counter, the violation state, and the rate
// window. This is the explicit administrative reset.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.attempts = 0
	d.violated = false
	d.recent = make(map[bypassKey][]time.Time)
}
