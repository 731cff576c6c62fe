package tui

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"

	BrightRed = "\033[91m"
	BoldWhite = "\033[1;37m"
)

// Colorizer wraps text with ANSI color codes if colors are enabled.
type Colorizer struct {
	enabled bool
}

// NewColorizer creates a new Colorizer.
func NewColorizer(enabled bool) *Colorizer {
	return &Colorizer{enabled: enabled}
}

// Apply applies the given color to the text.
func (c *Colorizer) Apply(color, text string) string {
	if !c.enabled {
		return text
	}
	return color + text + Reset
}

// Header formats text as a header.
func (c *Colorizer) Header(text string) string {
	return c.Apply(BoldWhite, text)
}

// Session formats a session identifier.
func (c *Colorizer) Session(text string) string {
	return c.Apply(Cyan, text)
}

// Path formats a file path.
func (c *Colorizer) Path(text string) string {
	return c.Apply(Blue, text)
}

// Success formats success text.
func (c *Colorizer) Success(text string) string {
	return c.Apply(Green, text)
}

// Error formats error text.
func (c *Colorizer) Error(text string) string {
	return c.Apply(Red, text)
}

// Warning formats warning text.
func (c *Colorizer) Warning(text string) string {
	return c.Apply(Yellow, text)
}

// Dim formats secondary/dim text.
func (c *Colorizer) Dim(text string) string {
	return c.Apply(Gray, text)
}

// Number formats numbers/stats.
func (c *Colorizer) Number(text string) string {
	return c.Apply(Yellow, text)
}

// Risk formats a risk level with severity colors.
func (c *Colorizer) Risk(level string) string {
	switch level {
	case "critical":
		return c.Apply(BrightRed, level)
	case "high":
		return c.Apply(Yellow, level)
	default:
		return c.Apply(Green, level)
	}
}

// Decision formats an approval outcome.
func (c *Colorizer) Decision(approved bool) string {
	if approved {
		return c.Apply(Green, "approved")
	}
	return c.Apply(Red, "denied")
}

// StatusOK formats an OK status indicator.
func (c *Colorizer) StatusOK() string {
	return c.Apply(Green, "[ok]")
}

// StatusFail formats a fail status indicator.
func (c *Colorizer) StatusFail() string {
	return c.Apply(Red, "[!!]")
}

// StatusSkip formats a skip status indicator.
func (c *Colorizer) StatusSkip() string {
	return c.Apply(Gray, "[--]")
}
