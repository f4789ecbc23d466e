package diag

// Collector accumulates diagnostics for a single module, enforcing
// max_errors_per_module: once Cap diagnostics have been
// added, further ones are dropped and a single synthetic TC000
// "diagnostics truncated" note is appended, keeping the
// output deterministic no matter how many were dropped.
// A Cap of 0 means unlimited.
type Collector struct {
	Cap         int
	items       []Diagnostic
	truncated   bool
}

// NewCollector creates a Collector bounded at cap diagnostics (0 = no
// bound).
func NewCollector(cap int) *Collector {
	return &Collector{Cap: cap}
}

// Add records d, unless the cap has already been reached.
func (c *Collector) Add(d Diagnostic) {
	if c.Cap > 0 && len(c.items) >= c.Cap {
		c.truncated = true
		return
	}
	c.items = append(c.items, d)
}

// Diagnostics returns the collected diagnostics, with a trailing TC000
// note appended if any were dropped.
func (c *Collector) Diagnostics() []Diagnostic {
	if !c.truncated {
		return c.items
	}
	out := append([]Diagnostic(nil), c.items...)
	out = append(out, Diagnostic{
		Code:    TC000,
		Phase:   PhaseInfer,
		Message: "diagnostics truncated for this module: max_errors_per_module reached",
	})
	return out
}

// Len returns the number of diagnostics actually recorded (excluding
// the synthetic truncation note).
func (c *Collector) Len() int { return len(c.items) }

// Truncated reports whether the cap was hit.
func (c *Collector) Truncated() bool { return c.truncated }
