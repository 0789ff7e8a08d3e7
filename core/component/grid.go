package component

// Grid is the public grid connection. Its capacity is unlimited; availability
// is only gated by an optional blackout series.
type Grid struct {
	name     string
	blackout []bool
	feedIn   bool
}

// NewGrid returns a grid connection. A nil blackout series means the grid is
// always available.
func NewGrid(name string, blackout []bool, feedIn bool) (*Grid, error) {
	if name == "" {
		return nil, invalid("grid", "name is required")
	}
	var cp []bool
	if blackout != nil {
		cp = make([]bool, len(blackout))
		copy(cp, blackout)
	}
	return &Grid{name: name, blackout: cp, feedIn: feedIn}, nil
}

func (g *Grid) Name() string { return g.name }

// FeedIn reports whether surplus renewable power may be exported.
func (g *Grid) FeedIn() bool { return g.feedIn }

// HasBlackouts reports whether a blackout series was configured.
func (g *Grid) HasBlackouts() bool { return g.blackout != nil }

// Blackout reports whether the grid is down during step.
func (g *Grid) Blackout(step int) bool {
	if step < 0 || step >= len(g.blackout) {
		return false
	}
	return g.blackout[step]
}

// BlackoutLen returns the length of the blackout series.
func (g *Grid) BlackoutLen() int { return len(g.blackout) }
