package component

// HydrogenLHV is the lower heating value of hydrogen in kWh/kg.
const HydrogenLHV = 33.33

// operatingClock accumulates operating hours and counts stack replacements
// each time the cumulative hours cross a multiple of the lifetime.
type operatingClock struct {
	lifetime     float64
	hours        float64
	replacements int
}

// tick adds h operating hours and reports whether a replacement became due.
func (c *operatingClock) tick(h float64) bool {
	c.hours += h
	if c.lifetime <= 0 {
		return false
	}
	due := int(c.hours / c.lifetime)
	if due > c.replacements {
		c.replacements = due
		return true
	}
	return false
}
