package alert

// ShouldFire reports whether an alert's threshold is crossed at the current
// price. Boundary values are inclusive in both directions. Pure function;
// callers are responsible for only passing active alerts whose price lookup
// succeeded this cycle.
func ShouldFire(a Alert, price float64) bool {
	switch a.Direction {
	case Above:
		return price >= a.Target
	case Below:
		return price <= a.Target
	default:
		return false
	}
}
