package domain

// Badge thresholds. Badges are a pure function of the current aggregate, so
// re-evaluating the same state yields the same set and assignment stays
// idempotent under retries.
var (
	eventBadges = []struct {
		min  int
		name string
	}{
		{1, "first-steps"},
		{5, "committed"},
		{10, "dedicated"},
	}

	hourBadges = []struct {
		min  float64
		name string
	}{
		{10, "bronze-hours"},
		{25, "silver-hours"},
		{50, "gold-hours"},
		{100, "century-club"},
	}
)

// BadgesFor returns every badge earned by the given aggregate state, in a
// stable order.
func BadgesFor(eventsJoined int, hoursVolunteered float64) []string {
	var out []string
	for _, b := range eventBadges {
		if eventsJoined >= b.min {
			out = append(out, b.name)
		}
	}
	for _, b := range hourBadges {
		if hoursVolunteered >= b.min {
			out = append(out, b.name)
		}
	}
	return out
}
