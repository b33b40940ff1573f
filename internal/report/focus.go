package report

import "math"

// focusBreakdown is the percentage split of entries across the explosive,
// strength, and speed buckets. The percentages need not total 100 since
// conditioning, mobility, recovery, and technique work falls outside all
// three buckets.
type focusBreakdown struct {
	powerPct    int
	strengthPct int
	speedPct    int
}

// calculateFocus computes the athletic focus breakdown. Zero exercises yields
// all-zero percentages.
func calculateFocus(entries []LoggedExercise) focusBreakdown {
	total := len(entries)
	if total == 0 {
		return focusBreakdown{powerPct: 0, strengthPct: 0, speedPct: 0}
	}

	var power, strength, speed int
	for _, entry := range entries {
		switch entry.Category {
		case CategoryPlyometrics:
			power++
		case CategoryStrength:
			strength++
		case CategorySpeed, CategoryCOD:
			speed++
		case CategoryConditioning, CategoryMobility, CategoryRecovery, CategoryTechnique:
			// Outside the three focus buckets.
		}
	}

	return focusBreakdown{
		powerPct:    percentage(power, total),
		strengthPct: percentage(strength, total),
		speedPct:    percentage(speed, total),
	}
}

func percentage(count, total int) int {
	return int(math.Round(100 * float64(count) / float64(total)))
}
