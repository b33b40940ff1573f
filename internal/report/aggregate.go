package report

import "math"

// Defaults applied when a set record leaves a numeric field unset.
const (
	// defaultReps counts an unlogged rep count as a single effort, e.g. a
	// timed hold or a sprint logged without reps.
	defaultReps = 1
	// neutralRPE is the midpoint effort assumed when no exercise carries an
	// RPE. Zero would penalize sessions where effort simply was not logged.
	neutralRPE = 5.0
)

// AggregateMetrics exposes the metric aggregation for collaborators that
// build request payloads from the same session, e.g. the remote scorer.
func AggregateMetrics(entries []LoggedExercise, durationMin int) SessionMetrics {
	return aggregateMetrics(entries, durationMin)
}

// aggregateMetrics reduces the logged exercises into scalar session totals.
// An empty exercise list yields all-zero metrics except AvgRPE = 5.0.
func aggregateMetrics(entries []LoggedExercise, durationMin int) SessionMetrics {
	var (
		volumeKg   float64
		distanceKm float64
		rpeSum     float64
		rpeCount   int
		completed  int
		planned    int
	)

	for _, entry := range entries {
		planned += entry.PlannedSets
		if entry.RPE != nil {
			rpeSum += *entry.RPE
			rpeCount++
		}

		for _, set := range entry.SetRecords {
			completed++

			reps := defaultReps
			if set.Reps != nil {
				reps = *set.Reps
			}
			if set.LoadKg != nil {
				volumeKg += float64(reps) * *set.LoadKg
			}
			if set.DistanceKm != nil {
				distanceKm += *set.DistanceKm
			}
		}
	}

	avgRPE := neutralRPE
	if rpeCount > 0 {
		avgRPE = roundTo1Decimal(rpeSum / float64(rpeCount))
	}

	metrics := SessionMetrics{
		TotalVolumeKg:   int(math.Round(volumeKg)),
		TotalDistanceKm: nil,
		AvgRPE:          avgRPE,
		SetsCompleted:   completed,
		SetsPlanned:     planned,
		DurationMin:     durationMin,
	}
	// Distance is only reported for sessions that actually contain
	// distance-based work.
	if distanceKm != 0 {
		metrics.TotalDistanceKm = &distanceKm
	}
	return metrics
}

func roundTo1Decimal(v float64) float64 {
	return math.Round(v*10) / 10
}
