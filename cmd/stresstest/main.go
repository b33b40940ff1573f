// Command stresstest hammers the analyze endpoint with concurrent sessions
// and reports the success rate.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mleino/teamtrain/internal/logging"
	"github.com/mleino/teamtrain/internal/ptr"
	"github.com/mleino/teamtrain/internal/report"
	"github.com/mleino/teamtrain/internal/testhelpers"
)

const (
	requestTimeout         = 10 * time.Second
	maxConcurrentRequests  = 20
	totalRequests          = 200
	successRateThreshold   = 95.0
	percentageMultiplier   = 100
	baseLoadKg             = 40.0
	loadRangeKg            = 60
	baseReps               = 5
	repsRange              = 8
	expectedArgsCount      = 2
	sessionDurationBaseMin = 20
	sessionDurationRange   = 50
)

var categories = []report.Category{ //nolint:gochecknoglobals // fixture pool.
	report.CategoryStrength,
	report.CategoryPlyometrics,
	report.CategorySpeed,
	report.CategoryConditioning,
	report.CategoryMobility,
}

var positions = []report.AthletePosition{ //nolint:gochecknoglobals // fixture pool.
	report.PositionSkill,
	report.PositionLine,
	report.PositionHybrid,
}

// randomSession builds a plausible logged session.
func randomSession() map[string]any {
	exerciseCount := 2 + rand.IntN(5) //nolint:mnd,gosec // fixture sizing, not crypto.
	entries := make([]report.LoggedExercise, 0, exerciseCount)
	for i := range exerciseCount {
		setCount := 2 + rand.IntN(4) //nolint:mnd,gosec // fixture sizing, not crypto.
		sets := make([]report.SetRecord, 0, setCount)
		for range setCount {
			sets = append(sets, report.SetRecord{
				Reps:        ptr.Ref(baseReps + rand.IntN(repsRange)), //nolint:gosec // not crypto.
				LoadKg:      ptr.Ref(baseLoadKg + float64(rand.IntN(loadRangeKg))), //nolint:gosec // not crypto.
				DurationSec: nil,
				DistanceKm:  nil,
			})
		}
		entries = append(entries, report.LoggedExercise{
			Name:        fmt.Sprintf("exercise-%d", i),
			Category:    categories[rand.IntN(len(categories))], //nolint:gosec // not crypto.
			SetRecords:  sets,
			PlannedSets: setCount,
			RPE:         ptr.Ref(5 + float64(rand.IntN(5))), //nolint:mnd,gosec // fixture sizing, not crypto.
			Notes:       nil,
		})
	}

	return map[string]any{
		"athlete_id":   fmt.Sprintf("athlete-%d", rand.IntN(10)), //nolint:mnd,gosec // fixture sizing, not crypto.
		"position":     positions[rand.IntN(len(positions))],     //nolint:gosec // not crypto.
		"duration_min": sessionDurationBaseMin + rand.IntN(sessionDurationRange), //nolint:gosec // not crypto.
		"entries":      entries,
	}
}

func analyzeOnce(ctx context.Context, client *http.Client, url string) error {
	body, err := json.Marshal(randomSession())
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/api/reports/analyze", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var rep report.WorkoutReport
	if err = json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		return fmt.Errorf("decode report: %w", err)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <base-url>")
		os.Exit(1)
	}
	url := os.Args[1]
	ctx = logging.WithAttrs(ctx, slog.String("url", url))

	var (
		client    = &http.Client{Timeout: requestTimeout} //nolint:exhaustruct // defaults are fine.
		succeeded atomic.Int64
		start     = time.Now()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRequests)
	for range totalRequests {
		g.Go(func() error {
			if err := analyzeOnce(gctx, client, url); err != nil {
				logger.LogAttrs(gctx, slog.LevelWarn, "analyze failed", slog.Any("error", err))
				return nil // keep hammering, the success rate is the verdict.
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	successRate := float64(succeeded.Load()) / totalRequests * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "stress test finished",
		slog.Float64("success_rate", successRate),
		slog.Duration("duration", time.Since(start)))

	if successRate < successRateThreshold {
		os.Exit(1)
	}
}
