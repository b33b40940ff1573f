package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/mleino/teamtrain/internal/ptr"
	"github.com/mleino/teamtrain/internal/report"
	"github.com/mleino/teamtrain/internal/sqlite"
	"github.com/mleino/teamtrain/internal/testhelpers"
)

func newTestHistory(t *testing.T) *report.SQLiteHistory {
	t.Helper()

	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})

	return report.NewSQLiteHistory(db, logger)
}

func savedReport(volumeKg, intensity, durationMin int) report.WorkoutReport {
	return report.WorkoutReport{ //nolint:exhaustruct // only stored fields matter here.
		SessionValid:   true,
		TotalVolumeKg:  volumeKg,
		IntensityScore: intensity,
		DurationMin:    durationMin,
		AvgRPE:         7.0,
	}
}

func TestSQLiteHistoryRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	history := newTestHistory(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	entries := []report.LoggedExercise{
		{
			Name:     "back squat",
			Category: report.CategoryStrength,
			SetRecords: []report.SetRecord{
				{Reps: ptr.Ref(5), LoadKg: ptr.Ref(100.0), DurationSec: nil, DistanceKm: nil},
				{Reps: ptr.Ref(5), LoadKg: ptr.Ref(100.0), DurationSec: nil, DistanceKm: nil},
			},
			PlannedSets: 2,
			RPE:         ptr.Ref(8.0),
			Notes:       nil,
		},
	}

	if err := history.SaveSession(ctx, "athlete-1", now.AddDate(0, 0, -8), entries, savedReport(1000, 45, 40)); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
	if err := history.SaveSession(ctx, "athlete-1", now.AddDate(0, 0, -2), entries, savedReport(1200, 55, 45)); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
	// A different athlete's session must never leak into the history.
	if err := history.SaveSession(ctx, "athlete-2", now.AddDate(0, 0, -5), entries, savedReport(9000, 90, 90)); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	sessions, err := history.RecentSessions(ctx, "athlete-1", now.AddDate(0, 0, -14), now)
	if err != nil {
		t.Fatalf("Failed to fetch recent sessions: %v", err)
	}

	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if !sessions[0].LoggedAt.Before(sessions[1].LoggedAt) {
		t.Error("sessions must be ordered oldest first")
	}
	if sessions[0].TotalVolumeKg != 1000 || sessions[0].IntensityScore != 45 {
		t.Errorf("oldest session = %+v, want volume 1000 and intensity 45", sessions[0])
	}
	if sessions[1].AvgRPE != 7.0 {
		t.Errorf("AvgRPE = %v, want 7.0", sessions[1].AvgRPE)
	}
}

func TestSQLiteHistoryWindowBounds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	history := newTestHistory(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	for _, daysAgo := range []int{1, 7, 20} {
		err := history.SaveSession(ctx, "athlete-1", now.AddDate(0, 0, -daysAgo), nil, savedReport(1000, 50, 30))
		if err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
	}

	sessions, err := history.RecentSessions(ctx, "athlete-1", now.AddDate(0, 0, -14), now)
	if err != nil {
		t.Fatalf("Failed to fetch recent sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("got %d sessions within the window, want 2", len(sessions))
	}
}

func TestSQLiteHistoryEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	history := newTestHistory(t)

	sessions, err := history.RecentSessions(ctx, "unknown", time.Now().AddDate(0, 0, -14), time.Now())
	if err != nil {
		t.Fatalf("Failed to fetch recent sessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions for an unknown athlete, want 0", len(sessions))
	}
}
