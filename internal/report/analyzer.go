package report

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mleino/teamtrain/internal/errors"
)

// History windows consumed by the trend comparison and the frequency warning.
const (
	trendWindowStartDays = 14
	trendWindowEndDays   = 7
	frequencyWindowDays  = 3
)

// HistoryProvider is the injected read-only lookup of previously analyzed
// sessions. Implementations may be backed by any storage; the engine
// tolerates empty results and lookup failures.
type HistoryProvider interface {
	RecentSessions(ctx context.Context, athleteID string, from, to time.Time) ([]HistorySession, error)
}

// AnalysisRequest carries one completed session into a report generator.
type AnalysisRequest struct {
	Entries     []LoggedExercise
	DurationMin int
	AthleteID   string
	Position    AthletePosition
}

// ReportGenerator is implemented by both the local rule-based engine and the
// remote scorer so that callers can swap or fall back without branching on
// which engine produced a report.
type ReportGenerator interface {
	Generate(ctx context.Context, req AnalysisRequest) (WorkoutReport, error)
}

// Engine is the local rule-based scoring engine. It is a pure function of its
// inputs aside from the optional history lookup and is safe for concurrent
// use.
type Engine struct {
	history HistoryProvider
	logger  *slog.Logger
	now     func() time.Time
}

// NewEngine creates a scoring engine. history may be nil, in which case trend
// fields stay absent and the frequency warning never fires.
func NewEngine(history HistoryProvider, logger *slog.Logger) *Engine {
	return &Engine{
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// Generate implements ReportGenerator.
func (e *Engine) Generate(ctx context.Context, req AnalysisRequest) (WorkoutReport, error) {
	return e.Analyze(ctx, req.Entries, req.DurationMin, req.AthleteID, req.Position)
}

// Analyze scores a completed session and assembles the workout report. It
// never fails on malformed-but-empty input: an empty exercise list degrades
// to all-zero scores with the neutral RPE default.
func (e *Engine) Analyze(
	ctx context.Context,
	entries []LoggedExercise,
	durationMin int,
	athleteID string,
	position AthletePosition,
) (WorkoutReport, error) {
	metrics := aggregateMetrics(entries, durationMin)
	shape := classifySession(entries)

	intensity := calculateIntensity(metrics)
	workCapacity := calculateWorkCapacity(metrics)
	athletic := calculateAthleticQuality(entries, metrics, shape)
	positionRelevance := calculatePositionRelevance(entries, position)
	focus := calculateFocus(entries)
	recovery := estimateRecovery(intensity, metrics)

	history := e.lookupHistory(ctx, athleteID)
	trend := compareTrend(metrics.TotalVolumeKg, intensity, history, e.now())

	in := feedbackInput{
		shape:              shape,
		entries:            entries,
		metrics:            metrics,
		intensity:          intensity,
		workCapacity:       workCapacity,
		athletic:           athletic,
		positionRelevance:  positionRelevance,
		volumeChangePct:    trend.volumeChangePct,
		recentSessionCount: countRecentSessions(history, e.now()),
	}

	return WorkoutReport{
		SessionValid:           true,
		IntensityScore:         intensity,
		WorkCapacityScore:      workCapacity,
		AthleticQualityScore:   athletic,
		PositionRelevanceScore: positionRelevance,
		TotalVolumeKg:          metrics.TotalVolumeKg,
		TotalDistanceKm:        metrics.TotalDistanceKm,
		DurationMin:            metrics.DurationMin,
		AvgRPE:                 metrics.AvgRPE,
		SetsCompleted:          metrics.SetsCompleted,
		SetsPlanned:            metrics.SetsPlanned,
		PowerPct:               focus.powerPct,
		StrengthPct:            focus.strengthPct,
		SpeedPct:               focus.speedPct,
		Strengths:              buildStrengths(in),
		Warnings:               buildWarnings(in),
		VolumeChangePct:        trend.volumeChangePct,
		IntensityChangePct:     trend.intensityChangePct,
		RecoveryDemand:         recovery.demand,
		RecommendedRestHours:   recovery.restHours,
		CoachInsight:           strings.Join(buildCoachInsight(in), " "),
	}, nil
}

// lookupHistory fetches the trailing two weeks of sessions. A missing or
// failing provider degrades to no history: a report is a value-add, never a
// precondition on storage.
func (e *Engine) lookupHistory(ctx context.Context, athleteID string) []HistorySession {
	if e.history == nil || athleteID == "" {
		return nil
	}

	now := e.now()
	from := now.AddDate(0, 0, -trendWindowStartDays)
	sessions, err := e.history.RecentSessions(ctx, athleteID, from, now)
	if err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "history lookup failed",
			errors.SlogError(errors.Wrap(err, "recent sessions", slog.String("athlete_id", athleteID))))
		return nil
	}
	return sessions
}

// trendComparison holds the nullable change percentages against the prior
// period. Both fields are nil when no comparable sessions exist.
type trendComparison struct {
	volumeChangePct    *float64
	intensityChangePct *float64
}

// compareTrend compares the current session against sessions logged 7-14 days
// prior.
func compareTrend(currentVolumeKg, currentIntensity int, history []HistorySession, now time.Time) trendComparison {
	windowStart := now.AddDate(0, 0, -trendWindowStartDays)
	windowEnd := now.AddDate(0, 0, -trendWindowEndDays)

	var (
		volumeSum    float64
		intensitySum float64
		count        int
	)
	for _, session := range history {
		if session.LoggedAt.Before(windowStart) || session.LoggedAt.After(windowEnd) {
			continue
		}
		volumeSum += float64(session.TotalVolumeKg)
		intensitySum += float64(session.IntensityScore)
		count++
	}

	if count == 0 {
		return trendComparison{volumeChangePct: nil, intensityChangePct: nil}
	}

	var trend trendComparison
	if avgVolume := volumeSum / float64(count); avgVolume > 0 {
		change := (float64(currentVolumeKg) - avgVolume) / avgVolume * 100
		trend.volumeChangePct = &change
	}
	if avgIntensity := intensitySum / float64(count); avgIntensity > 0 {
		change := (float64(currentIntensity) - avgIntensity) / avgIntensity * 100
		trend.intensityChangePct = &change
	}
	return trend
}

// countRecentSessions counts history sessions logged within the trailing
// three days, feeding the high-frequency warning.
func countRecentSessions(history []HistorySession, now time.Time) int {
	cutoff := now.AddDate(0, 0, -frequencyWindowDays)
	count := 0
	for _, session := range history {
		if session.LoggedAt.After(cutoff) {
			count++
		}
	}
	return count
}
