package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/mleino/teamtrain/internal/errors"
	"github.com/mleino/teamtrain/internal/report"
)

const defaultRequestTimeout = 30 * time.Second

// Scorer generates workout reports by sending the serialized session to an
// external text-generation service. It implements report.ReportGenerator.
// One request is issued per report; no automatic retries are performed.
type Scorer struct {
	client   openai.Client
	profiles ProfileProvider
	logger   *slog.Logger
	timeout  time.Duration
}

// NewScorer creates a remote scorer. profiles may be nil, in which case the
// prompt carries an empty athlete profile.
func NewScorer(apiKey string, profiles ProfileProvider, logger *slog.Logger) *Scorer {
	return &Scorer{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		profiles: profiles,
		logger:   logger,
		timeout:  defaultRequestTimeout,
	}
}

// Generate implements report.ReportGenerator. Sessions below the minimum
// training dose short-circuit to an insufficient report without a remote
// call.
func (s *Scorer) Generate(ctx context.Context, req report.AnalysisRequest) (report.WorkoutReport, error) {
	metrics := report.AggregateMetrics(req.Entries, req.DurationMin)

	if !sessionValid(req.Entries, metrics) {
		return insufficientReport(metrics), nil
	}

	payload := s.buildRequest(ctx, req, metrics)
	reply, err := s.requestScore(ctx, payload)
	if err != nil {
		return report.WorkoutReport{}, err
	}

	return toReport(reply, metrics), nil
}

// buildRequest serializes the session and athlete context into the prompt
// payload. A failing profile lookup degrades to an empty profile.
func (s *Scorer) buildRequest(
	ctx context.Context,
	req report.AnalysisRequest,
	metrics report.SessionMetrics,
) scoreRequest {
	var profile AthleteProfile
	if s.profiles != nil {
		var err error
		if profile, err = s.profiles.Profile(ctx, req.AthleteID); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "athlete profile lookup failed",
				errors.SlogError(errors.Wrap(err, "profile", slog.String("athlete_id", req.AthleteID))))
			profile = AthleteProfile{} //nolint:exhaustruct // empty profile on lookup failure.
		}
	}

	exercises := make([]scoreExercise, 0, len(req.Entries))
	for _, entry := range req.Entries {
		exercises = append(exercises, scoreExercise{
			Name:        entry.Name,
			Category:    string(entry.Category),
			SetsSummary: summarizeSets(entry),
			RPE:         entry.RPE,
			Notes:       entry.Notes,
		})
	}

	return scoreRequest{
		AthleteName:     profile.Name,
		Position:        string(req.Position),
		BodyWeightKg:    profile.BodyWeightKg,
		HeightCm:        profile.HeightCm,
		SeasonPhase:     profile.SeasonPhase,
		TeamLevel:       profile.TeamLevel,
		Exercises:       exercises,
		TotalSets:       metrics.SetsCompleted,
		TotalReps:       countReps(req.Entries),
		TotalVolumeKg:   metrics.TotalVolumeKg,
		TotalDistanceKm: metrics.TotalDistanceKm,
		AvgRPE:          metrics.AvgRPE,
		DurationMin:     metrics.DurationMin,
	}
}

// summarizeSets renders one exercise's set records into a compact line for
// the prompt, e.g. "4 sets, 40 reps, top load 80.0 kg".
func summarizeSets(entry report.LoggedExercise) string {
	var (
		reps       int
		topLoadKg  float64
		distanceKm float64
	)
	for _, set := range entry.SetRecords {
		if set.Reps != nil {
			reps += *set.Reps
		}
		if set.LoadKg != nil && *set.LoadKg > topLoadKg {
			topLoadKg = *set.LoadKg
		}
		if set.DistanceKm != nil {
			distanceKm += *set.DistanceKm
		}
	}

	summary := fmt.Sprintf("%d sets, %d reps", len(entry.SetRecords), reps)
	if topLoadKg > 0 {
		summary += fmt.Sprintf(", top load %.1f kg", topLoadKg)
	}
	if distanceKm > 0 {
		summary += fmt.Sprintf(", %.2f km", distanceKm)
	}
	return summary
}

const systemPrompt = `You are a strength and conditioning analyst for a team-training app. ` +
	`You receive one completed workout session as JSON and score it. ` +
	`Score four dimensions as integers from 0 to 100: intensityScore, workCapacityScore, ` +
	`athleticQualityScore, and positionRelevanceScore. Judge the session against the athlete's ` +
	`position, team level, and season phase. Echo back the session totals you were given. ` +
	`Classify the session's primary and secondary intent, break the work into power/strength/speed ` +
	`percentages, list short strength and warning tokens, pick a recovery demand tier ` +
	`(low, medium, high, very_high) with recommended rest hours, and write one or two sentences ` +
	`of coaching insight. Respond with JSON only.`

// requestScore issues the single chat completion and parses the reply.
func (s *Scorer) requestScore(ctx context.Context, payload scoreRequest) (scoreReply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return scoreReply{}, errors.Wrap(err, "marshal score request")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{ //nolint:exhaustruct // only need a few fields.
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(string(body)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{ //nolint:exhaustruct // union selects one member.
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{ //nolint:exhaustruct // type tag is constant.
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{ //nolint:exhaustruct // optional fields omitted.
					Name:   "workout_report",
					Schema: replySchema(),
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return scoreReply{}, classifyRequestFailure(err)
	}

	if len(completion.Choices) == 0 {
		return scoreReply{}, errors.Wrap(ErrMalformedResponse, "empty choices")
	}

	return parseReply(completion.Choices[0].Message.Content)
}

// parseReply decodes and validates the model output. Any reply missing one of
// the four required score fields is rejected as malformed.
func parseReply(content string) (scoreReply, error) {
	var reply scoreReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return scoreReply{}, errors.Wrap(ErrMalformedResponse, "parse reply", slog.String("cause", err.Error()))
	}

	if reply.IntensityScore == nil || reply.WorkCapacityScore == nil ||
		reply.AthleticQualityScore == nil || reply.PositionRelevanceScore == nil {
		return scoreReply{}, errors.Wrap(ErrMalformedResponse, "reply missing required score fields")
	}

	return reply, nil
}

// toReport maps the validated reply onto the report contract. The locally
// computed aggregates are authoritative for session totals so that a creative
// model cannot rewrite what was actually logged.
func toReport(reply scoreReply, metrics report.SessionMetrics) report.WorkoutReport {
	valid := true
	if reply.SessionValid != nil {
		valid = *reply.SessionValid
	}

	demand := report.RecoveryDemand(reply.RecoveryDemand)
	switch demand {
	case report.RecoveryDemandLow, report.RecoveryDemandMedium, report.RecoveryDemandHigh,
		report.RecoveryDemandVeryHigh, report.RecoveryDemandInsufficient:
	default:
		demand = report.RecoveryDemandMedium
	}

	restHours := 36
	if reply.RecommendedRestHours != nil {
		restHours = *reply.RecommendedRestHours
	}

	return report.WorkoutReport{
		SessionValid:           valid,
		IntensityScore:         clampReplyScore(*reply.IntensityScore),
		WorkCapacityScore:      clampReplyScore(*reply.WorkCapacityScore),
		AthleticQualityScore:   clampReplyScore(*reply.AthleticQualityScore),
		PositionRelevanceScore: clampReplyScore(*reply.PositionRelevanceScore),
		TotalVolumeKg:          metrics.TotalVolumeKg,
		TotalDistanceKm:        metrics.TotalDistanceKm,
		DurationMin:            metrics.DurationMin,
		AvgRPE:                 metrics.AvgRPE,
		SetsCompleted:          metrics.SetsCompleted,
		SetsPlanned:            metrics.SetsPlanned,
		PowerPct:               clampReplyScore(intOrZero(reply.PowerWork)),
		StrengthPct:            clampReplyScore(intOrZero(reply.StrengthWork)),
		SpeedPct:               clampReplyScore(intOrZero(reply.SpeedWork)),
		Strengths:              emptyIfNil(reply.Strengths),
		Warnings:               emptyIfNil(reply.Warnings),
		VolumeChangePct:        nil,
		IntensityChangePct:     nil,
		RecoveryDemand:         demand,
		RecommendedRestHours:   restHours,
		CoachInsight:           reply.CoachInsights,
	}
}

// insufficientReport is returned for sessions failing the minimum-dose gate.
func insufficientReport(metrics report.SessionMetrics) report.WorkoutReport {
	return report.WorkoutReport{
		SessionValid:           false,
		IntensityScore:         0,
		WorkCapacityScore:      0,
		AthleticQualityScore:   0,
		PositionRelevanceScore: 0,
		TotalVolumeKg:          metrics.TotalVolumeKg,
		TotalDistanceKm:        metrics.TotalDistanceKm,
		DurationMin:            metrics.DurationMin,
		AvgRPE:                 metrics.AvgRPE,
		SetsCompleted:          metrics.SetsCompleted,
		SetsPlanned:            metrics.SetsPlanned,
		PowerPct:               0,
		StrengthPct:            0,
		SpeedPct:               0,
		Strengths:              []string{},
		Warnings:               []string{},
		VolumeChangePct:        nil,
		IntensityChangePct:     nil,
		RecoveryDemand:         report.RecoveryDemandInsufficient,
		RecommendedRestHours:   0,
		CoachInsight:           "insufficient-session",
	}
}

func clampReplyScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// replySchema is the JSON schema enforced on the model reply. Strict mode
// requires every property to be listed in required; the echoed session totals
// are nullable unions since the local aggregates override them anyway.
func replySchema() map[string]any {
	scoreProperty := map[string]any{"type": "integer", "minimum": 0, "maximum": 100}
	return map[string]any{
		"type": "object",
		"required": []string{
			"sessionValid", "intensityScore", "workCapacityScore",
			"athleticQualityScore", "positionRelevanceScore",
			"totalVolume", "totalDistance", "duration",
			"avgRPE", "setsCompleted", "setsPlanned",
			"sessionPrimaryIntent", "sessionSecondaryIntent",
			"powerWork", "strengthWork", "speedWork",
			"strengths", "warnings", "recoveryDemand", "recommendedRestHours", "coachInsights",
		},
		"properties": map[string]any{
			"sessionValid":           map[string]any{"type": "boolean"},
			"intensityScore":         scoreProperty,
			"workCapacityScore":      scoreProperty,
			"athleticQualityScore":   scoreProperty,
			"positionRelevanceScore": scoreProperty,
			"totalVolume":            map[string]any{"type": []string{"number", "null"}},
			"totalDistance":          map[string]any{"type": []string{"number", "null"}},
			"duration":               map[string]any{"type": []string{"integer", "null"}},
			"avgRPE":                 map[string]any{"type": []string{"number", "null"}},
			"setsCompleted":          map[string]any{"type": []string{"integer", "null"}},
			"setsPlanned":            map[string]any{"type": []string{"integer", "null"}},
			"sessionPrimaryIntent":   map[string]any{"type": "string"},
			"sessionSecondaryIntent": map[string]any{"type": "string"},
			"powerWork":              scoreProperty,
			"strengthWork":           scoreProperty,
			"speedWork":              scoreProperty,
			"strengths":              map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"warnings":               map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"recoveryDemand": map[string]any{
				"type": "string",
				"enum": []string{"low", "medium", "high", "very_high", "insufficient"},
			},
			"recommendedRestHours": map[string]any{"type": "integer"},
			"coachInsights":        map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}
}
