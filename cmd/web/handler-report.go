package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mleino/teamtrain/internal/errors"
	"github.com/mleino/teamtrain/internal/report"
)

// maxAnalyzeBodySize bounds the request body; a logged session is small.
const maxAnalyzeBodySize = 256 * 1024

type analyzeRequest struct {
	AthleteID   string                  `json:"athlete_id"`
	Position    report.AthletePosition  `json:"position"`
	DurationMin int                     `json:"duration_min"`
	Entries     []report.LoggedExercise `json:"entries"`
	// UseRemote requests the remote scorer. Any remote failure falls back to
	// the local rule-based engine; a report is a value-add, not a
	// precondition for logging the session.
	UseRemote bool `json:"use_remote"`
}

// analyzePOST scores a completed session and returns the workout report.
func (app *application) analyzePOST(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req analyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxAnalyzeBodySize)).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	analysis := report.AnalysisRequest{
		Entries:     req.Entries,
		DurationMin: req.DurationMin,
		AthleteID:   req.AthleteID,
		Position:    req.Position,
	}

	rep, err := app.generateReport(r, req.UseRemote, analysis)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	// Persist so future reports can compare trends. Best effort: the report
	// is still returned when the write fails.
	if app.history != nil && req.AthleteID != "" {
		if err = app.history.SaveSession(r.Context(), req.AthleteID, time.Now(), req.Entries, rep); err != nil {
			app.logger.LogAttrs(r.Context(), slog.LevelWarn, "failed to save session",
				errors.SlogError(errors.Wrap(err, "save session", slog.String("athlete_id", req.AthleteID))))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(rep); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to encode report",
			errors.SlogError(errors.Wrap(err, "encode report")))
	}
}

// generateReport picks the scorer. Remote failures are logged and degrade to
// the local engine.
func (app *application) generateReport(
	r *http.Request,
	useRemote bool,
	analysis report.AnalysisRequest,
) (report.WorkoutReport, error) {
	if useRemote && app.remoteScorer != nil {
		rep, err := app.remoteScorer.Generate(r.Context(), analysis)
		if err == nil {
			return rep, nil
		}
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "remote scorer failed, falling back to local engine",
			errors.SlogError(err))
	}

	rep, err := app.engine.Generate(r.Context(), analysis)
	if err != nil {
		return report.WorkoutReport{}, errors.Wrap(err, "analyze session")
	}
	return rep, nil
}
