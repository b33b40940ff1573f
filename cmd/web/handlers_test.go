package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mleino/teamtrain/internal/errors"
	"github.com/mleino/teamtrain/internal/remote"
	"github.com/mleino/teamtrain/internal/report"
	"github.com/mleino/teamtrain/internal/testhelpers"
)

// stubScorer returns a canned report or error, standing in for the remote
// scoring service.
type stubScorer struct {
	rep report.WorkoutReport
	err error
}

func (s stubScorer) Generate(_ context.Context, _ report.AnalysisRequest) (report.WorkoutReport, error) {
	return s.rep, s.err
}

func newTestApplication(t *testing.T, remoteScorer report.ReportGenerator) *application {
	t.Helper()

	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	return &application{
		logger:       logger,
		engine:       report.NewEngine(nil, logger),
		remoteScorer: remoteScorer,
		history:      nil,
		recorder:     nil,
	}
}

const analyzeBody = `{
	"athlete_id": "athlete-1",
	"position": "line",
	"duration_min": 45,
	"entries": [
		{
			"name": "back squat",
			"category": "strength",
			"set_records": [
				{"reps": 5, "load_kg": 100},
				{"reps": 5, "load_kg": 100}
			],
			"planned_sets": 2,
			"rpe": 8
		},
		{
			"name": "bench press",
			"category": "strength",
			"set_records": [
				{"reps": 8, "load_kg": 70}
			],
			"planned_sets": 1
		}
	]
}`

func postAnalyze(t *testing.T, app *application, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/api/reports/analyze", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	app.routes().ServeHTTP(recorder, request)
	return recorder
}

func TestAnalyzePOST(t *testing.T) {
	app := newTestApplication(t, nil)

	recorder := postAnalyze(t, app, analyzeBody)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", recorder.Code, recorder.Body.String())
	}

	var rep report.WorkoutReport
	if err := json.NewDecoder(recorder.Body).Decode(&rep); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}

	if !rep.SessionValid {
		t.Error("SessionValid must be true for a locally scored session")
	}
	if rep.TotalVolumeKg != 1560 {
		t.Errorf("TotalVolumeKg = %d, want 1560", rep.TotalVolumeKg)
	}
	if rep.SetsCompleted != 3 {
		t.Errorf("SetsCompleted = %d, want 3", rep.SetsCompleted)
	}
	if rep.CoachInsight == "" {
		t.Error("CoachInsight must never be empty")
	}
}

func TestAnalyzePOSTInvalidJSON(t *testing.T) {
	app := newTestApplication(t, nil)

	recorder := postAnalyze(t, app, "{not json")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func TestAnalyzePOSTEmptySession(t *testing.T) {
	app := newTestApplication(t, nil)

	recorder := postAnalyze(t, app, `{"athlete_id": "athlete-1", "position": "skill", "duration_min": 0, "entries": []}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", recorder.Code, recorder.Body.String())
	}

	var rep report.WorkoutReport
	if err := json.NewDecoder(recorder.Body).Decode(&rep); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if rep.AvgRPE != 5.0 {
		t.Errorf("AvgRPE = %v, want the neutral 5.0", rep.AvgRPE)
	}
}

func TestAnalyzePOSTRemote(t *testing.T) {
	remoteReport := report.WorkoutReport{ //nolint:exhaustruct // only asserted fields matter.
		SessionValid:   true,
		IntensityScore: 77,
		RecoveryDemand: report.RecoveryDemandHigh,
		CoachInsight:   "Strong pressing day.",
	}
	app := newTestApplication(t, stubScorer{rep: remoteReport, err: nil})

	body := strings.Replace(analyzeBody, `"athlete_id": "athlete-1",`, `"athlete_id": "athlete-1", "use_remote": true,`, 1)
	recorder := postAnalyze(t, app, body)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", recorder.Code, recorder.Body.String())
	}

	var rep report.WorkoutReport
	if err := json.NewDecoder(recorder.Body).Decode(&rep); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if rep.IntensityScore != 77 {
		t.Errorf("IntensityScore = %d, want the remote 77", rep.IntensityScore)
	}
}

func TestAnalyzePOSTRemoteFallsBackToLocal(t *testing.T) {
	app := newTestApplication(t, stubScorer{
		rep: report.WorkoutReport{}, //nolint:exhaustruct // unused on error.
		err: errors.Wrap(remote.ErrRateLimited, "chat completion"),
	})

	body := strings.Replace(analyzeBody, `"athlete_id": "athlete-1",`, `"athlete_id": "athlete-1", "use_remote": true,`, 1)
	recorder := postAnalyze(t, app, body)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", recorder.Code, recorder.Body.String())
	}

	var rep report.WorkoutReport
	if err := json.NewDecoder(recorder.Body).Decode(&rep); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	// The local engine always marks sessions valid; the rate-limited remote
	// scorer must not surface as an error to the client.
	if !rep.SessionValid {
		t.Error("fallback report must come from the local engine")
	}
	if rep.TotalVolumeKg != 1560 {
		t.Errorf("TotalVolumeKg = %d, want the locally computed 1560", rep.TotalVolumeKg)
	}
}

func TestHealthy(t *testing.T) {
	app := newTestApplication(t, nil)

	request := httptest.NewRequest(http.MethodGet, "/api/healthy", nil)
	recorder := httptest.NewRecorder()
	app.routes().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", recorder.Code)
	}
	if got := recorder.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("body = %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	app := newTestApplication(t, nil)

	request := httptest.NewRequest(http.MethodGet, "/api/reports/analyze", nil)
	recorder := httptest.NewRecorder()
	app.routes().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", recorder.Code)
	}
}
