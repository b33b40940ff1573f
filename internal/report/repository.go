package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mleino/teamtrain/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// SQLiteHistory stores analyzed sessions and serves them back as the
// read-only history for trend comparison. It implements HistoryProvider.
type SQLiteHistory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// NewSQLiteHistory creates a SQLite-backed session history store.
func NewSQLiteHistory(db *sqlite.Database, logger *slog.Logger) *SQLiteHistory {
	return &SQLiteHistory{
		db:     db,
		logger: logger,
	}
}

// RecentSessions returns the sessions logged for the athlete within the
// inclusive [from, to] window, oldest first.
func (h *SQLiteHistory) RecentSessions(
	ctx context.Context,
	athleteID string,
	from, to time.Time,
) ([]HistorySession, error) {
	rows, err := h.db.ReadOnly.QueryContext(ctx, `
		SELECT logged_at, duration_min, total_volume_kg, intensity_score, avg_rpe
		FROM sessions
		WHERE athlete_id = ? AND logged_at >= ? AND logged_at <= ?
		ORDER BY logged_at`,
		athleteID, from.UTC().Format(timestampFormat), to.UTC().Format(timestampFormat))
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []HistorySession
	for rows.Next() {
		var (
			session  HistorySession
			loggedAt string
		)
		if err = rows.Scan(&loggedAt, &session.DurationMin, &session.TotalVolumeKg,
			&session.IntensityScore, &session.AvgRPE); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if session.LoggedAt, err = time.Parse(timestampFormat, loggedAt); err != nil {
			return nil, fmt.Errorf("parse logged_at %q: %w", loggedAt, err)
		}
		sessions = append(sessions, session)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// SaveSession persists an analyzed session so that it can power trend
// comparisons for future reports. The stored rows are never updated.
func (h *SQLiteHistory) SaveSession(
	ctx context.Context,
	athleteID string,
	loggedAt time.Time,
	entries []LoggedExercise,
	rep WorkoutReport,
) error {
	tx, err := h.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer h.rollback(ctx, tx)

	result, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (athlete_id, logged_at, duration_min, total_volume_kg, intensity_score, avg_rpe)
		VALUES (?, ?, ?, ?, ?, ?)`,
		athleteID, loggedAt.UTC().Format(timestampFormat), rep.DurationMin,
		rep.TotalVolumeKg, rep.IntensityScore, rep.AvgRPE)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	sessionID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("session id: %w", err)
	}

	for _, entry := range entries {
		reps := 0
		for _, set := range entry.SetRecords {
			if set.Reps != nil {
				reps += *set.Reps
			}
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO session_exercises (session_id, name, category, set_count, rep_count)
			VALUES (?, ?, ?, ?, ?)`,
			sessionID, entry.Name, string(entry.Category), len(entry.SetRecords), reps); err != nil {
			return fmt.Errorf("insert session exercise %q: %w", entry.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (h *SQLiteHistory) rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		h.logger.LogAttrs(ctx, slog.LevelWarn, "rollback failed", slog.Any("error", err))
	}
}
