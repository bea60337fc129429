package mission

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"nuevoser/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS active_missions (
    user_id    TEXT NOT NULL,
    mission_id TEXT NOT NULL,
    ends_at    INTEGER NOT NULL,
    payload    TEXT NOT NULL,
    PRIMARY KEY (user_id, mission_id)
);
CREATE TABLE IF NOT EXISTS mission_history (
    seq     INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_user ON mission_history(user_id, seq);
CREATE TABLE IF NOT EXISTS mission_streak (
    user_id TEXT PRIMARY KEY,
    streak  INTEGER NOT NULL
);
`

// SQLiteStore persists mission state in a single-writer SQLite database.
// Mission and history payloads are stored as JSON; an unreadable payload
// is skipped with a warning instead of failing the whole scan, so restart
// reconciliation can proceed past one bad record.
type SQLiteStore struct {
	db         *sql.DB
	historyCap int
	logger     *log.Logger
}

func OpenSQLite(path string, historyCap int, logger *log.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if logger == nil {
		logger = log.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db, historyCap: historyCap, logger: logger}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Active(ctx context.Context, userID string) ([]model.Mission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mission_id, payload FROM active_missions WHERE user_id = ? ORDER BY ends_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Mission{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		var m model.Mission
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			s.logger.Printf("warn: skipping malformed mission record user=%s mission=%s: %v", userID, id, err)
			continue
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetActive(ctx context.Context, userID string, id model.MissionID) (model.Mission, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM active_missions WHERE user_id = ? AND mission_id = ?`,
		userID, string(id)).Scan(&payload)
	if err == sql.ErrNoRows {
		return model.Mission{}, false, nil
	}
	if err != nil {
		return model.Mission{}, false, err
	}
	var m model.Mission
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return model.Mission{}, false, fmt.Errorf("decode mission %s: %w", id, err)
	}
	return m, true, nil
}

func (s *SQLiteStore) PutActive(ctx context.Context, userID string, m model.Mission) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO active_missions (user_id, mission_id, ends_at, payload) VALUES (?, ?, ?, ?)`,
		userID, string(m.ID), m.EndsAt.Unix(), string(payload))
	return err
}

func (s *SQLiteStore) Archive(ctx context.Context, userID string, id model.MissionID, entry model.HistoryEntry, streak int) (bool, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM active_missions WHERE user_id = ? AND mission_id = ?`,
		userID, string(id))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		// Already resolved or cancelled; nothing to do.
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO mission_history (user_id, payload) VALUES (?, ?)`,
		userID, string(payload)); err != nil {
		return false, err
	}
	if s.historyCap > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM mission_history WHERE user_id = ? AND seq NOT IN (
                SELECT seq FROM mission_history WHERE user_id = ? ORDER BY seq DESC LIMIT ?)`,
			userID, userID, s.historyCap); err != nil {
			return false, err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO mission_streak (user_id, streak) VALUES (?, ?)
         ON CONFLICT(user_id) DO UPDATE SET streak = excluded.streak`,
		userID, streak); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) Discard(ctx context.Context, userID string, id model.MissionID) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM active_missions WHERE user_id = ? AND mission_id = ?`,
		userID, string(id))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) History(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, payload FROM mission_history WHERE user_id = ? ORDER BY seq DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.HistoryEntry{}
	for rows.Next() {
		var seq int64
		var payload string
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, err
		}
		var e model.HistoryEntry
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			s.logger.Printf("warn: skipping malformed history record user=%s seq=%d: %v", userID, seq, err)
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Streak(ctx context.Context, userID string) (int, error) {
	var streak int
	err := s.db.QueryRowContext(ctx,
		`SELECT streak FROM mission_streak WHERE user_id = ?`, userID).Scan(&streak)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return streak, nil
}

func (s *SQLiteStore) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM active_missions ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		out = append(out, uid)
	}
	return out, rows.Err()
}
