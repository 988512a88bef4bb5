package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"eduvane/internal/logging"
	"eduvane/internal/types"
)

// DefaultHistoryLimit caps retained submissions when no limit is
// configured.
const DefaultHistoryLimit = 50

// recentInsightsWindow is how many same-subject submissions feed the
// longitudinal history context.
const recentInsightsWindow = 5

// LocalStore is the SQLite-backed Store. Submissions are stored as JSON
// payloads with denormalized summary columns for listing and pruning.
type LocalStore struct {
	db           *sql.DB
	mu           sync.Mutex
	dbPath       string
	historyLimit int
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore opens (or creates) the database at path. historyLimit
// <= 0 falls back to DefaultHistoryLimit.
func NewLocalStore(path string, historyLimit int) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	// synchronous=NORMAL is safe under WAL and much faster than FULL.
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &LocalStore{db: db, dbPath: path, historyLimit: historyLimit}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("LocalStore ready at %s (history limit %d)", path, historyLimit)
	return s, nil
}

func (s *LocalStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profile (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		name       TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS submissions (
		id          TEXT PRIMARY KEY,
		created_at  INTEGER NOT NULL,
		subject     TEXT NOT NULL,
		topic       TEXT NOT NULL,
		score_label TEXT NOT NULL,
		payload     TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_created
		ON submissions(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_submissions_subject
		ON submissions(subject COLLATE NOCASE, created_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// =============================================================================
// PROFILE
// =============================================================================

func (s *LocalStore) GetUserProfile() (*types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p types.UserProfile
	var role string
	err := s.db.QueryRow("SELECT name, role, email FROM profile WHERE id = 1").
		Scan(&p.Name, &role, &p.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	p.Role = types.UserRole(role)
	return &p, nil
}

func (s *LocalStore) SaveUserProfile(profile types.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO profile (id, name, role, email, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			email = excluded.email,
			updated_at = excluded.updated_at`,
		profile.Name, string(profile.Role), profile.Email, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	logging.StoreDebug("profile saved (name=%q role=%s)", profile.Name, profile.Role)
	return nil
}

// =============================================================================
// SUBMISSIONS
// =============================================================================

func (s *LocalStore) SaveSubmission(sub types.Submission) error {
	if sub.Result == nil {
		logging.StoreDebug("skipping submission %s with no result", sub.ID)
		return nil
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO submissions (id, created_at, subject, topic, score_label, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			subject = excluded.subject,
			topic = excluded.topic,
			score_label = excluded.score_label,
			payload = excluded.payload`,
		sub.ID, sub.Timestamp.UnixMilli(), sub.Result.Subject, sub.Result.Topic,
		sub.Result.Score.Label, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}

	// Keep only the most recent rows.
	_, err = tx.Exec(`
		DELETE FROM submissions WHERE id NOT IN (
			SELECT id FROM submissions ORDER BY created_at DESC LIMIT ?
		)`, s.historyLimit)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit submission: %w", err)
	}
	logging.StoreDebug("submission %s saved (subject=%s)", sub.ID, sub.Result.Subject)
	return nil
}

func (s *LocalStore) GetSubmission(id string) (*types.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload string
	err := s.db.QueryRow("SELECT payload FROM submissions WHERE id = ?", id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	var sub types.Submission
	if err := json.Unmarshal([]byte(payload), &sub); err != nil {
		return nil, fmt.Errorf("failed to decode submission %s: %w", id, err)
	}
	return &sub, nil
}

func (s *LocalStore) History() ([]types.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, created_at, subject, topic, score_label
		FROM submissions ORDER BY created_at DESC LIMIT ?`, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	items := []types.HistoryItem{}
	for rows.Next() {
		var item types.HistoryItem
		var createdAt int64
		if err := rows.Scan(&item.ID, &createdAt, &item.Subject, &item.Topic, &item.ScoreLabel); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		item.Date = time.UnixMilli(createdAt).UTC().Format(time.RFC3339)
		items = append(items, item)
	}
	return items, rows.Err()
}

// RecentInsights builds the history-context block consumed by the
// diagnosis stage. One line per prior submission, newest first.
func (s *LocalStore) RecentInsights(subject string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT payload FROM submissions
		WHERE subject = ? COLLATE NOCASE
		ORDER BY created_at DESC LIMIT ?`, subject, recentInsightsWindow)
	if err != nil {
		return "", fmt.Errorf("failed to query insights: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return "", fmt.Errorf("failed to scan insight row: %w", err)
		}
		var sub types.Submission
		if err := json.Unmarshal([]byte(payload), &sub); err != nil || sub.Result == nil {
			logging.StoreDebug("skipping undecodable submission payload: %v", err)
			continue
		}
		if line := contextLine(sub); line != "" {
			lines = append(lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// contextLine condenses one submission into a history-context line.
// Empty when the result carries no usable signal.
func contextLine(sub types.Submission) string {
	r := sub.Result

	gaps := strings.Join(r.Gaps(), "; ")
	strengths := strings.Join(r.Strengths(), "; ")

	var titles []string
	for _, i := range r.Insights {
		titles = append(titles, i.Title)
	}
	insights := strings.Join(titles, "; ")

	stability := ""
	if cs := r.ConceptStability; cs != nil && cs.Status != "" && cs.Status != "unknown" {
		stability = fmt.Sprintf("Stability: %s (%s)", cs.Status, cs.Evidence)
	}
	handwriting := ""
	if r.Handwriting != nil {
		handwriting = r.Handwriting.Feedback
	}

	if gaps == "" && strengths == "" && insights == "" && stability == "" && handwriting == "" {
		return ""
	}

	date := sub.Timestamp.UTC().Format("2006-01-02")
	return fmt.Sprintf("[%s] Topic: %s. Gaps: %s. Strengths: %s. Handwriting: %s. Previous Signals: %s. %s",
		date, r.Topic, gaps, strengths, handwriting, insights, stability)
}

// =============================================================================
// MAINTENANCE
// =============================================================================

func (s *LocalStore) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM submissions"); err != nil {
		return fmt.Errorf("failed to clear submissions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM profile"); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	logging.Store("history and profile cleared")
	return nil
}

func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
