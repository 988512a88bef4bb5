// Package store persists user profiles and graded submissions.
package store

import "eduvane/internal/types"

// Store is the persistence surface the orchestrator and CLI depend on.
// All failures are advisory to callers on the analysis path: losing a
// write must never fail a turn.
type Store interface {
	// GetUserProfile returns the saved profile, or nil when none exists.
	GetUserProfile() (*types.UserProfile, error)
	SaveUserProfile(profile types.UserProfile) error

	// SaveSubmission upserts a completed submission and prunes history
	// to the configured limit. Submissions without a result are ignored.
	SaveSubmission(sub types.Submission) error
	GetSubmission(id string) (*types.Submission, error)
	History() ([]types.HistoryItem, error)

	// RecentInsights summarizes the last five same-subject submissions
	// into history-context lines for longitudinal pattern recognition.
	// Returns "" when there is nothing relevant.
	RecentInsights(subject string) (string, error)

	// ClearHistory removes all submissions and the saved profile.
	ClearHistory() error

	Close() error
}
