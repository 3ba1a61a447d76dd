// Package user provides the user record store. All rating-state mutation goes
// through the store's atomic ApplyVerdict operation; no other component writes
// user records directly.
package user

import (
	"context"
	"time"
)

// TimeLayout is the registration timestamp format.
const TimeLayout = "2006-01-02 15:04:05"

// Now returns the current time in the registration timestamp format.
func Now() string {
	return time.Now().Format(TimeLayout)
}

// SubmissionRecord is one entry in a user's submission history.
type SubmissionRecord struct {
	ProblemID   int    `json:"problem_id"`
	ProblemName string `json:"problem_name"`
	Verdict     string `json:"verdict"`
	Language    string `json:"lang"`
	SubmittedAt string `json:"submitted_at,omitempty"`
}

// Record is one user's judged state.
//
// Invariant: a problem id is in at most one of Accepted and Wrong, and once in
// Accepted it never leaves.
type Record struct {
	ID              string             `json:"id"`
	Username        string             `json:"username,omitempty"`
	Gmail           string             `json:"gmail,omitempty"`
	RegisteredAt    string             `json:"registered_at,omitempty"`
	Rating          int                `json:"rating"`
	TotalPoints     int                `json:"total_points"`
	SubmissionCount int                `json:"submission_count"`
	Submissions     []SubmissionRecord `json:"submissions"`
	Accepted        []int              `json:"accepted_problems"`
	Wrong           []int              `json:"wrong_problems"`
}

// AveragePoints returns total points per submission, rounded to two decimals.
func (r *Record) AveragePoints() float64 {
	if r.SubmissionCount == 0 {
		return 0
	}
	avg := float64(r.TotalPoints) / float64(r.SubmissionCount)
	return float64(int(avg*100+0.5)) / 100
}

// VerdictUpdate is the single atomic mutation the rating ledger issues.
type VerdictUpdate struct {
	ProblemID  int
	Points     int
	Accepted   bool
	Submission SubmissionRecord
}

// Store is the user record store. ApplyVerdict must be atomic with respect to
// concurrent calls for the same user id.
type Store interface {
	// Register creates a named user record. Fails with UsernameExists or
	// AlreadyRegistered.
	Register(ctx context.Context, id, username, gmail string) error

	// IsRegistered reports whether the user completed registration.
	IsRegistered(ctx context.Context, id string) (bool, error)

	// EnsureUser creates a zero-valued record if the user is unknown.
	EnsureUser(ctx context.Context, id string) error

	// Get returns the user's record, or a RecordNotFound error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all user records.
	List(ctx context.Context) ([]*Record, error)

	// ApplyVerdict atomically applies one judged submission: always bumps
	// the submission count and appends the record; awards points and moves
	// the problem into the accepted set only on the first accept; adds the
	// problem to the wrong set only if it is in neither set.
	ApplyVerdict(ctx context.Context, id string, upd VerdictUpdate) error
}
