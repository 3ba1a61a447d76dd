// Package rating turns verdicts into user-state mutations. The ledger is
// idempotent per (user, problem) for the accepted award: resubmitting a solved
// problem bumps the submission count but never the rating.
package rating

import (
	"context"

	"github.com/mashrafi141/my-judge-webapp2/internal/judge"
	"github.com/mashrafi141/my-judge-webapp2/internal/problem"
	"github.com/mashrafi141/my-judge-webapp2/internal/user"
	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"
)

// levelPoints maps a problem level to its award.
var levelPoints = map[string]int{
	"Easy":     5,
	"Medium":   10,
	"Medium++": 15,
	"Hard":     20,
}

// PointsForLevel returns the award for a level; unknown levels award nothing.
func PointsForLevel(level string) int {
	return levelPoints[level]
}

// Ledger applies verdicts to user records through the store's atomic update.
type Ledger struct {
	store user.Store
}

// NewLedger creates a ledger over the given user store.
func NewLedger(store user.Store) *Ledger {
	return &Ledger{store: store}
}

// ApplyVerdict records one judged submission for the user. The submission
// count and history always grow; the rating, accepted set and wrong set only
// change per the idempotence rules enforced by the store's atomic op.
func (l *Ledger) ApplyVerdict(ctx context.Context, userID, language string, prob *problem.Problem, verdict judge.Verdict) error {
	if err := l.store.EnsureUser(ctx, userID); err != nil {
		return appErr.Wrapf(err, appErr.RatingUpdateFailed, "ensure user %s failed", userID)
	}

	upd := user.VerdictUpdate{
		ProblemID: prob.ID,
		Points:    PointsForLevel(prob.Level),
		Accepted:  verdict.Accepted(),
		Submission: user.SubmissionRecord{
			ProblemID:   prob.ID,
			ProblemName: prob.DisplayName(),
			Verdict:     verdict.Kind.Label(),
			Language:    language,
			SubmittedAt: user.Now(),
		},
	}
	return l.store.ApplyVerdict(ctx, userID, upd)
}
