// Package worker implements the job processing function run by the queue's
// worker pool: judge the submission, settle the rating, archive the result.
package worker

import (
	"context"

	"github.com/mashrafi141/my-judge-webapp2/internal/jobqueue"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge"
	"github.com/mashrafi141/my-judge-webapp2/internal/problem"
	"github.com/mashrafi141/my-judge-webapp2/internal/rating"
	"github.com/mashrafi141/my-judge-webapp2/internal/submission"
	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"

	"github.com/google/uuid"
)

// Result is what a finished job carries back to pollers.
type Result struct {
	ProblemID int           `json:"problem_id"`
	Verdict   judge.Verdict `json:"verdict"`
	Label     string        `json:"label"`
}

// Processor judges queued submissions. Recorder may be nil.
type Processor struct {
	problems problem.Store
	judge    *judge.Judge
	ledger   *rating.Ledger
	recorder *submission.Recorder
}

// New creates a processor.
func New(problems problem.Store, j *judge.Judge, ledger *rating.Ledger, recorder *submission.Recorder) *Processor {
	return &Processor{problems: problems, judge: j, ledger: ledger, recorder: recorder}
}

// Process judges one payload. The verdict itself is never an error: a wrong
// answer is a done job. Only infrastructure failures move the job to error.
func (p *Processor) Process(ctx context.Context, payload jobqueue.Payload) (interface{}, error) {
	prob, ok := p.problems.FindByID(payload.ProblemID)
	if !ok {
		return nil, appErr.Newf(appErr.ProblemNotFound, "problem %d not found", payload.ProblemID)
	}

	verdict := p.judge.Judge(ctx, prob, payload.Language, payload.Code)

	if err := p.ledger.ApplyVerdict(ctx, payload.UserID, payload.Language, prob, verdict); err != nil {
		return nil, err
	}

	if p.recorder.Enabled() {
		p.recorder.Record(ctx, uuid.NewString(), payload.UserID, prob.ID, payload.Language, payload.Code, verdict.Kind.Label())
	}

	return Result{
		ProblemID: prob.ID,
		Verdict:   verdict,
		Label:     verdict.Kind.Label(),
	}, nil
}
