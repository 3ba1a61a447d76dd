package rating

import (
	"context"
	"testing"

	"github.com/mashrafi141/my-judge-webapp2/internal/judge"
	"github.com/mashrafi141/my-judge-webapp2/internal/problem"
	"github.com/mashrafi141/my-judge-webapp2/internal/user"
)

func easyProblem() *problem.Problem {
	return &problem.Problem{ID: 10, Name: "Sum", Level: "Easy"}
}

func TestPointsForLevel(t *testing.T) {
	cases := map[string]int{
		"Easy":     5,
		"Medium":   10,
		"Medium++": 15,
		"Hard":     20,
		"Legend":   0,
	}
	for level, want := range cases {
		if got := PointsForLevel(level); got != want {
			t.Fatalf("PointsForLevel(%s) = %d, want %d", level, got, want)
		}
	}
}

func TestApplyVerdictAwardsOnce(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	ledger := NewLedger(store)

	accepted := judge.Verdict{Kind: judge.VerdictAccepted}
	if err := ledger.ApplyVerdict(ctx, "u1", "py", easyProblem(), accepted); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := ledger.ApplyVerdict(ctx, "u1", "py", easyProblem(), accepted); err != nil {
		t.Fatalf("apply: %v", err)
	}

	rec, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Rating != 5 {
		t.Fatalf("easy accept must award 5 exactly once, got %d", rec.Rating)
	}
	if rec.SubmissionCount != 2 {
		t.Fatalf("both submissions must be counted, got %d", rec.SubmissionCount)
	}
}

func TestApplyVerdictRecordsFailure(t *testing.T) {
	ctx := context.Background()
	store := user.NewMemoryStore()
	ledger := NewLedger(store)

	tle := judge.Verdict{Kind: judge.VerdictTimeLimitExceeded}
	if err := ledger.ApplyVerdict(ctx, "u1", "cpp", easyProblem(), tle); err != nil {
		t.Fatalf("apply: %v", err)
	}

	rec, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Rating != 0 {
		t.Fatalf("failed submission must not award points: %d", rec.Rating)
	}
	if len(rec.Wrong) != 1 || rec.Wrong[0] != 10 {
		t.Fatalf("problem must land in the wrong set: %v", rec.Wrong)
	}
	if len(rec.Submissions) != 1 {
		t.Fatalf("submission history wrong: %v", rec.Submissions)
	}
	sub := rec.Submissions[0]
	if sub.Verdict != "Time Limit Exceeded" || sub.Language != "cpp" || sub.ProblemName != "Sum" {
		t.Fatalf("submission record wrong: %+v", sub)
	}
	if sub.SubmittedAt == "" {
		t.Fatal("submission timestamp missing")
	}
}
