package user

import (
	"context"
	"testing"

	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"
)

func acceptUpdate(problemID, points int) VerdictUpdate {
	return VerdictUpdate{
		ProblemID: problemID,
		Points:    points,
		Accepted:  true,
		Submission: SubmissionRecord{
			ProblemID: problemID,
			Verdict:   "Accepted",
			Language:  "py",
		},
	}
}

func wrongUpdate(problemID int) VerdictUpdate {
	return VerdictUpdate{
		ProblemID: problemID,
		Points:    5,
		Accepted:  false,
		Submission: SubmissionRecord{
			ProblemID: problemID,
			Verdict:   "Wrong Answer",
			Language:  "py",
		},
	}
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Register(ctx, "u1", "alice", "a@gmail.com"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Register(ctx, "u2", "alice", "b@gmail.com"); !appErr.Is(err, appErr.UsernameExists) {
		t.Fatalf("expected UsernameExists, got %v", err)
	}
	if err := s.Register(ctx, "u1", "alice2", "a@gmail.com"); !appErr.Is(err, appErr.AlreadyRegistered) {
		t.Fatalf("expected AlreadyRegistered, got %v", err)
	}
}

func TestApplyVerdictAcceptIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.ApplyVerdict(ctx, "u1", acceptUpdate(10, 5)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := s.ApplyVerdict(ctx, "u1", acceptUpdate(10, 5)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	rec, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Rating != 5 || rec.TotalPoints != 5 {
		t.Fatalf("points awarded more than once: rating=%d total=%d", rec.Rating, rec.TotalPoints)
	}
	if rec.SubmissionCount != 2 || len(rec.Submissions) != 2 {
		t.Fatalf("submission count must grow every time: count=%d", rec.SubmissionCount)
	}
	if len(rec.Accepted) != 1 || rec.Accepted[0] != 10 {
		t.Fatalf("accepted set wrong: %v", rec.Accepted)
	}
}

func TestApplyVerdictWrongAddedOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := 0; i < 3; i++ {
		if err := s.ApplyVerdict(ctx, "u1", wrongUpdate(10)); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	rec, _ := s.Get(ctx, "u1")
	if len(rec.Wrong) != 1 {
		t.Fatalf("wrong set should hold the problem once: %v", rec.Wrong)
	}
	if rec.Rating != 0 {
		t.Fatalf("wrong answers must not award points: %d", rec.Rating)
	}
}

func TestApplyVerdictAcceptClearsWrong(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.ApplyVerdict(ctx, "u1", wrongUpdate(10))
	_ = s.ApplyVerdict(ctx, "u1", acceptUpdate(10, 5))

	rec, _ := s.Get(ctx, "u1")
	if len(rec.Wrong) != 0 {
		t.Fatalf("problem must leave the wrong set once accepted: %v", rec.Wrong)
	}
	if len(rec.Accepted) != 1 {
		t.Fatalf("accepted set wrong: %v", rec.Accepted)
	}
	if rec.Rating != 5 {
		t.Fatalf("first accept must award points: %d", rec.Rating)
	}
}

func TestWrongAfterAcceptIgnored(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.ApplyVerdict(ctx, "u1", acceptUpdate(10, 5))
	_ = s.ApplyVerdict(ctx, "u1", wrongUpdate(10))

	rec, _ := s.Get(ctx, "u1")
	if len(rec.Wrong) != 0 {
		t.Fatalf("solved problem must never enter the wrong set: %v", rec.Wrong)
	}
	if len(rec.Accepted) != 1 {
		t.Fatalf("accepted set must be untouched: %v", rec.Accepted)
	}
}

func TestGetUnknownUser(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "ghost"); !appErr.Is(err, appErr.RecordNotFound) {
		t.Fatalf("expected RecordNotFound, got %v", err)
	}
}

func TestAveragePoints(t *testing.T) {
	rec := &Record{TotalPoints: 10, SubmissionCount: 3}
	if got := rec.AveragePoints(); got != 3.33 {
		t.Fatalf("average = %v, want 3.33", got)
	}
	empty := &Record{}
	if empty.AveragePoints() != 0 {
		t.Fatal("zero submissions must average to zero")
	}
}
