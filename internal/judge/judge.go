// Package judge drives the runner and comparator across a problem's test
// cases and produces a single verdict per submission.
package judge

import (
	"context"
	"time"

	"github.com/mashrafi141/my-judge-webapp2/internal/judge/compare"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge/runner"
	"github.com/mashrafi141/my-judge-webapp2/internal/problem"
)

// VerdictKind is the closed outcome classification of a judged submission.
type VerdictKind string

const (
	VerdictAccepted            VerdictKind = "AC"
	VerdictWrongAnswer         VerdictKind = "WA"
	VerdictRuntimeError        VerdictKind = "RE"
	VerdictCompileError        VerdictKind = "CE"
	VerdictTimeLimitExceeded   VerdictKind = "TLE"
	VerdictUnsupportedLanguage VerdictKind = "UL"
	VerdictInternalError       VerdictKind = "SE"
)

var verdictLabels = map[VerdictKind]string{
	VerdictAccepted:            "Accepted",
	VerdictWrongAnswer:         "Wrong Answer",
	VerdictRuntimeError:        "Runtime Error",
	VerdictCompileError:        "Compile Error",
	VerdictTimeLimitExceeded:   "Time Limit Exceeded",
	VerdictUnsupportedLanguage: "Unsupported Language",
	VerdictInternalError:       "Internal Error",
}

// Label returns the human-readable verdict name.
func (k VerdictKind) Label() string {
	if label, ok := verdictLabels[k]; ok {
		return label
	}
	return string(k)
}

// Verdict is the outcome of judging one submission. Message carries the
// compiler diagnostic or captured stderr for failure kinds. For a wrong
// answer, TestInput/Expected/Actual describe the first failing test case only.
type Verdict struct {
	Kind      VerdictKind `json:"kind"`
	Message   string      `json:"message,omitempty"`
	TestInput string      `json:"test_input,omitempty"`
	Expected  string      `json:"expected,omitempty"`
	Actual    string      `json:"actual,omitempty"`
}

// Accepted reports whether the verdict is an accept.
func (v Verdict) Accepted() bool {
	return v.Kind == VerdictAccepted
}

// Runner abstracts the execution backend.
type Runner interface {
	Execute(ctx context.Context, req runner.Request) runner.Outcome
}

// Judge is the orchestrator. It is stateless: all user-state mutation happens
// downstream of the verdict.
type Judge struct {
	runner    Runner
	timeLimit time.Duration
}

// New creates a judge with the default per-test time limit.
func New(r Runner) *Judge {
	return NewWithTimeLimit(r, runner.DefaultTimeLimit)
}

// NewWithTimeLimit creates a judge with an explicit per-test time limit.
func NewWithTimeLimit(r Runner, timeLimit time.Duration) *Judge {
	if timeLimit <= 0 {
		timeLimit = runner.DefaultTimeLimit
	}
	return &Judge{runner: r, timeLimit: timeLimit}
}

// Judge runs the submission against the problem's test cases in order,
// stopping at the first non-accepting outcome. A wrong answer reports the
// first failing test case's normalized expected and actual output.
func (j *Judge) Judge(ctx context.Context, prob *problem.Problem, language, code string) Verdict {
	// Aggregate ceiling: one submission may not hold a worker longer than
	// the per-test limit times the number of tests, plus compile headroom.
	deadline := j.timeLimit * time.Duration(len(prob.TestCases)+1)
	ctx, cancel := context.WithTimeout(ctx, deadline+runner.DefaultTimeLimit)
	defer cancel()

	for _, tc := range prob.TestCases {
		outcome := j.runner.Execute(ctx, runner.Request{
			Language:  language,
			Source:    code,
			Stdin:     tc.Input,
			TimeLimit: j.timeLimit,
		})

		if outcome.Kind != runner.OutcomeOutput {
			return verdictFromOutcome(outcome)
		}

		if !compare.Equal(tc.Output, outcome.Output, prob.AllowUnorderedOutput) {
			return Verdict{
				Kind:      VerdictWrongAnswer,
				TestInput: tc.Input,
				Expected:  compare.NormalizeText(tc.Output),
				Actual:    compare.NormalizeText(outcome.Output),
			}
		}
	}

	return Verdict{Kind: VerdictAccepted}
}

// RunCustom executes code against caller-provided input with no judging and
// no side effects. Used by the "run with custom input" ingress path.
func (j *Judge) RunCustom(ctx context.Context, language, code, stdin string) runner.Outcome {
	return j.runner.Execute(ctx, runner.Request{
		Language:  language,
		Source:    code,
		Stdin:     stdin,
		TimeLimit: j.timeLimit,
	})
}

func verdictFromOutcome(outcome runner.Outcome) Verdict {
	switch outcome.Kind {
	case runner.OutcomeCompileError:
		return Verdict{Kind: VerdictCompileError, Message: outcome.Message}
	case runner.OutcomeRuntimeError:
		return Verdict{Kind: VerdictRuntimeError, Message: outcome.Message}
	case runner.OutcomeTimeLimit:
		return Verdict{Kind: VerdictTimeLimitExceeded}
	case runner.OutcomeUnsupported:
		return Verdict{Kind: VerdictUnsupportedLanguage, Message: outcome.Message}
	default:
		return Verdict{Kind: VerdictInternalError, Message: outcome.Message}
	}
}
