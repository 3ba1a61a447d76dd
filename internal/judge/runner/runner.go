// Package runner compiles and executes one submission against one input under
// a wall-clock limit. Every call gets a fresh working directory that is
// removed on every exit path; timed-out process trees are killed as a group so
// nothing leaks past the call boundary.
package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mashrafi141/my-judge-webapp2/internal/judge/lang"
	"github.com/mashrafi141/my-judge-webapp2/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	// DefaultTimeLimit is the per-test wall-clock limit when the problem
	// does not override it.
	DefaultTimeLimit = 3 * time.Second

	compileTimeout = 20 * time.Second
	maxCaptureSize = 64 << 10
)

// OutcomeKind classifies the result of one execution.
type OutcomeKind string

const (
	OutcomeOutput       OutcomeKind = "output"
	OutcomeCompileError OutcomeKind = "compile_error"
	OutcomeRuntimeError OutcomeKind = "runtime_error"
	OutcomeTimeLimit    OutcomeKind = "time_limit_exceeded"
	OutcomeUnsupported  OutcomeKind = "unsupported_language"
	OutcomeInternal     OutcomeKind = "internal_error"
)

// Outcome is the classified result of running a submission against one input.
// Output holds captured stdout for OutcomeOutput; Message holds the compiler
// diagnostic, captured stderr, or failure description for the other kinds.
type Outcome struct {
	Kind    OutcomeKind
	Output  string
	Message string
}

// Request describes one execution.
type Request struct {
	Language  string
	Source    string
	Stdin     string
	TimeLimit time.Duration
}

// Runner executes submissions in single-use working directories.
type Runner struct {
	langs    *lang.Registry
	workRoot string
}

// New creates a runner. workRoot may be empty, in which case the system temp
// directory is used.
func New(langs *lang.Registry, workRoot string) *Runner {
	return &Runner{langs: langs, workRoot: workRoot}
}

// Execute materializes the source, compiles it if the language requires it,
// and runs it with stdin piped in under the wall-clock limit. An unrecognized
// language tag is rejected before any filesystem activity.
func (r *Runner) Execute(ctx context.Context, req Request) Outcome {
	spec, err := r.langs.Lookup(req.Language)
	if err != nil {
		return Outcome{Kind: OutcomeUnsupported, Message: err.Error()}
	}

	workDir, err := os.MkdirTemp(r.workRoot, "submission-")
	if err != nil {
		return Outcome{Kind: OutcomeInternal, Message: "create work dir failed: " + err.Error()}
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			logger.Warn(ctx, "cleanup work dir failed", zap.String("dir", workDir), zap.Error(rmErr))
		}
	}()

	sourcePath := filepath.Join(workDir, spec.SourceFile)
	if err := os.WriteFile(sourcePath, []byte(req.Source), 0644); err != nil {
		return Outcome{Kind: OutcomeInternal, Message: "write source failed: " + err.Error()}
	}

	if spec.CompileEnabled {
		if outcome, ok := r.compile(ctx, spec, workDir); !ok {
			return outcome
		}
	}

	return r.run(ctx, spec, workDir, req)
}

func (r *Runner) compile(ctx context.Context, spec lang.Spec, workDir string) (Outcome, bool) {
	argv, err := lang.BuildCommand(spec.CompileCmdTpl, spec, workDir)
	if err != nil {
		return Outcome{Kind: OutcomeInternal, Message: err.Error()}, false
	}

	compileCtx, cancel := context.WithTimeout(ctx, compileTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(compileCtx, argv[0], argv[1:]...)
	cmd.Dir = workDir
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Outcome{Kind: OutcomeInternal, Message: "execution canceled: " + ctx.Err().Error()}, false
		}
		if compileCtx.Err() != nil {
			return Outcome{Kind: OutcomeCompileError, Message: "compiler timed out"}, false
		}
		diag := truncate(strings.TrimSpace(stderr.String()))
		if diag == "" {
			diag = err.Error()
		}
		return Outcome{Kind: OutcomeCompileError, Message: diag}, false
	}
	return Outcome{}, true
}

func (r *Runner) run(ctx context.Context, spec lang.Spec, workDir string, req Request) Outcome {
	argv, err := lang.BuildCommand(spec.RunCmdTpl, spec, workDir)
	if err != nil {
		return Outcome{Kind: OutcomeInternal, Message: err.Error()}
	}

	limit := req.TimeLimit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = workDir
	cmd.Stdin = strings.NewReader(req.Stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = sysProcAttr()

	if err := cmd.Start(); err != nil {
		return Outcome{Kind: OutcomeInternal, Message: "start process failed: " + err.Error()}
	}

	var timedOut atomic.Bool
	done := make(chan struct{})
	go func() {
		select {
		case <-time.After(limit):
			timedOut.Store(true)
			killProcessTree(cmd)
		case <-ctx.Done():
			killProcessTree(cmd)
		case <-done:
		}
	}()

	waitErr := cmd.Wait()
	close(done)

	if timedOut.Load() {
		return Outcome{Kind: OutcomeTimeLimit, Message: "time limit exceeded"}
	}
	if ctx.Err() != nil {
		return Outcome{Kind: OutcomeInternal, Message: "execution canceled: " + ctx.Err().Error()}
	}
	if waitErr != nil {
		msg := truncate(strings.TrimSpace(stderr.String()))
		if msg == "" {
			msg = waitErr.Error()
		}
		return Outcome{Kind: OutcomeRuntimeError, Message: msg}
	}

	return Outcome{Kind: OutcomeOutput, Output: truncate(stdout.String())}
}

func truncate(s string) string {
	if len(s) <= maxCaptureSize {
		return s
	}
	return s[:maxCaptureSize]
}
