package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mashrafi141/my-judge-webapp2/internal/judge/lang"
)

func shRegistry() *lang.Registry {
	return lang.NewRegistry([]lang.Spec{
		{
			ID:         "sh",
			SourceFile: "main.sh",
			RunCmdTpl:  "/bin/sh {src}",
		},
	})
}

func TestExecuteUnsupportedLanguage(t *testing.T) {
	r := New(shRegistry(), t.TempDir())
	outcome := r.Execute(context.Background(), Request{Language: "cobol", Source: "x"})
	if outcome.Kind != OutcomeUnsupported {
		t.Fatalf("expected unsupported, got %s", outcome.Kind)
	}
}

func TestExecuteCapturesStdout(t *testing.T) {
	r := New(shRegistry(), t.TempDir())
	outcome := r.Execute(context.Background(), Request{
		Language: "sh",
		Source:   "read x\necho \"got $x\"",
		Stdin:    "42\n",
	})
	if outcome.Kind != OutcomeOutput {
		t.Fatalf("expected output, got %s: %s", outcome.Kind, outcome.Message)
	}
	if strings.TrimSpace(outcome.Output) != "got 42" {
		t.Fatalf("unexpected output %q", outcome.Output)
	}
}

func TestExecuteRuntimeError(t *testing.T) {
	r := New(shRegistry(), t.TempDir())
	outcome := r.Execute(context.Background(), Request{
		Language: "sh",
		Source:   "echo oops >&2\nexit 3",
	})
	if outcome.Kind != OutcomeRuntimeError {
		t.Fatalf("expected runtime error, got %s", outcome.Kind)
	}
	if !strings.Contains(outcome.Message, "oops") {
		t.Fatalf("stderr not captured: %q", outcome.Message)
	}
}

func TestExecuteTimeLimit(t *testing.T) {
	r := New(shRegistry(), t.TempDir())
	start := time.Now()
	outcome := r.Execute(context.Background(), Request{
		Language:  "sh",
		Source:    "sleep 30",
		TimeLimit: 200 * time.Millisecond,
	})
	if outcome.Kind != OutcomeTimeLimit {
		t.Fatalf("expected time limit, got %s", outcome.Kind)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("kill took too long: %s", elapsed)
	}
}

func TestExecuteCanceledDuringCompileIsInternal(t *testing.T) {
	r := New(lang.NewRegistry([]lang.Spec{
		{
			ID:             "slowcc",
			SourceFile:     "main.sh",
			CompileEnabled: true,
			CompileCmdTpl:  "sleep 30",
			RunCmdTpl:      "/bin/sh {src}",
		},
	}), t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	outcome := r.Execute(ctx, Request{Language: "slowcc", Source: "echo hi"})
	if outcome.Kind != OutcomeInternal {
		t.Fatalf("caller cancellation must not read as a compile error, got %s: %s", outcome.Kind, outcome.Message)
	}
}

func TestExecuteCleansWorkDir(t *testing.T) {
	workRoot := t.TempDir()
	r := New(shRegistry(), workRoot)
	outcome := r.Execute(context.Background(), Request{Language: "sh", Source: "echo hi"})
	if outcome.Kind != OutcomeOutput {
		t.Fatalf("expected output, got %s", outcome.Kind)
	}
	entries, err := os.ReadDir(workRoot)
	if err != nil {
		t.Fatalf("read work root: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "submission-") {
			t.Fatalf("work dir leaked: %s", filepath.Join(workRoot, entry.Name()))
		}
	}
}
