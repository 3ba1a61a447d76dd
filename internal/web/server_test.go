package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mashrafi141/my-judge-webapp2/internal/jobqueue"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge/lang"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge/runner"
	"github.com/mashrafi141/my-judge-webapp2/internal/problem"
	"github.com/mashrafi141/my-judge-webapp2/internal/rating"
	"github.com/mashrafi141/my-judge-webapp2/internal/user"
	"github.com/mashrafi141/my-judge-webapp2/internal/worker"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// echoRunner answers with the submitted source as output, so a test can steer
// the verdict by submitting the expected output as "code".
type echoRunner struct{}

func (echoRunner) Execute(ctx context.Context, req runner.Request) runner.Outcome {
	return runner.Outcome{Kind: runner.OutcomeOutput, Output: req.Source}
}

type testEnv struct {
	router *gin.Engine
	queue  *jobqueue.Queue
	users  user.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	problems := []*problem.Problem{
		{ID: 1, Name: "Echo", Category: "Basics", Level: "Easy",
			TestCases: []problem.TestCase{{Input: "x", Output: "expected"}}},
		{ID: 2, Name: "Other", Category: "Basics", Level: "Hard",
			TestCases: []problem.TestCase{{Input: "y", Output: "other"}}},
	}
	data, err := json.Marshal(problems)
	if err != nil {
		t.Fatalf("marshal problems: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "problems_1_20.json"), data, 0644); err != nil {
		t.Fatalf("write problems: %v", err)
	}
	store, err := problem.NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	users := user.NewMemoryStore()
	langs := lang.NewRegistry(nil)
	j := judge.New(echoRunner{})
	queue := jobqueue.New(1)
	proc := worker.New(store, j, rating.NewLedger(users), nil)
	queue.StartWorkersOnce(context.Background(), proc.Process)
	t.Cleanup(queue.Close)

	router := NewRouter(Deps{
		Problems: store,
		Langs:    langs,
		Users:    users,
		Queue:    queue,
		Judge:    j,
	})
	return &testEnv{router: router, queue: queue, users: users}
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodGet, "/", "", nil); w.Code != 200 || w.Body.String() != "I am alive!" {
		t.Fatalf("root probe: %d %q", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodGet, "/ping", "", nil); w.Code != 200 || w.Body.String() != "pong" {
		t.Fatalf("ping probe: %d %q", w.Code, w.Body.String())
	}
}

func TestProblemEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/problems", "", nil)
	if w.Code != 200 {
		t.Fatalf("list problems: %d", w.Code)
	}
	var summaries []problem.Summary
	if err := json.Unmarshal(decode(t, w).Data, &summaries); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(summaries) != 2 || summaries[0].ID != 1 {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}

	if w := env.do(t, http.MethodGet, "/api/problem/999", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing problem should 404, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/problem/abc", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id should 400, got %d", w.Code)
	}
}

func TestSubmitRequiresRegistration(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]interface{}{"problem_id": 1, "lang": "py", "code": "expected"}
	if w := env.do(t, http.MethodPost, "/api/submit", "u1", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("unregistered submit should 401, got %d", w.Code)
	}
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "u1", "alice")

	body := map[string]interface{}{"problem_id": 1, "lang": "brainfuck", "code": "x"}
	if w := env.do(t, http.MethodPost, "/api/submit", "u1", body); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown language should 400, got %d", w.Code)
	}
	body = map[string]interface{}{"problem_id": 999, "lang": "py", "code": "x"}
	if w := env.do(t, http.MethodPost, "/api/submit", "u1", body); w.Code != http.StatusNotFound {
		t.Fatalf("unknown problem should 404, got %d", w.Code)
	}
}

func TestSubmitAndPollLifecycle(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "u1", "alice")

	body := map[string]interface{}{"problem_id": 1, "lang": "py", "code": "expected"}
	w := env.do(t, http.MethodPost, "/api/submit", "u1", body)
	if w.Code != 200 {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &created); err != nil || created.JobID == "" {
		t.Fatalf("no job id in response: %s", w.Body.String())
	}

	snap := pollJob(t, env, created.JobID)
	if snap.Status != string(jobqueue.StatusDone) {
		t.Fatalf("job did not finish: %+v", snap)
	}

	// the accept settled the rating
	rec, err := env.users.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if rec.Rating != 5 {
		t.Fatalf("easy accept must award 5, got %d", rec.Rating)
	}
}

func TestJobNotFound(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodGet, "/api/job/unknown", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown job should 404, got %d", w.Code)
	}
}

func TestRunCustomInput(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]interface{}{"lang": "py", "code": "hello there", "input": "ignored"}
	w := env.do(t, http.MethodPost, "/api/run", "", body)
	if w.Code != 200 {
		t.Fatalf("run: %d %s", w.Code, w.Body.String())
	}
	var result struct {
		Kind   string `json:"kind"`
		Output string `json:"output"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &result); err != nil {
		t.Fatalf("decode run result: %v", err)
	}
	if result.Kind != string(runner.OutcomeOutput) || result.Output != "hello there" {
		t.Fatalf("unexpected run result: %+v", result)
	}
}

func TestProfileAndRankings(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "u1", "alice")
	register(t, env, "u2", "bob")

	if w := env.do(t, http.MethodGet, "/api/profile", "u1", nil); w.Code != 200 {
		t.Fatalf("profile: %d %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodGet, "/api/profile", "ghost", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown profile should 404, got %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/rankings", "", nil)
	if w.Code != 200 {
		t.Fatalf("rankings: %d", w.Code)
	}
	var page struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &page); err != nil {
		t.Fatalf("decode rankings: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected rankings page: %+v", page)
	}
}

func register(t *testing.T, env *testEnv, userID, username string) {
	t.Helper()
	body := map[string]string{"username": username, "gmail": username + "@gmail.com"}
	if w := env.do(t, http.MethodPost, "/api/register", userID, body); w.Code != 200 {
		t.Fatalf("register %s: %d %s", userID, w.Code, w.Body.String())
	}
}

type jobView struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func pollJob(t *testing.T, env *testEnv, jobID string) jobView {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		w := env.do(t, http.MethodGet, fmt.Sprintf("/api/job/%s", jobID), "", nil)
		if w.Code != 200 {
			t.Fatalf("poll job: %d %s", w.Code, w.Body.String())
		}
		var view jobView
		if err := json.Unmarshal(decode(t, w).Data, &view); err != nil {
			t.Fatalf("decode job: %v", err)
		}
		if view.Status == string(jobqueue.StatusDone) || view.Status == string(jobqueue.StatusError) {
			return view
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job never finished")
	return jobView{}
}
