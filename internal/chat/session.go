// Package chat implements the interactive command-line ingress. It speaks the
// same command set as the chat bot surface: register, browse problems, submit
// code and poll the resulting job.
package chat

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mashrafi141/my-judge-webapp2/internal/jobqueue"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge/lang"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge/runner"
	"github.com/mashrafi141/my-judge-webapp2/internal/problem"
	"github.com/mashrafi141/my-judge-webapp2/internal/ranking"
	"github.com/mashrafi141/my-judge-webapp2/internal/user"
	"github.com/mashrafi141/my-judge-webapp2/internal/worker"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/shlex"
)

const (
	itemsPerPage = 10

	// codeTerminator ends multi-line code entry.
	codeTerminator = "/end"

	pollInterval = 300 * time.Millisecond
	pollTimeout  = 2 * time.Minute
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	noticeColor = color.New(color.FgYellow)
	promptColor = color.New(color.FgBlue)
)

// Session is one interactive user session.
type Session struct {
	userID   string
	problems *problem.FileStore
	langs    *lang.Registry
	users    user.Store
	queue    *jobqueue.Queue
	judge    *judge.Judge

	rl  *readline.Instance
	out io.Writer
}

// New creates a session for the given user id.
func New(userID string, problems *problem.FileStore, langs *lang.Registry, users user.Store, queue *jobqueue.Queue, j *judge.Judge) (*Session, error) {
	rl, err := readline.New(promptColor.Sprint("judge> "))
	if err != nil {
		return nil, fmt.Errorf("init readline failed: %w", err)
	}
	return &Session{
		userID:   userID,
		problems: problems,
		langs:    langs,
		users:    users,
		queue:    queue,
		judge:    j,
		rl:       rl,
		out:      rl.Stdout(),
	}, nil
}

// Run reads and dispatches commands until EOF or /exit.
func (s *Session) Run(ctx context.Context) error {
	defer s.rl.Close()
	s.cmdStart()
	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/exit" || line == "/quit" {
			fmt.Fprintln(s.out, "bye")
			return nil
		}
		if err := s.dispatch(ctx, line); err != nil {
			failColor.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *Session) dispatch(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	cmd, args := tokens[0], tokens[1:]
	switch cmd {
	case "/start", "/help":
		s.cmdStart()
	case "/register":
		return s.cmdRegister(ctx, args)
	case "/problems":
		return s.cmdProblems(args)
	case "/problem":
		return s.cmdProblem(args)
	case "/submit":
		return s.cmdSubmit(ctx, args)
	case "/run":
		return s.cmdRun(ctx, args)
	case "/history":
		return s.cmdHistory(ctx, args)
	case "/rating", "/profile":
		return s.cmdProfile(ctx)
	case "/rankings":
		return s.cmdRankings(ctx, args)
	default:
		return fmt.Errorf("unknown command %s, try /help", cmd)
	}
	return nil
}

func (s *Session) cmdStart() {
	headerColor.Fprintln(s.out, "Welcome to the judge!")
	fmt.Fprintln(s.out, "  /register <username> <gmail>   create your account")
	fmt.Fprintln(s.out, "  /problems [page]               browse problems")
	fmt.Fprintln(s.out, "  /problem <id>                  show one problem")
	fmt.Fprintf(s.out, "  /submit <id> <lang>            submit code, end with %s\n", codeTerminator)
	fmt.Fprintf(s.out, "  /run <lang>                    run code on custom input, end each part with %s\n", codeTerminator)
	fmt.Fprintln(s.out, "  /history [page]                your submissions")
	fmt.Fprintln(s.out, "  /profile                       your rating and stats")
	fmt.Fprintln(s.out, "  /rankings [page]               the leaderboard")
	fmt.Fprintln(s.out, "  /exit                          leave")
}

func (s *Session) cmdRegister(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: /register <username> <gmail>")
	}
	if err := s.users.Register(ctx, s.userID, args[0], args[1]); err != nil {
		return err
	}
	okColor.Fprintf(s.out, "registered as %s\n", args[0])
	return nil
}

func (s *Session) cmdProblems(args []string) error {
	all := s.problems.ListAll()
	if len(all) == 0 {
		noticeColor.Fprintln(s.out, "no problems loaded")
		return nil
	}
	page := pageArg(args)
	start, end, pages := pageBounds(len(all), page)
	headerColor.Fprintf(s.out, "Problems (page %d/%d)\n", page, pages)
	for _, p := range all[start:end] {
		fmt.Fprintf(s.out, "  %4d  %-30s %-12s %-8s %d pts\n", p.ID, p.DisplayName(), p.Category, p.Level, p.Points)
	}
	return nil
}

func (s *Session) cmdProblem(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: /problem <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid problem id %q", args[0])
	}
	p, ok := s.problems.FindByID(id)
	if !ok {
		return fmt.Errorf("problem %d not found", id)
	}
	headerColor.Fprintf(s.out, "%d. %s [%s / %s, %d pts]\n", p.ID, p.DisplayName(), p.Category, p.Level, p.Points)
	if p.Statement != "" {
		fmt.Fprintln(s.out, p.Statement)
	}
	return nil
}

func (s *Session) cmdSubmit(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: /submit <problem id> <lang>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid problem id %q", args[0])
	}
	if _, ok := s.problems.FindByID(id); !ok {
		return fmt.Errorf("problem %d not found", id)
	}
	language := args[1]
	if !s.langs.Supported(language) {
		return fmt.Errorf("unsupported language %q, supported: %s", language, strings.Join(s.langs.IDs(), ", "))
	}
	registered, err := s.users.IsRegistered(ctx, s.userID)
	if err != nil {
		return err
	}
	if !registered {
		return fmt.Errorf("register first with /register <username> <gmail>")
	}

	code, err := s.readBlock(fmt.Sprintf("paste your code, finish with %s", codeTerminator))
	if err != nil {
		return err
	}
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("empty submission")
	}

	jobID := s.queue.CreateJob(jobqueue.Payload{
		UserID:    s.userID,
		ProblemID: id,
		Language:  language,
		Code:      code,
	})
	noticeColor.Fprintf(s.out, "queued as job %s, judging...\n", jobID)
	return s.awaitJob(ctx, jobID)
}

func (s *Session) cmdRun(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: /run <lang>")
	}
	language := args[0]
	if !s.langs.Supported(language) {
		return fmt.Errorf("unsupported language %q, supported: %s", language, strings.Join(s.langs.IDs(), ", "))
	}
	code, err := s.readBlock(fmt.Sprintf("paste your code, finish with %s", codeTerminator))
	if err != nil {
		return err
	}
	input, err := s.readBlock(fmt.Sprintf("paste the input, finish with %s", codeTerminator))
	if err != nil {
		return err
	}

	outcome := s.judge.RunCustom(ctx, language, code, input)
	if outcome.Kind == runner.OutcomeOutput {
		okColor.Fprintln(s.out, "output:")
		fmt.Fprintln(s.out, outcome.Output)
		return nil
	}
	failColor.Fprintf(s.out, "%s\n", outcome.Kind)
	if outcome.Message != "" {
		fmt.Fprintln(s.out, outcome.Message)
	}
	return nil
}

func (s *Session) cmdHistory(ctx context.Context, args []string) error {
	rec, err := s.users.Get(ctx, s.userID)
	if err != nil {
		return err
	}
	subs := rec.Submissions
	if len(subs) == 0 {
		noticeColor.Fprintln(s.out, "no submissions yet")
		return nil
	}
	// most recent first
	reversed := make([]user.SubmissionRecord, len(subs))
	for i, sub := range subs {
		reversed[len(subs)-1-i] = sub
	}
	page := pageArg(args)
	start, end, pages := pageBounds(len(reversed), page)
	headerColor.Fprintf(s.out, "History (page %d/%d)\n", page, pages)
	for _, sub := range reversed[start:end] {
		fmt.Fprintf(s.out, "  %-20s %-30s %-20s %s\n", sub.SubmittedAt, sub.ProblemName, sub.Verdict, sub.Language)
	}
	return nil
}

func (s *Session) cmdProfile(ctx context.Context) error {
	rec, err := s.users.Get(ctx, s.userID)
	if err != nil {
		return err
	}
	headerColor.Fprintf(s.out, "%s\n", rec.Username)
	fmt.Fprintf(s.out, "  rating:          %d\n", rec.Rating)
	fmt.Fprintf(s.out, "  total points:    %d\n", rec.TotalPoints)
	fmt.Fprintf(s.out, "  submissions:     %d\n", rec.SubmissionCount)
	fmt.Fprintf(s.out, "  average points:  %.2f\n", rec.AveragePoints())
	fmt.Fprintf(s.out, "  solved:          %d\n", len(rec.Accepted))
	fmt.Fprintf(s.out, "  unsolved tried:  %d\n", len(rec.Wrong))
	return nil
}

func (s *Session) cmdRankings(ctx context.Context, args []string) error {
	records, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	entries := ranking.Rank(records)
	if len(entries) == 0 {
		noticeColor.Fprintln(s.out, "no users yet")
		return nil
	}
	page := pageArg(args)
	start, end, pages := pageBounds(len(entries), page)
	headerColor.Fprintf(s.out, "Rankings (page %d/%d)\n", page, pages)
	for _, e := range entries[start:end] {
		name := e.User.Username
		if name == "" {
			name = e.User.ID
		}
		fmt.Fprintf(s.out, "  #%-4d %-24s rating %-6d wrong %d\n", e.Rank, name, e.User.Rating, len(e.User.Wrong))
	}
	return nil
}

// readBlock collects lines until the terminator.
func (s *Session) readBlock(prompt string) (string, error) {
	noticeColor.Fprintln(s.out, prompt)
	var lines []string
	for {
		line, err := s.rl.Readline()
		if err != nil {
			return "", fmt.Errorf("read input failed: %w", err)
		}
		if strings.TrimSpace(line) == codeTerminator {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
}

// awaitJob polls the queue until the job finishes and prints the verdict.
func (s *Session) awaitJob(ctx context.Context, jobID string) error {
	deadline := time.Now().Add(pollTimeout)
	for {
		snap, ok := s.queue.GetJob(jobID)
		if !ok {
			return fmt.Errorf("job %s disappeared", jobID)
		}
		if snap.Status.Terminal() {
			s.printResult(snap)
			return nil
		}
		if time.Now().After(deadline) {
			noticeColor.Fprintf(s.out, "job %s still %s, check later with the web API\n", jobID, snap.Status)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (s *Session) printResult(snap jobqueue.Snapshot) {
	if snap.Status == jobqueue.StatusError {
		failColor.Fprintf(s.out, "judging failed: %s\n", snap.Error)
		return
	}
	result, ok := snap.Result.(worker.Result)
	if !ok {
		okColor.Fprintln(s.out, "done")
		return
	}
	verdict := result.Verdict
	if verdict.Accepted() {
		okColor.Fprintf(s.out, "%s\n", result.Label)
		return
	}
	failColor.Fprintf(s.out, "%s\n", result.Label)
	if verdict.Message != "" {
		fmt.Fprintln(s.out, verdict.Message)
	}
	if verdict.Kind == judge.VerdictWrongAnswer {
		fmt.Fprintf(s.out, "input:\n%s\n", verdict.TestInput)
		fmt.Fprintf(s.out, "expected:\n%s\n", verdict.Expected)
		fmt.Fprintf(s.out, "got:\n%s\n", verdict.Actual)
	}
}

func pageArg(args []string) int {
	if len(args) == 0 {
		return 1
	}
	page, err := strconv.Atoi(args[0])
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func pageBounds(total, page int) (start, end, pages int) {
	pages = (total + itemsPerPage - 1) / itemsPerPage
	if pages == 0 {
		pages = 1
	}
	if page > pages {
		page = pages
	}
	start = (page - 1) * itemsPerPage
	end = start + itemsPerPage
	if end > total {
		end = total
	}
	return start, end, pages
}
