package controller

import (
	"github.com/mashrafi141/my-judge-webapp2/internal/jobqueue"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge/lang"
	"github.com/mashrafi141/my-judge-webapp2/internal/problem"
	"github.com/mashrafi141/my-judge-webapp2/internal/submission"
	"github.com/mashrafi141/my-judge-webapp2/internal/user"
	"github.com/mashrafi141/my-judge-webapp2/internal/web/middleware"
	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"
	"github.com/mashrafi141/my-judge-webapp2/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

const (
	maxCodeSize        = 64 << 10
	maxCustomInputSize = 16 << 10
)

// JudgeController handles submissions, custom runs and job polling.
type JudgeController struct {
	problems problem.Store
	langs    *lang.Registry
	users    user.Store
	queue    *jobqueue.Queue
	judge    *judge.Judge
	archive  submission.Model
}

// NewJudgeController creates a new controller. archive may be nil.
func NewJudgeController(
	problems problem.Store,
	langs *lang.Registry,
	users user.Store,
	queue *jobqueue.Queue,
	j *judge.Judge,
	archive submission.Model,
) *JudgeController {
	return &JudgeController{
		problems: problems,
		langs:    langs,
		users:    users,
		queue:    queue,
		judge:    j,
		archive:  archive,
	}
}

type submitRequest struct {
	ProblemID int    `json:"problem_id" binding:"required"`
	Language  string `json:"lang" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// Submit validates the submission and enqueues it. The caller gets a job id
// back immediately; judging happens on the worker pool.
func (h *JudgeController) Submit(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		response.BadRequest(c, "User id is required")
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "problem_id, lang and code are required")
		return
	}
	if len(req.Code) > maxCodeSize {
		response.ErrorWithCode(c, appErr.CodeTooLarge, "")
		return
	}
	if _, err := h.langs.Lookup(req.Language); err != nil {
		response.Error(c, err)
		return
	}
	if _, ok := h.problems.FindByID(req.ProblemID); !ok {
		response.ErrorWithCode(c, appErr.ProblemNotFound, "")
		return
	}
	registered, err := h.users.IsRegistered(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !registered {
		response.ErrorWithCode(c, appErr.UserNotRegistered, "")
		return
	}

	jobID := h.queue.CreateJob(jobqueue.Payload{
		UserID:    userID,
		ProblemID: req.ProblemID,
		Language:  req.Language,
		Code:      req.Code,
	})
	response.Success(c, gin.H{"job_id": jobID, "status": jobqueue.StatusQueued})
}

type runRequest struct {
	Language string `json:"lang" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Input    string `json:"input"`
}

// Run executes code against caller-provided input synchronously. Nothing is
// recorded.
func (h *JudgeController) Run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "lang and code are required")
		return
	}
	if len(req.Code) > maxCodeSize {
		response.ErrorWithCode(c, appErr.CodeTooLarge, "")
		return
	}
	if len(req.Input) > maxCustomInputSize {
		response.ErrorWithCode(c, appErr.CustomInputTooLarge, "")
		return
	}

	outcome := h.judge.RunCustom(c.Request.Context(), req.Language, req.Code, req.Input)
	response.Success(c, gin.H{
		"kind":    outcome.Kind,
		"output":  outcome.Output,
		"message": outcome.Message,
	})
}

// Job returns the state of one submission job. An id that was never issued is
// a 404; a queued job is a 200 with its current status.
func (h *JudgeController) Job(c *gin.Context) {
	snap, ok := h.queue.GetJob(c.Param("id"))
	if !ok {
		response.ErrorWithCode(c, appErr.JobNotFound, "")
		return
	}
	response.Success(c, snap)
}

// Recent returns the latest archived submissions. Unavailable when the
// archive is not configured.
func (h *JudgeController) Recent(c *gin.Context) {
	if h.archive == nil {
		response.ErrorWithCode(c, appErr.ServiceUnavailable, "Submission archive is not configured")
		return
	}
	records, err := h.archive.ListRecent(c.Request.Context(), 2*ItemsPerPage)
	if err != nil {
		response.Error(c, appErr.Wrap(err, appErr.StorageError))
		return
	}
	response.Success(c, records)
}
