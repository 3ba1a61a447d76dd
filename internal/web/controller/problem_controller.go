package controller

import (
	"strconv"

	"github.com/mashrafi141/my-judge-webapp2/internal/problem"
	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"
	"github.com/mashrafi141/my-judge-webapp2/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// ProblemController serves the read-only problem views. Test cases never
// leave this surface.
type ProblemController struct {
	store *problem.FileStore
}

// NewProblemController creates a new controller.
func NewProblemController(store *problem.FileStore) *ProblemController {
	return &ProblemController{store: store}
}

// List returns all problem summaries sorted by id.
func (h *ProblemController) List(c *gin.Context) {
	all := h.store.ListAll()
	summaries := make([]problem.Summary, 0, len(all))
	for _, p := range all {
		summaries = append(summaries, problem.Summarize(p))
	}
	response.Success(c, summaries)
}

// Grouped returns problems nested by category and level.
func (h *ProblemController) Grouped(c *gin.Context) {
	grouped := h.store.Grouped()
	out := make(map[string]map[string][]problem.Summary, len(grouped))
	for category, levels := range grouped {
		out[category] = make(map[string][]problem.Summary, len(levels))
		for level, probs := range levels {
			summaries := make([]problem.Summary, 0, len(probs))
			for _, p := range probs {
				summaries = append(summaries, problem.Summarize(p))
			}
			out[category][level] = summaries
		}
	}
	response.Success(c, out)
}

// Get returns one problem summary.
func (h *ProblemController) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid problem id")
		return
	}
	p, ok := h.store.FindByID(id)
	if !ok {
		response.ErrorWithCode(c, appErr.ProblemNotFound, "")
		return
	}
	response.Success(c, problem.Summarize(p))
}
