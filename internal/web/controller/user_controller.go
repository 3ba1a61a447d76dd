package controller

import (
	"github.com/mashrafi141/my-judge-webapp2/internal/ranking"
	"github.com/mashrafi141/my-judge-webapp2/internal/user"
	"github.com/mashrafi141/my-judge-webapp2/internal/web/middleware"
	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"
	"github.com/mashrafi141/my-judge-webapp2/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// UserController handles registration, profiles and the leaderboard.
type UserController struct {
	users user.Store
}

// NewUserController creates a new controller.
func NewUserController(users user.Store) *UserController {
	return &UserController{users: users}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Gmail    string `json:"gmail" binding:"required"`
}

// Register creates the caller's named user record.
func (h *UserController) Register(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		response.BadRequest(c, "User id is required")
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and gmail are required")
		return
	}
	if err := h.users.Register(c.Request.Context(), userID, req.Username, req.Gmail); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"user_id": userID, "username": req.Username})
}

// Profile returns the caller's record with submission history stripped.
func (h *UserController) Profile(c *gin.Context) {
	rec, ok := h.caller(c)
	if !ok {
		return
	}
	rec.Submissions = nil
	response.Success(c, gin.H{
		"user":           rec,
		"average_points": rec.AveragePoints(),
	})
}

// History returns one page of the caller's submissions, most recent first.
func (h *UserController) History(c *gin.Context) {
	rec, ok := h.caller(c)
	if !ok {
		return
	}
	subs := rec.Submissions
	// reverse chronological
	for i, j := 0, len(subs)-1; i < j; i, j = i+1, j-1 {
		subs[i], subs[j] = subs[j], subs[i]
	}
	page := pageParam(c)
	start, end := paginate(len(subs), page)
	response.SuccessWithPagination(c, subs[start:end], int64(len(subs)), page, ItemsPerPage)
}

// Rankings returns one page of the leaderboard.
func (h *UserController) Rankings(c *gin.Context) {
	records, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	entries := ranking.Rank(records)
	page := pageParam(c)
	start, end := paginate(len(entries), page)
	response.SuccessWithPagination(c, entries[start:end], int64(len(entries)), page, ItemsPerPage)
}

func (h *UserController) caller(c *gin.Context) (*user.Record, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		response.BadRequest(c, "User id is required")
		return nil, false
	}
	rec, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		if appErr.Is(err, appErr.RecordNotFound) {
			response.ErrorWithCode(c, appErr.UserNotFound, "")
			return nil, false
		}
		response.Error(c, err)
		return nil, false
	}
	return rec, true
}
