// Package web wires the HTTP surface: health probes plus the /api routes for
// problems, users, custom runs and submissions.
package web

import (
	"net/http"
	"time"

	"github.com/mashrafi141/my-judge-webapp2/internal/jobqueue"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge/lang"
	"github.com/mashrafi141/my-judge-webapp2/internal/problem"
	"github.com/mashrafi141/my-judge-webapp2/internal/submission"
	"github.com/mashrafi141/my-judge-webapp2/internal/user"
	"github.com/mashrafi141/my-judge-webapp2/internal/web/controller"
	"github.com/mashrafi141/my-judge-webapp2/internal/web/middleware"

	"github.com/gin-gonic/gin"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	Mode         string        `yaml:"mode"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// Deps are the services the HTTP surface is built over. Archive may be nil.
type Deps struct {
	Problems *problem.FileStore
	Langs    *lang.Registry
	Users    user.Store
	Queue    *jobqueue.Queue
	Judge    *judge.Judge
	Archive  submission.Model
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceContext())
	router.Use(middleware.RequestLogger())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "I am alive!")
	})
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	problems := controller.NewProblemController(deps.Problems)
	users := controller.NewUserController(deps.Users)
	judging := controller.NewJudgeController(deps.Problems, deps.Langs, deps.Users, deps.Queue, deps.Judge, deps.Archive)

	api := router.Group("/api")
	api.GET("/problems", problems.List)
	api.GET("/problems/grouped", problems.Grouped)
	api.GET("/problem/:id", problems.Get)

	api.POST("/register", users.Register)
	api.GET("/profile", users.Profile)
	api.GET("/history", users.History)
	api.GET("/rankings", users.Rankings)

	api.POST("/run", judging.Run)
	api.POST("/submit", judging.Submit)
	api.GET("/job/:id", judging.Job)
	api.GET("/submissions/recent", judging.Recent)

	return router
}

// NewHTTPServer builds an http.Server over the router.
func NewHTTPServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
