package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mashrafi141/my-judge-webapp2/internal/chat"
	"github.com/mashrafi141/my-judge-webapp2/internal/common/cache"
	"github.com/mashrafi141/my-judge-webapp2/internal/jobqueue"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge/lang"
	"github.com/mashrafi141/my-judge-webapp2/internal/judge/runner"
	"github.com/mashrafi141/my-judge-webapp2/internal/problem"
	"github.com/mashrafi141/my-judge-webapp2/internal/rating"
	"github.com/mashrafi141/my-judge-webapp2/internal/submission"
	"github.com/mashrafi141/my-judge-webapp2/internal/user"
	"github.com/mashrafi141/my-judge-webapp2/internal/web"
	"github.com/mashrafi141/my-judge-webapp2/internal/worker"
	"github.com/mashrafi141/my-judge-webapp2/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConfigPath = "configs/server.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	replMode := flag.Bool("repl", false, "Run the interactive session instead of the HTTP server")
	replUser := flag.String("user", "local", "User id for the interactive session")
	flag.Parse()

	_ = godotenv.Load()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		return
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	problems, err := problem.NewFileStore(appCfg.Problems.Dir)
	if err != nil {
		logger.Error(context.Background(), "load problems failed", zap.Error(err))
		return
	}

	users, cleanup, err := buildUserStore(appCfg)
	if err != nil {
		logger.Error(context.Background(), "init user store failed", zap.Error(err))
		return
	}
	defer cleanup()

	langs := lang.NewRegistry(appCfg.Judge.Languages)
	run := runner.New(langs, appCfg.Judge.WorkRoot)
	j := judge.NewWithTimeLimit(run, appCfg.Judge.TimeLimit)
	ledger := rating.NewLedger(users)

	archiveModel, recorder := buildArchive(appCfg)

	queue := jobqueue.New(appCfg.Worker.PoolSize)
	proc := worker.New(problems, j, ledger, recorder)
	queue.StartWorkersOnce(context.Background(), proc.Process)
	defer queue.Close()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *replMode {
		session, err := chat.New(*replUser, problems, langs, users, queue, j)
		if err != nil {
			logger.Error(context.Background(), "init session failed", zap.Error(err))
			return
		}
		if err := session.Run(shutdownCtx); err != nil {
			logger.Error(context.Background(), "session failed", zap.Error(err))
		}
		return
	}

	if appCfg.Server.Mode != "" {
		gin.SetMode(appCfg.Server.Mode)
	}
	router := web.NewRouter(web.Deps{
		Problems: problems,
		Langs:    langs,
		Users:    users,
		Queue:    queue,
		Judge:    j,
		Archive:  archiveModel,
	})
	httpServer := web.NewHTTPServer(appCfg.Server, router)

	g, gCtx := errgroup.WithContext(shutdownCtx)
	g.Go(func() error {
		logger.Info(context.Background(), "http server started", zap.String("addr", appCfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(ctx)
	})
	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "server stopped", zap.Error(err))
	}
}

// buildUserStore picks Redis when configured and falls back to the in-memory
// store otherwise.
func buildUserStore(cfg *AppConfig) (user.Store, func(), error) {
	if cfg.Redis.Addr == "" {
		logger.Info(context.Background(), "redis not configured, using in-memory user store")
		return user.NewMemoryStore(), func() {}, nil
	}
	client, err := cache.NewClient(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return user.NewRedisStore(client, ""), cleanup, nil
}

// buildArchive assembles the optional archive sinks.
func buildArchive(cfg *AppConfig) (submission.Model, *submission.Recorder) {
	var model submission.Model
	if cfg.Database.DSN != "" {
		model = submission.NewModel(submission.NewConn(cfg.Database.DSN))
	}

	var archiver *submission.Archiver
	if cfg.Archive.Endpoint != "" {
		a, err := submission.NewArchiver(cfg.Archive)
		if err != nil {
			logger.Warnf(context.Background(), "init source archiver failed, continuing without it: %v", err)
		} else {
			archiver = a
		}
	}

	var events *submission.Publisher
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic != "" {
		events = submission.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	return model, submission.NewRecorder(model, archiver, events)
}
