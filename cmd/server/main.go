// Package main runs the hackathon portal HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/srbmaury-team/Hackathon-Portal/config"
	"github.com/srbmaury-team/Hackathon-Portal/internal/announcements"
	"github.com/srbmaury-team/Hackathon-Portal/internal/audit"
	"github.com/srbmaury-team/Hackathon-Portal/internal/auth"
	"github.com/srbmaury-team/Hackathon-Portal/internal/hackathons"
	"github.com/srbmaury-team/Hackathon-Portal/internal/ideas"
	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/internal/notify"
	"github.com/srbmaury-team/Hackathon-Portal/internal/organizations"
	"github.com/srbmaury-team/Hackathon-Portal/internal/policy"
	"github.com/srbmaury-team/Hackathon-Portal/internal/realtime"
	"github.com/srbmaury-team/Hackathon-Portal/internal/registrations"
	"github.com/srbmaury-team/Hackathon-Portal/internal/submissions"
	"github.com/srbmaury-team/Hackathon-Portal/internal/users"
	"github.com/srbmaury-team/Hackathon-Portal/internal/worker"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/database"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/mailer"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/queue"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/redis"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, database.PoolConfig{
		DSN:      cfg.Database.DSN(),
		MaxConns: int32(cfg.Database.MaxConns),
	}, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Audit trail: zap always, MongoDB when configured.
	var (
		auditSink   audit.Sink
		auditReader audit.Reader
	)
	if cfg.Mongo.URI != "" {
		mongoClient, err := database.NewMongoClient(ctx, cfg.Mongo.URI, logger)
		if err != nil {
			logger.Warn("audit store disabled", zap.Error(err))
		} else {
			defer mongoClient.Disconnect(context.Background())
			store := audit.NewStore(mongoClient.Database(cfg.Mongo.Database))
			if err := store.EnsureIndexes(ctx); err != nil {
				logger.Warn("audit indexes", zap.Error(err))
			}
			auditSink, auditReader = store, store
		}
	}
	auditLog := audit.NewLogger(auditSink, logger)

	// Submission files
	var files submissions.FileStore
	if cfg.StorageEnabled() {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			Endpoint:             cfg.AWS.Endpoint,
			Bucket:               cfg.AWS.SubmissionsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			files = s3Client
		}
	}

	jobQueue := queue.NewQueue(rdb.Client, logger)
	notifier := notify.New(jobQueue, cfg.Server.PublicBaseURL, logger)

	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.JWT.Issuer)
	var verifier auth.IdentityVerifier
	if cfg.Google.Enabled() {
		verifier = auth.NewGoogleVerifier(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	} else {
		logger.Warn("google sign-in disabled: GOOGLE_CLIENT_ID not set")
	}

	// Auth
	authService := auth.NewService(auth.NewRepository(pool), jwtService, verifier, logger)
	authHandler := auth.NewHandler(authService, logger)

	// Users and organizations
	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, notifier, auditLog, hub, logger)
	orgHandler := organizations.NewHandler(organizations.NewRepository(pool))

	// Announcements and ideas
	announcementHandler := announcements.NewHandler(announcements.NewRepository(pool), hub, auditLog, logger)
	ideaRepo := ideas.NewRepository(pool)
	ideaHandler := ideas.NewHandler(ideaRepo, logger)

	// Hackathons
	hackathonRepo := hackathons.NewRepository(pool)
	hackathonHandler := hackathons.NewHandler(hackathons.NewService(hackathonRepo), hub, auditLog, logger)

	// Registrations
	teamRepo := registrations.NewRepository(pool)
	registrationService := registrations.NewService(teamRepo, hackathonRepo, ideaRepo, userRepo)
	registrationHandler := registrations.NewHandler(registrationService, notifier, auditLog, hub, logger)

	// Submissions
	maxUpload := int64(cfg.AWS.MaxUploadMB) << 20
	submissionService := submissions.NewService(submissions.NewRepository(pool), hackathonRepo, teamRepo, files, maxUpload)
	submissionHandler := submissions.NewHandler(submissionService, hub, auditLog, logger)

	auditHandler := audit.NewHandler(auditReader)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	base := router.Group("/api")

	// Auth (public)
	authGroup := base.Group("/auth")
	{
		authGroup.POST("/google-login", authHandler.GoogleLogin)
		authGroup.POST("/google-code", authHandler.GoogleCode)
	}

	// WebSocket (token in query; browsers cannot set headers on the upgrade)
	base.GET("/ws", realtime.ServeWs(hub, jwtService, cfg.Server.CORSAllowedOrigins, logger))

	// Protected API (JWT required)
	api := base.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users
		api.GET("/users", userHandler.List)
		api.GET("/users/me", userHandler.Me)
		api.GET("/users/search", userHandler.Search)
		api.PUT("/users/:id/role", middleware.Require(policy.UserChangeRole), userHandler.UpdateRole)

		// Organizations
		api.GET("/organizations/me", orgHandler.Mine)
		api.PUT("/organizations/me", middleware.Require(policy.OrganizationManage), orgHandler.Rename)

		// Announcements
		api.GET("/announcements", announcementHandler.List)
		api.POST("/announcements", middleware.Require(policy.AnnouncementWrite), announcementHandler.Create)
		api.PUT("/announcements/:id", middleware.Require(policy.AnnouncementWrite), announcementHandler.Update)
		api.DELETE("/announcements/:id", middleware.Require(policy.AnnouncementWrite), announcementHandler.Delete)

		// Ideas
		api.GET("/ideas/public-ideas", ideaHandler.Public)
		api.GET("/ideas/my", ideaHandler.Mine)
		api.POST("/ideas/submit", ideaHandler.Submit)
		api.PUT("/ideas/:id", ideaHandler.Update)
		api.DELETE("/ideas/:id", ideaHandler.Delete)

		// Hackathons and round submissions
		api.GET("/hackathons", hackathonHandler.List)
		api.POST("/hackathons", middleware.Require(policy.HackathonManage), hackathonHandler.Create)
		api.GET("/hackathons/:id", hackathonHandler.Get)
		api.PUT("/hackathons/:id", middleware.Require(policy.HackathonManage), hackathonHandler.Update)
		api.DELETE("/hackathons/:id", middleware.Require(policy.HackathonManage), hackathonHandler.Delete)
		api.POST("/hackathons/:id/rounds/:roundId/submissions", submissionHandler.Submit)
		api.GET("/hackathons/:id/rounds/:roundId/submissions", middleware.Require(policy.SubmissionReview), submissionHandler.ListByRound)

		// Registrations
		api.GET("/register/my-teams", registrationHandler.MyTeams)
		api.POST("/register/:hackathonId/register", registrationHandler.Register)
		api.GET("/register/:hackathonId/my", registrationHandler.MyTeam)
		api.GET("/register/:hackathonId/teams", middleware.Require(policy.TeamList), registrationHandler.ListTeams)
		api.PUT("/register/:hackathonId/teams/:teamId", registrationHandler.UpdateTeam)
		api.DELETE("/register/:hackathonId/teams/:teamId", registrationHandler.Withdraw)

		// Submissions
		api.GET("/submissions/teams/:teamId", submissionHandler.ListByTeam)
		api.POST("/submissions/upload-url", submissionHandler.UploadURL)
		api.POST("/submissions/upload", submissionHandler.Upload)
		api.PUT("/submissions/:id/score", middleware.Require(policy.SubmissionScore), submissionHandler.Score)

		api.GET("/ws/online", realtime.Online(hub))

		// Audit trail
		api.GET("/audit", middleware.Require(policy.AuditRead), auditHandler.List)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.Worker.Inline {
		sender := mailer.New(cfg.Mail.Domain, cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.EURegion, logger)
		processor := worker.NewEmailProcessor(sender, jobQueue, logger)
		for i := 0; i < cfg.Worker.Concurrency; i++ {
			go processor.Run(workerCtx)
		}
		logger.Info("email workers started inline", zap.Int("concurrency", cfg.Worker.Concurrency))
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
