package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/collegecompass/college-compass/internal/cache"
	"github.com/collegecompass/college-compass/internal/database"
	"github.com/collegecompass/college-compass/internal/encoding"
	"github.com/collegecompass/college-compass/internal/engine"
	"github.com/collegecompass/college-compass/internal/errors"
	"github.com/collegecompass/college-compass/internal/history"
	"github.com/collegecompass/college-compass/internal/monitoring"
	"github.com/collegecompass/college-compass/internal/records"
	"github.com/collegecompass/college-compass/internal/security"
	"github.com/collegecompass/college-compass/internal/types"
)

const dateLayout = "2006-01-02"

// serverDeps bundles everything the router needs, so tests can build a
// router against temp-dir data without starting a real server.
type serverDeps struct {
	engine  *engine.Engine
	records *records.RecordStore
	repo    *database.Repository
	history *history.Service
	db      *database.DB
	cache   *cache.Cache
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
	encoder *encoding.ReportEncoder
}

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment with defaults
	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	port := getEnvOrDefault("PORT", "8080")

	deps, err := buildDeps(dataDir)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}
	defer deps.db.Close()

	r := newRouter(deps)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func buildDeps(dataDir string) (*serverDeps, error) {
	db, err := database.NewDB(dataDir)
	if err != nil {
		return nil, err
	}

	repo := database.NewRepository(db)

	cfg, err := engine.NewConfigStore(dataDir).Load()
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}

	store, err := records.NewRecordStore(dataDir)
	if err != nil {
		return nil, err
	}

	return &serverDeps{
		engine:  eng,
		records: store,
		repo:    repo,
		history: history.NewService(repo),
		db:      db,
		cache:   cache.NewCache(15 * time.Minute),
		metrics: monitoring.NewMetrics(),
		logger:  monitoring.NewLogger(),
		encoder: encoding.NewReportEncoder(),
	}, nil
}

func newRouter(deps *serverDeps) *gin.Engine {
	r := gin.New()

	// Monitoring first so every request is captured
	r.Use(monitoring.MonitoringMiddleware(deps.metrics, deps.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(deps.logger))

	// Error handling middleware
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	// Security middleware setup
	securityConfig := security.DefaultSecurityConfig()
	securityMiddleware := security.NewSecurityMiddleware(securityConfig)
	r.Use(securityMiddleware.SecurityHeaders)
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.ValidateContentType)
	r.Use(securityMiddleware.LimitBodySize)
	r.Use(securityMiddleware.RateLimitByIP)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = securityConfig.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	// Engine responses are pure functions of the request body
	r.Use(deps.cache.Middleware(deps.metrics))

	r.GET("/health", func(c *gin.Context) {
		colleges, scholarships := deps.records.Counts()
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"timestamp":    time.Now().Format(time.RFC3339),
			"version":      "1.0.0",
			"colleges":     colleges,
			"scholarships": scholarships,
			"metrics":      deps.metrics.GetStats(),
		})
	})

	r.POST("/report", func(c *gin.Context) {
		start := time.Now()

		req, asOf, ok := bindReportRequest(c)
		if !ok {
			return
		}

		report, err := deps.engine.BuildReport(req.Profile, deps.records.Colleges(), deps.records.Scholarships(), asOf)
		if err != nil {
			respondError(c, err)
			return
		}
		deps.metrics.IncrementReports()

		topCollege := ""
		topScore := 0.0
		if len(report.Ranking) > 0 {
			topCollege = report.Ranking[0].College.Name
			topScore = report.Ranking[0].Score
		}
		deps.logger.ReportLogger(len(report.Ranking), len(report.Scholarships), topCollege, topScore, time.Since(start), false)

		// Persist history without blocking the response
		ip := c.ClientIP()
		userAgent := c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := deps.history.SaveReport(ctx, report, req.Profile, ip, userAgent); err != nil {
				slog.Error("Failed to save report to history", "error", err)
			}
		}()

		respondJSON(c, deps, report)
	})

	r.POST("/rank", func(c *gin.Context) {
		req, _, ok := bindReportRequest(c)
		if !ok {
			return
		}

		ranking, err := deps.engine.Rank(req.Profile, deps.records.Colleges())
		if err != nil {
			respondError(c, err)
			return
		}
		deps.metrics.IncrementRankings()

		respondJSON(c, deps, gin.H{"ranking": ranking})
	})

	r.POST("/aid", func(c *gin.Context) {
		var req types.AidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}

		college, err := deps.records.College(req.College)
		if err != nil {
			respondError(c, err)
			return
		}

		estimate, err := deps.engine.Estimate(req.Profile, college)
		if err != nil {
			respondError(c, err)
			return
		}
		deps.metrics.IncrementAidEstimates()

		respondJSON(c, deps, gin.H{"college": college.Name, "estimate": estimate})
	})

	r.POST("/scholarships", func(c *gin.Context) {
		req, asOf, ok := bindReportRequest(c)
		if !ok {
			return
		}

		matches, err := deps.engine.Match(req.Profile, deps.records.Scholarships(), asOf)
		if err != nil {
			respondError(c, err)
			return
		}
		deps.metrics.IncrementScholarshipMatches()

		respondJSON(c, deps, gin.H{"scholarships": matches, "as_of": asOf.Format(dateLayout)})
	})

	r.GET("/records/colleges", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"colleges": deps.records.Colleges()})
	})

	r.GET("/records/scholarships", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"scholarships": deps.records.Scholarships()})
	})

	r.POST("/records/reload", func(c *gin.Context) {
		if err := deps.records.Reload(); err != nil {
			respondError(c, err)
			return
		}
		deps.metrics.IncrementRecordReloads()
		deps.cache.Clear()

		colleges, scholarships := deps.records.Counts()
		c.JSON(http.StatusOK, gin.H{
			"message":      "records reloaded",
			"colleges":     colleges,
			"scholarships": scholarships,
		})
	})

	r.GET("/profile", func(c *gin.Context) {
		stored, err := deps.repo.GetProfile(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stored)
	})

	r.PUT("/profile", func(c *gin.Context) {
		var profile types.Profile
		if err := c.ShouldBindJSON(&profile); err != nil {
			respondError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}

		// Reject a profile the engine would refuse before persisting it
		if _, err := deps.engine.Rank(profile, nil); err != nil {
			respondError(c, err)
			return
		}

		if err := deps.repo.SaveProfile(c.Request.Context(), profile); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "profile saved"})
	})

	r.GET("/history", func(c *gin.Context) {
		limit := 20
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
				limit = l
			}
		}

		entries, err := deps.history.List(c.Request.Context(), limit)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"reports": entries})
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics endpoint
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.metrics.GetStats())
	})

	// Cache stats endpoint
	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.cache.Stats())
	})

	// Database pool stats endpoint
	r.GET("/pools/database", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pool":  "database",
			"stats": deps.db.GetPoolStats(),
		})
	})

	// JSON encoder stats endpoint
	r.GET("/pools/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pool":  "json",
			"stats": deps.encoder.GetStats(),
		})
	})

	return r
}

// bindReportRequest parses the shared profile+as_of payload. On failure it
// writes the error response and returns ok=false.
func bindReportRequest(c *gin.Context) (types.ReportRequest, time.Time, bool) {
	var req types.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidationError("invalid request body", err.Error()))
		return req, time.Time{}, false
	}

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if req.AsOf != "" {
		parsed, err := time.Parse(dateLayout, req.AsOf)
		if err != nil {
			respondError(c, errors.NewValidationError("as_of must be an ISO date (YYYY-MM-DD)", req.AsOf))
			return req, time.Time{}, false
		}
		asOf = parsed
	}

	return req, asOf, true
}

func respondError(c *gin.Context, err error) {
	appErr := errors.ToAppError(err)
	errors.LogError(c, appErr)
	c.JSON(appErr.HTTPStatus, appErr)
}

func respondJSON(c *gin.Context, deps *serverDeps, v interface{}) {
	data, err := deps.encoder.Marshal(v)
	if err != nil {
		respondError(c, errors.NewInternalError("failed to encode response", err))
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// Helper function for environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
