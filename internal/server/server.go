// Package server exposes the pipeline and grader over HTTP. This is the
// boundary collaborator for any front-end: uploads are normalized into a
// canonical saved path before the core ever sees them.
package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lecchurro/lecchurro/internal/domain/flashcards"
	"github.com/lecchurro/lecchurro/internal/domain/quiz"
	"github.com/lecchurro/lecchurro/internal/logger"
	"github.com/lecchurro/lecchurro/internal/pipeline"
	"github.com/lecchurro/lecchurro/internal/store"
	"github.com/lecchurro/lecchurro/internal/types"
)

type Config struct {
	Address        string
	AllowedOrigins []string
	// UploadDir receives raw uploads before processing. Defaults to
	// <DataDir>/uploads.
	UploadDir string

	// Pipeline is the run template; InputVideo is filled per request.
	Pipeline pipeline.Config

	Log  *logger.Logger
	Runs *store.Store
}

type Server struct {
	engine *gin.Engine
	cfg    Config
	log    *logger.Logger

	// processFn is swappable in tests.
	processFn func(ctx context.Context, videoPath string) (types.PipelineResult, error)
}

func New(cfg Config) *Server {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(cfg.Pipeline.DataDir, "uploads")
	}

	s := &Server{cfg: cfg, log: log}
	s.processFn = func(ctx context.Context, videoPath string) (types.PipelineResult, error) {
		runCfg := cfg.Pipeline
		runCfg.InputVideo = videoPath
		runCfg.Log = log
		runCfg.Runs = cfg.Runs
		return pipeline.Run(ctx, runCfg)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	engine.Use(cors.New(corsCfg))

	engine.GET("/healthz", s.handleHealth)
	api := engine.Group("/api")
	api.POST("/process", s.handleProcess)
	api.POST("/grade", s.handleGrade)
	api.GET("/runs", s.handleRuns)

	s.engine = engine
	return s
}

func (s *Server) Run() error {
	s.log.Info("http server listening", "address", s.cfg.Address)
	return s.engine.Run(s.cfg.Address)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/process
// multipart form, field "video": the lecture video to process.
// The response is always a complete artifact bundle; a hard failure fills
// the error field and leaves the artifact fields absent.
func (s *Server) handleProcess(c *gin.Context) {
	fh, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video file is required", "detail": err.Error()})
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload dir unavailable", "detail": err.Error()})
		return
	}
	// Per-upload prefix keeps concurrent requests from clobbering each
	// other before the pipeline derives its own filenames.
	uploadPath := filepath.Join(s.cfg.UploadDir, uuid.NewString()+"-"+filepath.Base(fh.Filename))
	if err := c.SaveUploadedFile(fh, uploadPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save upload", "detail": err.Error()})
		return
	}
	defer os.Remove(uploadPath)

	result, err := s.processFn(c.Request.Context(), uploadPath)

	resp := gin.H{
		"video_path": result.VideoPath,
		"summary":    result.Summary,
		"segments":   result.Segments,
		"quizzes":    result.Quizzes,
		"quiz_html":  quiz.RenderHTML(result.Quizzes),
		"flashcards": flashcards.RenderMarkdown(result.Flashcards),
		"timestamps": result.Timestamps,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/grade
// body: { "answers": ["a", ...], "quizzes": [{question, options, answer}, ...] }
func (s *Server) handleGrade(c *gin.Context) {
	var req struct {
		Answers []string             `json:"answers"`
		Quizzes []types.QuizQuestion `json:"quizzes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": quiz.Grade(req.Answers, req.Quizzes)})
}

// GET /api/runs?limit=20
func (s *Server) handleRuns(c *gin.Context) {
	if s.cfg.Runs == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []store.Run{}})
		return
	}
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := s.cfg.Runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_runs_failed", "detail": err.Error()})
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
