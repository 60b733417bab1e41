// Package api exposes the search over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"goose-search/config"
	"goose-search/engine"
	"goose-search/movegen"
)

var errInfinite = errors.New("infinite searches are not available over HTTP")

// SearchRequest describes one search. Times are in milliseconds.
type SearchRequest struct {
	FEN        string   `json:"fen"`
	Moves      []string `json:"moves"`
	Backend    string   `json:"backend"`
	Depth      int      `json:"depth" binding:"gte=0"`
	MoveTimeMs int      `json:"movetime_ms" binding:"gte=0"`
	WTimeMs    int      `json:"wtime_ms" binding:"gte=0"`
	BTimeMs    int      `json:"btime_ms" binding:"gte=0"`
	WIncMs     int      `json:"winc_ms" binding:"gte=0"`
	BIncMs     int      `json:"binc_ms" binding:"gte=0"`
	MovesToGo  int      `json:"movestogo" binding:"gte=0"`
	Infinite   bool     `json:"infinite"`
}

type SearchResponse struct {
	BestMove string   `json:"bestmove"`
	Score    int32    `json:"score"`
	Depth    int      `json:"depth"`
	Nodes    uint64   `json:"nodes"`
	PV       []string `json:"pv"`
	TimeMs   int64    `json:"time_ms"`
	FEN      string   `json:"fen"`
}

type Server struct {
	engine config.EngineConfig
	http   config.HTTPConfig
}

// NewRouter builds the HTTP router serving /health and /search.
func NewRouter(cfg *config.Config) *gin.Engine {
	s := &Server{engine: cfg.Engine, http: cfg.HTTP}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/health", Health)
	router.POST("/search", s.Search)
	return router
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Search runs one search to completion and returns its result. Every search
// is bounded by the configured maximum move time.
func (s *Server) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limits, err := s.limits(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pos, history, err := s.position(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.http.MaxMoveTime)
	defer cancel()

	start := time.Now()
	search := engine.NewSearch(pos, limits, history, false, engine.WithDefaultDepth(s.engine.DefaultDepth))
	if err := search.Run(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		BestMove: search.BestMove().String(),
		Score:    search.BestScore(),
		Depth:    search.Depth(),
		Nodes:    search.Nodes(),
		PV:       lo.Map(search.PV(), func(m movegen.Move, _ int) string { return m.String() }),
		TimeMs:   time.Since(start).Milliseconds(),
		FEN:      pos.FEN(),
	})
}

func (s *Server) limits(req SearchRequest) (engine.Limits, error) {
	if req.Infinite {
		return engine.Limits{}, errInfinite
	}
	msec := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }

	limits := engine.Limits{
		Depth:     engine.Min(req.Depth, engine.MaxSearchDepth),
		MoveTime:  engine.Min(msec(req.MoveTimeMs), s.http.MaxMoveTime),
		Time:      [2]time.Duration{msec(req.WTimeMs), msec(req.BTimeMs)},
		Increment: [2]time.Duration{msec(req.WIncMs), msec(req.BIncMs)},
		MovesToGo: req.MovesToGo,
	}
	return limits, nil
}

func (s *Server) position(req SearchRequest) (movegen.Position, []uint64, error) {
	backend := s.engine.Backend
	if req.Backend != "" {
		b, err := movegen.ParseBackend(req.Backend)
		if err != nil {
			return nil, nil, err
		}
		backend = b
	}

	fen := lo.Ternary(req.FEN == "", movegen.Startpos, req.FEN)
	pos, err := movegen.FromFEN(backend, fen)
	if err != nil {
		return nil, nil, err
	}

	history := make([]uint64, 0, len(req.Moves))
	for _, notation := range req.Moves {
		move, err := movegen.FindMove(pos, notation)
		if err != nil {
			return nil, nil, err
		}
		history = append(history, pos.Hash())
		pos = pos.Apply(move)
	}
	return pos, history, nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http-request")
	}
}
