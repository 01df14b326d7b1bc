package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"gold-observer/src/analysis"
	"gold-observer/src/analysis/core"
	"gold-observer/src/interfaces"
	"gold-observer/src/logger"
	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------
// FastAPIServer
// -----------------------------------------------------------------------------

type FastAPIServer struct {
	Config   *models.MConfig
	Logger   *logger.Logger
	Database interfaces.IDatabase
	Facade   *analysis.AnalysisFacade
	engine   *gin.Engine

	// WebSocket clients. The map belongs to the hub goroutine alone,
	// connections mirrors its size for handlers running elsewhere.
	clients     map[*Client]struct{}
	connections atomic.Int64
	broadcast   chan *models.MLatestData // Strongly typed and Buffered Queue
	register    chan *Client
	unregister  chan *Client

	// Local cache
	latestState *models.MLatestData
	stateMutex  sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewFastAPIServer(cfg *models.MConfig, log *logger.Logger, db interfaces.IDatabase, facade *analysis.AnalysisFacade) *FastAPIServer {
	// Set Gin mode
	if strings.ToUpper(cfg.LogLevel) != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &FastAPIServer{
		Config:   cfg,
		Logger:   log,
		Database: db,
		Facade:   facade,
		engine:   gin.Default(),
		clients:  make(map[*Client]struct{}),
		// Buffered channel to prevent lock/blocking
		// Queue size of 256 ensures we can handle bursts of updates
		broadcast:  make(chan *models.MLatestData, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		latestState: &models.MLatestData{
			Type:              "INITIAL",
			Prices:            make(map[string]models.MGoldPrice),
			Trends:            make(map[string]models.MTrendView),
			Timestamp:         0,
			ProcessingMetrics: models.MProcessingMetrics{},
		},
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *FastAPIServer) setupRoutes() {
	// REST API endpoints
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/config", s.getConfig)
	s.engine.GET("/api/metrics", s.getMetrics)
	s.engine.GET("/api/sources", s.getSources)
	s.engine.GET("/api/current-prices", s.getCurrentPrices)
	s.engine.GET("/api/historical-prices", s.getHistoricalPrices)
	s.engine.GET("/api/available-dates", s.getAvailableDates)

	// Derived analytics
	s.engine.GET("/api/analytics/trends", s.getTrends)
	s.engine.GET("/api/analytics/price-change", s.getPriceChange)
	s.engine.GET("/api/analytics/volatility", s.getVolatility)
	s.engine.GET("/api/analytics/extremes", s.getExtremes)
	s.engine.GET("/api/analytics/returns", s.getReturns)

	// WebSocket endpoint
	s.engine.GET("/ws/prices", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *FastAPIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) Stop() error {
	// Clean shutdown
	close(s.broadcast)
	close(s.register)
	close(s.unregister)
	return nil
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *FastAPIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	timestamp := s.latestState.Timestamp
	s.stateMutex.RUnlock()

	c.JSON(200, gin.H{
		"status":        "ok",
		"connections":   s.connections.Load(),
		"latest_update": timestamp,
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getConfig(c *gin.Context) {
	goldTypes := make(map[string][]string)
	for _, src := range s.Config.DataSource.Sources {
		goldTypes[src.Company] = append(goldTypes[src.Company], src.GoldTypes...)
	}

	c.JSON(200, gin.H{
		"gold_types":              goldTypes,
		"ma_window_days":          s.Config.Analytics.MAWindowDays,
		"preset_days":             s.Facade.PresetDays(),
		"update_interval_seconds": s.Config.DataSource.UpdateIntervalSeconds,
		"data_retention_days":     s.Config.DataSource.DataRetentionDays,
	})
}

// -----------------------------------------------------------------------------

// getSources lists the configured upstream quote sources.
func (s *FastAPIServer) getSources(c *gin.Context) {
	sources := make([]gin.H, 0, len(s.Config.DataSource.Sources))
	for _, src := range s.Config.DataSource.Sources {
		sources = append(sources, gin.H{
			"name":       src.Name,
			"company":    src.Company,
			"gold_types": src.GoldTypes,
		})
	}

	c.JSON(200, gin.H{"sources": sources})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getMetrics(c *gin.Context) {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()

	c.JSON(200, s.latestState.ProcessingMetrics)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getCurrentPrices(c *gin.Context) {
	s.stateMutex.RLock()
	prices := s.latestState.Prices
	timestamp := s.latestState.Timestamp
	s.stateMutex.RUnlock()

	// Fall back to storage when the poll loop has not produced a snapshot yet
	if len(prices) == 0 {
		stored, err := s.Database.LoadLatestPrices()
		if err != nil {
			s.Logger.Error("Failed to load latest prices: %v", err)
			c.JSON(500, gin.H{"error": "failed to load prices"})
			return
		}
		prices = stored
	}

	c.JSON(200, gin.H{
		"prices":    prices,
		"timestamp": timestamp,
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getHistoricalPrices(c *gin.Context) {
	goldType, days, ok := s.seriesParams(c)
	if !ok {
		return
	}

	payload, err := s.Database.LoadTrends(goldType, days)
	if err != nil {
		s.Logger.Error("Failed to load trends: %v", err)
		c.JSON(500, gin.H{"error": "failed to load historical prices"})
		return
	}

	c.JSON(200, models.MTrendsResponse{Trends: payload})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getAvailableDates(c *gin.Context) {
	goldType := c.Query("gold_type")
	if goldType == "" {
		c.JSON(400, gin.H{"error": "gold_type is required"})
		return
	}

	dates, err := s.Database.LoadAvailableDates(goldType)
	if err != nil {
		s.Logger.Error("Failed to load dates: %v", err)
		c.JSON(500, gin.H{"error": "failed to load dates"})
		return
	}

	c.JSON(200, gin.H{
		"gold_type": goldType,
		"dates":     dates,
	})
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getTrends(c *gin.Context) {
	goldType, days, ok := s.seriesParams(c)
	if !ok {
		return
	}

	payload, err := s.Database.LoadTrends(goldType, days)
	if err != nil {
		s.Logger.Error("Failed to load trends: %v", err)
		c.JSON(500, gin.H{"error": "failed to load trends"})
		return
	}

	view, err := s.Facade.TrendView(s.companyFor(goldType), goldType, payload)
	if err != nil {
		c.JSON(analyticsStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, view)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getPriceChange(c *gin.Context) {
	goldType, days, ok := s.seriesParams(c)
	if !ok {
		return
	}

	payload, err := s.Database.LoadTrends(goldType, days)
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to load trends"})
		return
	}

	summary, err := s.Facade.ChangeView(payload, days)
	if err != nil {
		c.JSON(analyticsStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, summary)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getVolatility(c *gin.Context) {
	goldType, days, ok := s.seriesParams(c)
	if !ok {
		return
	}

	payload, err := s.Database.LoadTrends(goldType, days)
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to load trends"})
		return
	}

	summary, err := s.Facade.VolatilityView(payload, days)
	if err != nil {
		c.JSON(analyticsStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, summary)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) getExtremes(c *gin.Context) {
	goldType, days, ok := s.seriesParams(c)
	if !ok {
		return
	}

	payload, err := s.Database.LoadTrends(goldType, days)
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to load trends"})
		return
	}

	summary, err := s.Facade.ExtremesView(payload, days)
	if err != nil {
		c.JSON(analyticsStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, summary)
}

// -----------------------------------------------------------------------------

// getReturns simulates a buy-then-sell holding over an explicit entry/exit
// range or a preset horizon (?preset=30).
func (s *FastAPIServer) getReturns(c *gin.Context) {
	goldType := c.Query("gold_type")
	if goldType == "" {
		c.JSON(400, gin.H{"error": "gold_type is required"})
		return
	}

	// Returns always run over the full stored history so presets can reach
	// back as far as the data allows.
	payload, err := s.Database.LoadTrends(goldType, s.Config.DataSource.DataRetentionDays)
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to load trends"})
		return
	}

	company := s.companyFor(goldType)

	if presetStr := c.Query("preset"); presetStr != "" {
		preset, err := strconv.Atoi(presetStr)
		if err != nil || preset <= 0 {
			c.JSON(400, gin.H{"error": "preset must be a positive integer"})
			return
		}

		view, err := s.Facade.ReturnViewPreset(company, goldType, payload, preset)
		if err != nil {
			c.JSON(analyticsStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, view)
		return
	}

	r := models.MDateRange{
		EntryDate: c.Query("entry_date"),
		ExitDate:  c.Query("exit_date"),
	}
	if r.EntryDate == "" || r.ExitDate == "" {
		c.JSON(400, gin.H{"error": "entry_date and exit_date (or preset) are required"})
		return
	}

	view, err := s.Facade.ReturnView(company, goldType, payload, r)
	if err != nil {
		c.JSON(analyticsStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, view)
}

// -----------------------------------------------------------------------------
// Handler helpers
// -----------------------------------------------------------------------------

// seriesParams extracts the gold_type and days query params shared by the
// series endpoints. Writes the error response itself when validation fails.
func (s *FastAPIServer) seriesParams(c *gin.Context) (string, int, bool) {
	goldType := c.Query("gold_type")
	if goldType == "" {
		c.JSON(400, gin.H{"error": "gold_type is required"})
		return "", 0, false
	}

	days := s.Config.DataSource.DataRetentionDays
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			c.JSON(400, gin.H{"error": "days must be a positive integer"})
			return "", 0, false
		}
		days = parsed
	}

	return goldType, days, true
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) companyFor(goldType string) string {
	for _, src := range s.Config.DataSource.Sources {
		for _, gt := range src.GoldTypes {
			if gt == goldType {
				return src.Company
			}
		}
	}
	return ""
}

// -----------------------------------------------------------------------------

// analyticsStatus maps analytics errors onto HTTP statuses. Bad ranges are
// client errors, thin series are unprocessable rather than server faults.
func analyticsStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrRangeOrder):
		return 400
	case errors.Is(err, core.ErrInsufficientData),
		errors.Is(err, core.ErrZeroCostBasis):
		return 422
	default:
		return 500
	}
}
