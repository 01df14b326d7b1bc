package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gold-observer/src/analysis"
	"gold-observer/src/config"
	datasource "gold-observer/src/data_source"
	"gold-observer/src/data_source/vnappmob"
	"gold-observer/src/helpers"
	"gold-observer/src/interfaces"
	"gold-observer/src/logger"
	"gold-observer/src/models"
	"gold-observer/src/network"
	"gold-observer/src/server"
	"gold-observer/src/storage"
	"gold-observer/src/utils"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config.MConfig, config.Name)

	// 2. Storage
	var db interfaces.IDatabase

	switch config.Storage.DBType {
	case "postgres":
		db, err = storage.NewPostgresDB(config.MConfig, appLogger)
	default:
		// Default to SQLite
		db, err = storage.NewAsyncSQLiteDB(config.MConfig, appLogger)
	}

	if err != nil {
		appLogger.Critical("Failed to init db: %v", err)
	}
	if err := db.Initialize(); err != nil {
		appLogger.Critical("Failed to migrate db: %v", err)
	}
	defer db.Close()

	// 3. Data sources
	var networkManage interfaces.INetworkManager = network.NewAsyncNetworkManager(config.MConfig, appLogger)

	if len(config.DataSource.Sources) == 0 {
		appLogger.Critical("No data sources configured")
	}

	var sources []interfaces.IDataSource
	companyByType := make(map[string]string)
	for _, srcCfg := range config.DataSource.Sources {
		sources = append(sources, vnappmob.NewVnappmobGoldSource(config.MConfig, srcCfg, networkManage))
		for _, gt := range srcCfg.GoldTypes {
			companyByType[gt] = srcCfg.Company
		}
		if err := db.RegisterGoldTypes(srcCfg.Company, srcCfg.GoldTypes); err != nil {
			appLogger.Warning("Failed to register gold types for %s: %v", srcCfg.Company, err)
		}
	}
	manager := datasource.NewMultiSourceManager(sources, appLogger)

	var analyzer *analysis.AnalysisFacade = analysis.NewAnalysisFacade(config.MConfig, appLogger)
	srv := server.NewFastAPIServer(config.MConfig, appLogger, db, analyzer)

	// 4. Memory Manager
	maxPoints := utils.CalculateMaxDataPoints(config.DataSource.DataRetentionDays)
	memLimit := helpers.GetRecommendedMemoryLimit()
	appLogger.Info("Memory limit set to: %d MB", memLimit)
	memManager := utils.NewMemoryManager(memLimit, maxPoints)

	// 5. Initial Data Load
	appLogger.Info("Fetching initial data...")
	errorHandler := helpers.NewErrorHandler()
	fetched, err := errorHandler.ExecuteWithRetry("initial fetch", func() (interface{}, error) {
		return manager.FetchInitialData()
	}, config.Network.MaxRetries+1)
	if err != nil {
		appLogger.Warning("Initial fetch failed: %v", err)
	}
	initialData, _ := fetched.(map[string][]models.MGoldPrice)

	// 6. Persist and buffer the initial history
	var allRaw []models.MGoldPrice
	for goldType, quotes := range initialData {
		allRaw = append(allRaw, quotes...)
		for _, q := range quotes {
			memManager.AddDataPoint(goldType, q)
		}
	}
	if err := db.SaveGoldPricesBulk(allRaw); err != nil {
		appLogger.Error("Failed to save initial quotes: %v", err)
	}

	// 7. Initial analytics snapshot for the server state
	snapshot := buildSnapshot(appLogger, analyzer, memManager, companyByType, allRaw, "INITIAL")

	appLogger.Info("Initialization complete: %d quotes across %d gold types", len(allRaw), len(initialData))

	srv.UpdateAllDatas(snapshot)

	// 8. Start Server
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	// 9. Backfill scheduler (nightly historical re-fetch + retention cleanup)
	scheduler := utils.NewRefreshScheduler(appLogger)
	if config.DataSource.BackfillSpec != "" {
		retention := time.Duration(config.DataSource.DataRetentionDays) * 24 * time.Hour
		err := scheduler.ScheduleBackfill(config.DataSource.BackfillSpec, func() {
			now := time.Now()
			appLogger.Info("Running historical backfill...")
			history, err := manager.FetchRange(now.Add(-retention).Unix(), now.Unix())
			if err != nil {
				appLogger.Error("Backfill fetch failed: %v", err)
				return
			}
			var quotes []models.MGoldPrice
			for _, list := range history {
				quotes = append(quotes, list...)
			}
			if err := db.SaveGoldPricesBulk(quotes); err != nil {
				appLogger.Error("Backfill save failed: %v", err)
			}
			if err := db.CleanupOldData(); err != nil {
				appLogger.Error("Retention cleanup failed: %v", err)
			}
		})
		if err != nil {
			appLogger.Error("Invalid backfill cron spec %q: %v", config.DataSource.BackfillSpec, err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 10. Main Loop (Push Model)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wrapWg := &sync.WaitGroup{}
	updatesChan := make(chan map[string][]models.MGoldPrice, 100)

	// Start Sources
	if err := manager.Start(ctx, updatesChan, wrapWg); err != nil {
		appLogger.Critical("Failed to start sources: %v", err)
		return
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	appLogger.Info("Starting data loop (Push Model)...")

	for {
		select {
		case updates, ok := <-updatesChan:
			if !ok {
				appLogger.Info("Data sources closed channel.")
				return
			}

			appLogger.Info("Received update for %d gold types", len(updates))

			// Persist and buffer new quotes
			var newRaw []models.MGoldPrice
			for goldType, quotes := range updates {
				newRaw = append(newRaw, quotes...)
				for _, q := range quotes {
					memManager.AddDataPoint(goldType, q)
				}
			}
			if err := db.SaveGoldPricesBulk(newRaw); err != nil {
				appLogger.Error("Failed to save quotes: %v", err)
			}

			// Recompute trend views and broadcast
			snapshot := buildSnapshot(appLogger, analyzer, memManager, companyByType, newRaw, "UPDATE")

			srv.UpdateAllDatas(snapshot)
			srv.Broadcast(snapshot)

		case <-quit:
			appLogger.Info("Shutting down...")
			cancel()      // Signal sources to stop
			wrapWg.Wait() // Wait for sources to close
			return
		}
	}
}

// -----------------------------------------------------------------------------

// buildSnapshot recomputes the per-type trend views from the buffered history
// and packages them with the freshest quotes into a broadcastable state.
func buildSnapshot(log *logger.Logger, analyzer *analysis.AnalysisFacade, mem *utils.MemoryManager, companyByType map[string]string, fresh []models.MGoldPrice, kind string) *models.MLatestData {

	start := time.Now()

	latest := analysis.LatestPerType(fresh)
	trends := make(map[string]models.MTrendView)
	validPoints := 0

	for goldType := range latest {
		history := mem.GetHistory(goldType)
		if len(history) == 0 {
			continue
		}
		payload := analysis.CollapseDaily(history)
		validPoints += len(payload.Dates)

		view, err := analyzer.TrendView(companyByType[goldType], goldType, payload)
		if err != nil {
			log.Warning("Trend view for %s unavailable: %v", goldType, err)
			continue
		}
		trends[goldType] = view
	}

	return &models.MLatestData{
		Type:      kind,
		Prices:    latest,
		Trends:    trends,
		Timestamp: time.Now().Unix(),
		ProcessingMetrics: models.MProcessingMetrics{
			AnalyticsTimeSeconds: time.Since(start).Seconds(),
			ValidPoints:          validPoints,
			SeriesComputed:       len(trends),
		},
	}
}
