package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"gold-observer/src/logger"
	"gold-observer/src/models"
)

// SQLite batch constants
const (
	sqliteMaxVars   = 32000
	paramsPerRow    = 7
	sqliteBatchSize = sqliteMaxVars / paramsPerRow // ~4571 rows
)

// -----------------------------------------------------------------------------

type AsyncSQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	return &AsyncSQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

// createTables keeps existing data, history must survive restarts.
func (d *AsyncSQLiteDB) createTables() error {
	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
	query := `
		CREATE TABLE IF NOT EXISTS gold_prices (
			company TEXT,
			gold_type TEXT,
			timestamp INTEGER,
			buy REAL,
			sell REAL,
			fetched_at INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (company, gold_type, timestamp)
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create gold_prices: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS gold_types (
			company TEXT,
			gold_type TEXT,
			registered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (company, gold_type)
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create gold_types: %w", err)
	}

	query = `
		CREATE INDEX IF NOT EXISTS idx_gold_prices_type_ts
		ON gold_prices (gold_type, timestamp);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create gold_prices index: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) SaveGoldPricesBulk(prices []models.MGoldPrice) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Re-polling the same board returns the same timestamps, upsert keeps the
	// freshest copy instead of erroring.
	stmt, err := tx.Prepare(`
		INSERT INTO gold_prices (company, gold_type, timestamp, buy, sell, fetched_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (company, gold_type, timestamp) DO UPDATE SET
			buy = excluded.buy,
			sell = excluded.sell,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range prices {
		_, err := stmt.Exec(p.Company, p.GoldType, p.Timestamp, p.Buy, p.Sell, p.FetchedAt, p.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

// LoadTrends returns one price point per calendar date for a gold type,
// ascending. Within a date the latest quote wins.
func (d *AsyncSQLiteDB) LoadTrends(goldType string, days int) (models.MTrendPayload, error) {
	payload := models.MTrendPayload{}

	cutoff := time.Now().UTC().AddDate(0, 0, -days).Unix()

	// SQLite bare-column semantics: with MAX(timestamp) in the select list,
	// buy/sell come from the row holding the max.
	rows, err := d.DB.Query(`
		SELECT date(timestamp, 'unixepoch') AS day, buy, sell, MAX(timestamp)
		FROM gold_prices
		WHERE gold_type = ? AND timestamp >= ?
		GROUP BY day
		ORDER BY day ASC
	`, goldType, cutoff)
	if err != nil {
		return payload, fmt.Errorf("failed to load trends for %s: %w", goldType, err)
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		var buy, sell float64
		var maxTs int64
		if err := rows.Scan(&day, &buy, &sell, &maxTs); err != nil {
			return payload, err
		}

		b, s := buy, sell
		payload.Dates = append(payload.Dates, day)
		payload.BuyPrices = append(payload.BuyPrices, &b)
		payload.SellPrices = append(payload.SellPrices, &s)
	}

	return payload, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) LoadAvailableDates(goldType string) ([]string, error) {
	rows, err := d.DB.Query(`
		SELECT DISTINCT date(timestamp, 'unixepoch') AS day
		FROM gold_prices
		WHERE gold_type = ?
		ORDER BY day ASC
	`, goldType)
	if err != nil {
		return nil, fmt.Errorf("failed to load dates for %s: %w", goldType, err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		dates = append(dates, day)
	}

	return dates, rows.Err()
}

// -----------------------------------------------------------------------------

// LoadLatestPrices returns the most recent stored quote per gold type.
func (d *AsyncSQLiteDB) LoadLatestPrices() (map[string]models.MGoldPrice, error) {
	rows, err := d.DB.Query(`
		SELECT company, gold_type, buy, sell, MAX(timestamp)
		FROM gold_prices
		GROUP BY gold_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest prices: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.MGoldPrice)
	for rows.Next() {
		var p models.MGoldPrice
		if err := rows.Scan(&p.Company, &p.GoldType, &p.Buy, &p.Sell, &p.Timestamp); err != nil {
			return nil, err
		}
		result[p.GoldType] = p
	}

	return result, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) RegisterGoldTypes(company string, goldTypes []string) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO gold_types (company, gold_type) VALUES (?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, gt := range goldTypes {
		if _, err := stmt.Exec(company, gt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) LoadGoldTypes() (map[string][]string, error) {
	rows, err := d.DB.Query(`
		SELECT company, gold_type FROM gold_types ORDER BY company, gold_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load gold types: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]string)
	for rows.Next() {
		var company, goldType string
		if err := rows.Scan(&company, &goldType); err != nil {
			return nil, err
		}
		result[company] = append(result[company], goldType)
	}

	return result, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) CleanupOldData() error {
	retentionDays := d.Config.DataSource.DataRetentionDays
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()

	d.Logger.Info("Cleaning up data older than %d days (timestamp < %d)...", retentionDays, cutoff)

	if _, err := d.DB.Exec("DELETE FROM gold_prices WHERE timestamp < ?", cutoff); err != nil {
		d.Logger.Error("Cleanup gold_prices error: %v", err)
	}

	d.Logger.Info("Cleanup completed")
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
