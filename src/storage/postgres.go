package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"gold-observer/src/logger"
	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	// Use the executable name as schema so multiple deployments can share a DB
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresDB{
		Config: cfg,
		Schema: name,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	// Register the configured gold types per source company
	for _, srcCfg := range d.Config.DataSource.Sources {
		if err := d.RegisterGoldTypes(srcCfg.Company, srcCfg.GoldTypes); err != nil {
			d.Logger.Error("PostgresDB: Failed to register gold types for source %s: %v", srcCfg.Name, err)
		}
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

// createTables keeps existing data, history must survive restarts.
func (d *PostgresDB) createTables() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."gold_prices" (
			company TEXT,
			gold_type TEXT,
			timestamp BIGINT,
			buy DOUBLE PRECISION,
			sell DOUBLE PRECISION,
			fetched_at BIGINT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (company, gold_type, timestamp)
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create gold_prices: %w", err)
	}

	query = fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_gold_prices_type_ts
		ON "%s"."gold_prices" (gold_type, timestamp);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create gold_prices index: %w", err)
	}

	query = fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."gold_types" (
			company TEXT,
			gold_type TEXT,
			registered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (company, gold_type)
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create gold_types: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveGoldPricesBulk(prices []models.MGoldPrice) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO "%s"."gold_prices" (company, gold_type, timestamp, buy, sell, fetched_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company, gold_type, timestamp) DO UPDATE SET
			buy = EXCLUDED.buy,
			sell = EXCLUDED.sell,
			fetched_at = EXCLUDED.fetched_at
	`, d.Schema)
	stmt, err := tx.Prepare(query)
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
func (d *PostgresDB) LoadTrends(goldType string, days int) (models.MTrendPayload, error) {
	payload := models.MTrendPayload{}

	cutoff := time.Now().UTC().AddDate(0, 0, -days).Unix()

	query := fmt.Sprintf(`
		SELECT DISTINCT ON (day) to_char(to_timestamp(timestamp) AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, buy, sell
		FROM "%s"."gold_prices"
		WHERE gold_type = $1 AND timestamp >= $2
		ORDER BY day ASC, timestamp DESC
	`, d.Schema)

	rows, err := d.DB.Query(query, goldType, cutoff)
	if err != nil {
		return payload, fmt.Errorf("failed to load trends for %s: %w", goldType, err)
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		var buy, sell float64
		if err := rows.Scan(&day, &buy, &sell); err != nil {
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

func (d *PostgresDB) LoadAvailableDates(goldType string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT to_char(to_timestamp(timestamp) AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day
		FROM "%s"."gold_prices"
		WHERE gold_type = $1
		ORDER BY day ASC
	`, d.Schema)

	rows, err := d.DB.Query(query, goldType)
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
func (d *PostgresDB) LoadLatestPrices() (map[string]models.MGoldPrice, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT ON (gold_type) company, gold_type, buy, sell, timestamp
		FROM "%s"."gold_prices"
		ORDER BY gold_type, timestamp DESC
	`, d.Schema)

	rows, err := d.DB.Query(query)
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

func (d *PostgresDB) CleanupOldData() error {
	retentionDays := d.Config.DataSource.DataRetentionDays
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()

	d.Logger.Info("Cleaning up data older than %d days (timestamp < %d)...", retentionDays, cutoff)

	if _, err := d.DB.Exec(fmt.Sprintf(`DELETE FROM "%s"."gold_prices" WHERE timestamp < $1`, d.Schema), cutoff); err != nil {
		d.Logger.Error("Cleanup gold_prices error: %v", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
