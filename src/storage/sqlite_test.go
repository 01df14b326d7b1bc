package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gold-observer/src/logger"
	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------

func newTestDB(t *testing.T) *AsyncSQLiteDB {
	t.Helper()

	cfg := &models.MConfig{
		Name:     "gold-observer-test",
		LogLevel: "error",
		Storage: models.MStorageConfig{
			DBType: "sqlite",
			DBPath: filepath.Join(t.TempDir(), "gold.db"),
		},
		DataSource: models.MDataSourceConfig{
			DataRetentionDays: 365,
		},
	}

	db, err := NewAsyncSQLiteDB(cfg, logger.NewLogger(cfg, "test"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })

	return db
}

func quote(company, goldType string, ts time.Time, buy, sell float64) models.MGoldPrice {
	return models.MGoldPrice{
		Company:   company,
		GoldType:  goldType,
		Timestamp: ts.Unix(),
		Buy:       buy,
		Sell:      sell,
		FetchedAt: ts.Unix(),
		CreatedAt: ts,
	}
}

// -----------------------------------------------------------------------------

func TestLoadTrends_LatestQuoteOfEachDayWins(t *testing.T) {
	db := newTestDB(t)

	day1 := time.Now().UTC().AddDate(0, 0, -2).Truncate(24 * time.Hour)
	day2 := day1.AddDate(0, 0, 1)

	require.NoError(t, db.SaveGoldPricesBulk([]models.MGoldPrice{
		quote("SJC", "SJC 1L", day1.Add(9*time.Hour), 119_000_000, 121_000_000),
		quote("SJC", "SJC 1L", day1.Add(16*time.Hour), 120_000_000, 122_000_000),
		quote("SJC", "SJC 1L", day2.Add(10*time.Hour), 121_000_000, 123_000_000),
		quote("SJC", "SJC Ring 1C", day1.Add(9*time.Hour), 75_000_000, 77_000_000),
	}))

	payload, err := db.LoadTrends("SJC 1L", 30)
	require.NoError(t, err)

	require.Equal(t, []string{
		day1.Format("2006-01-02"),
		day2.Format("2006-01-02"),
	}, payload.Dates)

	// The 16:00 quote supersedes the 09:00 quote on day1
	require.Len(t, payload.BuyPrices, 2)
	assert.Equal(t, 120_000_000.0, *payload.BuyPrices[0])
	assert.Equal(t, 122_000_000.0, *payload.SellPrices[0])
	assert.Equal(t, 121_000_000.0, *payload.BuyPrices[1])
}

func TestSaveGoldPricesBulk_UpsertKeepsFreshestCopy(t *testing.T) {
	db := newTestDB(t)

	ts := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.SaveGoldPricesBulk([]models.MGoldPrice{
		quote("SJC", "SJC 1L", ts, 119_000_000, 121_000_000),
	}))

	// Same (company, gold_type, timestamp) with corrected prices
	require.NoError(t, db.SaveGoldPricesBulk([]models.MGoldPrice{
		quote("SJC", "SJC 1L", ts, 120_000_000, 122_000_000),
	}))

	latest, err := db.LoadLatestPrices()
	require.NoError(t, err)
	require.Contains(t, latest, "SJC 1L")
	assert.Equal(t, 120_000_000.0, latest["SJC 1L"].Buy)
	assert.Equal(t, 122_000_000.0, latest["SJC 1L"].Sell)
}

func TestLoadLatestPrices_PerGoldType(t *testing.T) {
	db := newTestDB(t)

	now := time.Now().UTC()
	require.NoError(t, db.SaveGoldPricesBulk([]models.MGoldPrice{
		quote("SJC", "SJC 1L", now.Add(-2*time.Hour), 119_000_000, 121_000_000),
		quote("SJC", "SJC 1L", now.Add(-time.Hour), 120_000_000, 122_000_000),
		quote("PNJ", "PNJ 24K Ring", now.Add(-time.Hour), 118_000_000, 120_500_000),
	}))

	latest, err := db.LoadLatestPrices()
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, 120_000_000.0, latest["SJC 1L"].Buy)
	assert.Equal(t, "PNJ", latest["PNJ 24K Ring"].Company)
}

func TestLoadAvailableDates_Ascending(t *testing.T) {
	db := newTestDB(t)

	day1 := time.Now().UTC().AddDate(0, 0, -3).Truncate(24 * time.Hour)
	day2 := day1.AddDate(0, 0, 2)

	require.NoError(t, db.SaveGoldPricesBulk([]models.MGoldPrice{
		quote("SJC", "SJC 1L", day2.Add(9*time.Hour), 121_000_000, 123_000_000),
		quote("SJC", "SJC 1L", day1.Add(9*time.Hour), 119_000_000, 121_000_000),
		quote("SJC", "SJC 1L", day1.Add(15*time.Hour), 120_000_000, 122_000_000),
	}))

	dates, err := db.LoadAvailableDates("SJC 1L")
	require.NoError(t, err)
	assert.Equal(t, []string{
		day1.Format("2006-01-02"),
		day2.Format("2006-01-02"),
	}, dates)
}

func TestRegisterGoldTypes_Idempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.RegisterGoldTypes("SJC", []string{"SJC 1L", "SJC Ring 1C"}))
	require.NoError(t, db.RegisterGoldTypes("SJC", []string{"SJC 1L"}))
	require.NoError(t, db.RegisterGoldTypes("PNJ", []string{"PNJ 24K Ring"}))

	types, err := db.LoadGoldTypes()
	require.NoError(t, err)
	assert.Equal(t, []string{"SJC 1L", "SJC Ring 1C"}, types["SJC"])
	assert.Equal(t, []string{"PNJ 24K Ring"}, types["PNJ"])
}

func TestCleanupOldData_PrunesBeyondRetention(t *testing.T) {
	db := newTestDB(t)

	now := time.Now().UTC()
	recent := now.Add(-time.Hour)
	require.NoError(t, db.SaveGoldPricesBulk([]models.MGoldPrice{
		quote("SJC", "SJC 1L", now.AddDate(-2, 0, 0), 80_000_000, 82_000_000),
		quote("SJC", "SJC 1L", recent, 120_000_000, 122_000_000),
	}))

	require.NoError(t, db.CleanupOldData())

	dates, err := db.LoadAvailableDates("SJC 1L")
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, recent.Format("2006-01-02"), dates[0])
}
