package interfaces

import "gold-observer/src/models"

// -----------------------------------------------------------------------------
// IDatabase defines the contract for storage operations.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveGoldPricesBulk inserts a batch of raw dealer quotes.
	SaveGoldPricesBulk(prices []models.MGoldPrice) error

	// -----------------------------------------------------------------------------

	// LoadTrends returns the per-date price history for one gold type as the
	// parallel-array payload the analytics layer consumes. Dates ascending,
	// one row per calendar date (latest quote of the day wins).
	LoadTrends(goldType string, days int) (models.MTrendPayload, error)

	// -----------------------------------------------------------------------------

	// LoadAvailableDates lists the distinct calendar dates with stored quotes,
	// ascending.
	LoadAvailableDates(goldType string) ([]string, error)

	// -----------------------------------------------------------------------------

	// LoadLatestPrices returns the most recent stored quote per gold type.
	LoadLatestPrices() (map[string]models.MGoldPrice, error)

	// -----------------------------------------------------------------------------

	// RegisterGoldTypes records the tracked gold types so restarts keep
	// serving types that have gone quiet upstream.
	RegisterGoldTypes(company string, goldTypes []string) error

	// -----------------------------------------------------------------------------

	// LoadGoldTypes returns the registered gold types per company.
	LoadGoldTypes() (map[string][]string, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes data older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
