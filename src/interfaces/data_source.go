package interfaces

import (
	"context"
	"sync"

	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------
// IDataSource interface for fetching gold quotes from external sources.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchInitialData retrieves historical quotes (retention window) for all
	// configured gold types.
	FetchInitialData() (map[string][]models.MGoldPrice, error)

	// -----------------------------------------------------------------------------

	// FetchUpdateData retrieves the current quote board.
	FetchUpdateData() (map[string][]models.MGoldPrice, error)

	// -----------------------------------------------------------------------------

	// FetchRange retrieves quotes between two unix timestamps, used by the
	// nightly backfill job.
	FetchRange(fromTS, toTS int64) (map[string][]models.MGoldPrice, error)

	// -----------------------------------------------------------------------------

	// IsRealTime returns true if the source provides live quotes
	IsRealTime() bool

	// -----------------------------------------------------------------------------

	// UpdateGoldTypes updates the list of gold types being monitored
	UpdateGoldTypes(goldTypes []string) error

	// -----------------------------------------------------------------------------

	// Start begins the data fetching process
	// ctx: controls the lifecycle (cancellation stops the source)
	// outputChan: channel to push data to
	// wg: WaitGroup to signal when the source has fully stopped
	Start(ctx context.Context, outputChan chan<- map[string][]models.MGoldPrice, wg *sync.WaitGroup) error

	// -----------------------------------------------------------------------------

	// Stop terminates the data fetching process (legacy/manual stop)
	// Ideally, cancelling the context passed to Start should be enough.
	Stop() error
}
