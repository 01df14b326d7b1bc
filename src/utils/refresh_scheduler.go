package utils

import (
	"sync"

	"github.com/robfig/cron/v3"

	"gold-observer/src/logger"
)

// -----------------------------------------------------------------------------
// RefreshScheduler runs the nightly backfill job on a cron spec, evaluated in
// the trading calendar's timezone.
// -----------------------------------------------------------------------------

type RefreshScheduler struct {
	Calendar *TradingCalendar
	Logger   *logger.Logger
	cron     *cron.Cron
	backfill cron.EntryID
	mu       sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewRefreshScheduler(l *logger.Logger) *RefreshScheduler {
	cal := GetVietnamCalendar()
	c := cron.New(cron.WithLocation(cal.Timezone))
	return &RefreshScheduler{
		Calendar: cal,
		Logger:   l,
		cron:     c,
	}
}

// -----------------------------------------------------------------------------

// ScheduleBackfill registers the historical backfill job. The spec is standard
// cron syntax evaluated in the calendar's timezone; an empty spec disables it.
func (rs *RefreshScheduler) ScheduleBackfill(spec string, job func()) error {
	if spec == "" {
		rs.Logger.Info("Backfill cron disabled (empty spec)")
		return nil
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	id, err := rs.cron.AddFunc(spec, job)
	if err != nil {
		return err
	}
	rs.backfill = id
	rs.Logger.Info("Backfill scheduled with cron spec '%s'", spec)
	return nil
}

// -----------------------------------------------------------------------------

func (rs *RefreshScheduler) Start() {
	rs.cron.Start()
}

// -----------------------------------------------------------------------------

// Stop halts the cron runner and waits for a running job to finish.
func (rs *RefreshScheduler) Stop() {
	ctx := rs.cron.Stop()
	<-ctx.Done()
}
